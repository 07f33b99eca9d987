package documents_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/aimarket/internal/app/store/documents"
	"github.com/dalemusser/aimarket/internal/domain/models"
	"github.com/dalemusser/aimarket/internal/testutil"
)

func TestFileSource_Fetch(t *testing.T) {
	dir := testutil.WriteDocuments(t, nil)
	src := documents.NewFileSource(dir)

	b, err := src.Fetch(context.Background(), models.IndustryRegionDocument)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(b) != testutil.IndustryRegionJSON {
		t.Errorf("unexpected body: %s", b)
	}
	if src.Kind() != documents.KindFile {
		t.Errorf("Kind: got %q, want %q", src.Kind(), documents.KindFile)
	}
}

func TestFileSource_FetchMissing(t *testing.T) {
	dir := testutil.WriteDocuments(t, map[string]string{models.AnalysisResultsDocument: ""})
	src := documents.NewFileSource(dir)

	_, err := src.Fetch(context.Background(), models.AnalysisResultsDocument)
	if err == nil {
		t.Fatal("expected error for missing document")
	}

	var aerr *documents.AcquisitionError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected *AcquisitionError, got %T", err)
	}
	if aerr.Document != models.AnalysisResultsDocument {
		t.Errorf("Document: got %q", aerr.Document)
	}
	if !documents.IsNotFound(err) {
		t.Error("expected IsNotFound to be true")
	}
}

func TestFileSource_RejectsPathTraversal(t *testing.T) {
	src := documents.NewFileSource(t.TempDir())
	if _, err := src.Fetch(context.Background(), "../secrets.json"); err == nil {
		t.Error("expected error for a name containing a path")
	}
}

func TestFileSource_CanceledContext(t *testing.T) {
	src := documents.NewFileSource(testutil.WriteDocuments(t, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Fetch(ctx, models.AnalysisResultsDocument)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFileSource_Ping(t *testing.T) {
	if err := documents.NewFileSource(t.TempDir()).Ping(context.Background()); err != nil {
		t.Errorf("Ping on existing dir: %v", err)
	}
	if err := documents.NewFileSource("/nonexistent/aimarket/data").Ping(context.Background()); err == nil {
		t.Error("expected Ping to fail for a missing dir")
	}
}
