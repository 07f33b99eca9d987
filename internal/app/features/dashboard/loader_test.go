package dashboard_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/aimarket/internal/app/features/dashboard"
	"github.com/dalemusser/aimarket/internal/app/store/documents"
	"github.com/dalemusser/aimarket/internal/app/system/validators"
	"github.com/dalemusser/aimarket/internal/domain/models"
	"github.com/dalemusser/aimarket/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func newFileLoader(t *testing.T, overrides map[string]string) *dashboard.Loader {
	t.Helper()
	dir := testutil.WriteDocuments(t, overrides)
	return dashboard.NewLoader(documents.NewFileSource(dir), nil, zap.NewNop())
}

// gatedSource blocks every fetch until gate is closed and counts calls.
type gatedSource struct {
	inner documents.Source
	gate  chan struct{}
	calls atomic.Int32
}

func (s *gatedSource) Kind() string                   { return s.inner.Kind() }
func (s *gatedSource) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }
func (s *gatedSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	s.calls.Add(1)
	select {
	case <-s.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.inner.Fetch(ctx, name)
}

// plainErrSource fails without an AcquisitionError.
type plainErrSource struct{}

func (plainErrSource) Kind() string               { return "stub" }
func (plainErrSource) Ping(context.Context) error { return nil }
func (plainErrSource) Fetch(context.Context, string) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestLoad_Success(t *testing.T) {
	l := newFileLoader(t, nil)

	b, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(dashboard.Metrics{MarketR2: "0.9500", AdoptionR2: "0.9100"}, b.Metrics); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}

	var ids []string
	for _, c := range b.Charts {
		ids = append(ids, c.ID)
	}
	if diff := cmp.Diff([]string{"market", "adoption", "industry", "region"}, ids); diff != "" {
		t.Errorf("chart ids mismatch (-want +got):\n%s", diff)
	}

	if want := "AI market projected to grow by 400.0% by 2030 (model accuracy: 95.0%)."; b.Insights.MarketGrowth != want {
		t.Errorf("market insight = %q", b.Insights.MarketGrowth)
	}
	if want := "AI adoption rate expected to increase by 37.0 percentage points, reaching 72.0% by 2030."; b.Insights.AdoptionGrowth != want {
		t.Errorf("adoption insight = %q", b.Insights.AdoptionGrowth)
	}
	if want := "Global AI market projected to reach $500.0 billion by 2030."; b.Insights.FutureOutlook != want {
		t.Errorf("outlook insight = %q", b.Insights.FutureOutlook)
	}

	if b.LoadID == "" || b.Source != documents.KindFile {
		t.Errorf("load id %q, source %q", b.LoadID, b.Source)
	}
	if l.Board.Current() != b.Set || b.Set.Len() != 4 {
		t.Error("successful load should put its chart set on the board")
	}
}

func TestLoad_AcquisitionFailure(t *testing.T) {
	for _, missing := range []string{models.AnalysisResultsDocument, models.IndustryRegionDocument} {
		t.Run(missing, func(t *testing.T) {
			l := newFileLoader(t, map[string]string{missing: ""})

			b, err := l.Load(context.Background())
			if b != nil {
				t.Error("failed load should not return a binding")
			}
			var aerr *documents.AcquisitionError
			if !errors.As(err, &aerr) {
				t.Fatalf("expected *AcquisitionError, got %T: %v", err, err)
			}
			if aerr.Document != missing {
				t.Errorf("document = %q, want %q", aerr.Document, missing)
			}
			if got := dashboard.StatusFor(err); got != http.StatusBadGateway {
				t.Errorf("StatusFor = %d, want 502", got)
			}
			if l.Board.Current() != nil {
				t.Error("failed load must not put charts on the board")
			}
		})
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	l := newFileLoader(t, map[string]string{
		models.IndustryRegionDocument: `{"industries":{},"regions":{"Europe":50}}`,
	})

	_, err := l.Load(context.Background())
	var verr *validators.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if got := dashboard.StatusFor(err); got != http.StatusUnprocessableEntity {
		t.Errorf("StatusFor = %d, want 422", got)
	}
	if l.Board.Current() != nil {
		t.Error("failed load must not put charts on the board")
	}
}

func TestLoad_WrapsPlainSourceErrors(t *testing.T) {
	l := dashboard.NewLoader(plainErrSource{}, nil, zap.NewNop())
	_, err := l.Load(context.Background())
	var aerr *documents.AcquisitionError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected *AcquisitionError, got %T: %v", err, err)
	}
	if aerr.Source != "stub" {
		t.Errorf("source = %q", aerr.Source)
	}
}

func TestLoad_FailureReleasesPreviousCharts(t *testing.T) {
	dir := testutil.WriteDocuments(t, nil)
	l := dashboard.NewLoader(documents.NewFileSource(dir), nil, zap.NewNop())

	first, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}

	broken := dashboard.NewLoader(plainErrSource{}, l.Board, zap.NewNop())
	if _, err := broken.Load(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	if l.Board.Current() != nil {
		t.Error("a failed load should leave the board empty")
	}
	if !first.Set.Disposed() {
		t.Error("a failed load should dispose the charts of the previous load")
	}
}

func TestLoad_SwapDisposesPrevious(t *testing.T) {
	l := newFileLoader(t, nil)

	first, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	second, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}

	if first.LoadID == second.LoadID {
		t.Error("sequential loads should not share a run")
	}
	if !first.Set.Disposed() {
		t.Error("first chart set should be disposed after the second load")
	}
	if l.Board.Current() != second.Set {
		t.Error("board should hold the second chart set")
	}
}

func TestLoad_ConcurrentLoadsCoalesce(t *testing.T) {
	dir := testutil.WriteDocuments(t, nil)
	src := &gatedSource{inner: documents.NewFileSource(dir), gate: make(chan struct{})}
	l := dashboard.NewLoader(src, nil, zap.NewNop())

	const n = 5
	var wg sync.WaitGroup
	ids := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := l.Load(context.Background())
			errs[i] = err
			if b != nil {
				ids[i] = b.LoadID
			}
		}()
	}

	// Wait for the shared run to start both fetches, give the other callers
	// time to join it, then let it finish.
	deadline := time.Now().Add(5 * time.Second)
	for src.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("caller %d got load %s, want shared %s", i, ids[i], ids[0])
		}
	}
	if got := src.calls.Load(); got != 2 {
		t.Errorf("expected 2 fetches for one shared load, got %d", got)
	}
}

func TestLoad_CallerCancellation(t *testing.T) {
	dir := testutil.WriteDocuments(t, nil)
	src := &gatedSource{inner: documents.NewFileSource(dir), gate: make(chan struct{})}
	defer close(src.gate)
	l := dashboard.NewLoader(src, nil, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := l.Load(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
