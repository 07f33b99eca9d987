// Package documents acquires the analysis documents the dashboard binds.
//
// A Source resolves a document name (see models.AnalysisResultsDocument and
// models.IndustryRegionDocument) against its own root: a directory, a base
// URL, a MongoDB collection or a SQLite table. Sources make exactly one
// attempt per call; they never retry and never cache.
package documents

import (
	"context"
	"errors"
	"fmt"
)

// Source kinds accepted by the data_source setting.
const (
	KindFile   = "file"
	KindHTTP   = "http"
	KindMongo  = "mongo"
	KindSQLite = "sqlite"
)

// Kinds lists every supported source kind.
var Kinds = []string{KindFile, KindHTTP, KindMongo, KindSQLite}

// maxDocumentBytes caps how much of a single document is read.
const maxDocumentBytes = 8 << 20

// ErrNotFound is wrapped by AcquisitionError when the source has no
// document of the requested name.
var ErrNotFound = errors.New("document not found")

// Source fetches raw analysis documents.
type Source interface {
	// Kind returns one of the Kind* constants.
	Kind() string
	// Fetch returns the raw JSON bytes of the named document. Failures are
	// reported as *AcquisitionError.
	Fetch(ctx context.Context, name string) ([]byte, error)
	// Ping verifies the source is reachable.
	Ping(ctx context.Context) error
}

// Writer is implemented by sources that can store documents (the database
// backed ones). It is used to seed them at startup.
type Writer interface {
	Put(ctx context.Context, name string, body []byte) error
}

// AcquisitionError reports a failed attempt to acquire one document.
// StatusCode and Status are set when the source speaks HTTP.
type AcquisitionError struct {
	Document   string
	Source     string
	StatusCode int
	Status     string
	Err        error
}

func (e *AcquisitionError) Error() string {
	msg := fmt.Sprintf("acquire %s from %s source", e.Document, e.Source)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d %s", e.StatusCode, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// IsNotFound reports whether err says the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func notFound(source, name string, cause error) *AcquisitionError {
	return &AcquisitionError{
		Document: name,
		Source:   source,
		Err:      fmt.Errorf("%w: %w", ErrNotFound, cause),
	}
}
