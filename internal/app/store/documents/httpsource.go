package documents

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPSource fetches documents relative to a base URL.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource returns a source that GETs <baseURL>/<name>.
// A nil client means http.DefaultClient.
func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse data base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("data base URL must be http or https, got %q", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{base: u, client: client}, nil
}

func (s *HTTPSource) Kind() string { return KindHTTP }

// URL returns the absolute location of the named document.
func (s *HTTPSource) URL(name string) string {
	return s.base.ResolveReference(&url.URL{Path: name}).String()
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(name), nil)
	if err != nil {
		return nil, &AcquisitionError{Document: name, Source: KindHTTP, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &AcquisitionError{Document: name, Source: KindHTTP, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		aerr := &AcquisitionError{
			Document:   name,
			Source:     KindHTTP,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
		}
		if resp.StatusCode == http.StatusNotFound {
			aerr.Err = ErrNotFound
		}
		return nil, aerr
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, &AcquisitionError{Document: name, Source: KindHTTP, Err: err}
	}
	if len(b) > maxDocumentBytes {
		return nil, &AcquisitionError{Document: name, Source: KindHTTP, Err: fmt.Errorf("document exceeds %d bytes", maxDocumentBytes)}
	}
	return b, nil
}

// Ping sends a HEAD request for the base URL. Any response below 500 counts
// as reachable; static hosts often refuse HEAD on a directory.
func (s *HTTPSource) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.base.String(), nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("data host returned %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return nil
}
