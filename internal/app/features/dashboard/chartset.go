// internal/app/features/dashboard/chartset.go
package dashboard

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/aimarket/internal/app/system/charts"
)

var (
	// ErrDisposed is returned by a ChartSet that has been replaced or
	// released.
	ErrDisposed = errors.New("chart set disposed")
	// ErrUnknownChart is returned for a chart id the set does not hold.
	ErrUnknownChart = errors.New("unknown chart")
)

// ChartSet owns the four charts of one successful load and the PNG images
// rendered from them. It is created by the loader and handed to a Board;
// once disposed it refuses to render.
type ChartSet struct {
	LoadID string

	mu       sync.Mutex
	charts   map[string]charts.Chart
	pngs     map[string][]byte
	disposed bool
}

// NewChartSet wraps cs, keyed by chart ID.
func NewChartSet(loadID string, cs []charts.Chart) *ChartSet {
	s := &ChartSet{
		LoadID: loadID,
		charts: make(map[string]charts.Chart, len(cs)),
		pngs:   make(map[string][]byte, len(cs)),
	}
	for _, c := range cs {
		s.charts[c.ID] = c
	}
	return s
}

// Len reports how many charts the set holds; zero once disposed.
func (s *ChartSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.charts)
}

// Chart returns the chart with the given id.
func (s *ChartSet) Chart(id string) (charts.Chart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.charts[id]
	return c, ok
}

// PNG returns the chart rendered as PNG. Images are rendered on first use
// and kept until the set is disposed.
func (s *ChartSet) PNG(ctx context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil, ErrDisposed
	}
	if b, ok := s.pngs[id]; ok {
		s.mu.Unlock()
		return b, nil
	}
	c, ok := s.charts[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrUnknownChart
	}

	type result struct {
		b   []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		var buf bytes.Buffer
		err := charts.WritePNG(&buf, c)
		done <- result{buf.Bytes(), err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return nil, res.err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return nil, ErrDisposed
	}
	s.pngs[id] = res.b
	return res.b, nil
}

// Dispose releases the charts and cached images. It is safe to call more
// than once.
func (s *ChartSet) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	s.charts = nil
	s.pngs = nil
}

// Disposed reports whether Dispose has been called.
func (s *ChartSet) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Board holds the ChartSet currently on display.
type Board struct {
	mu      sync.Mutex
	current *ChartSet
}

// Current returns the set on display, or nil before the first load.
func (b *Board) Current() *ChartSet {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Swap puts next on display and disposes the set it replaces.
func (b *Board) Swap(next *ChartSet) {
	b.mu.Lock()
	prev := b.current
	b.current = next
	b.mu.Unlock()

	if prev != nil && prev != next {
		prev.Dispose()
	}
}

// Dispose releases the current set and leaves the board empty.
func (b *Board) Dispose() {
	b.Swap(nil)
}
