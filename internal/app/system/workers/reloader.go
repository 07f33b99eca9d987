// internal/app/system/workers/reloader.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LoadFunc loads the dashboard once. The Reloader only logs its error.
type LoadFunc func(ctx context.Context) error

// Reloader is a background worker that reloads the analysis documents on a
// fixed interval, so chart rendering happens off the request path.
type Reloader struct {
	load     LoadFunc
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewReloader creates a reload worker.
//
// Parameters:
//   - load: performs one load (typically the dashboard loader)
//   - logger: zap logger for logging
//   - interval: how often to reload (e.g., 5 minutes)
//   - timeout: upper bound on one load
func NewReloader(load LoadFunc, logger *zap.Logger, interval, timeout time.Duration) *Reloader {
	return &Reloader{
		load:     load,
		log:      logger,
		interval: interval,
		timeout:  timeout,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one load immediately, then keeps reloading until Stop.
func (w *Reloader) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("reload worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for an in-flight load to finish.
// It is safe to call more than once.
func (w *Reloader) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("reload worker stopped")
	})
}

func (w *Reloader) run() {
	defer w.wg.Done()

	w.reload()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.reload()
		}
	}
}

func (w *Reloader) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	// Stop cancels an in-flight load.
	go func() {
		select {
		case <-w.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	start := time.Now()
	if err := w.load(ctx); err != nil {
		w.log.Warn("background reload failed", zap.Error(err))
		return
	}
	w.log.Debug("background reload complete", zap.Duration("elapsed", time.Since(start)))
}
