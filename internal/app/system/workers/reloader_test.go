package workers_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/aimarket/internal/app/system/workers"
	"go.uber.org/zap"
)

func TestReloader_LoadsImmediatelyAndOnInterval(t *testing.T) {
	var calls atomic.Int32
	loaded := make(chan struct{}, 10)
	w := workers.NewReloader(func(ctx context.Context) error {
		calls.Add(1)
		select {
		case loaded <- struct{}{}:
		default:
		}
		return nil
	}, zap.NewNop(), 10*time.Millisecond, time.Second)

	w.Start()
	defer w.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-loaded:
		case <-time.After(2 * time.Second):
			t.Fatalf("load %d did not happen", i+1)
		}
	}
	if calls.Load() < 2 {
		t.Errorf("expected at least 2 loads, got %d", calls.Load())
	}
}

func TestReloader_StopCancelsInFlightLoad(t *testing.T) {
	started := make(chan struct{})
	w := workers.NewReloader(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}, zap.NewNop(), time.Hour, time.Hour)

	w.Start()
	<-started

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return while a load was running")
	}
	w.Stop()
}

func TestReloader_ErrorsDoNotStopWorker(t *testing.T) {
	loaded := make(chan struct{}, 10)
	w := workers.NewReloader(func(ctx context.Context) error {
		select {
		case loaded <- struct{}{}:
		default:
		}
		return errors.New("source down")
	}, zap.NewNop(), 10*time.Millisecond, time.Second)

	w.Start()
	defer w.Stop()

	for i := 0; i < 3; i++ {
		select {
		case <-loaded:
		case <-time.After(2 * time.Second):
			t.Fatalf("load %d did not happen after an error", i+1)
		}
	}
}
