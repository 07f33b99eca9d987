// internal/app/features/dashboard/loader.go
package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/aimarket/internal/app/store/documents"
	"github.com/dalemusser/aimarket/internal/app/system/timeouts"
	"github.com/dalemusser/aimarket/internal/app/system/validators"
	"github.com/dalemusser/aimarket/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Loader runs the fetch → validate → bind pipeline.
//
// Loads that overlap share one run. A successful run puts its ChartSet on
// the Board, which disposes the set it replaces. A failed run empties the
// Board, so no charts outlive the load that failed.
type Loader struct {
	Source documents.Source
	Board  *Board
	Log    *zap.Logger

	group singleflight.Group
}

// NewLoader constructs a Loader. A nil board gets a fresh one.
func NewLoader(src documents.Source, board *Board, logger *zap.Logger) *Loader {
	if board == nil {
		board = &Board{}
	}
	return &Loader{Source: src, Board: board, Log: logger}
}

// Load returns a fresh Binding. The returned error is an
// *documents.AcquisitionError, a *validators.ValidationError or a wrapped
// transform error. When ctx ends first the caller gets ctx.Err() while the
// shared run finishes for any other waiters.
func (l *Loader) Load(ctx context.Context) (*Binding, error) {
	ch := l.group.DoChan("load", func() (any, error) {
		return l.load(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Binding), nil
	}
}

func (l *Loader) load(ctx context.Context) (*Binding, error) {
	loadID := uuid.NewString()
	log := l.Log.With(zap.String("load_id", loadID), zap.String("source", l.Source.Kind()))
	start := time.Now()

	raw, err := l.fetchAll(ctx, log)
	if err != nil {
		return nil, l.fail(log, err, start)
	}

	analysis, err := validators.DecodeAnalysis(raw[models.AnalysisResultsDocument])
	if err != nil {
		return nil, l.fail(log, err, start)
	}
	ir, err := validators.DecodeIndustryRegion(raw[models.IndustryRegionDocument])
	if err != nil {
		return nil, l.fail(log, err, start)
	}

	warns := validators.RangeWarnings(analysis, ir)
	for _, w := range warns {
		log.Warn("value outside expected range", zap.String("detail", w))
	}

	b, err := bind(loadID, analysis, ir)
	if err != nil {
		return nil, l.fail(log, err, start)
	}
	b.Source = l.Source.Kind()
	b.Warnings = warns

	l.Board.Swap(b.Set)

	log.Info("dashboard data loaded",
		zap.Int("historical", len(analysis.HistoricalData)),
		zap.Int("predictions", len(analysis.Predictions)),
		zap.Int("industries", len(ir.Industries)),
		zap.Int("regions", len(ir.Regions)),
		zap.Duration("duration", time.Since(start)))
	return b, nil
}

// fetchAll acquires both documents concurrently. The first failure cancels
// the other fetch.
func (l *Loader) fetchAll(ctx context.Context, log *zap.Logger) (map[string][]byte, error) {
	names := []string{models.AnalysisResultsDocument, models.IndustryRegionDocument}
	bodies := make([][]byte, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			fctx, cancel := timeouts.WithTimeout(gctx, timeouts.Fetch(), log, "fetch "+name)
			defer cancel()

			b, err := l.Source.Fetch(fctx, name)
			if err != nil {
				var aerr *documents.AcquisitionError
				if !errors.As(err, &aerr) {
					err = &documents.AcquisitionError{Document: name, Source: l.Source.Kind(), Err: err}
				}
				return err
			}
			bodies[i] = b
			log.Debug("document fetched", zap.String("document", name), zap.Int("bytes", len(b)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(names))
	for i, name := range names {
		out[name] = bodies[i]
	}
	return out, nil
}

// fail logs err and releases the charts on display.
func (l *Loader) fail(log *zap.Logger, err error, start time.Time) error {
	l.logFailure(log, err, start)
	l.Board.Dispose()
	return err
}

func (l *Loader) logFailure(log *zap.Logger, err error, start time.Time) {
	fields := []zap.Field{zap.Error(err), zap.Duration("duration", time.Since(start))}

	var aerr *documents.AcquisitionError
	var verr *validators.ValidationError
	switch {
	case errors.As(err, &aerr):
		fields = append(fields, zap.String("document", aerr.Document))
		if aerr.StatusCode != 0 {
			fields = append(fields, zap.Int("status_code", aerr.StatusCode), zap.String("status", aerr.Status))
		}
		log.Error("dashboard load failed: acquisition", fields...)
	case errors.As(err, &verr):
		fields = append(fields, zap.String("document", verr.Document), zap.Strings("problems", verr.Problems))
		log.Error("dashboard load failed: validation", fields...)
	default:
		log.Error("dashboard load failed", fields...)
	}
}
