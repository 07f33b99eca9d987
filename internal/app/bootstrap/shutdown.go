// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the background workers, releases the charts on display and
// tears down DB connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Reloader != nil {
		deps.Reloader.Stop()
	}
	if deps.RefreshLimiter != nil {
		deps.RefreshLimiter.Stop()
	}
	if deps.Board != nil {
		deps.Board.Dispose()
	}

	var errs []error
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	if deps.SQLite != nil {
		logger.Info("closing SQLite database")
		if err := deps.SQLite.Close(); err != nil {
			logger.Error("SQLite close failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
