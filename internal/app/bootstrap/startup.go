// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/aimarket/internal/app/resources"
	"github.com/dalemusser/aimarket/internal/app/store/documents"
	"github.com/dalemusser/aimarket/internal/app/system/timeouts"
	"github.com/dalemusser/aimarket/internal/app/system/viewdata"
	"github.com/dalemusser/aimarket/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to load shared resources (like templates), apply settings that live
// in package state, and seed a database-backed source.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{Fetch: appCfg.FetchTimeout})
	viewdata.SetSiteName(appCfg.SiteName)
	resources.LoadSharedTemplates()

	if err := seedSource(ctx, appCfg, deps, logger); err != nil {
		return err
	}

	if deps.Reloader != nil {
		deps.Reloader.Start()
	}
	return nil
}

// seedSource copies both documents from appCfg.SeedDir into a writable
// source. It is a no-op without a seed directory or for read-only sources.
func seedSource(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SeedDir == "" {
		return nil
	}
	dst, ok := deps.Source.(documents.Writer)
	if !ok {
		return nil
	}

	names := []string{models.AnalysisResultsDocument, models.IndustryRegionDocument}
	if err := documents.Seed(ctx, dst, documents.NewFileSource(appCfg.SeedDir), names...); err != nil {
		logger.Error("seeding data source failed", zap.String("seed_dir", appCfg.SeedDir), zap.Error(err))
		return fmt.Errorf("seed %s source from %s: %w", deps.Source.Kind(), appCfg.SeedDir, err)
	}
	logger.Info("data source seeded",
		zap.String("seed_dir", appCfg.SeedDir),
		zap.String("data_source", deps.Source.Kind()),
		zap.Strings("documents", names))
	return nil
}
