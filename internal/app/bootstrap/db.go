// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	dashboardfeature "github.com/dalemusser/aimarket/internal/app/features/dashboard"
	"github.com/dalemusser/aimarket/internal/app/store/documents"
	"github.com/dalemusser/aimarket/internal/app/system/indexes"
	"github.com/dalemusser/aimarket/internal/app/system/ratelimit"
	"github.com/dalemusser/aimarket/internal/app/system/timeouts"
	"github.com/dalemusser/aimarket/internal/app/system/validators"
	"github.com/dalemusser/aimarket/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB builds the configured document source, connecting to MongoDB or
// opening SQLite when one of those is selected.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	deps := DBDeps{Board: &dashboardfeature.Board{}}

	switch appCfg.DataSource {
	case documents.KindFile:
		deps.Source = documents.NewFileSource(appCfg.DataDir)
		logger.Info("using file data source", zap.String("data_dir", appCfg.DataDir))

	case documents.KindHTTP:
		// The loader bounds each fetch with its own context; the client
		// timeout is a backstop for requests made outside it.
		client := &http.Client{Timeout: 2 * fetchTimeoutOrDefault(appCfg.FetchTimeout)}
		src, err := documents.NewHTTPSource(appCfg.DataBaseURL, client)
		if err != nil {
			return DBDeps{}, err
		}
		deps.Source = src
		logger.Info("using http data source", zap.String("data_base_url", appCfg.DataBaseURL))

	case documents.KindMongo:
		client, err := connectMongo(ctx, appCfg, logger)
		if err != nil {
			return DBDeps{}, err
		}
		deps.MongoClient = client
		deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
		deps.Source = documents.NewMongoSource(deps.MongoDatabase)
		logger.Info("using mongo data source", zap.String("database", appCfg.MongoDatabase))

	case documents.KindSQLite:
		src, err := documents.OpenSQLite(ctx, appCfg.SQLitePath)
		if err != nil {
			logger.Error("sqlite open failed", zap.String("path", appCfg.SQLitePath), zap.Error(err))
			return DBDeps{}, err
		}
		deps.SQLite = src
		deps.Source = src
		logger.Info("using sqlite data source", zap.String("path", appCfg.SQLitePath))

	default:
		return DBDeps{}, fmt.Errorf("unknown data_source %q", appCfg.DataSource)
	}

	deps.Loader = dashboardfeature.NewLoader(deps.Source, deps.Board, logger)
	deps.RefreshLimiter = ratelimit.New(appCfg.RefreshLimit, appCfg.RefreshWindow)
	if appCfg.ReloadInterval > 0 {
		loader := deps.Loader
		deps.Reloader = workers.NewReloader(func(ctx context.Context) error {
			_, err := loader.Load(ctx)
			return err
		}, logger, appCfg.ReloadInterval, fetchTimeoutOrDefault(appCfg.FetchTimeout)+timeouts.Render())
	}

	return deps, nil
}

func connectMongo(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("mongo connect failed", zap.Error(err))
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("mongo ping failed", zap.Error(err))
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}

// EnsureSchema sets up the analysis_documents collection when MongoDB is
// the data source. The SQLite table is created by OpenSQLite; the file and
// http sources have no schema.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("schema validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index setup failed", zap.Error(err))
		return err
	}
	return nil
}
