// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dalemusser/aimarket/internal/app/store/documents"
	"github.com/dalemusser/aimarket/internal/app/system/timeouts"
	"github.com/dalemusser/aimarket/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the dashboard.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: data_source, data_dir, etc.
//   - Environment variables: AIMARKET_DATA_SOURCE, AIMARKET_DATA_DIR, etc.
//   - Command-line flags: --data_source, --data_dir, etc.
var appConfigKeys = []config.AppKey{
	{Name: "data_source", Default: documents.KindFile, Desc: "Where analysis documents come from: 'file', 'http', 'mongo' or 'sqlite'"},
	{Name: "data_dir", Default: "../data", Desc: "Directory holding ai_analysis_results.json and industry_region.json (file source)"},
	{Name: "data_base_url", Default: "", Desc: "Base URL the analysis documents are published under (http source)"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (mongo source)"},
	{Name: "mongo_database", Default: "ai_market", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 20, Desc: "MongoDB max connection pool size (default: 20)"},
	{Name: "mongo_min_pool_size", Default: 0, Desc: "MongoDB min connection pool size (default: 0)"},

	{Name: "sqlite_path", Default: "./data/aimarket.db", Desc: "SQLite database file (sqlite source)"},
	{Name: "seed_dir", Default: "", Desc: "Copy documents from this directory into the mongo/sqlite source at startup"},

	{Name: "csrf_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "CSRF signing key, at least 32 bytes (must be strong in production)"},
	{Name: "fetch_timeout", Default: "10s", Desc: "Timeout for acquiring one analysis document (e.g., 10s, 1m)"},
	{Name: "reload_interval", Default: "0s", Desc: "Reload the documents in the background at this interval (0 disables)"},

	{Name: "refresh_limit", Default: 6, Desc: "Refresh requests allowed per client per refresh_window"},
	{Name: "refresh_window", Default: "1m", Desc: "Window for refresh_limit"},
	{Name: "site_name", Default: viewdata.DefaultSiteName, Desc: "Site name shown in the page header"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, AIMARKET_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "AIMARKET", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		DataSource:  strings.ToLower(strings.TrimSpace(appValues.String("data_source"))),
		DataDir:     appValues.String("data_dir"),
		DataBaseURL: appValues.String("data_base_url"),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SQLitePath: appValues.String("sqlite_path"),
		SeedDir:    appValues.String("seed_dir"),

		CSRFKey:      appValues.String("csrf_key"),
		FetchTimeout:   appValues.Duration("fetch_timeout", timeouts.DefaultFetch),
		ReloadInterval: appValues.Duration("reload_interval", 0),

		RefreshLimit:  appValues.Int("refresh_limit"),
		RefreshWindow: appValues.Duration("refresh_window", time.Minute),

		SiteName: appValues.String("site_name"),
	}

	return coreCfg, appCfg, nil
}

// minCSRFKeyLen is the key length gorilla/csrf needs for its HMAC.
const minCSRFKeyLen = 32

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Each data source has its own required settings; they are checked here so
// a misconfiguration fails before anything connects.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if !slices.Contains(documents.Kinds, appCfg.DataSource) {
		return fmt.Errorf("data_source must be one of %s, got %q", strings.Join(documents.Kinds, ", "), appCfg.DataSource)
	}

	switch appCfg.DataSource {
	case documents.KindFile:
		if strings.TrimSpace(appCfg.DataDir) == "" {
			return fmt.Errorf("data_source=file requires data_dir")
		}
	case documents.KindHTTP:
		if strings.TrimSpace(appCfg.DataBaseURL) == "" {
			return fmt.Errorf("data_source=http requires data_base_url")
		}
	case documents.KindMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			return fmt.Errorf("data_source=mongo requires mongo_database")
		}
	case documents.KindSQLite:
		if strings.TrimSpace(appCfg.SQLitePath) == "" {
			return fmt.Errorf("data_source=sqlite requires sqlite_path")
		}
	}

	if appCfg.SeedDir != "" && (appCfg.DataSource == documents.KindFile || appCfg.DataSource == documents.KindHTTP) {
		logger.Warn("seed_dir is ignored for read-only data sources", zap.String("data_source", appCfg.DataSource))
	}

	if len(appCfg.CSRFKey) < minCSRFKeyLen {
		return fmt.Errorf("csrf_key must be at least %d bytes", minCSRFKeyLen)
	}
	if appCfg.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", appCfg.FetchTimeout)
	}
	if appCfg.ReloadInterval < 0 {
		return fmt.Errorf("reload_interval must not be negative, got %s", appCfg.ReloadInterval)
	}
	if appCfg.RefreshLimit < 1 || appCfg.RefreshWindow <= 0 {
		return fmt.Errorf("refresh_limit and refresh_window must be positive")
	}
	return nil
}

// fetchTimeoutOrDefault guards against a zero duration reaching timeouts.
func fetchTimeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return timeouts.DefaultFetch
	}
	return d
}
