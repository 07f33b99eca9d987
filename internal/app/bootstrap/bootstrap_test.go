package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dashboardfeature "github.com/dalemusser/aimarket/internal/app/features/dashboard"
	"github.com/dalemusser/aimarket/internal/app/store/documents"
	"github.com/dalemusser/aimarket/internal/app/system/ratelimit"
	"github.com/dalemusser/aimarket/internal/app/system/timeouts"
	"github.com/dalemusser/aimarket/internal/domain/models"
	"github.com/dalemusser/aimarket/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		DataSource:    documents.KindFile,
		DataDir:       "../data",
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "ai_market",
		SQLitePath:    "./data/aimarket.db",
		CSRFKey:       strings.Repeat("k", 32),
		FetchTimeout:  10 * time.Second,
		RefreshLimit:  6,
		RefreshWindow: time.Minute,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"defaults", func(*AppConfig) {}, ""},
		{"unknown source", func(c *AppConfig) { c.DataSource = "s3" }, "data_source must be one of"},
		{"file without dir", func(c *AppConfig) { c.DataDir = " " }, "requires data_dir"},
		{"http without url", func(c *AppConfig) { c.DataSource = documents.KindHTTP }, "requires data_base_url"},
		{"http with url", func(c *AppConfig) {
			c.DataSource = documents.KindHTTP
			c.DataBaseURL = "https://example.com/data/"
		}, ""},
		{"mongo bad uri", func(c *AppConfig) {
			c.DataSource = documents.KindMongo
			c.MongoURI = "postgres://nope"
		}, "invalid MongoDB URI"},
		{"mongo without database", func(c *AppConfig) {
			c.DataSource = documents.KindMongo
			c.MongoDatabase = ""
		}, "requires mongo_database"},
		{"sqlite without path", func(c *AppConfig) {
			c.DataSource = documents.KindSQLite
			c.SQLitePath = ""
		}, "requires sqlite_path"},
		{"short csrf key", func(c *AppConfig) { c.CSRFKey = "short" }, "csrf_key"},
		{"zero fetch timeout", func(c *AppConfig) { c.FetchTimeout = 0 }, "fetch_timeout"},
		{"negative reload interval", func(c *AppConfig) { c.ReloadInterval = -time.Second }, "reload_interval"},
		{"reload enabled", func(c *AppConfig) { c.ReloadInterval = 5 * time.Minute }, ""},
		{"zero refresh limit", func(c *AppConfig) { c.RefreshLimit = 0 }, "refresh_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{}, cfg, testLogger())
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %v does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConnectDB_File(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := validConfig()
	cfg.DataDir = testutil.WriteDocuments(t, nil)

	deps, err := ConnectDB(ctx, &config.CoreConfig{}, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB failed: %v", err)
	}
	defer Shutdown(context.Background(), &config.CoreConfig{}, cfg, deps, testLogger())

	if deps.Source.Kind() != documents.KindFile || deps.Board == nil || deps.RefreshLimiter == nil {
		t.Errorf("unexpected deps: %+v", deps)
	}
	if deps.MongoClient != nil || deps.SQLite != nil {
		t.Error("file source should not open databases")
	}
	if deps.Loader == nil || deps.Reloader != nil {
		t.Error("expected a loader and no reload worker by default")
	}
}

func TestStartup_ReloadWorkerWarmsBoard(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()
	defer timeouts.Reset()

	cfg := validConfig()
	cfg.DataDir = testutil.WriteDocuments(t, nil)
	cfg.ReloadInterval = time.Hour

	deps, err := ConnectDB(ctx, &config.CoreConfig{}, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB failed: %v", err)
	}
	if deps.Reloader == nil {
		t.Fatal("expected a reload worker")
	}
	if err := Startup(ctx, &config.CoreConfig{}, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for deps.Board.Current() == nil && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	set := deps.Board.Current()
	if set == nil {
		t.Fatal("reload worker did not load the dashboard")
	}

	if err := Shutdown(context.Background(), &config.CoreConfig{}, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if !set.Disposed() {
		t.Error("Shutdown should release the charts loaded by the worker")
	}
}

func TestConnectDB_HTTPRejectsBadURL(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := validConfig()
	cfg.DataSource = documents.KindHTTP
	cfg.DataBaseURL = "ftp://example.com/data"

	if _, err := ConnectDB(ctx, &config.CoreConfig{}, cfg, testLogger()); err == nil {
		t.Error("expected error for a non-http base URL")
	}
}

func TestStartup_SeedsSQLite(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()
	defer timeouts.Reset()

	cfg := validConfig()
	cfg.DataSource = documents.KindSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "aimarket.db")
	cfg.SeedDir = testutil.WriteDocuments(t, nil)
	cfg.FetchTimeout = 3 * time.Second

	deps, err := ConnectDB(ctx, &config.CoreConfig{}, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB failed: %v", err)
	}
	defer Shutdown(context.Background(), &config.CoreConfig{}, cfg, deps, testLogger())

	if err := Startup(ctx, &config.CoreConfig{}, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	if got := timeouts.Fetch(); got != 3*time.Second {
		t.Errorf("fetch timeout = %s, want 3s", got)
	}

	body, err := deps.Source.Fetch(ctx, models.IndustryRegionDocument)
	if err != nil {
		t.Fatalf("Fetch after seeding failed: %v", err)
	}
	if !strings.Contains(string(body), "Technology") {
		t.Errorf("seeded body = %s", body)
	}
}

func TestStartup_SeedFailure(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()
	defer timeouts.Reset()

	cfg := validConfig()
	cfg.DataSource = documents.KindSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "aimarket.db")
	cfg.SeedDir = testutil.WriteDocuments(t, map[string]string{models.AnalysisResultsDocument: ""})

	deps, err := ConnectDB(ctx, &config.CoreConfig{}, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB failed: %v", err)
	}
	defer Shutdown(context.Background(), &config.CoreConfig{}, cfg, deps, testLogger())

	if err := Startup(ctx, &config.CoreConfig{}, cfg, deps, testLogger()); err == nil {
		t.Error("expected Startup to fail when a seed document is missing")
	}
}

func TestEnsureSchema_Mongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db, Source: documents.NewMongoSource(db)}
	if err := EnsureSchema(ctx, &config.CoreConfig{}, validConfig(), deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
}

func TestEnsureSchema_NoDatabase(t *testing.T) {
	if err := EnsureSchema(context.Background(), &config.CoreConfig{}, validConfig(), DBDeps{}, testLogger()); err != nil {
		t.Errorf("EnsureSchema without a database should be a no-op, got %v", err)
	}
}

func TestShutdown_ReleasesBoardAndLimiter(t *testing.T) {
	board := &dashboardfeature.Board{}
	set := dashboardfeature.NewChartSet("x", nil)
	board.Swap(set)
	limiter := ratelimit.New(1, time.Minute)

	deps := DBDeps{Board: board, RefreshLimiter: limiter}
	if err := Shutdown(context.Background(), &config.CoreConfig{}, validConfig(), deps, testLogger()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if !set.Disposed() || board.Current() != nil {
		t.Error("Shutdown should release the charts on display")
	}
	select {
	case <-limiter.Done():
	default:
		t.Error("Shutdown should stop the refresh limiter")
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := validConfig()
	cfg.DataDir = testutil.WriteDocuments(t, nil)
	src := documents.NewFileSource(cfg.DataDir)
	board := &dashboardfeature.Board{}
	limiter := ratelimit.New(cfg.RefreshLimit, cfg.RefreshWindow)
	t.Cleanup(limiter.Stop)
	deps := DBDeps{
		Source:         src,
		Board:          board,
		Loader:         dashboardfeature.NewLoader(src, board, testLogger()),
		RefreshLimiter: limiter,
	}
	return newRouter(&config.CoreConfig{Env: "dev"}, cfg, deps, testLogger())
}

func serve(h http.Handler, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	func() {
		defer func() {
			if r := recover(); r != nil {
				// Template rendering may panic in tests
			}
		}()
		h.ServeHTTP(rec, req)
	}()
	return rec
}

func TestRouter_RootRedirects(t *testing.T) {
	rec := serve(newTestRouter(t), httptest.NewRequest("GET", "/", nil))
	rec.AssertRedirect(t, "/dashboard")
}

func TestRouter_Health(t *testing.T) {
	rec := serve(newTestRouter(t), httptest.NewRequest("GET", "/health", nil))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertHeader(t, "Content-Type", "application/json")

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["source"] != "file" {
		t.Errorf("source = %q", body["source"])
	}
}

func TestRouter_API(t *testing.T) {
	rec := serve(newTestRouter(t), httptest.NewRequest("GET", "/api/dashboard", nil))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"market_r2_score":"0.9500"`)
}

func TestRouter_RefreshRequiresCSRFToken(t *testing.T) {
	rec := serve(newTestRouter(t), httptest.NewRequest("POST", "/dashboard/refresh", nil))
	rec.AssertStatus(t, http.StatusForbidden)
}
