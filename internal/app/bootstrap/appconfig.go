// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Request body size limits
//
// AppConfig is where the dashboard's own settings live: where the analysis
// documents come from and how long a fetch may take.
type AppConfig struct {
	// Document source: "file", "http", "mongo" or "sqlite".
	DataSource string

	DataDir     string // file source: directory holding the documents (default ../data)
	DataBaseURL string // http source: base URL the documents are published under

	// MongoDB connection configuration (mongo source)
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	SQLitePath string // sqlite source: database file

	// SeedDir, when set for a database source, is a directory whose
	// documents are copied into the database at startup.
	SeedDir string

	// CSRF protection for the refresh form
	CSRFKey string

	FetchTimeout time.Duration // per-document acquisition timeout

	// ReloadInterval, when positive, reloads the documents in the
	// background so the first visitor after a change finds charts ready.
	ReloadInterval time.Duration

	// Per-client throttle on POST /dashboard/refresh
	RefreshLimit  int
	RefreshWindow time.Duration

	SiteName string // shown in the page header
}
