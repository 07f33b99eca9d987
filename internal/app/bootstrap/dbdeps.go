// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	dashboardfeature "github.com/dalemusser/aimarket/internal/app/features/dashboard"
	"github.com/dalemusser/aimarket/internal/app/store/documents"
	"github.com/dalemusser/aimarket/internal/app/system/ratelimit"
	"github.com/dalemusser/aimarket/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Source is always set. The Mongo and SQLite handles are set only when the
// corresponding data source is configured. Board owns the charts on display
// and is released at shutdown. Loader is shared by the handlers and the
// Reloader, which is nil unless reload_interval is set. RefreshLimiter
// throttles the refresh form and is stopped at shutdown.
type DBDeps struct {
	Source documents.Source

	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	SQLite *documents.SQLiteSource

	Board    *dashboardfeature.Board
	Loader   *dashboardfeature.Loader
	Reloader *workers.Reloader

	RefreshLimiter *ratelimit.Limiter
}
