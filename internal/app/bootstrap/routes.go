// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	dashboardfeature "github.com/dalemusser/aimarket/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/aimarket/internal/app/features/errors"
	healthfeature "github.com/dalemusser/aimarket/internal/app/features/health"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It boots the template engine, applies
// CSRF protection, and mounts the health, dashboard and API routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	return newRouter(coreCfg, appCfg, deps, logger), nil
}

// newRouter wires every route. It is split from BuildHandler so tests can
// build the router without booting templates.
func newRouter(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) chi.Router {
	secure := coreCfg.Env == "prod"

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)

	// gorilla/csrf assumes TLS and checks the Referer unless told otherwise.
	if !secure {
		r.Use(markPlaintext)
	}
	r.Use(csrf.Protect(
		[]byte(appCfg.CSRFKey),
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			errLog.LogStatus(w, r, http.StatusForbidden, "csrf check failed", csrf.FailureReason(r),
				"Your form expired. Please reload the page and try again.", "/dashboard")
		})),
	))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Source, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	dashboardHandler := dashboardfeature.NewHandler(deps.Loader, errLog, logger)
	dashboardHandler.RefreshLimiter = deps.RefreshLimiter
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))
	r.Mount("/api", dashboardfeature.APIRoutes(dashboardHandler))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	return r
}

func markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(w, r)
	})
}
