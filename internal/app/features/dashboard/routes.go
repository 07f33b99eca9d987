// internal/app/features/dashboard/routes.go
package dashboard

import "github.com/go-chi/chi/v5"

// Routes wires the dashboard pages under whatever mount point the
// top-level router chooses (e.g., "/dashboard").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeDashboard)
	r.Get("/charts/{chart}.png", h.ServeChartPNG)
	r.Get("/export.xlsx", h.ServeExport)
	if h.RefreshLimiter != nil {
		r.With(h.RefreshLimiter.Middleware(h.tooManyRefreshes)).Post("/refresh", h.Refresh)
	} else {
		r.Post("/refresh", h.Refresh)
	}
	return r
}

// APIRoutes serves the JSON view of the same data (mounted at "/api").
func APIRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/dashboard", h.ServeAPI)
	return r
}
