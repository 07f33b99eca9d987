// internal/app/features/dashboard/handler.go
package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	errorsfeature "github.com/dalemusser/aimarket/internal/app/features/errors"
	"github.com/dalemusser/aimarket/internal/app/system/ratelimit"
	"github.com/dalemusser/aimarket/internal/app/system/timeouts"
	"github.com/dalemusser/aimarket/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Loader *Loader
	ErrLog *errorsfeature.ErrorLogger
	Log    *zap.Logger

	// RefreshLimiter, when set, throttles POST /refresh per client.
	RefreshLimiter *ratelimit.Limiter
}

func NewHandler(loader *Loader, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Loader: loader,
		ErrLog: errLog,
		Log:    logger,
	}
}

// pageData is the dashboard view model. Exactly one of Binding and
// ErrorMessage is set.
type pageData struct {
	viewdata.BaseVM
	Binding      *Binding
	ErrorMessage string
}

func newPageData(r *http.Request, b *Binding, err error) pageData {
	data := pageData{BaseVM: viewdata.NewBaseVM(r, "AI Market Analysis Dashboard", "/dashboard")}
	if err != nil {
		data.ErrorMessage = LoadFailedMessage
		return data
	}
	data.Binding = b
	return data
}

// ServeDashboard handles GET /dashboard.
//
// Every request runs a fresh load. On failure the page carries the error
// banner and no charts.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	b, err := h.Loader.Load(r.Context())
	data := newPageData(r, b, err)
	if err != nil {
		w.WriteHeader(StatusFor(err))
	}
	templates.Render(w, r, "dashboard_view", data)
}

// apiError is the JSON body of a failed /api/dashboard request.
type apiError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ServeAPI handles GET /api/dashboard.
func (h *Handler) ServeAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	b, err := h.Loader.Load(r.Context())
	if err != nil {
		w.WriteHeader(StatusFor(err))
		_ = json.NewEncoder(w).Encode(apiError{Status: "error", Message: LoadFailedMessage})
		return
	}
	_ = json.NewEncoder(w).Encode(b)
}

// ServeChartPNG handles GET /dashboard/charts/{chart}.png from the chart
// set currently on the board.
func (h *Handler) ServeChartPNG(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "chart")

	set := h.Loader.Board.Current()
	if set == nil {
		h.ErrLog.LogNotFound(w, r, "chart requested before any load", nil, "Load the dashboard first.", "/dashboard")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Render(), h.Log, "render chart "+id)
	defer cancel()

	img, err := set.PNG(ctx, id)
	switch {
	case errors.Is(err, ErrUnknownChart):
		h.ErrLog.LogNotFound(w, r, "unknown chart", err, "No such chart.", "/dashboard")
		return
	case errors.Is(err, ErrDisposed):
		// Replaced by a newer load between Current and PNG.
		h.ErrLog.LogNotFound(w, r, "chart set replaced", err, "The dashboard was reloaded; please try again.", "/dashboard")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "chart render failed", err, "Unable to render chart.", "/dashboard")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(img)
}

// ServeExport handles GET /dashboard/export.xlsx from a fresh load.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	b, err := h.Loader.Load(r.Context())
	if err != nil {
		h.ErrLog.LogStatus(w, r, StatusFor(err), "export load failed", err, LoadFailedMessage, "/dashboard")
		return
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, b); err != nil {
		h.ErrLog.LogServerError(w, r, "export failed", err, "Unable to build the workbook.", "/dashboard")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="ai_market_dashboard.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// Refresh handles POST /dashboard/refresh: releases the charts on display
// and sends the browser back to the dashboard for a fresh load.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.Loader.Board.Dispose()
	h.Log.Info("dashboard charts released on request")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) tooManyRefreshes(w http.ResponseWriter, r *http.Request) {
	h.ErrLog.LogStatus(w, r, http.StatusTooManyRequests, "refresh throttled", nil,
		"The dashboard was refreshed too often. Please wait a moment and try again.", "/dashboard")
}
