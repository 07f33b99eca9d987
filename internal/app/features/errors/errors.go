// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/aimarket/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the basic view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Status  int
	Message string
}

// Handler is the errors feature handler.
// No backend needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound renders the friendly "page not found" page.
// Used as the router's NotFound handler.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	RenderError(w, r, http.StatusNotFound, "The page you requested does not exist.", "/dashboard")
}

// RenderError writes status and renders the shared error page.
// If backURL is empty, the back link resolves to /dashboard.
func RenderError(w http.ResponseWriter, r *http.Request, status int, msg, backURL string) {
	if backURL == "" {
		backURL = "/dashboard"
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, http.StatusText(status), backURL),
		Status:  status,
		Message: msg,
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", data)
}
