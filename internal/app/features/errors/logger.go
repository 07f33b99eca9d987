// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs a failure with full detail and shows the user a short,
// generic message. Handlers hold one and call it at their error boundary.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) log(r *http.Request, status int, msg string, err error) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if status >= http.StatusInternalServerError {
		e.Log.Error(msg, fields...)
		return
	}
	e.Log.Warn(msg, fields...)
}

// LogServerError logs at error level and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(r, http.StatusInternalServerError, msg, err)
	RenderError(w, r, http.StatusInternalServerError, userMsg, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(r, http.StatusBadRequest, msg, err)
	RenderError(w, r, http.StatusBadRequest, userMsg, backURL)
}

// LogNotFound logs at warn level and renders a 404 page.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(r, http.StatusNotFound, msg, err)
	RenderError(w, r, http.StatusNotFound, userMsg, backURL)
}

// LogStatus logs and renders the error page with an arbitrary status.
func (e *ErrorLogger) LogStatus(w http.ResponseWriter, r *http.Request, status int, msg string, err error, userMsg, backURL string) {
	e.log(r, status, msg, err)
	RenderError(w, r, status, userMsg, backURL)
}
