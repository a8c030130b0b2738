// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and answers the
// request with the matching error page or htmx toast.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
}

// LogServerError logs at error level and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Error(logMsg, e.fields(r, err)...)
	RenderServerError(w, r, userMsg, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg, e.fields(r, err)...)
	RenderBadRequest(w, r, userMsg, backURL)
}

// LogForbidden logs at warn level and renders a 403 page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg, e.fields(r, err)...)
	RenderForbidden(w, r, userMsg, backURL)
}

// HTMXLogServerError is LogServerError that answers htmx requests with a toast.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Error(logMsg, e.fields(r, err)...)
	HTMXError(w, r, http.StatusInternalServerError, userMsg, func() {
		RenderServerError(w, r, userMsg, backURL)
	})
}

// HTMXLogBadRequest is LogBadRequest that answers htmx requests with a toast.
func (e *ErrorLogger) HTMXLogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg, e.fields(r, err)...)
	HTMXBadRequest(w, r, userMsg, backURL)
}

// LogUpstream reports a failed sync server call. Server rejections keep
// their status and message; unreachable servers become 502 with the
// connectivity message. A 401 means the operator's token is no longer
// accepted, so they are sent back to sign in.
func (e *ErrorLogger) LogUpstream(w http.ResponseWriter, r *http.Request, op string, err error, backURL string) {
	status := UpstreamStatus(err)
	msg := syncapi.Message(err)
	fields := append(e.fields(r, err), zap.String("op", op), zap.Int("status", status))

	switch {
	case status == http.StatusUnauthorized:
		e.log.Info("sync server rejected operator token", fields...)
		if isHTMX(r) {
			w.Header().Set("HX-Redirect", "/login")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		RenderUnauthorized(w, r, "/login")
		return
	case status >= 500:
		e.log.Error("sync server call failed", fields...)
	default:
		e.log.Warn("sync server call rejected", fields...)
	}

	HTMXError(w, r, status, msg, func() {
		RenderStatus(w, r, status, msg, backURL)
	})
}

// UpstreamStatus maps a sync API error to the status the console answers with.
func UpstreamStatus(err error) int {
	if syncapi.IsNetwork(err) {
		return http.StatusBadGateway
	}
	if s := syncapi.StatusOf(err); s >= 400 {
		return s
	}
	return http.StatusInternalServerError
}
