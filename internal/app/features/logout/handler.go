// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/syncadmin/internal/app/system/auditlog"
	"github.com/dalemusser/syncadmin/internal/app/system/auth"
	"github.com/dalemusser/syncadmin/internal/app/system/operator"
	"github.com/dalemusser/syncadmin/internal/app/system/views"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Views      *views.Registry
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, reg *views.Registry, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Views:      reg,
	}
}

// ServeLogout handles POST /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		if h.Views != nil {
			n := h.Views.UnmountOwner(u.ID)
			h.Log.Debug("logout: unmounted views", zap.Int("user_id", u.ID), zap.Int("count", n))
		}
		h.AuditLog.Logout(r.Context(), r, operator.Actor(u))
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: clear session", zap.Error(err))
	}

	// HTMX handling: use HX-Redirect to force a client-side navigation.
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
