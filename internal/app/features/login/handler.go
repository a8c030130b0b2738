// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/syncadmin/internal/app/features/errors"
	"github.com/dalemusser/syncadmin/internal/app/system/auditlog"
	"github.com/dalemusser/syncadmin/internal/app/system/auth"
	"github.com/dalemusser/syncadmin/internal/app/system/formutil"
	"github.com/dalemusser/syncadmin/internal/app/system/ratelimit"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/app/system/timeouts"
	"github.com/dalemusser/syncadmin/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// DeviceName identifies console-issued tokens in the sync server's
// token list.
const DeviceName = "syncadmin console"

const (
	msgTwoFactor = "Two-factor sign-in is not supported by this console."
	msgNotAdmin  = "This console is for sync server administrators only."
)

type Handler struct {
	API        *syncapi.Client
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	// Limiter throttles attempts before they reach the sync server.
	// nil disables throttling.
	Limiter *ratelimit.LoginLimiter
}

func NewHandler(api *syncapi.Client, sessionMgr *auth.SessionManager, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		API:        api,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		ErrLog:     errLog,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Username  string
	ReturnURL string
	Server    string
}

type loginForm struct {
	Username  string `form:"username" validate:"required,max=150"`
	Password  string `form:"password" validate:"required"`
	ReturnURL string `form:"return"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := auth.SafeReturn(r.URL.Query().Get("return"), "/activity")
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, ret, http.StatusSeeOther)
		return
	}
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL: ret,
		Server:    h.API.BaseURL(),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var in loginForm
	if err := formutil.Decode(r, &in); err != nil {
		h.renderFormWithError(w, r, http.StatusBadRequest, formutil.Message(err), in.Username, in.ReturnURL)
		return
	}
	username := strings.TrimSpace(in.Username)
	ret := auth.SafeReturn(in.ReturnURL, "/activity")

	if h.Limiter != nil {
		if msg, ok := h.Limiter.Check(r, username); !ok {
			h.AuditLog.LoginFailed(r.Context(), r, username, "rate_limited")
			h.renderFormWithError(w, r, http.StatusTooManyRequests, msg, username, ret)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "login")
	defer cancel()

	res, err := h.API.Login(ctx, username, in.Password, DeviceName)
	switch {
	case errors.Is(err, syncapi.ErrTwoFactorRequired):
		h.AuditLog.LoginFailed(ctx, r, username, "two_factor_required")
		h.renderFormWithError(w, r, http.StatusUnauthorized, msgTwoFactor, username, ret)
		return
	case err != nil:
		reason := "rejected"
		status := uierrors.UpstreamStatus(err)
		if syncapi.IsNetwork(err) {
			reason = "server_unreachable"
			h.Log.Warn("login: sync server unreachable", zap.Error(err))
		}
		h.AuditLog.LoginFailed(ctx, r, username, reason)
		h.renderFormWithError(w, r, status, syncapi.Message(err), username, ret)
		return
	case !res.User.IsAdmin:
		h.AuditLog.LoginFailed(ctx, r, username, "not_admin")
		h.renderFormWithError(w, r, http.StatusForbidden, msgNotAdmin, username, ret)
		return
	}

	su := auth.SessionUser{
		ID:        res.User.ID,
		Name:      res.User.Username,
		Role:      "admin",
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Could not start your session.", "/login")
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetUser(username)
	}
	h.AuditLog.LoginSuccess(ctx, r, su.ID, su.Name)
	h.Log.Info("operator signed in", zap.Int("user_id", su.ID), zap.String("username", su.Name))

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", ret)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, ret, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, status int, msg, username, ret string) {
	w.WriteHeader(status)
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:     msg,
		Username:  username,
		ReturnURL: auth.SafeReturn(ret, "/activity"),
		Server:    h.API.BaseURL(),
	})
}
