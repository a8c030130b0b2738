// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"sync"

	activityfeature "github.com/dalemusser/syncadmin/internal/app/features/activity"
	auditlogfeature "github.com/dalemusser/syncadmin/internal/app/features/auditlog"
	errorsfeature "github.com/dalemusser/syncadmin/internal/app/features/errors"
	healthfeature "github.com/dalemusser/syncadmin/internal/app/features/health"
	loginfeature "github.com/dalemusser/syncadmin/internal/app/features/login"
	logoutfeature "github.com/dalemusser/syncadmin/internal/app/features/logout"
	membersfeature "github.com/dalemusser/syncadmin/internal/app/features/members"
	userinfofeature "github.com/dalemusser/syncadmin/internal/app/features/userinfo"
	usersfeature "github.com/dalemusser/syncadmin/internal/app/features/users"
	"github.com/dalemusser/syncadmin/internal/app/system/auditlog"
	"github.com/dalemusser/syncadmin/internal/app/system/auth"
	"github.com/dalemusser/syncadmin/internal/app/system/membership"
	"github.com/dalemusser/syncadmin/internal/app/system/metrics"
	"github.com/dalemusser/syncadmin/internal/app/system/ratelimit"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/app/system/views"
	"github.com/dalemusser/syncadmin/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// background holds the long-lived pieces BuildHandler starts so Shutdown
// can stop them.
type background struct {
	views   *views.Registry
	reaper  *workers.ViewReaper
	limiter *ratelimit.LoginLimiter
}

var (
	bgMu sync.Mutex
	bg   *background
)

func setBackground(b *background) {
	bgMu.Lock()
	defer bgMu.Unlock()
	bg = b
}

// takeBackground returns and clears what BuildHandler started.
func takeBackground() *background {
	bgMu.Lock()
	defer bgMu.Unlock()
	b := bg
	bg = nil
	return b
}

// BuildHandler constructs the root HTTP handler (router) for the console.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. It boots the template engine, builds the sync API
// client and the shared per-process state (mounted views, the membership
// sequencer, the audit logger), and mounts every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	api, err := syncapi.New(syncapi.Config{
		BaseURL: appCfg.SyncAPIURL,
		Timeout: appCfg.SyncAPITimeout,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("sync api client init failed", zap.Error(err))
		return nil, err
	}

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(deps.AuditStore(), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	reg := views.NewRegistry(appCfg.ViewTTL, logger)
	reaper := workers.NewViewReaper(reg, logger, workers.DefaultReapInterval)
	reaper.Start()
	limiter := ratelimit.NewLoginLimiter()
	setBackground(&background{views: reg, reaper: reaper, limiter: limiter})

	// One sequencer per process so two editors for the same user apply
	// their writes in order.
	seq := membership.NewSequencer()

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Ops
	healthHandler := healthfeature.NewHandler(deps.MongoClient, api, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Console session
	loginHandler := loginfeature.NewHandler(api, sessionMgr, auditLog, errLog, logger)
	loginHandler.Limiter = limiter
	r.Mount("/login", loginfeature.Routes(loginHandler))

	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, reg, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Administration
	activityHandler := activityfeature.NewHandler(api, reg, appCfg.ActivityPageSize, errLog, logger)
	r.Mount("/activity", activityfeature.Routes(activityHandler, sessionMgr))

	usersHandler := usersfeature.NewHandler(api, auditLog, errLog, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	membersHandler := membersfeature.NewHandler(api, reg, seq, auditLog, errLog, logger)
	r.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(deps.AuditStore(), errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/activity", http.StatusSeeOther)
	})

	return r, nil
}
