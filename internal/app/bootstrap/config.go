// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/syncadmin/internal/app/system/auditlog"
	"github.com/dalemusser/syncadmin/internal/app/system/feed"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/app/system/views"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for syncadmin.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: sync_api_url, session_name, etc.
//   - Environment variables: SYNCADMIN_SYNC_API_URL, SYNCADMIN_SESSION_NAME, etc.
//   - Command-line flags: --sync_api_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "sync_api_url", Default: "http://localhost:8080", Desc: "Sync server base URL"},
	{Name: "sync_api_timeout", Default: "30s", Desc: "Per-request timeout for sync API calls"},

	{Name: "mongo_uri", Default: "", Desc: "MongoDB URI for the console audit trail (blank disables it)"},
	{Name: "mongo_database", Default: "syncadmin", Desc: "MongoDB database name"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "syncadmin-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Console session lifetime"},

	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "view_ttl", Default: "30m", Desc: "Idle time before a mounted view is released"},
	{Name: "activity_page_size", Default: feed.DefaultLimit, Desc: "Activity entries per page"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// SYNCADMIN_* environment variables and flags, with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SYNCADMIN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		SyncAPIURL:     appValues.String("sync_api_url"),
		SyncAPITimeout: appValues.Duration("sync_api_timeout", syncapi.DefaultTimeout),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 12*time.Hour),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		ViewTTL:          appValues.Duration("view_ttl", views.DefaultTTL),
		ActivityPageSize: appValues.Int("activity_page_size"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The sync API URL must be an absolute http(s) URL. The MongoDB URI is
// optional, but when set it is checked before any connection attempt.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validateSyncURL(appCfg.SyncAPIURL); err != nil {
		logger.Error("invalid sync API URL", zap.String("sync_api_url", appCfg.SyncAPIURL), zap.Error(err))
		return err
	}

	if appCfg.AuditEnabled() {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	}

	for name, v := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_admin": appCfg.AuditLogAdmin} {
		switch v {
		case "", auditlog.All, auditlog.DB, auditlog.Log, auditlog.Off:
		default:
			return fmt.Errorf("%s: unknown value %q (want all, db, log or off)", name, v)
		}
	}

	if appCfg.ActivityPageSize < 0 {
		return fmt.Errorf("activity_page_size must not be negative")
	}
	return nil
}

func validateSyncURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("sync_api_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("sync_api_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("sync_api_url must be an absolute http(s) URL, got %q", raw)
	}
	return nil
}
