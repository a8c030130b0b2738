// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging and CORS; everything specific to the console lives
// here and is passed to every lifecycle hook.
type AppConfig struct {
	// Sync server
	SyncAPIURL     string        // Base URL of the sync server (e.g., http://localhost:8080)
	SyncAPITimeout time.Duration // Per-request timeout for sync API calls

	// MongoDB holds the console audit trail only. Blank disables it.
	MongoURI      string
	MongoDatabase string

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: syncadmin-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Console session lifetime

	// Audit logging: "all", "db", "log" or "off" per category
	AuditLogAuth  string
	AuditLogAdmin string

	// Mounted views
	ViewTTL          time.Duration // Idle time before an activity feed or editor is unmounted
	ActivityPageSize int           // Entries requested per activity page
}

// AuditEnabled reports whether a MongoDB audit store is configured.
func (c AppConfig) AuditEnabled() bool {
	return c.MongoURI != ""
}
