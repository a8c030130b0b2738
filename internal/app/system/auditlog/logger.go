// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/syncadmin/internal/app/store/audit"
	"go.uber.org/zap"
)

// Setting values for Config fields.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config routes each event category to its destinations.
type Config struct {
	// Auth covers console sign-in and sign-out.
	Auth string
	// Admin covers membership changes and user deletion.
	Admin string
}

// Actor is the operator performing an action.
type Actor struct {
	ID   int
	Name string
}

// Logger records console audit events to MongoDB (via audit.Store) and/or
// structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. A nil store disables the MongoDB sink.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != 0 {
		fields = append(fields, zap.Int("actor_id", event.ActorID), zap.String("actor", event.ActorName))
	}
	if event.TargetUserID != nil {
		fields = append(fields, zap.Int("target_user_id", *event.TargetUserID))
	}
	if event.GroupID != nil {
		fields = append(fields, zap.Int("group_id", *event.GroupID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers and tests can run without one.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = All
	}
	if setting == Off {
		return
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a console sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID int, username string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		ActorID:   userID,
		ActorName: username,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// LoginFailed logs a rejected sign-in attempt.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, attempted, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		FailureReason: reason,
		Details:       map[string]string{"attempted_username": attempted},
	})
}

// Logout logs a console sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, actor Actor) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Admin Events ---

func (l *Logger) admin(ctx context.Context, r *http.Request, eventType string, actor Actor, userID int, groupID *int, details map[string]string, err error) {
	e := audit.Event{
		Category:     audit.CategoryAdmin,
		EventType:    eventType,
		ActorID:      actor.ID,
		ActorName:    actor.Name,
		TargetUserID: &userID,
		GroupID:      groupID,
		IP:           getClientIP(r),
		UserAgent:    r.UserAgent(),
		Success:      err == nil,
		Details:      details,
	}
	if err != nil {
		e.FailureReason = err.Error()
	}
	l.Log(ctx, e)
}

// MemberAdded logs an add-to-group attempt and its outcome.
func (l *Logger) MemberAdded(ctx context.Context, r *http.Request, actor Actor, userID, groupID int, role string, err error) {
	l.admin(ctx, r, audit.EventMemberAdded, actor, userID, &groupID, map[string]string{"role": role}, err)
}

// MemberRemoved logs a remove-from-group attempt and its outcome.
func (l *Logger) MemberRemoved(ctx context.Context, r *http.Request, actor Actor, userID, groupID int, err error) {
	l.admin(ctx, r, audit.EventMemberRemoved, actor, userID, &groupID, nil, err)
}

// MemberRoleChanged logs a role change attempt and its outcome.
func (l *Logger) MemberRoleChanged(ctx context.Context, r *http.Request, actor Actor, userID, groupID int, role string, err error) {
	l.admin(ctx, r, audit.EventMemberRoleChanged, actor, userID, &groupID, map[string]string{"role": role}, err)
}

// UserDeleted logs a user deletion attempt and its outcome.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, actor Actor, userID int, username string, err error) {
	l.admin(ctx, r, audit.EventUserDeleted, actor, userID, nil, map[string]string{
		"username": username,
		"user_id":  strconv.Itoa(userID),
	}, err)
}
