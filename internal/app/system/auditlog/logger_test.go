package auditlog_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/syncadmin/internal/app/store/audit"
	"github.com/dalemusser/syncadmin/internal/app/system/auditlog"
	"github.com/dalemusser/syncadmin/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var root = auditlog.Actor{ID: 1, Name: "root"}

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, 1, "root")
	logger.Logout(ctx, req, root)
	logger.MemberAdded(ctx, req, root, 2, 3, "viewer", nil)
}

func TestLogger_LogOnlySinkWithoutStore(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: auditlog.All, Admin: auditlog.All})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/members/x/add", nil)
	req.Header.Set("X-Real-IP", "10.0.0.9")

	logger.MemberAdded(ctx, req, root, 7, 3, "editor", nil)
	logger.MemberRemoved(ctx, req, root, 7, 3, errors.New("user not in group"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	first := entries[0].ContextMap()
	if first["event_type"] != audit.EventMemberAdded || first["ip"] != "10.0.0.9" || first["detail_role"] != "editor" {
		t.Errorf("unexpected fields: %v", first)
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Errorf("failed action should log at warn, got %v", entries[1].Level)
	}
	if entries[1].ContextMap()["failure_reason"] != "user not in group" {
		t.Errorf("missing failure reason: %v", entries[1].ContextMap())
	}
}

func TestLogger_Log_ConfigOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.Off, Admin: auditlog.Off})
	req := httptest.NewRequest("POST", "/login", nil)
	logger.LoginSuccess(ctx, req, 1, "root")
	logger.UserDeleted(ctx, req, root, 5, "bob", nil)

	n, err := store.CountByFilter(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no events when config is 'off', got %d", n)
	}
}

func TestLogger_Log_ConfigDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	core, logs := observer.New(zapcore.InfoLevel)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.New(core), auditlog.Config{Auth: auditlog.Log, Admin: auditlog.DB})
	req := httptest.NewRequest("POST", "/", nil)
	logger.LoginFailed(ctx, req, "mallory", "invalid credentials")
	logger.MemberRoleChanged(ctx, req, root, 7, 3, "admin", nil)

	events, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 1 || events[0].EventType != audit.EventMemberRoleChanged {
		t.Errorf("expected only the admin event in MongoDB, got %+v", events)
	}
	if logs.Len() != 1 {
		t.Errorf("expected only the auth event in zap, got %d", logs.Len())
	}
}

func TestLogger_UserDeleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.All, Admin: auditlog.All})
	logger.UserDeleted(ctx, httptest.NewRequest("POST", "/", nil), root, 5, "bob", nil)

	events, err := store.GetByTargetUser(ctx, 5, 10)
	if err != nil {
		t.Fatalf("GetByTargetUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Details["username"] != "bob" || events[0].ActorName != "root" || !events[0].Success {
		t.Errorf("unexpected event %+v", events[0])
	}
}
