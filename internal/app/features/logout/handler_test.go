package logout_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/syncadmin/internal/app/features/logout"
	"github.com/dalemusser/syncadmin/internal/app/store/audit"
	"github.com/dalemusser/syncadmin/internal/app/system/auth"
	"github.com/dalemusser/syncadmin/internal/app/system/views"
	"github.com/dalemusser/syncadmin/internal/testutil"
	"go.uber.org/zap"
)

type stubView struct{ closed bool }

func (s *stubView) Unmount() { s.closed = true }

func newTestHandler(t *testing.T) (*logout.Handler, *views.Registry) {
	t.Helper()
	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	reg := views.NewRegistry(time.Minute, logger)
	return logout.NewHandler(sessionMgr, nil, reg, logger), reg
}

func TestServeLogout_RedirectsToLogin(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/logout", nil)
	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location: got %q, want /login", loc)
	}
	if c := rec.Header().Get("Set-Cookie"); !strings.Contains(c, "test-session=") {
		t.Errorf("expected the session cookie to be cleared, got %q", c)
	}
}

func TestServeLogout_HTMX(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/logout", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got := rec.Header().Get("HX-Redirect"); got != "/login" {
		t.Errorf("HX-Redirect: got %q, want /login", got)
	}
}

func TestServeLogout_UnmountsViewsAndAudits(t *testing.T) {
	handler, reg := newTestHandler(t)
	auditLog, logs := testutil.NewAuditRecorder()
	handler.AuditLog = auditLog

	mine, theirs := &stubView{}, &stubView{}
	reg.Mount(testutil.AdminUser().ID, mine)
	reg.Mount(99, theirs)

	req := testutil.WithUser(httptest.NewRequest("POST", "/logout", nil), testutil.AdminUser())
	handler.ServeLogout(httptest.NewRecorder(), req)

	if !mine.closed || theirs.closed {
		t.Errorf("expected only the operator's views to be closed: mine=%v theirs=%v", mine.closed, theirs.closed)
	}
	if got := testutil.AuditEvents(logs); len(got) != 1 || got[0] != audit.EventLogout {
		t.Errorf("audit events: %v", got)
	}
}
