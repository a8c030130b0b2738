package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/syncadmin/internal/app/system/auditlog"
	"github.com/dalemusser/syncadmin/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		SyncAPIURL:     "http://localhost:8080",
		SyncAPITimeout: 5 * time.Second,
		SessionKey:     "test-session-key-0123456789abcdefghijkl",
		SessionName:    "syncadmin-test",
		SessionMaxAge:  time.Hour,
		AuditLogAuth:   auditlog.Log,
		AuditLogAdmin:  auditlog.Log,
		ViewTTL:        time.Minute,
	}
}

func TestValidateConfig_Accepts(t *testing.T) {
	if err := ValidateConfig(&config.CoreConfig{}, validConfig(), testLogger()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestValidateConfig_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"empty sync url", func(c *AppConfig) { c.SyncAPIURL = "" }},
		{"relative sync url", func(c *AppConfig) { c.SyncAPIURL = "/api" }},
		{"ftp sync url", func(c *AppConfig) { c.SyncAPIURL = "ftp://example.com" }},
		{"bad mongo uri", func(c *AppConfig) { c.MongoURI = "postgres://nope" }},
		{"unknown audit mode", func(c *AppConfig) { c.AuditLogAdmin = "sometimes" }},
		{"negative activity page size", func(c *AppConfig) { c.ActivityPageSize = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := ValidateConfig(&config.CoreConfig{}, cfg, testLogger()); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConnectDB_WithoutURI(t *testing.T) {
	deps, err := ConnectDB(context.Background(), &config.CoreConfig{}, validConfig(), testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if deps.MongoClient != nil || deps.AuditStore() != nil {
		t.Error("expected no database without mongo_uri")
	}
	if err := EnsureSchema(context.Background(), &config.CoreConfig{}, validConfig(), deps, testLogger()); err != nil {
		t.Errorf("EnsureSchema without database: %v", err)
	}
}

func TestEnsureSchema_CreatesAuditIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := EnsureSchema(ctx, &config.CoreConfig{}, validConfig(), deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	cur, err := db.Collection("console_audit_events").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	var idx []map[string]any
	if err := cur.All(ctx, &idx); err != nil {
		t.Fatalf("decode indexes: %v", err)
	}
	if len(idx) < 2 {
		t.Errorf("expected audit indexes beyond _id, got %d", len(idx))
	}
}

func TestBuildHandler_Routes(t *testing.T) {
	fake := testutil.NewFakeSyncServer(t)
	fake.JSON(http.MethodGet, "/health", http.StatusOK, map[string]string{"status": "ok"})

	cfg := validConfig()
	cfg.SyncAPIURL = fake.URL
	if err := Startup(context.Background(), &config.CoreConfig{}, cfg, DBDeps{}, testLogger()); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	h, err := BuildHandler(&config.CoreConfig{Env: "test"}, cfg, DBDeps{}, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	t.Cleanup(func() {
		_ = Shutdown(context.Background(), &config.CoreConfig{}, cfg, DBDeps{}, testLogger())
	})

	t.Run("root redirects to activity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/activity" {
			t.Errorf("got %d %q", rec.Code, rec.Header().Get("Location"))
		}
	})

	t.Run("admin pages need a session", func(t *testing.T) {
		for _, path := range []string{"/activity", "/users", "/audit"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("Accept", "text/html")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/login") {
				t.Errorf("%s: got %d %q", path, rec.Code, rec.Header().Get("Location"))
			}
		}
	})

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("health status = %d", rec.Code)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("metrics status = %d", rec.Code)
		}
	})
}
