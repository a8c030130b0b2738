package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/syncadmin/internal/app/store/audit"
	"github.com/dalemusser/syncadmin/internal/testutil"
)

func intp(i int) *int { return &i }

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := audit.Event{
		Category:     audit.CategoryAdmin,
		EventType:    audit.EventMemberAdded,
		ActorID:      1,
		ActorName:    "root",
		TargetUserID: intp(7),
		GroupID:      intp(3),
		IP:           "192.168.1.1",
		UserAgent:    "TestBrowser/1.0",
		Success:      true,
		Details:      map[string]string{"role": "editor"},
	}
	if err := store.Log(ctx, event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByTargetUser(ctx, 7, 10)
	if err != nil {
		t.Fatalf("GetByTargetUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.ID.IsZero() {
		t.Error("expected generated ID")
	}
	if got.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
	if got.GroupID == nil || *got.GroupID != 3 {
		t.Errorf("group id = %v, want 3", got.GroupID)
	}
	if got.Details["role"] != "editor" {
		t.Errorf("details = %v", got.Details)
	}
}

func TestStore_GetRecent_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		err := store.Log(ctx, audit.Event{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLoginSuccess,
			ActorID:   i + 1,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Success:   true,
		})
		if err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	events, err := store.GetRecent(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ActorID != 3 || events[1].ActorID != 2 {
		t.Errorf("unexpected order: %d, %d", events[0].ActorID, events[1].ActorID)
	}
}

func TestStore_Query_ByCategoryAndType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, e := range []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailed, FailureReason: "invalid credentials"},
		{Category: audit.CategoryAdmin, EventType: audit.EventUserDeleted, TargetUserID: intp(9), Success: true},
	} {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	auth, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(auth) != 2 {
		t.Errorf("expected 2 auth events, got %d", len(auth))
	}

	failed, err := store.Query(ctx, audit.QueryFilter{EventType: audit.EventLoginFailed})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(failed) != 1 || failed[0].FailureReason != "invalid credentials" {
		t.Errorf("unexpected failed events: %+v", failed)
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{Category: audit.CategoryAdmin})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 admin event, got %d", n)
	}
}

func TestStore_Query_ByTimeRangeWithOffset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := store.Log(ctx, audit.Event{
			Category:  audit.CategoryAdmin,
			EventType: audit.EventMemberRemoved,
			ActorID:   i,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Success:   true,
		}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	start, end := base.Add(time.Hour), base.Add(3*time.Hour)
	events, err := store.Query(ctx, audit.QueryFilter{StartTime: &start, EndTime: &end, Offset: 1})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	// In range: 3, 2, 1 (newest first); offset skips 3.
	if len(events) != 2 || events[0].ActorID != 2 || events[1].ActorID != 1 {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestStore_EnsureIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	// Idempotent.
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("second EnsureIndexes failed: %v", err)
	}
}
