package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/syncadmin/internal/app/store/audit"
	"github.com/dalemusser/syncadmin/internal/app/system/validators"
	"github.com/dalemusser/syncadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{"name": audit.CollectionName})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	if len(names) != 1 {
		t.Errorf("expected collection %q to exist", audit.CollectionName)
	}
}

func TestAuditValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection(audit.CollectionName).InsertOne(ctx, bson.M{"ip": "127.0.0.1"})
	if err == nil {
		t.Error("expected validation error for an event without required fields")
	}
}

func TestAuditValidator_UnknownEventType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection(audit.CollectionName).InsertOne(ctx, bson.M{
		"timestamp":  time.Now(),
		"category":   audit.CategoryAdmin,
		"event_type": "group_deleted",
		"success":    true,
	})
	if err == nil {
		t.Error("expected validation error for an unknown event type")
	}
}

func TestAuditValidator_AcceptsStoreEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	uid, gid := 7, 3
	events := []audit.Event{
		{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLoginFailed,
			IP:        "10.0.0.1",
			Details:   map[string]string{"attempted_username": "mallory"},
		},
		{
			Category:     audit.CategoryAdmin,
			EventType:    audit.EventMemberAdded,
			ActorID:      1,
			ActorName:    "root",
			TargetUserID: &uid,
			GroupID:      &gid,
			IP:           "10.0.0.1",
			Success:      true,
			Details:      map[string]string{"role": "editor"},
		},
	}
	store := audit.New(db)
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Errorf("Log(%s) rejected by validator: %v", e.EventType, err)
		}
	}
}
