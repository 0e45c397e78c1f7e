package validators_test

import (
	"testing"
	"time"

	"github.com/casefront/intakehub/internal/app/system/validators"
	"github.com/casefront/intakehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, logger); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	// A second run finds everything in place and still succeeds.
	if err := validators.EnsureAll(ctx, db, logger); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool)
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "organizations", "leads", "audit_events"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestUsersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Missing required fields is rejected.
	if _, err := db.Collection("users").InsertOne(ctx, bson.M{
		"email": "partial@test.com",
	}); err == nil {
		t.Error("expected validation error for a user missing required fields")
	}

	// Unknown role is rejected.
	if _, err := db.Collection("users").InsertOne(ctx, bson.M{
		"name":     "Bad Role",
		"name_ci":  "bad role",
		"email":    "badrole@test.com",
		"password": "hash",
		"role":     "owner",
		"active":   true,
	}); err == nil {
		t.Error("expected validation error for an unknown role")
	}

	// A complete user is accepted.
	if _, err := db.Collection("users").InsertOne(ctx, bson.M{
		"name":       "Valid User",
		"name_ci":    "valid user",
		"email":      "valid@test.com",
		"password":   "hash",
		"role":       "agent",
		"active":     true,
		"created_at": time.Now(),
		"updated_at": time.Now(),
	}); err != nil {
		t.Errorf("insert of a valid user failed: %v", err)
	}
}

func TestOrganizationsValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := db.Collection("organizations").InsertOne(ctx, bson.M{
		"description": "no name",
	}); err == nil {
		t.Error("expected validation error for an organization without a name")
	}

	if _, err := db.Collection("organizations").InsertOne(ctx, bson.M{
		"name":    "Acme Legal",
		"name_ci": "acme legal",
		"active":  true,
	}); err != nil {
		t.Errorf("insert of a valid organization failed: %v", err)
	}
}

func TestLeadsValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	creator := primitive.NewObjectID()
	history := bson.A{bson.M{
		"from_status": "",
		"to_status":   "PENDING",
		"notes":       "Lead created",
		"changed_by":  creator,
		"timestamp":   time.Now(),
	}}

	// A status outside the workflow vocabulary is rejected.
	if _, err := db.Collection("leads").InsertOne(ctx, bson.M{
		"first_name":     "Jane",
		"last_name":      "Doe",
		"status":         "SOMETHING_ELSE",
		"status_history": history,
		"created_by":     creator,
	}); err == nil {
		t.Error("expected validation error for an unknown lead status")
	}

	if _, err := db.Collection("leads").InsertOne(ctx, bson.M{
		"first_name":     "Jane",
		"last_name":      "Doe",
		"status":         "PENDING",
		"status_history": history,
		"created_by":     creator,
	}); err != nil {
		t.Errorf("insert of a valid lead failed: %v", err)
	}
}

func TestAuditEvents_NoValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// audit_events carries per-event shapes, so any document is accepted.
	if _, err := db.Collection("audit_events").InsertOne(ctx, bson.M{
		"any_field": "any_value",
	}); err != nil {
		t.Errorf("insert into audit_events should succeed: %v", err)
	}
}
