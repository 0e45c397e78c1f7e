package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/casefront/intakehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateOrganization creates a test organization with the given name.
// Returns the created organization with its generated ID.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateUser creates a test user with the given parameters. The stored
// password hash is a bcrypt hash of "password123".
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string, orgID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:     primitive.NewObjectID(),
		Name:   name,
		NameCI: text.Fold(name),
		Email:  email,
		// bcrypt("password123"), precomputed so fixtures stay fast
		PasswordHash:   "$2a$10$N9qo8uLOickgx2ZMRZoMye1J5F0j8rBPZBpML8/sVZS8qJ7N7r6Aa",
		Role:           role,
		Active:         true,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateSuperAdmin creates a test super_admin user without an organization.
func (f *Fixtures) CreateSuperAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleSuperAdmin, nil)
}

// CreateAdmin creates a test admin user in the given organization.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string, orgID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin, &orgID)
}

// CreateAgent creates a test agent user in the given organization.
func (f *Fixtures) CreateAgent(ctx context.Context, name, email string, orgID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAgent, &orgID)
}

// CreateInactiveUser creates a deactivated test user.
func (f *Fixtures) CreateInactiveUser(ctx context.Context, name, email, role string, orgID *primitive.ObjectID) models.User {
	f.t.Helper()

	user := f.CreateUser(ctx, name, email, role, orgID)
	_, err := f.db.Collection("users").UpdateByID(ctx, user.ID,
		bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		f.t.Fatalf("failed to deactivate test user: %v", err)
	}
	user.Active = false
	return user
}

// CreateLead creates a test lead in the given organization with PENDING
// status and a creation history entry.
func (f *Fixtures) CreateLead(ctx context.Context, firstName, lastName string, orgID *primitive.ObjectID, createdBy primitive.ObjectID) models.Lead {
	f.t.Helper()

	now := time.Now().UTC()
	lead := models.Lead{
		ID:        primitive.NewObjectID(),
		FirstName: firstName,
		LastName:  lastName,
		Fields:    []models.LeadField{},
		Status:    models.StatusPending,
		StatusHistory: []models.StatusTransition{{
			FromStatus: "",
			ToStatus:   models.StatusPending,
			Notes:      "Lead created",
			ChangedBy:  createdBy,
			Timestamp:  now,
		}},
		OrganizationID: orgID,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("leads").InsertOne(ctx, lead); err != nil {
		f.t.Fatalf("failed to create test lead: %v", err)
	}
	return lead
}
