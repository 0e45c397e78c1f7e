// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories.
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Event types.
const (
	EventLoginSuccess            = "login_success"
	EventLoginFailedUserNotFound = "login_failed_user_not_found"
	EventLoginFailedWrongPass    = "login_failed_wrong_password"
	EventLoginFailedInactive     = "login_failed_user_inactive"
	EventLogout                  = "logout"
	EventPasswordChanged         = "password_changed"
	EventUserRegistered          = "user_registered"

	EventUserCreated  = "user_created"
	EventUserUpdated  = "user_updated"
	EventUserDeleted  = "user_deleted"
	EventOrgCreated   = "organization_created"
	EventOrgUpdated   = "organization_updated"
	EventLeadStatus   = "lead_status_changed"
	EventLeadCreated  = "lead_created"
)

// Event is one audit record. UserID is the affected user (when any),
// ActorID the caller who performed the action.
type Event struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	Category       string              `bson:"category"`
	EventType      string              `bson:"event_type"`
	UserID         *primitive.ObjectID `bson:"user_id,omitempty"`
	ActorID        *primitive.ObjectID `bson:"actor_id,omitempty"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty"`
	LeadID         *primitive.ObjectID `bson:"lead_id,omitempty"`
	IP             string              `bson:"ip,omitempty"`
	UserAgent      string              `bson:"user_agent,omitempty"`
	Success        bool                `bson:"success"`
	FailureReason  string              `bson:"failure_reason,omitempty"`
	Details        map[string]string   `bson:"details,omitempty"`
	CreatedAt      time.Time           `bson:"created_at"`
}

// Store persists audit events in the audit_events collection. Events are
// append-only; nothing in the application updates or deletes them.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log inserts one event, stamping CreatedAt if unset.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Recent returns the most recent events, newest first.
func (s *Store) Recent(ctx context.Context, limit int64) ([]Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
