// internal/app/store/leads/leadstore.go
package leadstore

import (
	"context"
	"errors"
	"time"

	"github.com/casefront/intakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

// ErrStatusConflict is returned by AppendStatus when the lead's current
// status no longer matches the caller's expected status. The caller lost a
// race with a concurrent transition and should re-read the lead.
var ErrStatusConflict = errors.New("lead status changed concurrently")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("leads")}
}

// Create inserts a new lead. Status defaults to PENDING when unset (the
// duplicate-detection path sets DUPLICATE before calling). The first
// history entry records the creation with an empty from_status and the
// given note ("Lead created" when empty); any history the caller set is
// discarded.
func (s *Store) Create(ctx context.Context, lead models.Lead, creationNote string) (models.Lead, error) {
	now := time.Now().UTC()
	lead.ID = primitive.NewObjectID()
	if lead.Status == "" {
		lead.Status = models.StatusPending
	}
	if creationNote == "" {
		creationNote = "Lead created"
	}
	lead.StatusHistory = []models.StatusTransition{{
		FromStatus: "",
		ToStatus:   lead.Status,
		Notes:      creationNote,
		ChangedBy:  lead.CreatedBy,
		Timestamp:  now,
	}}
	if lead.Fields == nil {
		lead.Fields = []models.LeadField{}
	}
	lead.CreatedAt = now
	lead.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, lead); err != nil {
		return models.Lead{}, err
	}
	return lead, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Lead, error) {
	var lead models.Lead
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&lead); err != nil {
		return models.Lead{}, err
	}
	return lead, nil
}

// Find returns leads matching the given filter with optional find options.
// The caller builds the filter (org scoping included) and options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Lead, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var leads []models.Lead
	if err := cur.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// Count returns the number of leads matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// FindDuplicate looks for an existing lead in scope matching the given
// email, falling back to phone when no email match exists. Empty values
// never match. Returns nil when no duplicate is found.
//
// The scope filter comes from the caller so the same org-isolation rules
// apply to duplicate checks as to every other query.
func (s *Store) FindDuplicate(ctx context.Context, scope bson.M, email, phone string) (*models.Lead, error) {
	if email != "" {
		filter := bson.M{"email": email}
		for k, v := range scope {
			filter[k] = v
		}
		var lead models.Lead
		err := s.c.FindOne(ctx, filter).Decode(&lead)
		if err == nil {
			return &lead, nil
		}
		if err != mongo.ErrNoDocuments {
			return nil, err
		}
	}
	if phone != "" {
		filter := bson.M{"phone": phone}
		for k, v := range scope {
			filter[k] = v
		}
		var lead models.Lead
		err := s.c.FindOne(ctx, filter).Decode(&lead)
		if err == nil {
			return &lead, nil
		}
		if err != mongo.ErrNoDocuments {
			return nil, err
		}
	}
	return nil, nil
}

// ContactUpdate holds the general lead fields a caller may change. Nil
// pointers mean "leave as is"; empty strings clear the field.
type ContactUpdate struct {
	FirstName       *string
	LastName        *string
	Email           *string
	Phone           *string
	DateOfBirth     *time.Time
	Address         *string
	ApplicationType *string
	Lawsuit         *string
	Notes           *string
}

// UpdateContact applies a partial update to a lead's contact fields and
// refreshes UpdatedAt. Status and history are untouched; use AppendStatus
// for transitions.
func (s *Store) UpdateContact(ctx context.Context, id primitive.ObjectID, upd ContactUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.FirstName != nil {
		set["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		set["last_name"] = *upd.LastName
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.DateOfBirth != nil {
		set["date_of_birth"] = *upd.DateOfBirth
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.ApplicationType != nil {
		set["application_type"] = *upd.ApplicationType
	}
	if upd.Lawsuit != nil {
		set["lawsuit"] = *upd.Lawsuit
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ReplaceFields swaps a lead's whole dynamic field list for the given one.
func (s *Store) ReplaceFields(ctx context.Context, id primitive.ObjectID, fields []models.LeadField) error {
	if fields == nil {
		fields = []models.LeadField{}
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"fields":     fields,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AppendStatus atomically transitions a lead from fromStatus to toStatus,
// appending a history entry. The update filter includes the expected
// current status, so a concurrent transition makes the write match nothing
// and the caller gets ErrStatusConflict instead of a silently lost or
// misordered history entry.
func (s *Store) AppendStatus(ctx context.Context, id primitive.ObjectID, fromStatus, toStatus, notes string, changedBy primitive.ObjectID) error {
	now := time.Now().UTC()
	entry := models.StatusTransition{
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		Notes:      notes,
		ChangedBy:  changedBy,
		Timestamp:  now,
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": fromStatus},
		bson.M{
			"$set":  bson.M{"status": toStatus, "updated_at": now},
			"$push": bson.M{"status_history": entry},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish "lead gone" from "status moved under us".
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err == mongo.ErrNoDocuments {
			return mongo.ErrNoDocuments
		}
		return ErrStatusConflict
	}
	return nil
}

// StatusCount is one bucket of the per-status aggregate.
type StatusCount struct {
	Status string `bson:"_id" json:"status"`
	Count  int64  `bson:"count" json:"count"`
}

// StatusCounts groups leads in scope by status.
func (s *Store) StatusCounts(ctx context.Context, scope bson.M) ([]StatusCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: scope}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var counts []StatusCount
	if err := cur.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// ActivityEntry is one recent status change across leads in scope, used by
// the dashboard stats endpoint.
type ActivityEntry struct {
	LeadID     primitive.ObjectID `bson:"lead_id" json:"leadId"`
	FirstName  string             `bson:"first_name" json:"firstName"`
	LastName   string             `bson:"last_name" json:"lastName"`
	FromStatus string             `bson:"from_status" json:"fromStatus"`
	ToStatus   string             `bson:"to_status" json:"toStatus"`
	ChangedBy  primitive.ObjectID `bson:"changed_by" json:"changedBy"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}

// RecentActivity unwinds status histories of leads in scope and returns
// the most recent transitions, newest first.
func (s *Store) RecentActivity(ctx context.Context, scope bson.M, limit int64) ([]ActivityEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: scope}},
		{{Key: "$unwind", Value: "$status_history"}},
		{{Key: "$sort", Value: bson.D{{Key: "status_history.timestamp", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{
			"lead_id":     "$_id",
			"first_name":  1,
			"last_name":   1,
			"from_status": "$status_history.from_status",
			"to_status":   "$status_history.to_status",
			"changed_by":  "$status_history.changed_by",
			"timestamp":   "$status_history.timestamp",
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []ActivityEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
