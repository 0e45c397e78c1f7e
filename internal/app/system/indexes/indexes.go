// Package indexes creates the MongoDB indexes the application relies on.
// Called once from bootstrap.EnsureSchema before the HTTP handler is built.
package indexes

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Ensure creates all required indexes. Creation is idempotent; Mongo
// ignores indexes that already exist with the same spec.
//
// Uniqueness invariants enforced here rather than in application code:
//   - users.email is unique (duplicate signups race-free)
//   - organizations.name_ci is unique (case-insensitive name uniqueness)
func Ensure(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	specs := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "organization_id", Value: 1}}},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "active", Value: 1}}},
		},
		"organizations": {
			{Keys: bson.D{{Key: "name_ci", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"leads": {
			{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "email", Value: 1}}},
			{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "phone", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		"audit_events": {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			logger.Error("index creation failed",
				zap.String("collection", coll),
				zap.Error(err))
			return err
		}
	}

	logger.Info("indexes ensured", zap.Int("collections", len(specs)))
	return nil
}
