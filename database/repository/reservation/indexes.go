package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for frequently used fields in queries.
func (repo *MongoReservationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// Overlap checks scan a listing's reservations by status.
		{Keys: bson.D{
			{Key: "listing_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start_date", Value: 1},
		}},
		// Group confirmation and failed-payment cleanup.
		{Keys: bson.D{
			{Key: "payment_order_id", Value: 1},
			{Key: "guest_id", Value: 1},
			{Key: "status", Value: 1},
		}},
		// Expiry sweep predicate.
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "created_at", Value: 1},
		}},
		{Keys: bson.D{{Key: "guest_id", Value: 1}}},
	}

	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
