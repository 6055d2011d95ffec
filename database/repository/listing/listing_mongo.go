package listingRepo

import (
	"context"
	"fmt"
	"time"

	"staybook/database"
	"staybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoListingRepo implements ListingRepository using MongoDB.
type MongoListingRepo struct {
	coll *mongo.Collection
}

// NewMongoListingRepo creates a new instance of ListingRepository using MongoDB.
func NewMongoListingRepo() ListingRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("listings")
	repo := &MongoListingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create listing indexes: %v\n", err)
	}
	return repo
}

func (repo *MongoListingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "host_id", Value: 1}}},
		{Keys: bson.D{{Key: "active", Value: 1}}},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new listing document.
func (repo *MongoListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, listing); err != nil {
		return fmt.Errorf("error creating listing: %w", err)
	}
	return nil
}

// GetByID retrieves a listing by its ID.
func (repo *MongoListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var listing models.Listing
	if err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&listing); err != nil {
		return nil, fmt.Errorf("listing %s not found: %w", id, err)
	}
	return &listing, nil
}

// ListByHost retrieves all listings owned by a host.
func (repo *MongoListingRepo) ListByHost(ctx context.Context, hostID string) ([]models.Listing, error) {
	return repo.list(ctx, bson.M{"host_id": hostID})
}

// ListActive retrieves all active listings.
func (repo *MongoListingRepo) ListActive(ctx context.Context) ([]models.Listing, error) {
	return repo.list(ctx, bson.M{"active": true})
}

func (repo *MongoListingRepo) list(ctx context.Context, filter bson.M) ([]models.Listing, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing listings: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var results []models.Listing
	if err := cursor.All(ctxWithTimeout, &results); err != nil {
		return nil, fmt.Errorf("error decoding listings: %w", err)
	}
	return results, nil
}

// Update replaces the mutable fields of an existing listing document.
func (repo *MongoListingRepo) Update(ctx context.Context, listing *models.Listing) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": listing.ID}
	update := bson.M{"$set": listing}
	if _, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update); err != nil {
		return fmt.Errorf("error updating listing %s: %w", listing.ID, err)
	}
	return nil
}

// Delete removes a listing document.
func (repo *MongoListingRepo) Delete(ctx context.Context, id string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.DeleteOne(ctxWithTimeout, bson.M{"id": id}); err != nil {
		return fmt.Errorf("error deleting listing %s: %w", id, err)
	}
	return nil
}
