package userRepo

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

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo() UserRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("users")
	repo := &MongoUserRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create user indexes: %v\n", err)
	}
	return repo
}

func (repo *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new user document.
func (repo *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, user); err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id.
func (repo *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return repo.findOne(ctx, bson.M{"id": id})
}

// GetByEmail retrieves a user by email.
func (repo *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return repo.findOne(ctx, bson.M{"email": email})
}

func (repo *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := repo.coll.FindOne(ctxWithTimeout, filter).Decode(&user); err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return &user, nil
}

// Update replaces the mutable fields of an existing user document.
func (repo *MongoUserRepo) Update(ctx context.Context, user *models.User) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": user.ID}
	update := bson.M{"$set": user}
	if _, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update); err != nil {
		return fmt.Errorf("error updating user %s: %w", user.ID, err)
	}
	return nil
}
