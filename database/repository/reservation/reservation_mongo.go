package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybook/database"
	"staybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo creates a new instance of ReservationRepository using MongoDB.
func NewMongoReservationRepo() ReservationRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("reservations")
	repo := &MongoReservationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create reservation indexes: %v\n", err)
	}
	return repo
}

// Create inserts a new reservation document.
func (repo *MongoReservationRepo) Create(ctx context.Context, res *models.Reservation) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, res); err != nil {
		return fmt.Errorf("error creating reservation: %w", err)
	}
	return nil
}

// GetByID retrieves a reservation by its ID. Returns mongo.ErrNoDocuments if
// no record exists.
func (repo *MongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.Reservation
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("error fetching reservation %s: %w", id, err)
	}
	return &res, nil
}

// GetByListingAndStatuses retrieves all reservations for a listing whose
// status is in the given set.
func (repo *MongoReservationRepo) GetByListingAndStatuses(ctx context.Context, listingID string, statuses []string) ([]models.Reservation, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"listing_id": listingID,
		"status":     bson.M{"$in": statuses},
	}
	cursor, err := repo.coll.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations for listing %s: %w", listingID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var results []models.Reservation
	if err := cursor.All(ctxWithTimeout, &results); err != nil {
		return nil, fmt.Errorf("error decoding reservations for listing %s: %w", listingID, err)
	}
	return results, nil
}

// GetByPaymentOrderAndStatus retrieves the members of a checkout group owned
// by the given guest with the given status.
func (repo *MongoReservationRepo) GetByPaymentOrderAndStatus(ctx context.Context, paymentOrderID, guestID, status string) ([]models.Reservation, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"payment_order_id": paymentOrderID,
		"guest_id":         guestID,
		"status":           status,
	}
	cursor, err := repo.coll.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error querying payment order %s: %w", paymentOrderID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var results []models.Reservation
	if err := cursor.All(ctxWithTimeout, &results); err != nil {
		return nil, fmt.Errorf("error decoding payment order %s: %w", paymentOrderID, err)
	}
	return results, nil
}

// ListByGuest retrieves all reservations made by a guest.
func (repo *MongoReservationRepo) ListByGuest(ctx context.Context, guestID string) ([]models.Reservation, error) {
	return repo.list(ctx, bson.M{"guest_id": guestID})
}

// ListByListing retrieves all reservations on a listing.
func (repo *MongoReservationRepo) ListByListing(ctx context.Context, listingID string) ([]models.Reservation, error) {
	return repo.list(ctx, bson.M{"listing_id": listingID})
}

func (repo *MongoReservationRepo) list(ctx context.Context, filter bson.M) ([]models.Reservation, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var results []models.Reservation
	if err := cursor.All(ctxWithTimeout, &results); err != nil {
		return nil, fmt.Errorf("error decoding reservations: %w", err)
	}
	return results, nil
}

// ConfirmIfPending performs the conditional pending -> confirmed write. The
// filter carries the expected status, so a record confirmed, cancelled or
// deleted in the meantime yields MatchedCount == 0 and ErrStaleStatus.
func (repo *MongoReservationRepo) ConfirmIfPending(ctx context.Context, id, paymentID string, now time.Time) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.ReservationPending}
	set := bson.M{
		"status":     models.ReservationConfirmed,
		"updated_at": now,
	}
	// Host approval confirms without a captured payment.
	if paymentID != "" {
		set["payment_id"] = paymentID
	}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error confirming reservation %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrStaleStatus
	}
	return nil
}

// CancelIfStatus performs the conditional <expected> -> cancelled write.
func (repo *MongoReservationRepo) CancelIfStatus(ctx context.Context, id, expectedStatus string, now time.Time) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": expectedStatus}
	update := bson.M{"$set": bson.M{
		"status":     models.ReservationCancelled,
		"updated_at": now,
	}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return fmt.Errorf("error cancelling reservation %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrStaleStatus
	}
	return nil
}

// DeletePendingByPaymentOrder removes all pending members of a checkout group.
func (repo *MongoReservationRepo) DeletePendingByPaymentOrder(ctx context.Context, paymentOrderID, guestID string) (int64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"payment_order_id": paymentOrderID,
		"guest_id":         guestID,
		"status":           models.ReservationPending,
	}
	res, err := repo.coll.DeleteMany(ctxWithTimeout, filter)
	if err != nil {
		return 0, fmt.Errorf("error deleting pending group %s: %w", paymentOrderID, err)
	}
	return res.DeletedCount, nil
}

// DeleteExpiredPending removes all pending reservations created before the
// cutoff. The status predicate keeps confirmed records out of reach even if a
// confirmation lands between the sweeper's read and its delete.
func (repo *MongoReservationRepo) DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":     models.ReservationPending,
		"created_at": bson.M{"$lt": cutoff},
	}
	res, err := repo.coll.DeleteMany(ctxWithTimeout, filter)
	if err != nil {
		return 0, fmt.Errorf("error sweeping expired reservations: %w", err)
	}
	return res.DeletedCount, nil
}
