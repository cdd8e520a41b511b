package blockedRepo

import (
	"context"
	"fmt"
	"time"

	"velora/database"
	"velora/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoBlockedDateRepo struct {
	coll *mongo.Collection
}

// NewMongoBlockedDateRepo constructs a new MongoDB BlockedDateRepository.
func NewMongoBlockedDateRepo() BlockedDateRepository {
	return &mongoBlockedDateRepo{coll: database.DB().Collection("blocked_dates")}
}

func (r *mongoBlockedDateRepo) Create(ctx context.Context, blocked *models.BlockedDate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, blocked); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("error creating blocked date: %w", err)
	}
	return nil
}

func (r *mongoBlockedDateRepo) Delete(ctx context.Context, blockedID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": blockedID})
	if err != nil {
		return fmt.Errorf("error deleting blocked date %s: %w", blockedID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoBlockedDateRepo) GetByID(ctx context.Context, blockedID string) (*models.BlockedDate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var blocked models.BlockedDate
	if err := r.coll.FindOne(ctx, bson.M{"id": blockedID}).Decode(&blocked); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching blocked date %s: %w", blockedID, err)
	}
	return &blocked, nil
}

func (r *mongoBlockedDateRepo) ListByProvider(ctx context.Context, providerID string) ([]models.BlockedDate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"provider_id": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing blocked dates: %w", err)
	}
	defer cursor.Close(ctx)

	var blocked []models.BlockedDate
	if err := cursor.All(ctx, &blocked); err != nil {
		return nil, fmt.Errorf("error decoding blocked dates: %w", err)
	}
	return blocked, nil
}

func (r *mongoBlockedDateRepo) ListInRange(ctx context.Context, providerID, fromDate, toDate string) ([]models.BlockedDate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// "YYYY-MM-DD" strings sort lexicographically in date order.
	filter := bson.M{
		"provider_id": providerID,
		"date":        bson.M{"$gte": fromDate, "$lte": toDate},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing blocked dates in range: %w", err)
	}
	defer cursor.Close(ctx)

	var blocked []models.BlockedDate
	if err := cursor.All(ctx, &blocked); err != nil {
		return nil, fmt.Errorf("error decoding blocked dates: %w", err)
	}
	return blocked, nil
}

func (r *mongoBlockedDateRepo) ExistsOnDate(ctx context.Context, providerID, date string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"provider_id": providerID, "date": date}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking blocked date: %w", err)
	}
	return count > 0, nil
}
