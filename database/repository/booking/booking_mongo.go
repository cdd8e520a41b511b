package bookingRepo

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

// maxBookingHours bounds the prefilter window when searching for bookings
// that could overlap an interval; durations are capped at 8 hours.
const maxBookingHours = 8

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
	historyColl *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	db := database.DB()
	return &MongoBookingRepo{
		bookingColl: db.Collection("bookings"),
		historyColl: db.Collection("booking_history"),
	}
}

// WithTransaction starts a session and runs fn inside a transaction. The
// session travels in the context, so nested repository calls join it.
func (repo *MongoBookingRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}
	return nil
}

func (repo *MongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.bookingColl.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

func (repo *MongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := repo.bookingColl.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.ProviderID != "" {
		query["provider_id"] = filter.ProviderID
	}
	if filter.CustomerID != "" {
		query["customer_id"] = filter.CustomerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	dateRange := bson.M{}
	if !filter.From.IsZero() {
		dateRange["$gte"] = filter.From
	}
	if !filter.To.IsZero() {
		dateRange["$lte"] = filter.To
	}
	if len(dateRange) > 0 {
		query["booking_date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "booking_date", Value: -1}})
	cursor, err := repo.bookingColl.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (repo *MongoBookingRepo) FindActiveInRange(ctx context.Context, providerID string, from, to time.Time, excludeID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Widen the lower bound by the duration cap so bookings starting before
	// `from` but still running into it are included.
	query := bson.M{
		"provider_id": providerID,
		"status":      bson.M{"$in": []models.BookingStatus{models.BookingPending, models.BookingConfirmed}},
		"booking_date": bson.M{
			"$lt":  to,
			"$gte": from.Add(-maxBookingHours * time.Hour),
		},
	}
	if excludeID != "" {
		query["id"] = bson.M{"$ne": excludeID}
	}

	cursor, err := repo.bookingColl.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error finding active bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding active bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatusGuarded applies the transition only while the booking's status
// is one of expect. A zero match count means another actor won the race or
// the booking is in a different state; the caller decides which.
func (repo *MongoBookingRepo) UpdateStatusGuarded(ctx context.Context, bookingID string, expect []models.BookingStatus, update StatusUpdate) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     bookingID,
		"status": bson.M{"$in": expect},
	}
	set := bson.M{
		"status":     update.To,
		"updated_at": time.Now().UTC(),
	}
	if update.CancellationReason != "" {
		set["cancellation_reason"] = update.CancellationReason
	}
	if update.CancelledAt != nil {
		set["cancelled_at"] = update.CancelledAt
	}

	res, err := repo.bookingColl.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("error updating booking %s status: %w", bookingID, err)
	}
	return res.MatchedCount > 0, nil
}

func (repo *MongoBookingRepo) UpdateFields(ctx context.Context, booking *models.Booking) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"service_package_id": booking.ServicePackageID,
		"service_type":       booking.ServiceType,
		"booking_date":       booking.BookingDate,
		"duration":           booking.Duration,
		"total_price":        booking.TotalPrice,
		"deposit_amount":     booking.DepositAmount,
		"location":           booking.Location,
		"special_requests":   booking.SpecialRequests,
		"updated_at":         time.Now().UTC(),
	}
	// The status guard makes the earlier PENDING read authoritative at write
	// time: a booking confirmed in between simply fails the match.
	filter := bson.M{"id": booking.ID, "status": models.BookingPending}
	res, err := repo.bookingColl.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("error updating booking %s: %w", booking.ID, err)
	}
	return res.MatchedCount > 0, nil
}

func (repo *MongoBookingRepo) SetPaymentStatus(ctx context.Context, bookingID string, status models.PaymentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.bookingColl.UpdateOne(ctx,
		bson.M{"id": bookingID},
		bson.M{"$set": bson.M{"payment_status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("error setting payment status for booking %s: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoBookingRepo) AppendHistory(ctx context.Context, entry *models.BookingHistory) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.historyColl.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("error appending booking history: %w", err)
	}
	return nil
}

func (repo *MongoBookingRepo) ListHistory(ctx context.Context, bookingID string) ([]models.BookingHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.historyColl.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing booking history: %w", err)
	}
	defer cursor.Close(ctx)

	var history []models.BookingHistory
	if err := cursor.All(ctx, &history); err != nil {
		return nil, fmt.Errorf("error decoding booking history: %w", err)
	}
	return history, nil
}
