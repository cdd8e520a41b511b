package paymentRepo

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

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	paymentColl *mongo.Collection
	historyColl *mongo.Collection
}

// NewMongoPaymentRepo constructs a new instance of MongoPaymentRepo.
func NewMongoPaymentRepo() PaymentRepository {
	db := database.DB()
	return &MongoPaymentRepo{
		paymentColl: db.Collection("payments"),
		historyColl: db.Collection("payment_history"),
	}
}

func (repo *MongoPaymentRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	client := repo.paymentColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

func (repo *MongoPaymentRepo) Insert(ctx context.Context, payment *models.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.paymentColl.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("error creating payment: %w", err)
	}
	return nil
}

func (repo *MongoPaymentRepo) GetByID(ctx context.Context, paymentID string) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var payment models.Payment
	if err := repo.paymentColl.FindOne(ctx, bson.M{"id": paymentID}).Decode(&payment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching payment %s: %w", paymentID, err)
	}
	return &payment, nil
}

func (repo *MongoPaymentRepo) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var payment models.Payment
	if err := repo.paymentColl.FindOne(ctx, bson.M{"transaction_id": transactionID}).Decode(&payment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching payment by transaction %s: %w", transactionID, err)
	}
	return &payment, nil
}

func (repo *MongoPaymentRepo) List(ctx context.Context, bookingID, payerID string) ([]models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if bookingID != "" {
		query["booking_id"] = bookingID
	}
	if payerID != "" {
		query["payer_id"] = payerID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.paymentColl.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing payments: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("error decoding payments: %w", err)
	}
	return payments, nil
}

func (repo *MongoPaymentRepo) UpdateGuarded(ctx context.Context, payment *models.Payment, expect []models.PaymentStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     payment.ID,
		"status": bson.M{"$in": expect},
	}
	set := bson.M{
		"status":     payment.Status,
		"updated_at": time.Now().UTC(),
	}
	if payment.TransactionID != "" {
		set["transaction_id"] = payment.TransactionID
	}
	if payment.PaymentDate != nil {
		set["payment_date"] = payment.PaymentDate
	}
	if payment.RefundAmount != 0 {
		set["refund_amount"] = payment.RefundAmount
	}
	if payment.RefundReason != "" {
		set["refund_reason"] = payment.RefundReason
	}

	res, err := repo.paymentColl.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("error updating payment %s: %w", payment.ID, err)
	}
	return res.MatchedCount > 0, nil
}

func (repo *MongoPaymentRepo) SumCompleted(ctx context.Context, bookingID string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"booking_id": bookingID,
			"status":     models.PaymentCompleted,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}
	cursor, err := repo.paymentColl.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregation error: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("error decoding aggregation result: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (repo *MongoPaymentRepo) AppendHistory(ctx context.Context, entry *models.PaymentHistory) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.historyColl.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("error appending payment history: %w", err)
	}
	return nil
}

func (repo *MongoPaymentRepo) ListHistory(ctx context.Context, paymentID string) ([]models.PaymentHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.historyColl.Find(ctx, bson.M{"payment_id": paymentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing payment history: %w", err)
	}
	defer cursor.Close(ctx)

	var history []models.PaymentHistory
	if err := cursor.All(ctx, &history); err != nil {
		return nil, fmt.Errorf("error decoding payment history: %w", err)
	}
	return history, nil
}
