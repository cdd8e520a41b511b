// FILE: database/repository/payment/indexes.go
package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"velora/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the payment collections.
// The sparse unique transaction_id index keeps gateway webhook lookups fast
// and guards against double-inserting the same intent.
func EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := database.DB()
	paymentIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("booking_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "transaction_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("unique_transaction_id"),
		},
	}
	if _, err := db.Collection("payments").Indexes().CreateMany(ctx, paymentIndexes); err != nil {
		return fmt.Errorf("failed to create payment indexes: %w", err)
	}

	historyIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "payment_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("payment_created_idx"),
		},
	}
	if _, err := db.Collection("payment_history").Indexes().CreateMany(ctx, historyIndexes); err != nil {
		return fmt.Errorf("failed to create payment history indexes: %w", err)
	}
	return nil
}
