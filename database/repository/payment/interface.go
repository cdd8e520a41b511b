// File: database/repository/payment/interface.go
package paymentRepo

import (
	"context"
	"errors"

	"velora/models"
)

var ErrNotFound = errors.New("payment not found")

// PaymentRepository stores payment attempts and their audit trail.
type PaymentRepository interface {
	// WithTransaction runs fn inside a single Mongo session transaction so a
	// payment write, its history row and the booking's derived payment
	// status land together or not at all.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	Insert(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, paymentID string) (*models.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	List(ctx context.Context, bookingID, payerID string) ([]models.Payment, error)

	// UpdateGuarded rewrites the payment only while its current status is
	// one of expect. Returns false with nil error when the guard missed.
	UpdateGuarded(ctx context.Context, payment *models.Payment, expect []models.PaymentStatus) (bool, error)

	// SumCompleted totals the COMPLETED payment amounts for a booking.
	SumCompleted(ctx context.Context, bookingID string) (float64, error)

	AppendHistory(ctx context.Context, entry *models.PaymentHistory) error
	ListHistory(ctx context.Context, paymentID string) ([]models.PaymentHistory, error)
}
