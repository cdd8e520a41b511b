package bookingRepo

import (
	"context"
	"errors"
	"time"

	"velora/models"
)

// ErrNotFound is returned when a booking or history row does not exist.
var ErrNotFound = errors.New("booking not found")

// ErrDuplicate is returned when an insert hits the unique id index.
var ErrDuplicate = errors.New("booking already exists")

// StatusUpdate carries the fields written alongside a status transition.
type StatusUpdate struct {
	To                 models.BookingStatus
	CancellationReason string
	CancelledAt        *time.Time
}

// BookingRepository defines the data access methods used by the booking
// lifecycle manager and the conflict detector.
type BookingRepository interface {
	// WithTransaction runs fn inside a single Mongo session transaction.
	// Repository calls made with the ctx passed to fn join that transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	Insert(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)

	// FindActiveInRange returns PENDING/CONFIRMED bookings for the provider
	// whose start instant falls in [from, to), excluding excludeID if set.
	// Callers apply the precise interval overlap predicate themselves.
	FindActiveInRange(ctx context.Context, providerID string, from, to time.Time, excludeID string) ([]models.Booking, error)

	// UpdateStatusGuarded performs a conditional update: the write applies
	// only while the booking's current status is one of expect. Returns
	// false with nil error when the guard did not match.
	UpdateStatusGuarded(ctx context.Context, bookingID string, expect []models.BookingStatus, update StatusUpdate) (bool, error)

	// UpdateFields rewrites the customer-mutable fields of a booking. The
	// write is conditional on the booking still being PENDING; returns
	// false with nil error when the guard did not match.
	UpdateFields(ctx context.Context, booking *models.Booking) (bool, error)

	SetPaymentStatus(ctx context.Context, bookingID string, status models.PaymentStatus) error

	AppendHistory(ctx context.Context, entry *models.BookingHistory) error
	ListHistory(ctx context.Context, bookingID string) ([]models.BookingHistory, error)
}
