package notification

import (
	"context"

	"velora/models"
)

// NotificationService is the outbound notification boundary of the booking
// core. Every method is fire-and-forget from the caller's point of view:
// delivery failures are logged by the caller and never abort the operation
// that triggered them.
type NotificationService interface {
	NotifyBookingCreated(ctx context.Context, booking *models.Booking) error
	NotifyBookingConfirmed(ctx context.Context, booking *models.Booking) error
	NotifyBookingRejected(ctx context.Context, booking *models.Booking, reason string) error
	NotifyBookingCancelled(ctx context.Context, booking *models.Booking, cancelledBy string) error
	NotifyBookingCompleted(ctx context.Context, booking *models.Booking) error
	NotifyPaymentReceived(ctx context.Context, booking *models.Booking, payment *models.Payment) error
	NotifyPaymentFailed(ctx context.Context, booking *models.Booking, payment *models.Payment) error

	// Generic pushes, used by the reminder worker.
	SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error
	SendProviderPush(ctx context.Context, providerID, title, body string, data map[string]string) error
}
