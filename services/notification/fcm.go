package notification

import (
	"context"
	"fmt"

	providerRepo "velora/database/repository/provider"
	userRepo "velora/database/repository/user"
	"velora/models"
	"velora/utils"

	"firebase.google.com/go/v4/messaging"
)

// DefaultNotificationService delivers booking and payment events as FCM
// pushes, resolving recipient tokens through the read-model repositories.
type DefaultNotificationService struct {
	Users     userRepo.UserRepository
	Providers providerRepo.ProviderRepository
}

func NewDefaultNotificationService(users userRepo.UserRepository, providers providerRepo.ProviderRepository) (*DefaultNotificationService, error) {
	if users == nil || providers == nil {
		return nil, fmt.Errorf("notification service initialization error: user or provider repository is nil")
	}
	return &DefaultNotificationService{Users: users, Providers: providers}, nil
}

func (s *DefaultNotificationService) SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		return fmt.Errorf("user %s has no FCM token", userID)
	}
	return s.send(ctx, u.FCMToken, title, body, data)
}

func (s *DefaultNotificationService) SendProviderPush(ctx context.Context, providerID, title, body string, data map[string]string) error {
	p, err := s.Providers.GetByID(ctx, providerID)
	if err != nil {
		return fmt.Errorf("could not find provider %s: %w", providerID, err)
	}
	if p.FCMToken == "" {
		return fmt.Errorf("provider %s has no FCM token", providerID)
	}
	return s.send(ctx, p.FCMToken, title, body, data)
}

func (s *DefaultNotificationService) send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}

func bookingData(booking *models.Booking, event string) map[string]string {
	return map[string]string{
		"type":      event,
		"bookingId": booking.ID,
	}
}

func (s *DefaultNotificationService) NotifyBookingCreated(ctx context.Context, booking *models.Booking) error {
	return s.SendProviderPush(ctx, booking.ProviderID,
		"New booking request",
		fmt.Sprintf("You have a new booking request for %s.", booking.BookingDate.Format("Jan 2 15:04")),
		bookingData(booking, "booking_created"))
}

func (s *DefaultNotificationService) NotifyBookingConfirmed(ctx context.Context, booking *models.Booking) error {
	return s.SendUserPush(ctx, booking.CustomerID,
		"Booking confirmed",
		fmt.Sprintf("Your booking for %s has been confirmed.", booking.BookingDate.Format("Jan 2 15:04")),
		bookingData(booking, "booking_confirmed"))
}

func (s *DefaultNotificationService) NotifyBookingRejected(ctx context.Context, booking *models.Booking, reason string) error {
	return s.SendUserPush(ctx, booking.CustomerID,
		"Booking declined",
		fmt.Sprintf("Your booking was declined: %s", reason),
		bookingData(booking, "booking_rejected"))
}

func (s *DefaultNotificationService) NotifyBookingCancelled(ctx context.Context, booking *models.Booking, cancelledBy string) error {
	data := bookingData(booking, "booking_cancelled")
	// Tell the party that did not cancel.
	if cancelledBy == booking.CustomerID {
		return s.SendProviderPush(ctx, booking.ProviderID,
			"Booking cancelled",
			fmt.Sprintf("The booking for %s was cancelled by the customer.", booking.BookingDate.Format("Jan 2 15:04")),
			data)
	}
	return s.SendUserPush(ctx, booking.CustomerID,
		"Booking cancelled",
		fmt.Sprintf("Your booking for %s was cancelled by the provider.", booking.BookingDate.Format("Jan 2 15:04")),
		data)
}

func (s *DefaultNotificationService) NotifyBookingCompleted(ctx context.Context, booking *models.Booking) error {
	return s.SendUserPush(ctx, booking.CustomerID,
		"Booking completed",
		"Your booking is complete. Leave a review to help others!",
		bookingData(booking, "booking_completed"))
}

func (s *DefaultNotificationService) NotifyPaymentReceived(ctx context.Context, booking *models.Booking, payment *models.Payment) error {
	data := bookingData(booking, "payment_received")
	data["paymentId"] = payment.ID
	return s.SendProviderPush(ctx, booking.ProviderID,
		"Payment received",
		fmt.Sprintf("A payment of %.0f was received for your booking.", payment.Amount),
		data)
}

func (s *DefaultNotificationService) NotifyPaymentFailed(ctx context.Context, booking *models.Booking, payment *models.Payment) error {
	data := bookingData(booking, "payment_failed")
	data["paymentId"] = payment.ID
	return s.SendUserPush(ctx, booking.CustomerID,
		"Payment failed",
		"Your payment could not be processed. Please try again.",
		data)
}
