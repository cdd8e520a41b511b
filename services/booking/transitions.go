package booking

import (
	"context"
	"time"

	bookingRepo "velora/database/repository/booking"
	"velora/models"
	"velora/services/fault"
	"velora/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Confirm moves a PENDING booking to CONFIRMED. Only the booked provider may
// confirm. A reminder is scheduled once the transition commits.
func (s *DefaultBookingService) Confirm(ctx context.Context, bookingID, providerID, notes string) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ProviderID != providerID {
		return nil, fault.New(fault.Forbidden, "only the booked provider can confirm")
	}

	if notes == "" {
		notes = "Booking confirmed by provider"
	}
	if err := s.transition(ctx, booking, providerID,
		[]models.BookingStatus{models.BookingPending},
		bookingRepo.StatusUpdate{To: models.BookingConfirmed},
		notes,
	); err != nil {
		return nil, err
	}

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleBookingReminder(ctx, booking); err != nil {
			utils.GetLogger().Warn("failed to schedule booking reminder",
				zap.String("bookingID", booking.ID), zap.Error(err))
		}
	}
	if err := s.Notification.NotifyBookingConfirmed(ctx, booking); err != nil {
		utils.GetLogger().Warn("failed to send confirmation notification",
			zap.String("bookingID", booking.ID), zap.Error(err))
	}
	return booking, nil
}

// Reject moves a PENDING booking to REJECTED. A reason is mandatory and is
// recorded in the booking history.
func (s *DefaultBookingService) Reject(ctx context.Context, bookingID, providerID, reason string) (*models.Booking, error) {
	if reason == "" {
		return nil, fault.New(fault.Validation, "rejection reason is required")
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ProviderID != providerID {
		return nil, fault.New(fault.Forbidden, "only the booked provider can reject")
	}

	if err := s.transition(ctx, booking, providerID,
		[]models.BookingStatus{models.BookingPending},
		bookingRepo.StatusUpdate{To: models.BookingRejected},
		"Rejected: "+reason,
	); err != nil {
		return nil, err
	}

	if err := s.Notification.NotifyBookingRejected(ctx, booking, reason); err != nil {
		utils.GetLogger().Warn("failed to send rejection notification",
			zap.String("bookingID", booking.ID), zap.Error(err))
	}
	return booking, nil
}

// Cancel moves a PENDING or CONFIRMED booking to CANCELLED. Either party may
// cancel; the cancellation reason and timestamp are stored on the booking.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != actorID && booking.ProviderID != actorID {
		return nil, fault.New(fault.Forbidden, "only a booking party can cancel")
	}

	cancelledAt := time.Now().UTC()
	notes := "Booking cancelled"
	if reason != "" {
		notes = "Cancelled: " + reason
	}
	if err := s.transition(ctx, booking, actorID,
		[]models.BookingStatus{models.BookingPending, models.BookingConfirmed},
		bookingRepo.StatusUpdate{
			To:                 models.BookingCancelled,
			CancellationReason: reason,
			CancelledAt:        &cancelledAt,
		},
		notes,
	); err != nil {
		return nil, err
	}
	booking.CancellationReason = reason
	booking.CancelledAt = &cancelledAt

	if err := s.Notification.NotifyBookingCancelled(ctx, booking, actorID); err != nil {
		utils.GetLogger().Warn("failed to send cancellation notification",
			zap.String("bookingID", booking.ID), zap.Error(err))
	}
	return booking, nil
}

// Complete moves a CONFIRMED booking to COMPLETED once the appointment has
// taken place. Provider only.
func (s *DefaultBookingService) Complete(ctx context.Context, bookingID, providerID string) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ProviderID != providerID {
		return nil, fault.New(fault.Forbidden, "only the booked provider can complete")
	}

	if err := s.transition(ctx, booking, providerID,
		[]models.BookingStatus{models.BookingConfirmed},
		bookingRepo.StatusUpdate{To: models.BookingCompleted},
		"Booking completed",
	); err != nil {
		return nil, err
	}

	if err := s.Notification.NotifyBookingCompleted(ctx, booking); err != nil {
		utils.GetLogger().Warn("failed to send completion notification",
			zap.String("bookingID", booking.ID), zap.Error(err))
	}
	return booking, nil
}

// transition applies a guarded status update plus its history row in one
// transaction. The guard re-checks the expected statuses inside the write,
// so a losing concurrent transition surfaces as InvalidState rather than a
// silent overwrite.
func (s *DefaultBookingService) transition(ctx context.Context, booking *models.Booking, actorID string, expect []models.BookingStatus, update bookingRepo.StatusUpdate, notes string) error {
	err := s.Repo.WithTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.Repo.UpdateStatusGuarded(ctx, booking.ID, expect, update)
		if err != nil {
			return err
		}
		if !ok {
			return fault.Newf(fault.InvalidState, "booking is not in a valid state for this transition (current: %s)", booking.Status)
		}
		return s.Repo.AppendHistory(ctx, &models.BookingHistory{
			ID:        uuid.New().String(),
			BookingID: booking.ID,
			Status:    update.To,
			ChangedBy: actorID,
			Notes:     notes,
			CreatedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return err
	}
	booking.Status = update.To
	booking.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *DefaultBookingService) getBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, "booking not found", err)
	}
	return booking, nil
}
