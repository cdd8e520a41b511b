// File: services/booking/service.go
package booking

import (
	"context"
	"time"

	bookingRepo "velora/database/repository/booking"
	paymentRepo "velora/database/repository/payment"
	providerRepo "velora/database/repository/provider"
	"velora/models"
	"velora/services/fault"
	"velora/services/notification"

	"github.com/go-redis/redis/v8"
)

// CreateBookingRequest carries the customer's booking submission.
type CreateBookingRequest struct {
	ProviderID       string             `json:"providerId" binding:"required"`
	ServicePackageID string             `json:"servicePackageId"`
	ServiceType      models.ServiceType `json:"serviceType" binding:"required"`
	BookingDate      time.Time          `json:"bookingDate" binding:"required"`
	Duration         int                `json:"duration" binding:"required"`
	TotalPrice       float64            `json:"totalPrice"`
	DepositAmount    float64            `json:"depositAmount"`
	Location         string             `json:"location"`
	SpecialRequests  string             `json:"specialRequests"`
}

// UpdateBookingRequest is a partial patch; nil fields are left untouched.
type UpdateBookingRequest struct {
	ServicePackageID *string             `json:"servicePackageId"`
	ServiceType      *models.ServiceType `json:"serviceType"`
	BookingDate      *time.Time          `json:"bookingDate"`
	Duration         *int                `json:"duration"`
	TotalPrice       *float64            `json:"totalPrice"`
	DepositAmount    *float64            `json:"depositAmount"`
	Location         *string             `json:"location"`
	SpecialRequests  *string             `json:"specialRequests"`
}

// ReminderScheduler enqueues a reminder push ahead of a confirmed booking.
type ReminderScheduler interface {
	ScheduleBookingReminder(ctx context.Context, booking *models.Booking) error
}

// BookingService owns the booking state machine and its role-gated
// transitions, plus the read side (detail assembly, listing, slot planning).
type BookingService interface {
	Create(ctx context.Context, customerID string, req CreateBookingRequest) (*models.Booking, error)
	Update(ctx context.Context, bookingID, customerID string, req UpdateBookingRequest) (*models.Booking, error)
	Confirm(ctx context.Context, bookingID, actorID, notes string) (*models.Booking, error)
	Reject(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error)
	Complete(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	Get(ctx context.Context, bookingID string) (*models.BookingDetail, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	ListAvailableSlots(ctx context.Context, providerID, startDate, endDate string) ([]models.Slot, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	ProviderRepo providerRepo.ProviderRepository
	// Payments is read-only here; the payment service owns all writes.
	Payments paymentRepo.PaymentRepository
	Detector     *ConflictDetector
	Planner      *SlotPlanner
	Notification notification.NotificationService
	Reminders    ReminderScheduler
	// Locks serializes booking writes per provider. A nil client skips
	// locking (unit tests); production always wires one.
	Locks *redis.Client
}

const (
	minDurationHours = 1
	maxDurationHours = 8
)

func validateBookingFields(date time.Time, duration int, totalPrice, depositAmount float64) error {
	if date.IsZero() {
		return fault.New(fault.Validation, "booking date is required")
	}
	if duration < minDurationHours || duration > maxDurationHours {
		return fault.Newf(fault.Validation, "duration must be between %d and %d hours", minDurationHours, maxDurationHours)
	}
	if totalPrice < 0 {
		return fault.New(fault.Validation, "total price cannot be negative")
	}
	if depositAmount < 0 {
		return fault.New(fault.Validation, "deposit amount cannot be negative")
	}
	if depositAmount > totalPrice {
		return fault.New(fault.Validation, "deposit amount cannot exceed total price")
	}
	return nil
}
