// File: services/payment/service.go
package payment

import (
	"context"
	"fmt"
	"time"

	bookingRepo "velora/database/repository/booking"
	paymentRepo "velora/database/repository/payment"
	"velora/models"
	"velora/services/fault"
	"velora/services/notification"
	"velora/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordPaymentRequest is a customer's payment submission against a booking.
type RecordPaymentRequest struct {
	BookingID string               `json:"bookingId" binding:"required"`
	Amount    float64              `json:"amount" binding:"required"`
	Method    models.PaymentMethod `json:"method" binding:"required"`
}

// RefundRequest reverses part or all of a completed payment.
type RefundRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Reason string  `json:"reason"`
}

// PaymentService records payments, settles gateway webhooks, issues refunds
// and keeps each booking's derived payment status consistent with the sum
// of its completed payments.
type PaymentService interface {
	Record(ctx context.Context, payerID string, req RecordPaymentRequest) (*models.Payment, error)
	// Settle resolves a pending gateway payment from a webhook event.
	Settle(ctx context.Context, transactionID string, succeeded bool) (*models.Payment, error)
	Refund(ctx context.Context, paymentID, providerID string, req RefundRequest) (*models.Payment, error)
	Get(ctx context.Context, paymentID string) (*models.Payment, error)
	ListByBooking(ctx context.Context, bookingID string) ([]models.Payment, error)
	TotalPaid(ctx context.Context, bookingID string) (float64, error)
}

// DefaultPaymentService is the production implementation.
type DefaultPaymentService struct {
	Payments     paymentRepo.PaymentRepository
	Bookings     bookingRepo.BookingRepository
	Gateway      Gateway
	Notification notification.NotificationService
}

func NewDefaultPaymentService(payments paymentRepo.PaymentRepository, bookings bookingRepo.BookingRepository, gateway Gateway, notifier notification.NotificationService) PaymentService {
	return &DefaultPaymentService{Payments: payments, Bookings: bookings, Gateway: gateway, Notification: notifier}
}

// Record accepts a payment from the booking's customer. Cash settles
// immediately; card and bank transfer open a gateway intent and settle via
// webhook. The payment row, its history and the booking's derived payment
// status are committed in one transaction.
func (s *DefaultPaymentService) Record(ctx context.Context, payerID string, req RecordPaymentRequest) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, fault.New(fault.Validation, "payment amount must be positive")
	}
	switch req.Method {
	case models.PayCash, models.PayCard, models.PayBankTransfer:
	default:
		return nil, fault.Newf(fault.Validation, "unsupported payment method: %s", req.Method)
	}

	booking, err := s.Bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, "booking not found", err)
	}
	if booking.CustomerID != payerID {
		return nil, fault.New(fault.Forbidden, "you can only pay for your own bookings")
	}
	if booking.Status != models.BookingConfirmed {
		return nil, fault.New(fault.InvalidState, "payments are only accepted for confirmed bookings")
	}

	paid, err := s.Payments.SumCompleted(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("payment total lookup failed: %w", err)
	}
	if req.Amount > booking.TotalPrice-paid {
		return nil, fault.Newf(fault.Conflict, "amount exceeds outstanding balance of %.0f", booking.TotalPrice-paid)
	}

	now := time.Now().UTC()
	pmt := &models.Payment{
		ID:        uuid.New().String(),
		BookingID: req.BookingID,
		PayerID:   payerID,
		Amount:    req.Amount,
		Method:    req.Method,
		Status:    models.PaymentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.Method == models.PayCash {
		// Cash is settled on the spot.
		pmt.Status = models.PaymentCompleted
		pmt.PaymentDate = &now
	} else {
		intentID, err := s.Gateway.CreateIntent(ctx, int64(req.Amount), booking.ID, pmt.ID)
		if err != nil {
			return nil, fault.Wrap(fault.Conflict, "payment gateway rejected the charge", err)
		}
		pmt.TransactionID = intentID
	}

	err = s.Payments.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Payments.Insert(ctx, pmt); err != nil {
			return err
		}
		if err := s.Payments.AppendHistory(ctx, &models.PaymentHistory{
			ID:        uuid.New().String(),
			PaymentID: pmt.ID,
			Status:    pmt.Status,
			Amount:    pmt.Amount,
			Notes:     fmt.Sprintf("Payment recorded via %s", pmt.Method),
			CreatedAt: now,
		}); err != nil {
			return err
		}
		if pmt.Status == models.PaymentCompleted {
			return s.syncBookingPaymentStatus(ctx, booking)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if pmt.Status == models.PaymentCompleted {
		s.notifyReceived(ctx, booking, pmt)
	}
	return pmt, nil
}

// Settle moves a gateway payment out of PENDING/PROCESSING when the webhook
// reports the outcome. The guard makes redelivered webhooks idempotent:
// a second delivery finds no matching status and is dropped.
func (s *DefaultPaymentService) Settle(ctx context.Context, transactionID string, succeeded bool) (*models.Payment, error) {
	pmt, err := s.Payments.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, "payment not found for transaction", err)
	}

	booking, err := s.Bookings.GetByID(ctx, pmt.BookingID)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, "booking not found", err)
	}

	now := time.Now().UTC()
	if succeeded {
		pmt.Status = models.PaymentCompleted
		pmt.PaymentDate = &now
	} else {
		pmt.Status = models.PaymentFailed
	}
	pmt.UpdatedAt = now

	var applied bool
	err = s.Payments.WithTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.Payments.UpdateGuarded(ctx, pmt, []models.PaymentStatus{models.PaymentPending, models.PaymentProcessing})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		applied = true
		if err := s.Payments.AppendHistory(ctx, &models.PaymentHistory{
			ID:        uuid.New().String(),
			PaymentID: pmt.ID,
			Status:    pmt.Status,
			Amount:    pmt.Amount,
			Notes:     "Gateway settlement",
			CreatedAt: now,
		}); err != nil {
			return err
		}
		if pmt.Status == models.PaymentCompleted {
			return s.syncBookingPaymentStatus(ctx, booking)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		return pmt, nil
	}

	if succeeded {
		s.notifyReceived(ctx, booking, pmt)
	} else if err := s.Notification.NotifyPaymentFailed(ctx, booking, pmt); err != nil {
		utils.GetLogger().Warn("failed to send payment failed notification",
			zap.String("paymentID", pmt.ID), zap.Error(err))
	}
	return pmt, nil
}

// Refund reverses a completed payment, fully or partially. The booking's
// payment status is not recomputed: refunds are recorded in the audit trail
// with a negative amount, not unwound from the lifecycle.
func (s *DefaultPaymentService) Refund(ctx context.Context, paymentID, providerID string, req RefundRequest) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, fault.New(fault.Validation, "refund amount must be positive")
	}

	pmt, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, "payment not found", err)
	}
	booking, err := s.Bookings.GetByID(ctx, pmt.BookingID)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, "booking not found", err)
	}
	if booking.ProviderID != providerID {
		return nil, fault.New(fault.Forbidden, "only the booked provider can issue refunds")
	}
	if pmt.Status != models.PaymentCompleted {
		return nil, fault.New(fault.InvalidState, "only completed payments can be refunded")
	}
	if req.Amount > pmt.Amount {
		return nil, fault.Newf(fault.Conflict, "refund exceeds payment amount of %.0f", pmt.Amount)
	}

	if pmt.TransactionID != "" {
		if err := s.Gateway.Refund(ctx, pmt.TransactionID, int64(req.Amount)); err != nil {
			return nil, fault.Wrap(fault.Conflict, "gateway refund failed", err)
		}
	}

	now := time.Now().UTC()
	pmt.Status = models.PaymentRefunded
	pmt.RefundAmount = req.Amount
	pmt.RefundReason = req.Reason
	pmt.UpdatedAt = now

	err = s.Payments.WithTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.Payments.UpdateGuarded(ctx, pmt, []models.PaymentStatus{models.PaymentCompleted})
		if err != nil {
			return err
		}
		if !ok {
			return fault.New(fault.InvalidState, "payment was modified concurrently")
		}
		return s.Payments.AppendHistory(ctx, &models.PaymentHistory{
			ID:        uuid.New().String(),
			PaymentID: pmt.ID,
			Status:    models.PaymentRefunded,
			Amount:    -req.Amount,
			Notes:     req.Reason,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return pmt, nil
}

func (s *DefaultPaymentService) Get(ctx context.Context, paymentID string) (*models.Payment, error) {
	pmt, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, "payment not found", err)
	}
	return pmt, nil
}

func (s *DefaultPaymentService) ListByBooking(ctx context.Context, bookingID string) ([]models.Payment, error) {
	return s.Payments.List(ctx, bookingID, "")
}

func (s *DefaultPaymentService) TotalPaid(ctx context.Context, bookingID string) (float64, error) {
	return s.Payments.SumCompleted(ctx, bookingID)
}

// syncBookingPaymentStatus recomputes the booking's aggregate payment state
// from the completed-payment total. Must run inside the same transaction as
// the payment write it reflects.
func (s *DefaultPaymentService) syncBookingPaymentStatus(ctx context.Context, booking *models.Booking) error {
	total, err := s.Payments.SumCompleted(ctx, booking.ID)
	if err != nil {
		return fmt.Errorf("payment total lookup failed: %w", err)
	}
	derived := models.DeriveBookingPaymentStatus(total, booking.TotalPrice, booking.DepositAmount)
	if derived == booking.PaymentStatus {
		return nil
	}
	if err := s.Bookings.SetPaymentStatus(ctx, booking.ID, derived); err != nil {
		return fmt.Errorf("failed to update booking payment status: %w", err)
	}
	booking.PaymentStatus = derived
	return nil
}

func (s *DefaultPaymentService) notifyReceived(ctx context.Context, booking *models.Booking, pmt *models.Payment) {
	if err := s.Notification.NotifyPaymentReceived(ctx, booking, pmt); err != nil {
		utils.GetLogger().Warn("failed to send payment received notification",
			zap.String("paymentID", pmt.ID), zap.Error(err))
	}
}
