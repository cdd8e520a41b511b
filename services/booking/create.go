package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "velora/database/repository/booking"
	"velora/models"
	"velora/services/fault"
	"velora/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Create validates the request, checks the interval against the provider's
// blocked dates and active bookings, and persists the booking in PENDING
// together with its first history row.
//
// The conflict check and the insert run under the provider's advisory lock:
// an unguarded check-then-insert lets two concurrent requests both pass the
// check before either commits.
func (s *DefaultBookingService) Create(ctx context.Context, customerID string, req CreateBookingRequest) (*models.Booking, error) {
	logger := utils.GetLogger()

	if err := validateBookingFields(req.BookingDate, req.Duration, req.TotalPrice, req.DepositAmount); err != nil {
		return nil, err
	}

	provider, err := s.ProviderRepo.GetByID(ctx, req.ProviderID)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, "provider not found", err)
	}
	if !provider.IsActive {
		return nil, fault.New(fault.InvalidState, "provider is not active")
	}

	if req.ServicePackageID != "" {
		if pkg := findPackage(provider.ServicePackages, req.ServicePackageID); pkg == nil {
			return nil, fault.New(fault.NotFound, "service package not found or inactive")
		}
	}

	unlock, err := s.lockProvider(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	iv := models.NewInterval(req.BookingDate.UTC(), time.Duration(req.Duration)*time.Hour)
	conflict, err := s.Detector.HasConflict(ctx, req.ProviderID, iv, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, fault.New(fault.Conflict, "time slot is blocked or already booked")
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:               uuid.New().String(),
		ProviderID:       req.ProviderID,
		CustomerID:       customerID,
		ServicePackageID: req.ServicePackageID,
		ServiceType:      req.ServiceType,
		BookingDate:      req.BookingDate.UTC(),
		Duration:         req.Duration,
		TotalPrice:       req.TotalPrice,
		DepositAmount:    req.DepositAmount,
		Status:           models.BookingPending,
		PaymentStatus:    models.PaymentPending,
		Location:         req.Location,
		SpecialRequests:  req.SpecialRequests,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = s.Repo.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Repo.Insert(ctx, booking); err != nil {
			return err
		}
		return s.Repo.AppendHistory(ctx, &models.BookingHistory{
			ID:        uuid.New().String(),
			BookingID: booking.ID,
			Status:    models.BookingPending,
			ChangedBy: customerID,
			Notes:     "Booking created",
			CreatedAt: now,
		})
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrDuplicate) {
			return nil, fault.Wrap(fault.Conflict, "booking already exists", err)
		}
		return nil, err
	}

	if notifyErr := s.Notification.NotifyBookingCreated(ctx, booking); notifyErr != nil {
		logger.Warn("failed to send booking created notification",
			zap.String("bookingID", booking.ID), zap.Error(notifyErr))
	}

	return booking, nil
}

// Update lets the owning customer amend a PENDING booking. A changed
// interval is re-validated against the same conflict rules as Create,
// excluding the booking itself.
func (s *DefaultBookingService) Update(ctx context.Context, bookingID, customerID string, req UpdateBookingRequest) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, fault.New(fault.Forbidden, "you can only update your own bookings")
	}
	if booking.Status != models.BookingPending {
		return nil, fault.New(fault.InvalidState, "can only update pending bookings")
	}

	intervalChanged := applyPatch(booking, req)
	if err := validateBookingFields(booking.BookingDate, booking.Duration, booking.TotalPrice, booking.DepositAmount); err != nil {
		return nil, err
	}
	if booking.ServicePackageID != "" && req.ServicePackageID != nil {
		provider, err := s.ProviderRepo.GetByID(ctx, booking.ProviderID)
		if err != nil {
			return nil, fault.Wrap(fault.NotFound, "provider not found", err)
		}
		if pkg := findPackage(provider.ServicePackages, booking.ServicePackageID); pkg == nil {
			return nil, fault.New(fault.NotFound, "service package not found or inactive")
		}
	}

	if intervalChanged {
		unlock, err := s.lockProvider(ctx, booking.ProviderID)
		if err != nil {
			return nil, err
		}
		defer unlock()

		conflict, err := s.Detector.HasConflict(ctx, booking.ProviderID, booking.Interval(), booking.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, fault.New(fault.Conflict, "time slot is blocked or already booked")
		}
	}

	ok, err := s.Repo.UpdateFields(ctx, booking)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The booking left PENDING between our read and the write.
		return nil, fault.New(fault.InvalidState, "can only update pending bookings")
	}
	return booking, nil
}

func applyPatch(b *models.Booking, req UpdateBookingRequest) (intervalChanged bool) {
	if req.BookingDate != nil && !req.BookingDate.UTC().Equal(b.BookingDate) {
		b.BookingDate = req.BookingDate.UTC()
		intervalChanged = true
	}
	if req.Duration != nil && *req.Duration != b.Duration {
		b.Duration = *req.Duration
		intervalChanged = true
	}
	if req.ServicePackageID != nil {
		b.ServicePackageID = *req.ServicePackageID
	}
	if req.ServiceType != nil {
		b.ServiceType = *req.ServiceType
	}
	if req.TotalPrice != nil {
		b.TotalPrice = *req.TotalPrice
	}
	if req.DepositAmount != nil {
		b.DepositAmount = *req.DepositAmount
	}
	if req.Location != nil {
		b.Location = *req.Location
	}
	if req.SpecialRequests != nil {
		b.SpecialRequests = *req.SpecialRequests
	}
	return intervalChanged
}

func findPackage(packages []models.ServicePackage, id string) *models.ServicePackage {
	for i := range packages {
		if packages[i].ID == id && packages[i].IsActive {
			return &packages[i]
		}
	}
	return nil
}

// lockProvider takes the per-provider advisory lock, or no-ops when no lock
// client is configured.
func (s *DefaultBookingService) lockProvider(ctx context.Context, providerID string) (func(), error) {
	if s.Locks == nil {
		return func() {}, nil
	}
	lockCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	lock, err := utils.AcquireProviderLock(lockCtx, s.Locks, providerID)
	if err != nil {
		cancel()
		return nil, fault.Wrap(fault.Conflict, "provider schedule is busy, retry shortly", err)
	}
	return func() {
		if err := lock.Release(ctx); err != nil {
			utils.GetLogger().Warn("failed to release provider lock",
				zap.String("providerID", providerID), zap.Error(err))
		}
		cancel()
	}, nil
}
