// File: services/availability/service.go
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	blockedRepo "velora/database/repository/blocked"
	timeslotRepo "velora/database/repository/timeslot"
	"velora/models"
	booking "velora/services/booking"
	"velora/services/fault"

	"github.com/google/uuid"
)

// TimeSlotRequest carries a weekly window submission.
type TimeSlotRequest struct {
	DayOfWeek   int    `json:"dayOfWeek" binding:"min=0,max=6"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	IsAvailable *bool  `json:"isAvailable"`
}

// BlockDateRequest marks one calendar day as unavailable.
type BlockDateRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason"`
}

// AvailabilityService manages a provider's recurring weekly windows and
// full-day blocks.
type AvailabilityService interface {
	CreateTimeSlot(ctx context.Context, providerID string, req TimeSlotRequest) (*models.TimeSlot, error)
	UpdateTimeSlot(ctx context.Context, slotID, providerID string, req TimeSlotRequest) (*models.TimeSlot, error)
	DeleteTimeSlot(ctx context.Context, slotID, providerID string) error
	ListTimeSlots(ctx context.Context, providerID string) ([]models.TimeSlot, error)

	BlockDate(ctx context.Context, providerID string, req BlockDateRequest) (*models.BlockedDate, error)
	UnblockDate(ctx context.Context, blockedID, providerID string) error
	ListBlockedDates(ctx context.Context, providerID string) ([]models.BlockedDate, error)
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	TimeSlots timeslotRepo.TimeSlotRepository
	Blocked   blockedRepo.BlockedDateRepository
	Detector  *booking.ConflictDetector
}

func NewDefaultAvailabilityService(timeSlots timeslotRepo.TimeSlotRepository, blocked blockedRepo.BlockedDateRepository, detector *booking.ConflictDetector) AvailabilityService {
	return &DefaultAvailabilityService{TimeSlots: timeSlots, Blocked: blocked, Detector: detector}
}

// CreateTimeSlot adds a weekly window after checking it does not overlap the
// provider's existing available windows on the same day.
func (s *DefaultAvailabilityService) CreateTimeSlot(ctx context.Context, providerID string, req TimeSlotRequest) (*models.TimeSlot, error) {
	mr, err := validateWindow(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkWindowOverlap(ctx, providerID, req.DayOfWeek, mr, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	slot := &models.TimeSlot{
		ID:          uuid.New().String(),
		ProviderID:  providerID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.TimeSlots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to create time slot: %w", err)
	}
	return slot, nil
}

// UpdateTimeSlot rewrites an existing window. The owning provider only; the
// overlap check excludes the slot itself.
func (s *DefaultAvailabilityService) UpdateTimeSlot(ctx context.Context, slotID, providerID string, req TimeSlotRequest) (*models.TimeSlot, error) {
	slot, err := s.getOwnedSlot(ctx, slotID, providerID)
	if err != nil {
		return nil, err
	}

	mr, err := validateWindow(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkWindowOverlap(ctx, providerID, req.DayOfWeek, mr, slotID); err != nil {
		return nil, err
	}

	slot.DayOfWeek = req.DayOfWeek
	slot.StartTime = req.StartTime
	slot.EndTime = req.EndTime
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}
	slot.UpdatedAt = time.Now().UTC()

	if err := s.TimeSlots.Update(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to update time slot: %w", err)
	}
	return slot, nil
}

func (s *DefaultAvailabilityService) DeleteTimeSlot(ctx context.Context, slotID, providerID string) error {
	if _, err := s.getOwnedSlot(ctx, slotID, providerID); err != nil {
		return err
	}
	if err := s.TimeSlots.Delete(ctx, slotID); err != nil {
		return fmt.Errorf("failed to delete time slot: %w", err)
	}
	return nil
}

func (s *DefaultAvailabilityService) ListTimeSlots(ctx context.Context, providerID string) ([]models.TimeSlot, error) {
	return s.TimeSlots.ListByProvider(ctx, providerID)
}

// BlockDate inserts a full-day block. The day must not carry active
// bookings; the unique (provider, date) index turns a concurrent duplicate
// into a conflict rather than a second row.
func (s *DefaultAvailabilityService) BlockDate(ctx context.Context, providerID string, req BlockDateRequest) (*models.BlockedDate, error) {
	day, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, fault.New(fault.Validation, "date must be YYYY-MM-DD")
	}

	active, err := s.Detector.ActiveBookingsOnDate(ctx, providerID, day)
	if err != nil {
		return nil, err
	}
	if len(active) > 0 {
		return nil, fault.Newf(fault.Conflict, "cannot block %s: %d active booking(s) on that day", req.Date, len(active))
	}

	blocked := &models.BlockedDate{
		ID:         uuid.New().String(),
		ProviderID: providerID,
		Date:       req.Date,
		Reason:     req.Reason,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Blocked.Create(ctx, blocked); err != nil {
		if errors.Is(err, blockedRepo.ErrDuplicate) {
			return nil, fault.Newf(fault.Conflict, "%s is already blocked", req.Date)
		}
		return nil, fmt.Errorf("failed to block date: %w", err)
	}
	return blocked, nil
}

func (s *DefaultAvailabilityService) UnblockDate(ctx context.Context, blockedID, providerID string) error {
	blocked, err := s.Blocked.GetByID(ctx, blockedID)
	if err != nil {
		return fault.Wrap(fault.NotFound, "blocked date not found", err)
	}
	if blocked.ProviderID != providerID {
		return fault.New(fault.Forbidden, "you can only unblock your own dates")
	}
	if err := s.Blocked.Delete(ctx, blockedID); err != nil {
		return fmt.Errorf("failed to unblock date: %w", err)
	}
	return nil
}

func (s *DefaultAvailabilityService) ListBlockedDates(ctx context.Context, providerID string) ([]models.BlockedDate, error) {
	return s.Blocked.ListByProvider(ctx, providerID)
}

func (s *DefaultAvailabilityService) getOwnedSlot(ctx context.Context, slotID, providerID string) (*models.TimeSlot, error) {
	slot, err := s.TimeSlots.GetByID(ctx, slotID)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, "time slot not found", err)
	}
	if slot.ProviderID != providerID {
		return nil, fault.New(fault.Forbidden, "you can only manage your own time slots")
	}
	return slot, nil
}

// checkWindowOverlap rejects a window that intersects another available
// window on the same weekday.
func (s *DefaultAvailabilityService) checkWindowOverlap(ctx context.Context, providerID string, dayOfWeek int, mr models.MinuteRange, excludeSlotID string) error {
	existing, err := s.TimeSlots.ListByProviderDay(ctx, providerID, dayOfWeek)
	if err != nil {
		return fmt.Errorf("time slot lookup failed: %w", err)
	}
	for _, other := range existing {
		if other.ID == excludeSlotID {
			continue
		}
		omr, err := other.Minutes()
		if err != nil {
			return fmt.Errorf("malformed time slot %s: %w", other.ID, err)
		}
		if mr.Overlaps(omr) {
			return fault.Newf(fault.Conflict, "window overlaps existing slot %s-%s", other.StartTime, other.EndTime)
		}
	}
	return nil
}

func validateWindow(req TimeSlotRequest) (models.MinuteRange, error) {
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return models.MinuteRange{}, fault.New(fault.Validation, "dayOfWeek must be between 0 (Sunday) and 6 (Saturday)")
	}
	start, err := models.ParseClock(req.StartTime)
	if err != nil {
		return models.MinuteRange{}, fault.New(fault.Validation, "startTime must be HH:MM")
	}
	end, err := models.ParseClock(req.EndTime)
	if err != nil {
		return models.MinuteRange{}, fault.New(fault.Validation, "endTime must be HH:MM")
	}
	if end <= start {
		return models.MinuteRange{}, fault.New(fault.Validation, "endTime must be after startTime")
	}
	return models.MinuteRange{Start: start, End: end}, nil
}
