// File: services/booking/slots.go
package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	blockedRepo "velora/database/repository/blocked"
	bookingRepo "velora/database/repository/booking"
	timeslotRepo "velora/database/repository/timeslot"
	"velora/models"
	"velora/services/fault"
)

const dateLayout = "2006-01-02"

// SlotPlanner projects a provider's weekly windows onto a concrete date
// range and marks each window available or taken.
type SlotPlanner struct {
	TimeSlots timeslotRepo.TimeSlotRepository
	Blocked   blockedRepo.BlockedDateRepository
	Bookings  bookingRepo.BookingRepository
}

// Plan enumerates the provider's bookable windows for every day in
// [startDate, endDate]. A fully blocked day yields no slots at all; a window
// overlapping an active booking is emitted with Available=false so clients
// can render it as taken.
func (p *SlotPlanner) Plan(ctx context.Context, providerID, startDate, endDate string) ([]models.Slot, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return nil, fault.New(fault.Validation, "startDate must be YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return nil, fault.New(fault.Validation, "endDate must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, fault.New(fault.Validation, "endDate must not be before startDate")
	}

	blockedDates, err := p.Blocked.ListInRange(ctx, providerID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("blocked date lookup failed: %w", err)
	}
	blockedSet := make(map[string]bool, len(blockedDates))
	for _, b := range blockedDates {
		blockedSet[b.Date] = true
	}

	windows, err := p.TimeSlots.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("time slot lookup failed: %w", err)
	}
	byDay := make(map[int][]models.TimeSlot)
	for _, w := range windows {
		if w.IsAvailable {
			byDay[w.DayOfWeek] = append(byDay[w.DayOfWeek], w)
		}
	}
	for day := range byDay {
		slots := byDay[day]
		sort.SliceStable(slots, func(i, j int) bool {
			return slots[i].StartTime < slots[j].StartTime
		})
	}

	// One range query covers every day in the plan.
	active, err := p.Bookings.FindActiveInRange(ctx, providerID, start, end.AddDate(0, 0, 1), "")
	if err != nil {
		return nil, fmt.Errorf("active booking lookup failed: %w", err)
	}

	var out []models.Slot
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dateKey := day.Format(dateLayout)
		if blockedSet[dateKey] {
			continue
		}
		for _, w := range byDay[int(day.Weekday())] {
			mr, err := w.Minutes()
			if err != nil {
				return nil, fmt.Errorf("malformed time slot %s: %w", w.ID, err)
			}
			iv := mr.OnDate(day)
			out = append(out, models.Slot{
				Date:      dateKey,
				StartTime: w.StartTime,
				EndTime:   w.EndTime,
				Available: !overlapsAny(active, iv),
			})
		}
	}
	return out, nil
}

// ListAvailableSlots exposes the planner through the booking service.
func (s *DefaultBookingService) ListAvailableSlots(ctx context.Context, providerID, startDate, endDate string) ([]models.Slot, error) {
	return s.Planner.Plan(ctx, providerID, startDate, endDate)
}

// Get assembles a booking with its history and payments.
func (s *DefaultBookingService) Get(ctx context.Context, bookingID string) (*models.BookingDetail, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	history, err := s.Repo.ListHistory(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("history lookup failed: %w", err)
	}
	detail := &models.BookingDetail{
		Booking: *booking,
		History: history,
	}
	if s.Payments != nil {
		payments, err := s.Payments.List(ctx, bookingID, "")
		if err != nil {
			return nil, fmt.Errorf("payment lookup failed: %w", err)
		}
		detail.Payments = payments
	}
	return detail, nil
}

// List returns bookings matching the filter, newest booking date first.
func (s *DefaultBookingService) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	return s.Repo.List(ctx, filter)
}
