package booking

import (
	"context"
	"fmt"
	"time"

	blockedRepo "velora/database/repository/blocked"
	bookingRepo "velora/database/repository/booking"
	"velora/models"
)

// ConflictDetector decides whether a candidate interval collides with a
// provider's blocked dates or active bookings.
type ConflictDetector struct {
	Bookings bookingRepo.BookingRepository
	Blocked  blockedRepo.BlockedDateRepository
}

// HasConflict reports whether iv collides with a blocked date or an active
// (PENDING/CONFIRMED) booking for the provider. excludeBookingID, when set,
// removes one booking from consideration so updates don't conflict with
// themselves.
//
// The blocked-date check covers every calendar day the interval touches,
// so a late booking running past midnight cannot slip into a block on the
// following day. Overlap uses the single symmetric half-open predicate;
// partial one-sided checks miss containment cases.
func (d *ConflictDetector) HasConflict(ctx context.Context, providerID string, iv models.Interval, excludeBookingID string) (bool, error) {
	for _, day := range iv.DateKeys() {
		blocked, err := d.Blocked.ExistsOnDate(ctx, providerID, day)
		if err != nil {
			return false, fmt.Errorf("blocked date lookup failed: %w", err)
		}
		if blocked {
			return true, nil
		}
	}

	active, err := d.Bookings.FindActiveInRange(ctx, providerID, iv.Start, iv.End, excludeBookingID)
	if err != nil {
		return false, fmt.Errorf("active booking lookup failed: %w", err)
	}
	return overlapsAny(active, iv), nil
}

// ActiveBookingsOnDate returns the provider's active bookings whose interval
// touches the given calendar day. The availability ledger uses this before
// inserting a full-day block.
func (d *ConflictDetector) ActiveBookingsOnDate(ctx context.Context, providerID string, date time.Time) ([]models.Booking, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayInterval := models.Interval{Start: day, End: day.AddDate(0, 0, 1)}

	active, err := d.Bookings.FindActiveInRange(ctx, providerID, dayInterval.Start, dayInterval.End, "")
	if err != nil {
		return nil, fmt.Errorf("active booking lookup failed: %w", err)
	}

	var touching []models.Booking
	for _, b := range active {
		if b.Interval().Overlaps(dayInterval) {
			touching = append(touching, b)
		}
	}
	return touching, nil
}

// overlapsAny applies the precise interval test to candidates that passed
// the coarse repository prefilter.
func overlapsAny(bookings []models.Booking, iv models.Interval) bool {
	for _, b := range bookings {
		if b.Interval().Overlaps(iv) {
			return true
		}
	}
	return false
}
