package booking

import (
	"context"
	"testing"
	"time"

	"velora/models"
)

func TestConflictDetectorExcludesSelf(t *testing.T) {
	start := time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)
	existing := &models.Booking{
		ID:          "bk-1",
		ProviderID:  testProviderID,
		BookingDate: start,
		Duration:    2,
		Status:      models.BookingPending,
	}
	detector := &ConflictDetector{
		Bookings: newFakeBookingRepo(existing),
		Blocked:  newFakeBlockedRepo(),
	}

	iv := models.NewInterval(start, 2*time.Hour)
	conflict, err := detector.HasConflict(context.Background(), testProviderID, iv, "bk-1")
	if err != nil {
		t.Fatalf("HasConflict() error: %v", err)
	}
	if conflict {
		t.Error("a booking must not conflict with itself")
	}

	conflict, err = detector.HasConflict(context.Background(), testProviderID, iv, "")
	if err != nil {
		t.Fatalf("HasConflict() error: %v", err)
	}
	if !conflict {
		t.Error("expected conflict with the existing booking")
	}
}

func TestConflictDetectorBlockedNextDay(t *testing.T) {
	// 23:00 running four hours crosses into the following day; a block on
	// that day must still reject the interval.
	detector := &ConflictDetector{
		Bookings: newFakeBookingRepo(),
		Blocked: newFakeBlockedRepo(&models.BlockedDate{
			ID: "blk-1", ProviderID: testProviderID, Date: "2026-09-11",
		}),
	}

	late := time.Date(2026, 9, 10, 23, 0, 0, 0, time.UTC)
	conflict, err := detector.HasConflict(context.Background(), testProviderID, models.NewInterval(late, 4*time.Hour), "")
	if err != nil {
		t.Fatalf("HasConflict() error: %v", err)
	}
	if !conflict {
		t.Error("expected conflict with a block on the spill-over day")
	}

	// Ending exactly at midnight does not touch the blocked day.
	earlier := time.Date(2026, 9, 10, 16, 0, 0, 0, time.UTC)
	conflict, err = detector.HasConflict(context.Background(), testProviderID, models.NewInterval(earlier, 8*time.Hour), "")
	if err != nil {
		t.Fatalf("HasConflict() error: %v", err)
	}
	if conflict {
		t.Error("an interval ending at midnight must not hit the next day's block")
	}
}

func TestActiveBookingsOnDate(t *testing.T) {
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	bookings := newFakeBookingRepo(
		&models.Booking{ID: "bk-1", ProviderID: testProviderID, BookingDate: day.Add(18 * time.Hour), Duration: 2, Status: models.BookingConfirmed},
		&models.Booking{ID: "bk-2", ProviderID: testProviderID, BookingDate: day.Add(10 * time.Hour), Duration: 1, Status: models.BookingCancelled},
		&models.Booking{ID: "bk-3", ProviderID: testProviderID, BookingDate: day.Add(48 * time.Hour), Duration: 2, Status: models.BookingConfirmed},
		// Starts the previous evening and spills past midnight.
		&models.Booking{ID: "bk-4", ProviderID: testProviderID, BookingDate: day.Add(-2 * time.Hour), Duration: 4, Status: models.BookingPending},
	)
	detector := &ConflictDetector{Bookings: bookings, Blocked: newFakeBlockedRepo()}

	active, err := detector.ActiveBookingsOnDate(context.Background(), testProviderID, day)
	if err != nil {
		t.Fatalf("ActiveBookingsOnDate() error: %v", err)
	}

	got := make(map[string]bool, len(active))
	for _, b := range active {
		got[b.ID] = true
	}
	if !got["bk-1"] || !got["bk-4"] {
		t.Errorf("expected bk-1 and bk-4 to touch the day, got %v", got)
	}
	if got["bk-2"] || got["bk-3"] {
		t.Errorf("cancelled and out-of-range bookings must not appear, got %v", got)
	}
}
