package booking

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	timeslotRepo "velora/database/repository/timeslot"
	"velora/models"
	"velora/services/fault"
)

// fakeTimeSlotRepo is an in-memory TimeSlotRepository.
type fakeTimeSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.TimeSlot
}

func newFakeTimeSlotRepo(seed ...*models.TimeSlot) *fakeTimeSlotRepo {
	repo := &fakeTimeSlotRepo{slots: make(map[string]*models.TimeSlot)}
	for _, s := range seed {
		clone := *s
		repo.slots[s.ID] = &clone
	}
	return repo
}

func (r *fakeTimeSlotRepo) Create(ctx context.Context, slot *models.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *slot
	r.slots[slot.ID] = &clone
	return nil
}

func (r *fakeTimeSlotRepo) Update(ctx context.Context, slot *models.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[slot.ID]; !ok {
		return timeslotRepo.ErrNotFound
	}
	clone := *slot
	r.slots[slot.ID] = &clone
	return nil
}

func (r *fakeTimeSlotRepo) Delete(ctx context.Context, slotID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[slotID]; !ok {
		return timeslotRepo.ErrNotFound
	}
	delete(r.slots, slotID)
	return nil
}

func (r *fakeTimeSlotRepo) GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return nil, timeslotRepo.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *fakeTimeSlotRepo) ListByProvider(ctx context.Context, providerID string) ([]models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TimeSlot
	for _, s := range r.slots {
		if s.ProviderID == providerID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *fakeTimeSlotRepo) ListByProviderDay(ctx context.Context, providerID string, dayOfWeek int) ([]models.TimeSlot, error) {
	all, _ := r.ListByProvider(ctx, providerID)
	var out []models.TimeSlot
	for _, s := range all {
		if s.DayOfWeek == dayOfWeek && s.IsAvailable {
			out = append(out, s)
		}
	}
	return out, nil
}

func testPlanner(bookings *fakeBookingRepo, blocked *fakeBlockedRepo, slots *fakeTimeSlotRepo) *SlotPlanner {
	return &SlotPlanner{TimeSlots: slots, Blocked: blocked, Bookings: bookings}
}

func TestSlotPlannerProjection(t *testing.T) {
	// 2026-09-10 is a Thursday (weekday 4).
	slots := newFakeTimeSlotRepo(
		&models.TimeSlot{ID: "ts-1", ProviderID: testProviderID, DayOfWeek: 4, StartTime: "18:00", EndTime: "20:00", IsAvailable: true},
		&models.TimeSlot{ID: "ts-2", ProviderID: testProviderID, DayOfWeek: 4, StartTime: "09:00", EndTime: "11:00", IsAvailable: true},
		&models.TimeSlot{ID: "ts-3", ProviderID: testProviderID, DayOfWeek: 5, StartTime: "14:00", EndTime: "16:00", IsAvailable: true},
		&models.TimeSlot{ID: "ts-4", ProviderID: testProviderID, DayOfWeek: 4, StartTime: "12:00", EndTime: "13:00", IsAvailable: false},
	)
	planner := testPlanner(newFakeBookingRepo(), newFakeBlockedRepo(), slots)

	out, err := planner.Plan(context.Background(), testProviderID, "2026-09-10", "2026-09-11")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	want := []models.Slot{
		{Date: "2026-09-10", StartTime: "09:00", EndTime: "11:00", Available: true},
		{Date: "2026-09-10", StartTime: "18:00", EndTime: "20:00", Available: true},
		{Date: "2026-09-11", StartTime: "14:00", EndTime: "16:00", Available: true},
	}
	if len(out) != len(want) {
		t.Fatalf("Plan() returned %d slots, want %d: %v", len(out), len(want), out)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("slot[%d] = %+v, want %+v", i, out[i], want[i])
		}
	}
}

func TestSlotPlannerMarksBookedWindows(t *testing.T) {
	slots := newFakeTimeSlotRepo(
		&models.TimeSlot{ID: "ts-1", ProviderID: testProviderID, DayOfWeek: 4, StartTime: "18:00", EndTime: "20:00", IsAvailable: true},
		&models.TimeSlot{ID: "ts-2", ProviderID: testProviderID, DayOfWeek: 4, StartTime: "09:00", EndTime: "11:00", IsAvailable: true},
	)
	booked := &models.Booking{
		ID:          "bk-1",
		ProviderID:  testProviderID,
		CustomerID:  testCustomerID,
		BookingDate: time.Date(2026, 9, 10, 19, 0, 0, 0, time.UTC),
		Duration:    1,
		Status:      models.BookingConfirmed,
	}
	planner := testPlanner(newFakeBookingRepo(booked), newFakeBlockedRepo(), slots)

	out, err := planner.Plan(context.Background(), testProviderID, "2026-09-10", "2026-09-10")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Plan() returned %d slots, want 2", len(out))
	}
	if !out[0].Available {
		t.Errorf("morning window should stay available: %+v", out[0])
	}
	if out[1].Available {
		t.Errorf("evening window should be marked taken: %+v", out[1])
	}
}

func TestSlotPlannerSkipsBlockedDays(t *testing.T) {
	slots := newFakeTimeSlotRepo(
		&models.TimeSlot{ID: "ts-1", ProviderID: testProviderID, DayOfWeek: 4, StartTime: "18:00", EndTime: "20:00", IsAvailable: true},
		&models.TimeSlot{ID: "ts-2", ProviderID: testProviderID, DayOfWeek: 5, StartTime: "18:00", EndTime: "20:00", IsAvailable: true},
	)
	blocked := newFakeBlockedRepo(&models.BlockedDate{
		ID: "bd-1", ProviderID: testProviderID, Date: "2026-09-10",
	})
	planner := testPlanner(newFakeBookingRepo(), blocked, slots)

	out, err := planner.Plan(context.Background(), testProviderID, "2026-09-10", "2026-09-11")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if len(out) != 1 || out[0].Date != "2026-09-11" {
		t.Errorf("Plan() = %v, want only the Friday slot", out)
	}
}

func TestSlotPlannerValidation(t *testing.T) {
	planner := testPlanner(newFakeBookingRepo(), newFakeBlockedRepo(), newFakeTimeSlotRepo())

	if _, err := planner.Plan(context.Background(), testProviderID, "10/09/2026", "2026-09-11"); !fault.Is(err, fault.Validation) {
		t.Errorf("bad startDate error = %v, want validation", err)
	}
	if _, err := planner.Plan(context.Background(), testProviderID, "2026-09-11", "2026-09-10"); !fault.Is(err, fault.Validation) {
		t.Errorf("inverted range error = %v, want validation", err)
	}
}
