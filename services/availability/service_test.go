package availability

import (
	"context"
	"testing"
	"time"

	blockedRepo "velora/database/repository/blocked"
	bookingRepo "velora/database/repository/booking"
	timeslotRepo "velora/database/repository/timeslot"
	"velora/models"
	booking "velora/services/booking"
	"velora/services/fault"
)

const testProviderID = "prov-1"

// memSlots is a minimal in-memory TimeSlotRepository.
type memSlots struct {
	slots map[string]*models.TimeSlot
}

func newMemSlots(seed ...*models.TimeSlot) *memSlots {
	m := &memSlots{slots: make(map[string]*models.TimeSlot)}
	for _, s := range seed {
		clone := *s
		m.slots[s.ID] = &clone
	}
	return m
}

func (m *memSlots) Create(ctx context.Context, slot *models.TimeSlot) error {
	clone := *slot
	m.slots[slot.ID] = &clone
	return nil
}

func (m *memSlots) Update(ctx context.Context, slot *models.TimeSlot) error {
	if _, ok := m.slots[slot.ID]; !ok {
		return timeslotRepo.ErrNotFound
	}
	clone := *slot
	m.slots[slot.ID] = &clone
	return nil
}

func (m *memSlots) Delete(ctx context.Context, slotID string) error {
	if _, ok := m.slots[slotID]; !ok {
		return timeslotRepo.ErrNotFound
	}
	delete(m.slots, slotID)
	return nil
}

func (m *memSlots) GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	s, ok := m.slots[slotID]
	if !ok {
		return nil, timeslotRepo.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (m *memSlots) ListByProvider(ctx context.Context, providerID string) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, s := range m.slots {
		if s.ProviderID == providerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSlots) ListByProviderDay(ctx context.Context, providerID string, dayOfWeek int) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, s := range m.slots {
		if s.ProviderID == providerID && s.DayOfWeek == dayOfWeek && s.IsAvailable {
			out = append(out, *s)
		}
	}
	return out, nil
}

// memBlocked is a minimal in-memory BlockedDateRepository.
type memBlocked struct {
	blocked map[string]*models.BlockedDate
}

func newMemBlocked(seed ...*models.BlockedDate) *memBlocked {
	m := &memBlocked{blocked: make(map[string]*models.BlockedDate)}
	for _, b := range seed {
		clone := *b
		m.blocked[b.ID] = &clone
	}
	return m
}

func (m *memBlocked) Create(ctx context.Context, blocked *models.BlockedDate) error {
	for _, b := range m.blocked {
		if b.ProviderID == blocked.ProviderID && b.Date == blocked.Date {
			return blockedRepo.ErrDuplicate
		}
	}
	clone := *blocked
	m.blocked[blocked.ID] = &clone
	return nil
}

func (m *memBlocked) Delete(ctx context.Context, blockedID string) error {
	if _, ok := m.blocked[blockedID]; !ok {
		return blockedRepo.ErrNotFound
	}
	delete(m.blocked, blockedID)
	return nil
}

func (m *memBlocked) GetByID(ctx context.Context, blockedID string) (*models.BlockedDate, error) {
	b, ok := m.blocked[blockedID]
	if !ok {
		return nil, blockedRepo.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (m *memBlocked) ListByProvider(ctx context.Context, providerID string) ([]models.BlockedDate, error) {
	var out []models.BlockedDate
	for _, b := range m.blocked {
		if b.ProviderID == providerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBlocked) ListInRange(ctx context.Context, providerID, fromDate, toDate string) ([]models.BlockedDate, error) {
	var out []models.BlockedDate
	for _, b := range m.blocked {
		if b.ProviderID == providerID && b.Date >= fromDate && b.Date <= toDate {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBlocked) ExistsOnDate(ctx context.Context, providerID, date string) (bool, error) {
	for _, b := range m.blocked {
		if b.ProviderID == providerID && b.Date == date {
			return true, nil
		}
	}
	return false, nil
}

// memBookings satisfies only the reads the conflict detector performs.
type memBookings struct {
	bookingRepo.BookingRepository
	active []models.Booking
}

func (m *memBookings) FindActiveInRange(ctx context.Context, providerID string, from, to time.Time, excludeID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.active {
		if b.ProviderID == providerID && b.Status.Active() {
			out = append(out, b)
		}
	}
	return out, nil
}

func newTestService(slots *memSlots, blocked *memBlocked, active ...models.Booking) AvailabilityService {
	detector := &booking.ConflictDetector{
		Bookings: &memBookings{active: active},
		Blocked:  blocked,
	}
	return NewDefaultAvailabilityService(slots, blocked, detector)
}

func TestCreateTimeSlot(t *testing.T) {
	slots := newMemSlots()
	svc := newTestService(slots, newMemBlocked())

	slot, err := svc.CreateTimeSlot(context.Background(), testProviderID, TimeSlotRequest{
		DayOfWeek: 4, StartTime: "18:00", EndTime: "20:00",
	})
	if err != nil {
		t.Fatalf("CreateTimeSlot() error: %v", err)
	}
	if !slot.IsAvailable {
		t.Error("new slots default to available")
	}
	if slot.ProviderID != testProviderID {
		t.Errorf("ProviderID = %s, want %s", slot.ProviderID, testProviderID)
	}
}

func TestCreateTimeSlotValidation(t *testing.T) {
	svc := newTestService(newMemSlots(), newMemBlocked())

	tests := []struct {
		name string
		req  TimeSlotRequest
	}{
		{"bad day", TimeSlotRequest{DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00"}},
		{"bad start", TimeSlotRequest{DayOfWeek: 1, StartTime: "9am", EndTime: "10:00"}},
		{"bad end", TimeSlotRequest{DayOfWeek: 1, StartTime: "09:00", EndTime: "25:00"}},
		{"inverted", TimeSlotRequest{DayOfWeek: 1, StartTime: "10:00", EndTime: "09:00"}},
		{"empty window", TimeSlotRequest{DayOfWeek: 1, StartTime: "10:00", EndTime: "10:00"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateTimeSlot(context.Background(), testProviderID, tc.req); !fault.Is(err, fault.Validation) {
				t.Errorf("error = %v, want validation", err)
			}
		})
	}
}

func TestCreateTimeSlotOverlap(t *testing.T) {
	existing := &models.TimeSlot{
		ID: "ts-1", ProviderID: testProviderID, DayOfWeek: 4,
		StartTime: "18:00", EndTime: "20:00", IsAvailable: true,
	}
	svc := newTestService(newMemSlots(existing), newMemBlocked())

	_, err := svc.CreateTimeSlot(context.Background(), testProviderID, TimeSlotRequest{
		DayOfWeek: 4, StartTime: "19:00", EndTime: "21:00",
	})
	if !fault.Is(err, fault.Conflict) {
		t.Errorf("overlapping window error = %v, want conflict", err)
	}

	// Adjacent windows are fine.
	if _, err := svc.CreateTimeSlot(context.Background(), testProviderID, TimeSlotRequest{
		DayOfWeek: 4, StartTime: "20:00", EndTime: "22:00",
	}); err != nil {
		t.Errorf("adjacent window error = %v, want success", err)
	}

	// Same clock range on another weekday is fine.
	if _, err := svc.CreateTimeSlot(context.Background(), testProviderID, TimeSlotRequest{
		DayOfWeek: 5, StartTime: "18:00", EndTime: "20:00",
	}); err != nil {
		t.Errorf("other weekday error = %v, want success", err)
	}
}

func TestUpdateTimeSlotOwnership(t *testing.T) {
	existing := &models.TimeSlot{
		ID: "ts-1", ProviderID: testProviderID, DayOfWeek: 4,
		StartTime: "18:00", EndTime: "20:00", IsAvailable: true,
	}
	svc := newTestService(newMemSlots(existing), newMemBlocked())

	_, err := svc.UpdateTimeSlot(context.Background(), "ts-1", "other-provider", TimeSlotRequest{
		DayOfWeek: 4, StartTime: "18:00", EndTime: "21:00",
	})
	if !fault.Is(err, fault.Forbidden) {
		t.Errorf("error = %v, want forbidden", err)
	}

	// The slot may be resized without conflicting with itself.
	updated, err := svc.UpdateTimeSlot(context.Background(), "ts-1", testProviderID, TimeSlotRequest{
		DayOfWeek: 4, StartTime: "18:00", EndTime: "21:00",
	})
	if err != nil {
		t.Fatalf("UpdateTimeSlot() error: %v", err)
	}
	if updated.EndTime != "21:00" {
		t.Errorf("EndTime = %s, want 21:00", updated.EndTime)
	}
}

func TestBlockDate(t *testing.T) {
	t.Run("clean day", func(t *testing.T) {
		blocked := newMemBlocked()
		svc := newTestService(newMemSlots(), blocked)

		b, err := svc.BlockDate(context.Background(), testProviderID, BlockDateRequest{Date: "2026-09-10", Reason: "holiday"})
		if err != nil {
			t.Fatalf("BlockDate() error: %v", err)
		}
		if b.Date != "2026-09-10" || b.Reason != "holiday" {
			t.Errorf("blocked = %+v", b)
		}
	})

	t.Run("day with active booking", func(t *testing.T) {
		active := models.Booking{
			ID: "bk-1", ProviderID: testProviderID,
			BookingDate: time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC),
			Duration:    2, Status: models.BookingConfirmed,
		}
		svc := newTestService(newMemSlots(), newMemBlocked(), active)

		_, err := svc.BlockDate(context.Background(), testProviderID, BlockDateRequest{Date: "2026-09-10"})
		if !fault.Is(err, fault.Conflict) {
			t.Errorf("error = %v, want conflict", err)
		}
	})

	t.Run("duplicate date", func(t *testing.T) {
		blocked := newMemBlocked(&models.BlockedDate{ID: "bd-1", ProviderID: testProviderID, Date: "2026-09-10"})
		svc := newTestService(newMemSlots(), blocked)

		_, err := svc.BlockDate(context.Background(), testProviderID, BlockDateRequest{Date: "2026-09-10"})
		if !fault.Is(err, fault.Conflict) {
			t.Errorf("error = %v, want conflict", err)
		}
	})

	t.Run("bad date format", func(t *testing.T) {
		svc := newTestService(newMemSlots(), newMemBlocked())
		_, err := svc.BlockDate(context.Background(), testProviderID, BlockDateRequest{Date: "10/09/2026"})
		if !fault.Is(err, fault.Validation) {
			t.Errorf("error = %v, want validation", err)
		}
	})
}

func TestUnblockDate(t *testing.T) {
	blocked := newMemBlocked(&models.BlockedDate{ID: "bd-1", ProviderID: testProviderID, Date: "2026-09-10"})
	svc := newTestService(newMemSlots(), blocked)

	if err := svc.UnblockDate(context.Background(), "bd-1", "other-provider"); !fault.Is(err, fault.Forbidden) {
		t.Errorf("error = %v, want forbidden", err)
	}
	if err := svc.UnblockDate(context.Background(), "bd-1", testProviderID); err != nil {
		t.Errorf("UnblockDate() error: %v", err)
	}
	if err := svc.UnblockDate(context.Background(), "bd-1", testProviderID); !fault.Is(err, fault.NotFound) {
		t.Errorf("second delete error = %v, want not found", err)
	}
}
