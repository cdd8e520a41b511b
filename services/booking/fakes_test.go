package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	blockedRepo "velora/database/repository/blocked"
	bookingRepo "velora/database/repository/booking"
	"velora/models"
)

// fakeBookingRepo is an in-memory BookingRepository for service tests.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	history  []models.BookingHistory
}

func newFakeBookingRepo(seed ...*models.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
	for _, b := range seed {
		clone := *b
		repo.bookings[b.ID] = &clone
	}
	return repo
}

func (r *fakeBookingRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *booking
	r.bookings[booking.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if filter.ProviderID != "" && b.ProviderID != filter.ProviderID {
			continue
		}
		if filter.CustomerID != "" && b.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if !filter.From.IsZero() && b.BookingDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !b.BookingDate.Before(filter.To) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

func (r *fakeBookingRepo) FindActiveInRange(ctx context.Context, providerID string, from, to time.Time, excludeID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Mirror the production coarse prefilter: start instant within
	// [from - max duration, to).
	coarseFrom := from.Add(-8 * time.Hour)
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID != providerID || b.ID == excludeID {
			continue
		}
		if !b.Status.Active() {
			continue
		}
		if b.BookingDate.Before(coarseFrom) || !b.BookingDate.Before(to) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatusGuarded(ctx context.Context, bookingID string, expect []models.BookingStatus, update bookingRepo.StatusUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return false, nil
	}
	matched := false
	for _, st := range expect {
		if b.Status == st {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	b.Status = update.To
	if update.CancellationReason != "" {
		b.CancellationReason = update.CancellationReason
	}
	if update.CancelledAt != nil {
		b.CancelledAt = update.CancelledAt
	}
	b.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *fakeBookingRepo) UpdateFields(ctx context.Context, booking *models.Booking) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[booking.ID]
	if !ok || b.Status != models.BookingPending {
		return false, nil
	}
	// Only the customer-mutable fields, matching the production $set list.
	b.ServicePackageID = booking.ServicePackageID
	b.ServiceType = booking.ServiceType
	b.BookingDate = booking.BookingDate
	b.Duration = booking.Duration
	b.TotalPrice = booking.TotalPrice
	b.DepositAmount = booking.DepositAmount
	b.Location = booking.Location
	b.SpecialRequests = booking.SpecialRequests
	b.UpdatedAt = time.Now().UTC()
	return true, nil
}

// failingInsertRepo makes Insert return a fixed error.
type failingInsertRepo struct {
	*fakeBookingRepo
	err error
}

func (r *failingInsertRepo) Insert(ctx context.Context, booking *models.Booking) error {
	return r.err
}

// staleReadRepo serves a fixed snapshot from GetByID, standing in for a
// reader that raced a status transition.
type staleReadRepo struct {
	*fakeBookingRepo
	stale *models.Booking
}

func (r *staleReadRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	if r.stale != nil && r.stale.ID == bookingID {
		clone := *r.stale
		return &clone, nil
	}
	return r.fakeBookingRepo.GetByID(ctx, bookingID)
}

func (r *fakeBookingRepo) SetPaymentStatus(ctx context.Context, bookingID string, status models.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	b.PaymentStatus = status
	return nil
}

func (r *fakeBookingRepo) AppendHistory(ctx context.Context, entry *models.BookingHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, *entry)
	return nil
}

func (r *fakeBookingRepo) ListHistory(ctx context.Context, bookingID string) ([]models.BookingHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BookingHistory
	for _, h := range r.history {
		if h.BookingID == bookingID {
			out = append(out, h)
		}
	}
	return out, nil
}

// fakeBlockedRepo is an in-memory BlockedDateRepository.
type fakeBlockedRepo struct {
	mu      sync.Mutex
	blocked map[string]*models.BlockedDate
}

func newFakeBlockedRepo(seed ...*models.BlockedDate) *fakeBlockedRepo {
	repo := &fakeBlockedRepo{blocked: make(map[string]*models.BlockedDate)}
	for _, b := range seed {
		clone := *b
		repo.blocked[b.ID] = &clone
	}
	return repo
}

func (r *fakeBlockedRepo) Create(ctx context.Context, blocked *models.BlockedDate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.blocked {
		if b.ProviderID == blocked.ProviderID && b.Date == blocked.Date {
			return blockedRepo.ErrDuplicate
		}
	}
	clone := *blocked
	r.blocked[blocked.ID] = &clone
	return nil
}

func (r *fakeBlockedRepo) Delete(ctx context.Context, blockedID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blocked[blockedID]; !ok {
		return blockedRepo.ErrNotFound
	}
	delete(r.blocked, blockedID)
	return nil
}

func (r *fakeBlockedRepo) GetByID(ctx context.Context, blockedID string) (*models.BlockedDate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blocked[blockedID]
	if !ok {
		return nil, blockedRepo.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBlockedRepo) ListByProvider(ctx context.Context, providerID string) ([]models.BlockedDate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BlockedDate
	for _, b := range r.blocked {
		if b.ProviderID == providerID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *fakeBlockedRepo) ListInRange(ctx context.Context, providerID, fromDate, toDate string) ([]models.BlockedDate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BlockedDate
	for _, b := range r.blocked {
		if b.ProviderID == providerID && b.Date >= fromDate && b.Date <= toDate {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBlockedRepo) ExistsOnDate(ctx context.Context, providerID, date string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.blocked {
		if b.ProviderID == providerID && b.Date == date {
			return true, nil
		}
	}
	return false, nil
}

// fakeProviderRepo serves provider read models.
type fakeProviderRepo struct {
	providers map[string]*models.Provider
}

func newFakeProviderRepo(seed ...*models.Provider) *fakeProviderRepo {
	repo := &fakeProviderRepo{providers: make(map[string]*models.Provider)}
	for _, p := range seed {
		repo.providers[p.ID] = p
	}
	return repo
}

func (r *fakeProviderRepo) GetByID(ctx context.Context, providerID string) (*models.Provider, error) {
	p, ok := r.providers[providerID]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	return p, nil
}

// nopNotifier records events without delivering anything.
type nopNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *nopNotifier) record(event string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *nopNotifier) NotifyBookingCreated(ctx context.Context, b *models.Booking) error {
	return n.record("created")
}
func (n *nopNotifier) NotifyBookingConfirmed(ctx context.Context, b *models.Booking) error {
	return n.record("confirmed")
}
func (n *nopNotifier) NotifyBookingRejected(ctx context.Context, b *models.Booking, reason string) error {
	return n.record("rejected")
}
func (n *nopNotifier) NotifyBookingCancelled(ctx context.Context, b *models.Booking, cancelledBy string) error {
	return n.record("cancelled")
}
func (n *nopNotifier) NotifyBookingCompleted(ctx context.Context, b *models.Booking) error {
	return n.record("completed")
}
func (n *nopNotifier) NotifyPaymentReceived(ctx context.Context, b *models.Booking, p *models.Payment) error {
	return n.record("payment_received")
}
func (n *nopNotifier) NotifyPaymentFailed(ctx context.Context, b *models.Booking, p *models.Payment) error {
	return n.record("payment_failed")
}
func (n *nopNotifier) SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error {
	return n.record("user_push")
}
func (n *nopNotifier) SendProviderPush(ctx context.Context, providerID, title, body string, data map[string]string) error {
	return n.record("provider_push")
}
