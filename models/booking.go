package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// Active reports whether the status counts for conflict detection.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Terminal reports whether no further transitions are possible.
func (s BookingStatus) Terminal() bool {
	return s == BookingRejected || s == BookingCancelled || s == BookingCompleted
}

// ServiceType describes what the customer is booking the provider for.
type ServiceType string

const (
	ServiceDrinking ServiceType = "drinking"
	ServiceDating   ServiceType = "dating"
	ServiceBoth     ServiceType = "both"
)

// Booking is one customer's request to engage one provider for a time window.
// Bookings are never deleted; cancellation is a status.
type Booking struct {
	ID               string        `bson:"id" json:"id"`
	ProviderID       string        `bson:"provider_id" json:"providerId"`
	CustomerID       string        `bson:"customer_id" json:"customerId"`
	ServicePackageID string        `bson:"service_package_id,omitempty" json:"servicePackageId,omitempty"`
	ServiceType      ServiceType   `bson:"service_type" json:"serviceType"`
	BookingDate      time.Time     `bson:"booking_date" json:"bookingDate"` // absolute start instant, UTC
	Duration         int           `bson:"duration" json:"duration"`        // hours, 1-8
	TotalPrice       float64       `bson:"total_price" json:"totalPrice"`
	DepositAmount    float64       `bson:"deposit_amount" json:"depositAmount"`
	Status           BookingStatus `bson:"status" json:"status"`
	PaymentStatus    PaymentStatus `bson:"payment_status" json:"paymentStatus"`
	Location         string        `bson:"location,omitempty" json:"location,omitempty"`
	SpecialRequests  string        `bson:"special_requests,omitempty" json:"specialRequests,omitempty"`
	CancellationReason string      `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	CancelledAt      *time.Time    `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt        time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time     `bson:"updated_at" json:"updatedAt"`
}

// Interval returns the booked window [BookingDate, BookingDate+Duration).
func (b *Booking) Interval() Interval {
	return NewInterval(b.BookingDate, time.Duration(b.Duration)*time.Hour)
}

// BookingHistory is an append-only log entry recorded on every transition.
type BookingHistory struct {
	ID        string        `bson:"id" json:"id"`
	BookingID string        `bson:"booking_id" json:"bookingId"`
	Status    BookingStatus `bson:"status" json:"status"`
	ChangedBy string        `bson:"changed_by" json:"changedBy"`
	Notes     string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
}

// BookingFilter narrows booking list queries. Zero fields are ignored.
type BookingFilter struct {
	ProviderID string
	CustomerID string
	Status     BookingStatus
	From       time.Time
	To         time.Time
}

// BookingDetail is the assembled read model for a single booking.
type BookingDetail struct {
	Booking  Booking          `json:"booking"`
	History  []BookingHistory `json:"history"`
	Payments []Payment        `json:"payments"`
}
