package models

import "time"

// PaymentStatus applies both to individual payments and to a booking's
// derived aggregate payment state.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

// PaymentMethod is how the customer pays. Cash settles immediately; the
// other methods settle through the payment gateway webhook.
type PaymentMethod string

const (
	PayCash         PaymentMethod = "CASH"
	PayCard         PaymentMethod = "CARD"
	PayBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// Payment is a single payment attempt against a booking. A booking may
// carry several (deposit plus balance). Immutable once COMPLETED except
// for the refund fields.
type Payment struct {
	ID            string        `bson:"id" json:"id"`
	BookingID     string        `bson:"booking_id" json:"bookingId"`
	PayerID       string        `bson:"payer_id" json:"payerId"`
	Amount        float64       `bson:"amount" json:"amount"`
	Method        PaymentMethod `bson:"method" json:"method"`
	Status        PaymentStatus `bson:"status" json:"status"`
	TransactionID string        `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	PaymentDate   *time.Time    `bson:"payment_date,omitempty" json:"paymentDate,omitempty"`
	RefundAmount  float64       `bson:"refund_amount,omitempty" json:"refundAmount,omitempty"`
	RefundReason  string        `bson:"refund_reason,omitempty" json:"refundReason,omitempty"`
	CreatedAt     time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updatedAt"`
}

// PaymentHistory is an append-only audit entry, one per payment status
// change. Refunds record a negative-signed amount rather than mutating
// the original payment amount.
type PaymentHistory struct {
	ID        string        `bson:"id" json:"id"`
	PaymentID string        `bson:"payment_id" json:"paymentId"`
	Status    PaymentStatus `bson:"status" json:"status"`
	Amount    float64       `bson:"amount" json:"amount"`
	Notes     string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
}

// DeriveBookingPaymentStatus is a pure function of the sum of COMPLETED
// payments against the booking's totals. It is monotonic: once enough
// completed payments exist, later non-completed payments cannot regress it.
func DeriveBookingPaymentStatus(totalCompleted, totalPrice, depositAmount float64) PaymentStatus {
	switch {
	case totalCompleted >= totalPrice:
		return PaymentCompleted
	case totalCompleted >= depositAmount:
		return PaymentProcessing
	default:
		return PaymentPending
	}
}
