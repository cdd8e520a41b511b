package models

import "time"

// BlockedDate is a full-day exclusion for a provider. A day with a
// BlockedDate entry is unbookable regardless of open windows or bookings.
// Unique per (provider_id, date).
type BlockedDate struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"provider_id" json:"providerId"`
	Date       string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}
