package models

import "time"

// Provider is the read-model subset of the service-offering party that the
// booking core needs. Profile management lives outside this service.
type Provider struct {
	ID              string           `bson:"id" json:"id"`
	DisplayName     string           `bson:"display_name" json:"displayName"`
	IsActive        bool             `bson:"is_active" json:"isActive"`
	FCMToken        string           `bson:"fcm_token,omitempty" json:"-"`
	ServicePackages []ServicePackage `bson:"service_packages,omitempty" json:"servicePackages,omitempty"`
	CreatedAt       time.Time        `bson:"created_at" json:"createdAt"`
}

// ServicePackage is a named price/duration bundle owned by a provider.
type ServicePackage struct {
	ID            string  `bson:"id" json:"id"`
	Name          string  `bson:"name" json:"name"`
	Price         float64 `bson:"price" json:"price"`
	DurationHours int     `bson:"duration_hours" json:"durationHours"`
	IsActive      bool    `bson:"is_active" json:"isActive"`
}
