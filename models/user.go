package models

import "time"

// User is the read-model subset of a customer account. Registration and
// authentication are handled by the identity service.
type User struct {
	ID        string    `bson:"id" json:"id"`
	FullName  string    `bson:"full_name" json:"fullName"`
	IsActive  bool      `bson:"is_active" json:"isActive"`
	FCMToken  string    `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
