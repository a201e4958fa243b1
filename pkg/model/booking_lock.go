package model

import "time"

// BookingLock is an advisory lock document serializing concurrent admissions
// for the same property. The unique _id makes a second
// concurrent insert fail with a duplicate key error; expires_at drives a TTL
// index so crashed requests cannot wedge a slot.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
