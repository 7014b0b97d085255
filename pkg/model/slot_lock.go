package model

import "time"

// SlotLock is an advisory lock taken for the duration of an admission's
// check-then-insert, keyed by pet and start instant. A unique _id plus a
// TTL index on expires_at make concurrent admissions for the same slot
// serialize at the store.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
