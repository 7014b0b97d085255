package model

import "time"

// TimeSlot is a candidate booking window offered to customers. Slots are
// fixed-granularity, service-duration long, and half-open like bookings.
type TimeSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
