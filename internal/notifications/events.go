package notifications

import "time"

// Event types carried in the message event-type header.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"

	SchemaVersion = "1"
	Source        = "bookings"
)

// BookingCreatedEvent is published on both the customer and operator topics
// after a booking is admitted.
type BookingCreatedEvent struct {
	BookingID     string    `json:"booking_id"`
	CustomerID    string    `json:"customer_id"`
	CustomerEmail string    `json:"customer_email"`
	ServiceID     string    `json:"service_id"`
	ServiceName   string    `json:"service_name"`
	PetID         string    `json:"pet_id"`
	PetName       string    `json:"pet_name"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	DurationMin   int       `json:"duration_min"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type BookingCancelledEvent struct {
	BookingID     string    `json:"booking_id"`
	CustomerID    string    `json:"customer_id"`
	CustomerEmail string    `json:"customer_email"`
	ServiceID     string    `json:"service_id"`
	PetID         string    `json:"pet_id"`
	StartTime     time.Time `json:"start_time"`
	CancelledAt   time.Time `json:"cancelled_at"`
}
