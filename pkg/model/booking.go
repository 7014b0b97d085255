package model

import (
	"time"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in-progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingNoShow     BookingStatus = "no-show"
)

// OccupyingStatuses are the statuses that reserve the pet's and service's
// time. Completed, cancelled and no-show bookings never conflict.
var OccupyingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingInProgress}

func (s BookingStatus) Occupying() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentOnline       PaymentMethod = "online"
	PaymentBankTransfer PaymentMethod = "bank-transfer"
)

// CancellationNotice is the minimum lead time for a customer-initiated
// cancellation.
const CancellationNotice = 2 * time.Hour

type Booking struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CustomerID string    `json:"customer_id" bson:"customer_id" validate:"required,mongodb"`
	ServiceID  string    `json:"service_id" bson:"service_id" validate:"required,mongodb"`
	PetID      string    `json:"pet_id" bson:"pet_id" validate:"required,mongodb"`
	StartTime  time.Time `json:"start_time" bson:"start_time" validate:"required"`

	// DurationMin and TotalPrice are copied from the service at admission
	// and never re-derived, so later catalog edits cannot alter a booking.
	DurationMin int     `json:"duration_min" bson:"duration_min" validate:"required,min=15"`
	TotalPrice  float64 `json:"total_price" bson:"total_price" validate:"min=0"`

	Status          BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed in-progress completed cancelled no-show"`
	SpecialRequests string        `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=500"`
	Notes           string        `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	PaymentStatus   PaymentStatus `json:"payment_status" bson:"payment_status" validate:"required,oneof=pending paid refunded failed"`
	PaymentMethod   PaymentMethod `json:"payment_method" bson:"payment_method" validate:"required,oneof=cash card online bank-transfer"`

	CreatedAt   time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at" validate:"omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// EndTime is the exclusive end of the booking's half-open interval
// [StartTime, StartTime+Duration). The interval is derived, never stored.
func (b *Booking) EndTime() time.Time {
	return b.StartTime.Add(time.Duration(b.DurationMin) * time.Minute)
}

// CanCancel reports whether the booking may still be cancelled at the given
// instant: strictly more than the notice period before the start, and not
// already completed or cancelled.
func (b *Booking) CanCancel(now time.Time) bool {
	if b.Status == BookingCompleted || b.Status == BookingCancelled {
		return false
	}
	return b.StartTime.Sub(now) > CancellationNotice
}

// BookingUpdate carries the customer-editable fields of a booking. Status
// changes go through the guarded transition check in the service layer.
type BookingUpdate struct {
	Status          BookingStatus `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed in-progress completed cancelled no-show"`
	SpecialRequests *string       `json:"special_requests,omitempty" validate:"omitempty,max=500"`
	Notes           *string       `json:"notes,omitempty" validate:"omitempty,max=500"`
	PaymentStatus   PaymentStatus `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid refunded failed"`
	PaymentMethod   PaymentMethod `json:"payment_method,omitempty" validate:"omitempty,oneof=cash card online bank-transfer"`
}

// statusRank orders the one-directional lifecycle. Cancellation and no-show
// are terminal side exits handled separately.
var statusRank = map[BookingStatus]int{
	BookingPending:    0,
	BookingConfirmed:  1,
	BookingInProgress: 2,
	BookingCompleted:  3,
}

// CanTransition reports whether a booking may move from its current status
// to the target. Forward-only along the lifecycle; cancelled and no-show
// are reachable from any occupying status; terminal states never change.
func (b *Booking) CanTransition(target BookingStatus) bool {
	if target == b.Status {
		return false
	}
	switch b.Status {
	case BookingCompleted, BookingCancelled, BookingNoShow:
		return false
	}
	switch target {
	case BookingCancelled, BookingNoShow:
		return true
	}
	from, okFrom := statusRank[b.Status]
	to, okTo := statusRank[target]
	return okFrom && okTo && to > from
}
