package model

import "time"

type ServiceCategory string

const (
	CategoryGrooming   ServiceCategory = "grooming"
	CategoryWalking    ServiceCategory = "walking"
	CategoryTraining   ServiceCategory = "training"
	CategoryVeterinary ServiceCategory = "veterinary"
	CategoryBoarding   ServiceCategory = "boarding"
	CategoryExercise   ServiceCategory = "exercise"
	CategoryHealth     ServiceCategory = "health"
	CategoryCare       ServiceCategory = "care"
	CategoryOther      ServiceCategory = "other"
)

// Service is a bookable catalog entry. The bookings core treats it as
// read-only input: duration and price are snapshotted onto each booking.
type Service struct {
	ID          string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string          `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string          `json:"description" bson:"description" validate:"required,min=2,max=1000"`
	Category    ServiceCategory `json:"category" bson:"category" validate:"required,oneof=grooming walking training veterinary boarding exercise health care other"`
	Price       float64         `json:"price" bson:"price" validate:"min=0"`
	DurationMin int             `json:"duration_min" bson:"duration_min" validate:"required,min=15"`
	Image       string          `json:"image,omitempty" bson:"image,omitempty" validate:"omitempty,max=500"`
	Active      bool            `json:"active" bson:"active"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time       `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type ServiceUpdate struct {
	Name        string          `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description string          `json:"description,omitempty" validate:"omitempty,min=2,max=1000"`
	Category    ServiceCategory `json:"category,omitempty" validate:"omitempty,oneof=grooming walking training veterinary boarding exercise health care other"`
	Price       *float64        `json:"price,omitempty" validate:"omitempty,min=0"`
	DurationMin *int            `json:"duration_min,omitempty" validate:"omitempty,min=15"`
	Image       string          `json:"image,omitempty" validate:"omitempty,max=500"`
	Active      *bool           `json:"active,omitempty"`
}
