package model

import "time"

type PetSpecies string

const (
	SpeciesDog     PetSpecies = "dog"
	SpeciesCat     PetSpecies = "cat"
	SpeciesBird    PetSpecies = "bird"
	SpeciesRabbit  PetSpecies = "rabbit"
	SpeciesHamster PetSpecies = "hamster"
	SpeciesFish    PetSpecies = "fish"
	SpeciesOther   PetSpecies = "other"
)

// Pet is the subject whose bookings are checked for overlap: one booking
// resource per pet at a time.
type Pet struct {
	ID        string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID   string     `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	Name      string     `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Species   PetSpecies `json:"species" bson:"species" validate:"required,oneof=dog cat bird rabbit hamster fish other"`
	Breed     string     `json:"breed" bson:"breed" validate:"required,min=1,max=100"`
	Age       int        `json:"age" bson:"age" validate:"min=0,max=30"`
	WeightKg  float64    `json:"weight_kg,omitempty" bson:"weight_kg,omitempty" validate:"omitempty,gt=0"`
	Gender    string     `json:"gender,omitempty" bson:"gender,omitempty" validate:"omitempty,oneof=male female unknown"`
	Color     string     `json:"color,omitempty" bson:"color,omitempty" validate:"omitempty,max=50"`
	Allergies []string   `json:"allergies,omitempty" bson:"allergies,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Active    bool       `json:"active" bson:"active"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type PetUpdate struct {
	Name      string     `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Species   PetSpecies `json:"species,omitempty" validate:"omitempty,oneof=dog cat bird rabbit hamster fish other"`
	Breed     string     `json:"breed,omitempty" validate:"omitempty,min=1,max=100"`
	Age       *int       `json:"age,omitempty" validate:"omitempty,min=0,max=30"`
	WeightKg  *float64   `json:"weight_kg,omitempty" validate:"omitempty,gt=0"`
	Gender    string     `json:"gender,omitempty" validate:"omitempty,oneof=male female unknown"`
	Color     string     `json:"color,omitempty" validate:"omitempty,max=50"`
	Allergies *[]string  `json:"allergies,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Active    *bool      `json:"active,omitempty"`
}
