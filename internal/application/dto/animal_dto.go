package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterAnimalRequest entrada para registrar un animal en el refugio.
type RegisterAnimalRequest struct {
	Name     string           `json:"name"`
	Species  string           `json:"species"`
	Breed    string           `json:"breed"`
	WeightKg *decimal.Decimal `json:"weight_kg"`
}

// AnimalResponse salida de un animal. CurrentKennelID se deriva de la estadía activa.
type AnimalResponse struct {
	ID              string           `json:"id"`
	OrganizationID  string           `json:"organization_id"`
	Name            string           `json:"name"`
	Species         string           `json:"species"`
	Breed           string           `json:"breed"`
	WeightKg        *decimal.Decimal `json:"weight_kg,omitempty"`
	Status          string           `json:"status"`
	CurrentKennelID *string          `json:"current_kennel_id"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// AnimalListResponse lista paginada de animales.
type AnimalListResponse struct {
	Items []AnimalResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// StayResponse una estadía del historial.
type StayResponse struct {
	ID       string     `json:"id"`
	KennelID string     `json:"kennel_id"`
	AnimalID string     `json:"animal_id"`
	StartAt  time.Time  `json:"start_at"`
	EndAt    *time.Time `json:"end_at"`
	Reason   string     `json:"reason"`
	Notes    string     `json:"notes"`
	MovedBy  string     `json:"moved_by"`
}

// StayListResponse historial paginado, más reciente primero.
type StayListResponse struct {
	Items []StayResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
