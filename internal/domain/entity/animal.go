package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un animal en el refugio.
const (
	AnimalStatusSheltered = "sheltered"
	AnimalStatusOutcome   = "outcome"
)

// Animal representa un individuo alojado en el refugio.
// El canil actual no se guarda aquí: se deriva de la KennelStay activa.
type Animal struct {
	ID             string
	OrganizationID string
	Name           string
	Species        string // valor definido por la organización (dog, cat, rabbit...), inmutable
	Breed          string
	WeightKg       *decimal.Decimal // peso al ingreso, NUMERIC(6,2)
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
