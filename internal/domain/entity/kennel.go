package entity

import "time"

// Estados operativos de un canil.
type KennelStatus string

const (
	KennelStatusAvailable   KennelStatus = "available"
	KennelStatusMaintenance KennelStatus = "maintenance"
	KennelStatusClosed      KennelStatus = "closed"
)

// IsValid indica si el estado es uno de los tres enumerados.
func (s KennelStatus) IsValid() bool {
	switch s {
	case KennelStatusAvailable, KennelStatusMaintenance, KennelStatusClosed:
		return true
	}
	return false
}

// AcceptsAnimals es false para mantenimiento y cerrado: no se puede mover un animal hacia el canil.
func (s KennelStatus) AcceptsAnimals() bool {
	return s == KennelStatusAvailable
}

// CapacityRules overrides de capacidad por especie (columna JSONB capacity_rules).
// Las claves se guardan normalizadas (minúsculas, sin espacios) y los valores son >= 1.
type CapacityRules struct {
	BySpecies map[string]int `json:"by_species,omitempty"`
}

// Kennel representa una unidad física de alojamiento (canil, jaula, gatera).
type Kennel struct {
	ID             string
	OrganizationID string
	Code           string // identificador visible, único por organización
	Name           string
	Zone           string
	Status         KennelStatus
	Capacity       int // capacidad por defecto
	CapacityRules  CapacityRules
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
