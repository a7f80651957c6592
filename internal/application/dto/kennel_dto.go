package dto

import "time"

// CapacityRulesDTO overrides de capacidad por especie.
type CapacityRulesDTO struct {
	BySpecies map[string]int `json:"by_species,omitempty"`
}

// CreateKennelRequest entrada para crear un canil.
type CreateKennelRequest struct {
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Zone          string           `json:"zone"`
	Status        string           `json:"status"` // vacío = available
	Capacity      int              `json:"capacity"`
	CapacityRules CapacityRulesDTO `json:"capacity_rules"`
	Notes         string           `json:"notes"`
}

// UpdateKennelRequest entrada para actualizar un canil; campos nil no se tocan.
type UpdateKennelRequest struct {
	Name          *string           `json:"name"`
	Zone          *string           `json:"zone"`
	Status        *string           `json:"status"`
	Capacity      *int              `json:"capacity"`
	CapacityRules *CapacityRulesDTO `json:"capacity_rules"`
	Notes         *string           `json:"notes"`
}

// KennelResponse salida de un canil.
type KennelResponse struct {
	ID             string           `json:"id"`
	OrganizationID string           `json:"organization_id"`
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	Zone           string           `json:"zone"`
	Status         string           `json:"status"`
	Capacity       int              `json:"capacity"`
	CapacityRules  CapacityRulesDTO `json:"capacity_rules"`
	Notes          string           `json:"notes"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// KennelListResponse lista paginada de caniles.
type KennelListResponse struct {
	Items []KennelResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// OccupantResponse animal alojado actualmente en el canil.
type OccupantResponse struct {
	StayID   string    `json:"stay_id"`
	AnimalID string    `json:"animal_id"`
	Species  string    `json:"species,omitempty"`
	StartAt  time.Time `json:"start_at"`
	Reason   string    `json:"reason"`
}

// OccupancyResponse ocupación actual y capacidad efectiva por especie.
type OccupancyResponse struct {
	Kennel            KennelResponse     `json:"kennel"`
	Occupied          int                `json:"occupied"`
	DefaultCapacity   int                `json:"default_capacity"`
	CapacityBySpecies map[string]int     `json:"capacity_by_species,omitempty"`
	Occupants         []OccupantResponse `json:"occupants"`
}
