package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrAnimalNotFound y ErrKennelNotFound envuelven ErrNotFound: errors.Is sirve para ambos niveles.
	ErrAnimalNotFound = fmt.Errorf("animal: %w", ErrNotFound)
	ErrKennelNotFound = fmt.Errorf("canil: %w", ErrNotFound)

	ErrKennelUnavailable = errors.New("canil no disponible (mantenimiento o cerrado)")
	ErrCapacityExceeded  = errors.New("capacidad del canil excedida")
)

// CapacityExceededError detalla el rechazo por capacidad: ocupación leída y techo aplicado.
type CapacityExceededError struct {
	KennelID string
	Species  string
	Occupied int
	Capacity int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("capacidad del canil %s excedida para %q: %d/%d", e.KennelID, e.Species, e.Occupied, e.Capacity)
}

// Unwrap permite errors.Is(err, ErrCapacityExceeded).
func (e *CapacityExceededError) Unwrap() error { return ErrCapacityExceeded }
