package repository

import (
	"context"

	"github.com/jhoicas/Refugio-api/internal/domain/entity"
)

// AnimalRepository define el puerto de persistencia para Animal.
type AnimalRepository interface {
	Create(ctx context.Context, animal *entity.Animal) error
	GetByID(ctx context.Context, organizationID, id string) (*entity.Animal, error)
	// GetForUpdate bloquea la fila del animal; serializa movimientos concurrentes del mismo animal.
	GetForUpdate(ctx context.Context, organizationID, id string) (*entity.Animal, error)
	ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]*entity.Animal, error)
}
