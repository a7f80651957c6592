package repository

import (
	"context"

	"github.com/jhoicas/Refugio-api/internal/domain/entity"
)

// KennelRepository define el puerto de persistencia para Kennel (DIP).
// Todas las lecturas filtran por organización; GetByID/GetForUpdate devuelven (nil, nil) si no existe.
type KennelRepository interface {
	Create(ctx context.Context, kennel *entity.Kennel) error
	GetByID(ctx context.Context, organizationID, id string) (*entity.Kennel, error)
	// GetForUpdate bloquea la fila del canil (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, organizationID, id string) (*entity.Kennel, error)
	Update(ctx context.Context, kennel *entity.Kennel) error
	ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]*entity.Kennel, error)
}
