package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Refugio-api/internal/domain/entity"
)

// KennelStayRepository define el puerto para el historial de estadías.
// No hay Delete: las estadías son historial auditable.
type KennelStayRepository interface {
	Create(ctx context.Context, stay *entity.KennelStay) error
	// GetActive devuelve la estadía abierta del animal o nil.
	GetActive(ctx context.Context, organizationID, animalID string) (*entity.KennelStay, error)
	// GetActiveForUpdate igual que GetActive pero bloqueando la fila.
	GetActiveForUpdate(ctx context.Context, organizationID, animalID string) (*entity.KennelStay, error)
	// Close fija end_at en una estadía abierta; una estadía cerrada no se modifica.
	Close(ctx context.Context, organizationID, id string, endAt time.Time) error
	// CountActiveByKennel es el lector de ocupación: estadías con end_at nulo en el canil.
	CountActiveByKennel(ctx context.Context, organizationID, kennelID string) (int, error)
	ListActiveByKennel(ctx context.Context, organizationID, kennelID string) ([]*entity.KennelStay, error)
	ListByAnimal(ctx context.Context, organizationID, animalID string, limit, offset int) ([]*entity.KennelStay, error)
}
