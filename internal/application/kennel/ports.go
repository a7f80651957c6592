package kennel

import (
	"context"
	"time"

	"github.com/jhoicas/Refugio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso: el orquestador nunca hace commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		animalRepo repository.AnimalRepository,
		kennelRepo repository.KennelRepository,
		stayRepo repository.KennelStayRepository,
	) error) error
}

// Resultados de un movimiento, usados como etiqueta de métricas.
const (
	OutcomeMoved             = "moved"
	OutcomeRemoved           = "removed"
	OutcomeNoop              = "noop"
	OutcomeCapacityExceeded  = "capacity_exceeded"
	OutcomeKennelUnavailable = "kennel_unavailable"
	OutcomeNotFound          = "not_found"
	OutcomeError             = "error"
)

// MoveRecorder recibe el resultado y la duración de cada movimiento.
type MoveRecorder interface {
	ObserveMove(outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveMove(string, time.Duration) {}
