package kennel

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Refugio-api/internal/domain"
	"github.com/jhoicas/Refugio-api/internal/domain/entity"
	domkennel "github.com/jhoicas/Refugio-api/internal/domain/kennel"
	"github.com/jhoicas/Refugio-api/internal/domain/repository"
)

// MoveStatus etiqueta el resultado de un movimiento exitoso.
type MoveStatus string

const (
	MoveStatusNoop    MoveStatus = "noop"
	MoveStatusRemoved MoveStatus = "removed"
	MoveStatusMoved   MoveStatus = "moved"
)

// MoveInput entrada del orquestador de movimientos.
// TargetKennelID nil = retirar al animal de cualquier canil.
type MoveInput struct {
	OrganizationID string
	ActorUserID    string
	AnimalID       string
	TargetKennelID *string
	Reason         string
	Notes          string
	AllowOverflow  bool // bypass privilegiado del límite de capacidad
}

// MoveResult resume el nuevo estado.
//   - noop:    KennelID = canil actual
//   - removed: FromKennelID (nil si no tenía estadía activa)
//   - moved:   FromKennelID, ToKennelID, Occupied (incluye al animal movido), Capacity
type MoveResult struct {
	Status       MoveStatus
	AnimalID     string
	KennelID     string
	FromKennelID *string
	ToKennelID   string
	Occupied     int
	Capacity     int
	StayID       string
	Overflow     bool // true si el movimiento quedó por encima de la capacidad
}

// MoveAnimalUseCase mueve animales entre caniles de forma transaccional con bloqueo de fila
// (SELECT FOR UPDATE) sobre el animal y el canil destino.
type MoveAnimalUseCase struct {
	txRunner TxRunner
	clock    clock.Clock
	log      zerolog.Logger
	recorder MoveRecorder
}

// NewMoveAnimalUseCase construye el caso de uso. recorder puede ser nil.
func NewMoveAnimalUseCase(txRunner TxRunner, clk clock.Clock, log zerolog.Logger, recorder MoveRecorder) *MoveAnimalUseCase {
	if clk == nil {
		clk = clock.WallClock
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &MoveAnimalUseCase{txRunner: txRunner, clock: clk, log: log, recorder: recorder}
}

// MoveAnimal abre la transacción, delega en MoveInTx y hace Commit o Rollback (TxRunner.Run lo hace).
// No reintenta: capacidad y disponibilidad son invariantes de negocio, no fallas transitorias.
func (uc *MoveAnimalUseCase) MoveAnimal(ctx context.Context, input MoveInput) (*MoveResult, error) {
	if strings.TrimSpace(input.OrganizationID) == "" || strings.TrimSpace(input.AnimalID) == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.TargetKennelID != nil && strings.TrimSpace(*input.TargetKennelID) == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Reason == "" {
		input.Reason = entity.StayReasonTransfer
	}

	started := uc.clock.Now()
	var result *MoveResult
	err := uc.txRunner.Run(ctx, func(
		animalRepo repository.AnimalRepository,
		kennelRepo repository.KennelRepository,
		stayRepo repository.KennelStayRepository,
	) error {
		var err error
		result, err = uc.MoveInTx(ctx, animalRepo, kennelRepo, stayRepo, input)
		return err
	})
	uc.recorder.ObserveMove(outcomeOf(result, err), uc.clock.Now().Sub(started))
	if err != nil {
		uc.logRejection(input, err)
		return nil, err
	}
	uc.logResult(input, result)
	return result, nil
}

// MoveInTx ejecuta la máquina de estados usando los repositorios de la transacción del caller.
// No hace commit: cualquier error debe provocar rollback de la transacción que lo rodea.
func (uc *MoveAnimalUseCase) MoveInTx(
	ctx context.Context,
	animalRepo repository.AnimalRepository,
	kennelRepo repository.KennelRepository,
	stayRepo repository.KennelStayRepository,
	input MoveInput,
) (*MoveResult, error) {
	// 1. Bloquea la fila del animal: dos movimientos del mismo animal no se intercalan
	animal, err := animalRepo.GetForUpdate(ctx, input.OrganizationID, input.AnimalID)
	if err != nil {
		return nil, err
	}
	if animal == nil {
		return nil, domain.ErrAnimalNotFound
	}

	// 2. Estadía activa (también bloqueada)
	active, err := stayRepo.GetActiveForUpdate(ctx, input.OrganizationID, animal.ID)
	if err != nil {
		return nil, err
	}
	var from *string
	if active != nil {
		id := active.KennelID
		from = &id
	}

	// 3. No-op: ya está en el canil pedido
	if input.TargetKennelID != nil && from != nil && *from == *input.TargetKennelID {
		return &MoveResult{Status: MoveStatusNoop, AnimalID: animal.ID, KennelID: *from}, nil
	}

	now := uc.clock.Now()

	// 4. Retiro: cierra la estadía activa si existe, no crea otra
	if input.TargetKennelID == nil {
		if active != nil {
			if err := stayRepo.Close(ctx, input.OrganizationID, active.ID, now); err != nil {
				return nil, err
			}
		}
		return &MoveResult{Status: MoveStatusRemoved, AnimalID: animal.ID, FromKennelID: from}, nil
	}

	// 5. Traslado: bloquea el canil destino antes de leer ocupación; serializa a todos los que entran en él
	target, err := kennelRepo.GetForUpdate(ctx, input.OrganizationID, *input.TargetKennelID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrKennelNotFound
	}
	if !target.Status.AcceptsAnimals() {
		return nil, domain.ErrKennelUnavailable
	}

	occupied, err := stayRepo.CountActiveByKennel(ctx, input.OrganizationID, target.ID)
	if err != nil {
		return nil, err
	}
	capacity := domkennel.EffectiveCapacity(target, animal.Species)
	if !input.AllowOverflow && occupied >= capacity {
		return nil, &domain.CapacityExceededError{
			KennelID: target.ID,
			Species:  animal.Species,
			Occupied: occupied,
			Capacity: capacity,
		}
	}

	if active != nil {
		if err := stayRepo.Close(ctx, input.OrganizationID, active.ID, now); err != nil {
			return nil, err
		}
	}
	stay := &entity.KennelStay{
		ID:             uuid.New().String(),
		OrganizationID: input.OrganizationID,
		KennelID:       target.ID,
		AnimalID:       animal.ID,
		StartAt:        now,
		Reason:         input.Reason,
		Notes:          strings.TrimSpace(input.Notes),
		MovedBy:        input.ActorUserID,
	}
	if err := stayRepo.Create(ctx, stay); err != nil {
		return nil, err
	}

	// 6. Resumen del nuevo estado
	return &MoveResult{
		Status:       MoveStatusMoved,
		AnimalID:     animal.ID,
		FromKennelID: from,
		ToKennelID:   target.ID,
		Occupied:     occupied + 1,
		Capacity:     capacity,
		StayID:       stay.ID,
		Overflow:     occupied+1 > capacity,
	}, nil
}

func outcomeOf(res *MoveResult, err error) string {
	switch {
	case err == nil && res != nil:
		return string(res.Status)
	case errors.Is(err, domain.ErrCapacityExceeded):
		return OutcomeCapacityExceeded
	case errors.Is(err, domain.ErrKennelUnavailable):
		return OutcomeKennelUnavailable
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

func (uc *MoveAnimalUseCase) logResult(input MoveInput, res *MoveResult) {
	switch res.Status {
	case MoveStatusNoop:
		uc.log.Debug().
			Str("organization_id", input.OrganizationID).
			Str("animal_id", res.AnimalID).
			Str("kennel_id", res.KennelID).
			Msg("movimiento sin cambios")
	case MoveStatusRemoved:
		uc.log.Info().
			Str("organization_id", input.OrganizationID).
			Str("animal_id", res.AnimalID).
			Str("from", deref(res.FromKennelID)).
			Str("actor", input.ActorUserID).
			Msg("animal retirado de canil")
	case MoveStatusMoved:
		ev := uc.log.Info()
		if res.Overflow {
			ev = uc.log.Warn()
		}
		ev.Str("organization_id", input.OrganizationID).
			Str("animal_id", res.AnimalID).
			Str("from", deref(res.FromKennelID)).
			Str("to", res.ToKennelID).
			Int("occupied", res.Occupied).
			Int("capacity", res.Capacity).
			Bool("overflow", res.Overflow).
			Str("reason", input.Reason).
			Str("actor", input.ActorUserID).
			Msg("animal movido")
	}
}

func (uc *MoveAnimalUseCase) logRejection(input MoveInput, err error) {
	var capErr *domain.CapacityExceededError
	switch {
	case errors.As(err, &capErr):
		uc.log.Warn().
			Str("organization_id", input.OrganizationID).
			Str("animal_id", input.AnimalID).
			Str("kennel_id", capErr.KennelID).
			Int("occupied", capErr.Occupied).
			Int("capacity", capErr.Capacity).
			Msg("movimiento rechazado por capacidad")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrKennelUnavailable):
		uc.log.Debug().Err(err).Str("animal_id", input.AnimalID).Msg("movimiento rechazado")
	default:
		uc.log.Error().Err(err).Str("animal_id", input.AnimalID).Msg("movimiento fallido")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
