package kennel_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appkennel "github.com/jhoicas/Refugio-api/internal/application/kennel"
	"github.com/jhoicas/Refugio-api/internal/domain"
	"github.com/jhoicas/Refugio-api/internal/domain/entity"
	"github.com/jhoicas/Refugio-api/internal/domain/repository"
	"github.com/jhoicas/Refugio-api/internal/infrastructure/memory"
)

const org = "org-1"

type fixture struct {
	store *memory.Store
	clock *testclock.Clock
	uc    *appkennel.MoveAnimalUseCase
	rec   *countingRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clk := testclock.NewClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	rec := &countingRecorder{counts: map[string]int{}}
	return &fixture{
		store: store,
		clock: clk,
		uc:    appkennel.NewMoveAnimalUseCase(store, clk, zerolog.Nop(), rec),
		rec:   rec,
	}
}

func (f *fixture) kennel(t *testing.T, id string, capacity int, status entity.KennelStatus, bySpecies map[string]int) {
	t.Helper()
	require.NoError(t, f.store.Kennels().Create(context.Background(), &entity.Kennel{
		ID: id, OrganizationID: org, Code: id, Name: "Canil " + id, Status: status,
		Capacity: capacity, CapacityRules: entity.CapacityRules{BySpecies: bySpecies},
		CreatedAt: f.clock.Now(), UpdatedAt: f.clock.Now(),
	}))
}

func (f *fixture) animal(t *testing.T, id, species string) {
	t.Helper()
	f.animalIn(t, org, id, species)
}

func (f *fixture) animalIn(t *testing.T, orgID, id, species string) {
	t.Helper()
	require.NoError(t, f.store.Animals().Create(context.Background(), &entity.Animal{
		ID: id, OrganizationID: orgID, Name: id, Species: species, Status: entity.AnimalStatusSheltered,
		CreatedAt: f.clock.Now(), UpdatedAt: f.clock.Now(),
	}))
}

// move avanza el reloj para que el historial quede ordenado sin empates.
func (f *fixture) move(animalID string, target *string, overflow bool) (*appkennel.MoveResult, error) {
	f.clock.Advance(time.Minute)
	return f.uc.MoveAnimal(context.Background(), appkennel.MoveInput{
		OrganizationID: org,
		ActorUserID:    "user-1",
		AnimalID:       animalID,
		TargetKennelID: target,
		AllowOverflow:  overflow,
	})
}

func (f *fixture) activeStays(t *testing.T, animalID string) int {
	t.Helper()
	stays, err := f.store.Stays().ListByAnimal(context.Background(), org, animalID, 0, 0)
	require.NoError(t, err)
	n := 0
	for _, st := range stays {
		if st.Active() {
			n++
		}
	}
	return n
}

func (f *fixture) occupancy(t *testing.T, kennelID string) int {
	t.Helper()
	n, err := f.store.Stays().CountActiveByKennel(context.Background(), org, kennelID)
	require.NoError(t, err)
	return n
}

func ptr(s string) *string { return &s }

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) ObserveMove(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[outcome]++
}

func TestMoveAnimal_EscenariosDeCapacidad(t *testing.T) {
	f := newFixture(t)
	f.kennel(t, "K", 2, entity.KennelStatusAvailable, nil)
	f.animal(t, "D1", "dog")
	f.animal(t, "D2", "dog")
	f.animal(t, "C1", "cat")

	res, err := f.move("D1", ptr("K"), false)
	require.NoError(t, err)
	assert.Equal(t, appkennel.MoveStatusMoved, res.Status)
	assert.Nil(t, res.FromKennelID)
	assert.Equal(t, "K", res.ToKennelID)
	assert.Equal(t, 1, res.Occupied)
	assert.Equal(t, 2, res.Capacity)

	res, err = f.move("D2", ptr("K"), false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Occupied)
	assert.Equal(t, 2, res.Capacity)
	assert.False(t, res.Overflow)

	_, err = f.move("C1", ptr("K"), false)
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)
	var capErr *domain.CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Occupied)
	assert.Equal(t, 2, capErr.Capacity)
	assert.Equal(t, 0, f.activeStays(t, "C1"))

	res, err = f.move("C1", ptr("K"), true)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Occupied)
	assert.Equal(t, 2, res.Capacity)
	assert.True(t, res.Overflow)

	assert.Equal(t, 3, f.rec.counts[appkennel.OutcomeMoved])
	assert.Equal(t, 1, f.rec.counts[appkennel.OutcomeCapacityExceeded])
}

func TestMoveAnimal_OverrideDeEspecie(t *testing.T) {
	f := newFixture(t)
	f.kennel(t, "K", 2, entity.KennelStatusAvailable, map[string]int{"cat": 5})
	for i := 1; i <= 4; i++ {
		f.animal(t, fmt.Sprintf("C%d", i), "cat")
	}
	f.animal(t, "D1", "dog")

	for i := 1; i <= 3; i++ {
		_, err := f.move(fmt.Sprintf("C%d", i), ptr("K"), false)
		require.NoError(t, err)
	}
	require.Equal(t, 3, f.occupancy(t, "K"))

	res, err := f.move("C4", ptr("K"), false)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Occupied)
	assert.Equal(t, 5, res.Capacity)

	// el perro usa la capacidad por defecto
	_, err = f.move("D1", ptr("K"), false)
	var capErr *domain.CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "dog", capErr.Species)
	assert.Equal(t, 2, capErr.Capacity)
}

func TestMoveAnimal_CanilNoDisponible(t *testing.T) {
	for _, status := range []entity.KennelStatus{entity.KennelStatusMaintenance, entity.KennelStatusClosed} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			f.kennel(t, "K", 10, status, nil)
			f.animal(t, "D1", "dog")

			_, err := f.move("D1", ptr("K"), false)
			assert.ErrorIs(t, err, domain.ErrKennelUnavailable)
			_, err = f.move("D1", ptr("K"), true)
			assert.ErrorIs(t, err, domain.ErrKennelUnavailable, "overflow no habilita caniles fuera de servicio")
			assert.Equal(t, 0, f.occupancy(t, "K"))
		})
	}
}

func TestMoveAnimal_NoopIdempotente(t *testing.T) {
	f := newFixture(t)
	f.kennel(t, "K", 1, entity.KennelStatusAvailable, nil)
	f.animal(t, "D1", "dog")
	_, err := f.move("D1", ptr("K"), false)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		res, err := f.move("D1", ptr("K"), false)
		require.NoError(t, err)
		assert.Equal(t, appkennel.MoveStatusNoop, res.Status)
		assert.Equal(t, "K", res.KennelID)
	}
	stays, err := f.store.Stays().ListByAnimal(context.Background(), org, "D1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, stays, 1)
	assert.Equal(t, 2, f.rec.counts[appkennel.OutcomeNoop])
}

func TestMoveAnimal_NoopAunConCanilLlenoOCerrado(t *testing.T) {
	f := newFixture(t)
	f.kennel(t, "K", 1, entity.KennelStatusAvailable, nil)
	f.animal(t, "D1", "dog")
	_, err := f.move("D1", ptr("K"), false)
	require.NoError(t, err)

	k, err := f.store.Kennels().GetByID(context.Background(), org, "K")
	require.NoError(t, err)
	k.Status = entity.KennelStatusMaintenance
	require.NoError(t, f.store.Kennels().Update(context.Background(), k))

	res, err := f.move("D1", ptr("K"), false)
	require.NoError(t, err)
	assert.Equal(t, appkennel.MoveStatusNoop, res.Status)
}

func TestMoveAnimal_Retiro(t *testing.T) {
	f := newFixture(t)
	f.kennel(t, "K", 2, entity.KennelStatusAvailable, nil)
	f.animal(t, "D1", "dog")
	_, err := f.move("D1", ptr("K"), false)
	require.NoError(t, err)

	res, err := f.move("D1", nil, false)
	require.NoError(t, err)
	assert.Equal(t, appkennel.MoveStatusRemoved, res.Status)
	require.NotNil(t, res.FromKennelID)
	assert.Equal(t, "K", *res.FromKennelID)
	assert.Equal(t, 0, f.activeStays(t, "D1"))
	assert.Equal(t, 0, f.occupancy(t, "K"))

	stays, err := f.store.Stays().ListByAnimal(context.Background(), org, "D1", 0, 0)
	require.NoError(t, err)
	require.Len(t, stays, 1, "el retiro no crea estadías")
	require.NotNil(t, stays[0].EndAt)
	assert.Equal(t, f.clock.Now(), *stays[0].EndAt)

	res, err = f.move("D1", nil, false)
	require.NoError(t, err)
	assert.Equal(t, appkennel.MoveStatusRemoved, res.Status)
	assert.Nil(t, res.FromKennelID)
}

func TestMoveAnimal_TrasladoCierraEstadiaAnterior(t *testing.T) {
	f := newFixture(t)
	f.kennel(t, "K1", 2, entity.KennelStatusAvailable, nil)
	f.kennel(t, "K2", 2, entity.KennelStatusAvailable, nil)
	f.animal(t, "D1", "dog")

	_, err := f.move("D1", ptr("K1"), false)
	require.NoError(t, err)
	res, err := f.move("D1", ptr("K2"), false)
	require.NoError(t, err)
	require.NotNil(t, res.FromKennelID)
	assert.Equal(t, "K1", *res.FromKennelID)
	assert.Equal(t, "K2", res.ToKennelID)
	assert.Equal(t, 1, res.Occupied)

	assert.Equal(t, 0, f.occupancy(t, "K1"))
	assert.Equal(t, 1, f.occupancy(t, "K2"))
	assert.Equal(t, 1, f.activeStays(t, "D1"))

	stays, err := f.store.Stays().ListByAnimal(context.Background(), org, "D1", 0, 0)
	require.NoError(t, err)
	require.Len(t, stays, 2)
	assert.Equal(t, "K2", stays[0].KennelID)
	assert.Equal(t, res.StayID, stays[0].ID)
	assert.Equal(t, entity.StayReasonTransfer, stays[0].Reason)
	assert.Equal(t, "user-1", stays[0].MovedBy)
	assert.Equal(t, "K1", stays[1].KennelID)
	require.NotNil(t, stays[1].EndAt)
	assert.Equal(t, stays[0].StartAt, *stays[1].EndAt)
}

func TestMoveAnimal_NoEncontrado(t *testing.T) {
	f := newFixture(t)
	f.kennel(t, "K", 2, entity.KennelStatusAvailable, nil)
	f.animal(t, "D1", "dog")

	_, err := f.move("nope", ptr("K"), false)
	assert.ErrorIs(t, err, domain.ErrAnimalNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.move("D1", ptr("nope"), false)
	assert.ErrorIs(t, err, domain.ErrKennelNotFound)
	assert.Equal(t, 2, f.rec.counts[appkennel.OutcomeNotFound])
}

func TestMoveAnimal_AislamientoEntreOrganizaciones(t *testing.T) {
	f := newFixture(t)
	f.kennel(t, "K", 2, entity.KennelStatusAvailable, nil)
	f.animalIn(t, "org-2", "X1", "dog")

	// el canil de org-1 no existe para org-2
	_, err := f.uc.MoveAnimal(context.Background(), appkennel.MoveInput{
		OrganizationID: "org-2", AnimalID: "X1", TargetKennelID: ptr("K"),
	})
	assert.ErrorIs(t, err, domain.ErrKennelNotFound)

	// el animal de org-2 no existe para org-1
	_, err = f.move("X1", ptr("K"), false)
	assert.ErrorIs(t, err, domain.ErrAnimalNotFound)
	assert.Equal(t, 0, f.occupancy(t, "K"))
}

func TestMoveAnimal_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.MoveAnimal(context.Background(), appkennel.MoveInput{AnimalID: "D1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.MoveAnimal(context.Background(), appkennel.MoveInput{OrganizationID: org, AnimalID: "D1", TargetKennelID: ptr(" ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMoveAnimal_CarreraCapacidadUno(t *testing.T) {
	for round := 0; round < 20; round++ {
		f := newFixture(t)
		f.kennel(t, "K", 1, entity.KennelStatusAvailable, nil)
		f.animal(t, "A", "dog")
		f.animal(t, "B", "dog")

		var wg sync.WaitGroup
		errs := make([]error, 2)
		start := make(chan struct{})
		for i, id := range []string{"A", "B"} {
			wg.Add(1)
			go func(i int, id string) {
				defer wg.Done()
				<-start
				_, errs[i] = f.uc.MoveAnimal(context.Background(), appkennel.MoveInput{
					OrganizationID: org, AnimalID: id, TargetKennelID: ptr("K"),
				})
			}(i, id)
		}
		close(start)
		wg.Wait()

		ok, rejected := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrCapacityExceeded):
				rejected++
			default:
				t.Fatalf("error inesperado: %v", err)
			}
		}
		require.Equal(t, 1, ok, "round %d", round)
		require.Equal(t, 1, rejected, "round %d", round)
		require.Equal(t, 1, f.occupancy(t, "K"))
	}
}

func TestMoveAnimal_ConcurrenciaCapacidadRespetada(t *testing.T) {
	f := newFixture(t)
	f.kennel(t, "K", 3, entity.KennelStatusAvailable, nil)
	const n = 12
	for i := 0; i < n; i++ {
		f.animal(t, fmt.Sprintf("A%d", i), "dog")
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.uc.MoveAnimal(context.Background(), appkennel.MoveInput{
				OrganizationID: org, AnimalID: id, TargetKennelID: ptr("K"),
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(fmt.Sprintf("A%d", i))
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, 3, f.occupancy(t, "K"))
}

func TestMoveAnimal_MismoAnimalConcurrenteUnaEstadiaActiva(t *testing.T) {
	f := newFixture(t)
	targets := []string{"K1", "K2", "K3", "K4"}
	for _, k := range targets {
		f.kennel(t, k, 5, entity.KennelStatusAvailable, nil)
	}
	f.animal(t, "D1", "dog")

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var target *string
			if i%5 != 4 {
				target = ptr(targets[i%len(targets)])
			}
			_, err := f.uc.MoveAnimal(context.Background(), appkennel.MoveInput{
				OrganizationID: org, AnimalID: "D1", TargetKennelID: target,
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, f.activeStays(t, "D1"), 1)
	total := 0
	for _, k := range targets {
		total += f.occupancy(t, k)
	}
	assert.Equal(t, f.activeStays(t, "D1"), total)
}

func TestMoveAnimal_IntercambioCruzadoSinDeadlock(t *testing.T) {
	f := newFixture(t)
	f.kennel(t, "K1", 2, entity.KennelStatusAvailable, nil)
	f.kennel(t, "K2", 2, entity.KennelStatusAvailable, nil)
	f.animal(t, "A", "dog")
	f.animal(t, "B", "dog")
	_, err := f.move("A", ptr("K1"), false)
	require.NoError(t, err)
	_, err = f.move("B", ptr("K2"), false)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				to := "K2"
				if i%2 == 1 {
					to = "K1"
				}
				_, _ = f.uc.MoveAnimal(context.Background(), appkennel.MoveInput{OrganizationID: org, AnimalID: "A", TargetKennelID: ptr(to)})
			}(i)
			go func(i int) {
				defer wg.Done()
				to := "K1"
				if i%2 == 1 {
					to = "K2"
				}
				_, _ = f.uc.MoveAnimal(context.Background(), appkennel.MoveInput{OrganizationID: org, AnimalID: "B", TargetKennelID: ptr(to)})
			}(i)
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("deadlock entre movimientos cruzados")
	}
	assert.Equal(t, 1, f.activeStays(t, "A"))
	assert.Equal(t, 1, f.activeStays(t, "B"))
}

// failingRunner envuelve el store y hace fallar la inserción de la estadía nueva.
type failingRunner struct {
	store *memory.Store
}

func (r failingRunner) Run(ctx context.Context, fn func(
	animalRepo repository.AnimalRepository,
	kennelRepo repository.KennelRepository,
	stayRepo repository.KennelStayRepository,
) error) error {
	return r.store.Run(ctx, func(a repository.AnimalRepository, k repository.KennelRepository, s repository.KennelStayRepository) error {
		return fn(a, k, failingStays{KennelStayRepository: s})
	})
}

type failingStays struct {
	repository.KennelStayRepository
}

var errInsert = errors.New("insert kennel stay: conexión perdida")

func (failingStays) Create(context.Context, *entity.KennelStay) error { return errInsert }

func TestMoveAnimal_FalloRevierteSinEstadoParcial(t *testing.T) {
	f := newFixture(t)
	f.kennel(t, "K1", 2, entity.KennelStatusAvailable, nil)
	f.kennel(t, "K2", 2, entity.KennelStatusAvailable, nil)
	f.animal(t, "D1", "dog")
	_, err := f.move("D1", ptr("K1"), false)
	require.NoError(t, err)

	uc := appkennel.NewMoveAnimalUseCase(failingRunner{store: f.store}, f.clock, zerolog.Nop(), f.rec)
	_, err = uc.MoveAnimal(context.Background(), appkennel.MoveInput{OrganizationID: org, AnimalID: "D1", TargetKennelID: ptr("K2")})
	require.ErrorIs(t, err, errInsert)

	// el cierre de la estadía en K1 se descartó junto con la tx
	active, err := f.store.Stays().GetActive(context.Background(), org, "D1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "K1", active.KennelID)
	assert.Nil(t, active.EndAt)
	assert.Equal(t, 1, f.rec.counts[appkennel.OutcomeError])
}

func TestMoveAnimal_ContextoCancelado(t *testing.T) {
	f := newFixture(t)
	f.kennel(t, "K", 2, entity.KennelStatusAvailable, nil)
	f.animal(t, "D1", "dog")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.uc.MoveAnimal(ctx, appkennel.MoveInput{OrganizationID: org, AnimalID: "D1", TargetKennelID: ptr("K")})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.occupancy(t, "K"))
}
