package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/juju/clock"

	"github.com/jhoicas/Refugio-api/internal/application/dto"
	"github.com/jhoicas/Refugio-api/internal/domain"
	"github.com/jhoicas/Refugio-api/internal/domain/entity"
	domkennel "github.com/jhoicas/Refugio-api/internal/domain/kennel"
	"github.com/jhoicas/Refugio-api/internal/domain/repository"
)

// AnimalUseCase alta y consulta de animales e historial de estadías.
type AnimalUseCase struct {
	repo  repository.AnimalRepository
	stays repository.KennelStayRepository
	clock clock.Clock
}

// NewAnimalUseCase construye el caso de uso. clk nil = reloj de pared.
func NewAnimalUseCase(repo repository.AnimalRepository, stays repository.KennelStayRepository, clk clock.Clock) *AnimalUseCase {
	if clk == nil {
		clk = clock.WallClock
	}
	return &AnimalUseCase{repo: repo, stays: stays, clock: clk}
}

// Register da de alta al animal sin canil asignado; el ingreso a canil es un movimiento.
func (uc *AnimalUseCase) Register(ctx context.Context, organizationID string, in dto.RegisterAnimalRequest) (*dto.AnimalResponse, error) {
	name := strings.TrimSpace(in.Name)
	species := domkennel.NormalizeSpecies(in.Species)
	if name == "" || species == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.WeightKg != nil && in.WeightKg.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	weight := in.WeightKg
	if weight != nil {
		w := weight.Round(2)
		weight = &w
	}
	now := uc.clock.Now().UTC()
	a := &entity.Animal{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Name:           name,
		Species:        species,
		Breed:          strings.TrimSpace(in.Breed),
		WeightKg:       weight,
		Status:         entity.AnimalStatusSheltered,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return toAnimalResponse(a, nil), nil
}

// GetByID devuelve el animal con su canil actual derivado de la estadía activa.
func (uc *AnimalUseCase) GetByID(ctx context.Context, organizationID, id string) (*dto.AnimalResponse, error) {
	a, err := uc.get(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	active, err := uc.stays.GetActive(ctx, organizationID, a.ID)
	if err != nil {
		return nil, err
	}
	var current *string
	if active != nil {
		k := active.KennelID
		current = &k
	}
	return toAnimalResponse(a, current), nil
}

// List lista animales de la organización. No resuelve el canil actual de cada uno.
func (uc *AnimalUseCase) List(ctx context.Context, organizationID string, page dto.PageRequest) (*dto.AnimalListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByOrganization(ctx, organizationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AnimalResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAnimalResponse(a, nil))
	}
	return &dto.AnimalListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// History estadías del animal, más reciente primero.
func (uc *AnimalUseCase) History(ctx context.Context, organizationID, id string, page dto.PageRequest) (*dto.StayListResponse, error) {
	a, err := uc.get(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.stays.ListByAnimal(ctx, organizationID, a.ID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StayResponse, 0, len(list))
	for _, st := range list {
		items = append(items, dto.StayResponse{
			ID:       st.ID,
			KennelID: st.KennelID,
			AnimalID: st.AnimalID,
			StartAt:  st.StartAt,
			EndAt:    st.EndAt,
			Reason:   st.Reason,
			Notes:    st.Notes,
			MovedBy:  st.MovedBy,
		})
	}
	return &dto.StayListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func (uc *AnimalUseCase) get(ctx context.Context, organizationID, id string) (*entity.Animal, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidInput
	}
	a, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrAnimalNotFound
	}
	return a, nil
}

func toAnimalResponse(a *entity.Animal, currentKennelID *string) *dto.AnimalResponse {
	return &dto.AnimalResponse{
		ID:              a.ID,
		OrganizationID:  a.OrganizationID,
		Name:            a.Name,
		Species:         a.Species,
		Breed:           a.Breed,
		WeightKg:        a.WeightKg,
		Status:          a.Status,
		CurrentKennelID: currentKennelID,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
