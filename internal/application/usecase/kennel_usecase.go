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

// KennelUseCase casos de uso de caniles: alta, edición, listado y ocupación.
type KennelUseCase struct {
	repo    repository.KennelRepository
	stays   repository.KennelStayRepository
	animals repository.AnimalRepository
	clock   clock.Clock
}

// NewKennelUseCase construye el caso de uso. clk nil = reloj de pared.
func NewKennelUseCase(repo repository.KennelRepository, stays repository.KennelStayRepository, animals repository.AnimalRepository, clk clock.Clock) *KennelUseCase {
	if clk == nil {
		clk = clock.WallClock
	}
	return &KennelUseCase{repo: repo, stays: stays, animals: animals, clock: clk}
}

// Create crea un canil. Sin código explícito se usa un prefijo del ID.
func (uc *KennelUseCase) Create(ctx context.Context, organizationID string, in dto.CreateKennelRequest) (*dto.KennelResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Capacity < 1 {
		return nil, domain.ErrInvalidInput
	}
	status := entity.KennelStatusAvailable
	if in.Status != "" {
		status = entity.KennelStatus(in.Status)
		if !status.IsValid() {
			return nil, domain.ErrInvalidInput
		}
	}
	rules, err := domkennel.NormalizeCapacityRules(in.CapacityRules.BySpecies)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	code := strings.TrimSpace(in.Code)
	if code == "" {
		code = strings.ToUpper(id[:8])
	}
	now := uc.clock.Now().UTC()
	k := &entity.Kennel{
		ID:             id,
		OrganizationID: organizationID,
		Code:           code,
		Name:           name,
		Zone:           strings.TrimSpace(in.Zone),
		Status:         status,
		Capacity:       in.Capacity,
		CapacityRules:  rules,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, k); err != nil {
		return nil, err
	}
	return toKennelResponse(k), nil
}

// GetByID obtiene un canil de la organización.
func (uc *KennelUseCase) GetByID(ctx context.Context, organizationID, id string) (*dto.KennelResponse, error) {
	k, err := uc.get(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return toKennelResponse(k), nil
}

// Update aplica los campos presentes. Cambiar el estado no desaloja a los ocupantes actuales.
func (uc *KennelUseCase) Update(ctx context.Context, organizationID, id string, in dto.UpdateKennelRequest) (*dto.KennelResponse, error) {
	k, err := uc.get(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		k.Name = name
	}
	if in.Zone != nil {
		k.Zone = strings.TrimSpace(*in.Zone)
	}
	if in.Status != nil {
		status := entity.KennelStatus(*in.Status)
		if !status.IsValid() {
			return nil, domain.ErrInvalidInput
		}
		k.Status = status
	}
	if in.Capacity != nil {
		if *in.Capacity < 1 {
			return nil, domain.ErrInvalidInput
		}
		k.Capacity = *in.Capacity
	}
	if in.CapacityRules != nil {
		rules, err := domkennel.NormalizeCapacityRules(in.CapacityRules.BySpecies)
		if err != nil {
			return nil, err
		}
		k.CapacityRules = rules
	}
	if in.Notes != nil {
		k.Notes = *in.Notes
	}
	k.UpdatedAt = uc.clock.Now().UTC()
	if err := uc.repo.Update(ctx, k); err != nil {
		return nil, err
	}
	return toKennelResponse(k), nil
}

// List lista caniles por organización con paginación.
func (uc *KennelUseCase) List(ctx context.Context, organizationID string, page dto.PageRequest) (*dto.KennelListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByOrganization(ctx, organizationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.KennelResponse, 0, len(list))
	for _, k := range list {
		items = append(items, *toKennelResponse(k))
	}
	return &dto.KennelListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Occupancy ocupación actual del canil (lectura sin bloqueos) y capacidad efectiva por especie.
func (uc *KennelUseCase) Occupancy(ctx context.Context, organizationID, id string) (*dto.OccupancyResponse, error) {
	k, err := uc.get(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	active, err := uc.stays.ListActiveByKennel(ctx, organizationID, k.ID)
	if err != nil {
		return nil, err
	}
	occupants := make([]dto.OccupantResponse, 0, len(active))
	for _, st := range active {
		o := dto.OccupantResponse{StayID: st.ID, AnimalID: st.AnimalID, StartAt: st.StartAt, Reason: st.Reason}
		if a, err := uc.animals.GetByID(ctx, organizationID, st.AnimalID); err != nil {
			return nil, err
		} else if a != nil {
			o.Species = a.Species
		}
		occupants = append(occupants, o)
	}

	var bySpecies map[string]int
	if len(k.CapacityRules.BySpecies) > 0 {
		bySpecies = make(map[string]int, len(k.CapacityRules.BySpecies))
		for species := range k.CapacityRules.BySpecies {
			bySpecies[species] = domkennel.EffectiveCapacity(k, species)
		}
	}
	return &dto.OccupancyResponse{
		Kennel:            *toKennelResponse(k),
		Occupied:          len(active),
		DefaultCapacity:   k.Capacity,
		CapacityBySpecies: bySpecies,
		Occupants:         occupants,
	}, nil
}

func (uc *KennelUseCase) get(ctx context.Context, organizationID, id string) (*entity.Kennel, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidInput
	}
	k, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, domain.ErrKennelNotFound
	}
	return k, nil
}

func toKennelResponse(k *entity.Kennel) *dto.KennelResponse {
	if k == nil {
		return nil
	}
	var rules map[string]int
	if len(k.CapacityRules.BySpecies) > 0 {
		rules = make(map[string]int, len(k.CapacityRules.BySpecies))
		for species, c := range k.CapacityRules.BySpecies {
			rules[species] = c
		}
	}
	return &dto.KennelResponse{
		ID:             k.ID,
		OrganizationID: k.OrganizationID,
		Code:           k.Code,
		Name:           k.Name,
		Zone:           k.Zone,
		Status:         string(k.Status),
		Capacity:       k.Capacity,
		CapacityRules:  dto.CapacityRulesDTO{BySpecies: rules},
		Notes:          k.Notes,
		CreatedAt:      k.CreatedAt,
		UpdatedAt:      k.UpdatedAt,
	}
}
