package memory

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/Refugio-api/internal/domain"
	"github.com/jhoicas/Refugio-api/internal/domain/entity"
	"github.com/jhoicas/Refugio-api/internal/domain/repository"
)

var _ repository.AnimalRepository = (*animalRepo)(nil)

type animalRepo struct {
	tx *tx
}

func (r *animalRepo) Create(_ context.Context, a *entity.Animal) error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	r.tx.lock("animal:" + a.ID)
	if _, exists := r.tx.animal(a.ID); exists {
		return domain.ErrConflict
	}
	r.tx.putAnimal(cloneAnimal(*a))
	return nil
}

func (r *animalRepo) GetByID(_ context.Context, organizationID, id string) (*entity.Animal, error) {
	a, ok := r.tx.animal(id)
	if !ok || a.OrganizationID != organizationID {
		return nil, nil
	}
	out := cloneAnimal(a)
	return &out, nil
}

func (r *animalRepo) GetForUpdate(ctx context.Context, organizationID, id string) (*entity.Animal, error) {
	r.tx.lock("animal:" + id)
	return r.GetByID(ctx, organizationID, id)
}

func (r *animalRepo) ListByOrganization(_ context.Context, organizationID string, limit, offset int) ([]*entity.Animal, error) {
	all := make([]entity.Animal, 0)
	for _, a := range r.tx.allAnimals() {
		if a.OrganizationID == organizationID {
			all = append(all, a)
		}
	}
	sortByNewest(all, func(a entity.Animal) int64 { return a.CreatedAt.UnixNano() })
	list := make([]*entity.Animal, 0, len(all))
	for _, a := range page(all, limit, offset) {
		c := cloneAnimal(a)
		list = append(list, &c)
	}
	return list, nil
}

func cloneAnimal(a entity.Animal) entity.Animal {
	if a.WeightKg != nil {
		w := *a.WeightKg
		a.WeightKg = &w
	}
	return a
}
