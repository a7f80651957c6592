package memory

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/Refugio-api/internal/domain"
	"github.com/jhoicas/Refugio-api/internal/domain/entity"
	"github.com/jhoicas/Refugio-api/internal/domain/repository"
)

var _ repository.KennelRepository = (*kennelRepo)(nil)

type kennelRepo struct {
	tx *tx
}

func (r *kennelRepo) Create(_ context.Context, k *entity.Kennel) error {
	if strings.TrimSpace(k.ID) == "" {
		return errors.New("kennel id required")
	}
	r.tx.lock("kennel:" + k.ID)
	if _, exists := r.tx.kennel(k.ID); exists {
		return domain.ErrConflict
	}
	if k.Code != "" {
		// equivalente al índice único (organization_id, code)
		for _, other := range r.tx.allKennels() {
			if other.OrganizationID == k.OrganizationID && other.Code == k.Code {
				return domain.ErrConflict
			}
		}
	}
	r.tx.putKennel(cloneKennel(*k))
	return nil
}

func (r *kennelRepo) GetByID(_ context.Context, organizationID, id string) (*entity.Kennel, error) {
	k, ok := r.tx.kennel(id)
	if !ok || k.OrganizationID != organizationID {
		return nil, nil
	}
	out := cloneKennel(k)
	return &out, nil
}

func (r *kennelRepo) GetForUpdate(ctx context.Context, organizationID, id string) (*entity.Kennel, error) {
	r.tx.lock("kennel:" + id)
	return r.GetByID(ctx, organizationID, id)
}

func (r *kennelRepo) Update(_ context.Context, k *entity.Kennel) error {
	r.tx.lock("kennel:" + k.ID)
	current, ok := r.tx.kennel(k.ID)
	if !ok || current.OrganizationID != k.OrganizationID {
		return domain.ErrKennelNotFound
	}
	updated := cloneKennel(*k)
	updated.CreatedAt = current.CreatedAt
	updated.Code = current.Code
	r.tx.putKennel(updated)
	return nil
}

func (r *kennelRepo) ListByOrganization(_ context.Context, organizationID string, limit, offset int) ([]*entity.Kennel, error) {
	all := make([]entity.Kennel, 0)
	for _, k := range r.tx.allKennels() {
		if k.OrganizationID == organizationID {
			all = append(all, k)
		}
	}
	sortByNewest(all, func(k entity.Kennel) int64 { return k.CreatedAt.UnixNano() })
	list := make([]*entity.Kennel, 0, len(all))
	for _, k := range page(all, limit, offset) {
		c := cloneKennel(k)
		list = append(list, &c)
	}
	return list, nil
}

func cloneKennel(k entity.Kennel) entity.Kennel {
	if k.CapacityRules.BySpecies != nil {
		rules := make(map[string]int, len(k.CapacityRules.BySpecies))
		for species, c := range k.CapacityRules.BySpecies {
			rules[species] = c
		}
		k.CapacityRules.BySpecies = rules
	}
	return k
}
