package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Refugio-api/internal/domain"
	"github.com/jhoicas/Refugio-api/internal/domain/entity"
	"github.com/jhoicas/Refugio-api/internal/domain/repository"
)

var _ repository.KennelStayRepository = (*stayRepo)(nil)

type stayRepo struct {
	tx *tx
}

func (r *stayRepo) Create(_ context.Context, st *entity.KennelStay) error {
	if strings.TrimSpace(st.ID) == "" {
		return errors.New("stay id required")
	}
	if st.EndAt == nil {
		// equivalente al índice parcial único kennel_stays(animal_id) WHERE end_at IS NULL
		for _, other := range r.tx.allStays() {
			if other.AnimalID == st.AnimalID && other.EndAt == nil {
				return domain.ErrConflict
			}
		}
	}
	r.tx.lock("stay:" + st.ID)
	r.tx.putStay(cloneStay(*st))
	return nil
}

func (r *stayRepo) GetActive(_ context.Context, organizationID, animalID string) (*entity.KennelStay, error) {
	for _, st := range r.tx.allStays() {
		if st.OrganizationID == organizationID && st.AnimalID == animalID && st.EndAt == nil {
			out := cloneStay(st)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *stayRepo) GetActiveForUpdate(ctx context.Context, organizationID, animalID string) (*entity.KennelStay, error) {
	st, err := r.GetActive(ctx, organizationID, animalID)
	if err != nil || st == nil {
		return st, err
	}
	r.tx.lock("stay:" + st.ID)
	// relectura tras obtener el bloqueo
	return r.GetActive(ctx, organizationID, animalID)
}

func (r *stayRepo) Close(_ context.Context, organizationID, id string, endAt time.Time) error {
	r.tx.lock("stay:" + id)
	for _, st := range r.tx.allStays() {
		if st.ID != id || st.OrganizationID != organizationID {
			continue
		}
		if st.EndAt != nil {
			return domain.ErrConflict
		}
		end := endAt
		st.EndAt = &end
		r.tx.putStay(st)
		return nil
	}
	return domain.ErrNotFound
}

func (r *stayRepo) CountActiveByKennel(_ context.Context, organizationID, kennelID string) (int, error) {
	n := 0
	for _, st := range r.tx.allStays() {
		if st.OrganizationID == organizationID && st.KennelID == kennelID && st.EndAt == nil {
			n++
		}
	}
	return n, nil
}

func (r *stayRepo) ListActiveByKennel(_ context.Context, organizationID, kennelID string) ([]*entity.KennelStay, error) {
	active := make([]entity.KennelStay, 0)
	for _, st := range r.tx.allStays() {
		if st.OrganizationID == organizationID && st.KennelID == kennelID && st.EndAt == nil {
			active = append(active, st)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].StartAt.Before(active[j].StartAt) })
	list := make([]*entity.KennelStay, 0, len(active))
	for _, st := range active {
		c := cloneStay(st)
		list = append(list, &c)
	}
	return list, nil
}

func (r *stayRepo) ListByAnimal(_ context.Context, organizationID, animalID string, limit, offset int) ([]*entity.KennelStay, error) {
	all := make([]entity.KennelStay, 0)
	for _, st := range r.tx.allStays() {
		if st.OrganizationID == organizationID && st.AnimalID == animalID {
			all = append(all, st)
		}
	}
	sortByNewest(all, func(st entity.KennelStay) int64 { return st.StartAt.UnixNano() })
	list := make([]*entity.KennelStay, 0, len(all))
	for _, st := range page(all, limit, offset) {
		c := cloneStay(st)
		list = append(list, &c)
	}
	return list, nil
}

func cloneStay(st entity.KennelStay) entity.KennelStay {
	if st.EndAt != nil {
		end := *st.EndAt
		st.EndAt = &end
	}
	return st
}
