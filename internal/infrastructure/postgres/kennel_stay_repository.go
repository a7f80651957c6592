package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Refugio-api/internal/domain"
	"github.com/jhoicas/Refugio-api/internal/domain/entity"
	"github.com/jhoicas/Refugio-api/internal/domain/repository"
)

var _ repository.KennelStayRepository = (*KennelStayRepo)(nil)

// KennelStayRepo implementación de KennelStayRepository sobre PostgreSQL (usable con pool o tx).
type KennelStayRepo struct {
	q Querier
}

// NewKennelStayRepository construye el adaptador de estadías. Pasar pool o tx (Querier).
func NewKennelStayRepository(q Querier) *KennelStayRepo {
	return &KennelStayRepo{q: q}
}

const stayColumns = `id, organization_id, kennel_id, animal_id, start_at, end_at, reason, notes, moved_by`

// Create inserta una estadía. Una segunda estadía abierta del mismo animal viola
// ux_kennel_stays_active_animal y se devuelve como ErrConflict.
func (r *KennelStayRepo) Create(ctx context.Context, st *entity.KennelStay) error {
	query := `
		INSERT INTO kennel_stays (` + stayColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		st.ID, st.OrganizationID, st.KennelID, st.AnimalID, st.StartAt, st.EndAt, st.Reason, st.Notes, st.MovedBy,
	)
	if err != nil {
		return wrapErr("insert kennel stay", err)
	}
	return nil
}

// GetActive estadía abierta del animal; nil si no está en ningún canil.
func (r *KennelStayRepo) GetActive(ctx context.Context, organizationID, animalID string) (*entity.KennelStay, error) {
	query := `SELECT ` + stayColumns + `
		FROM kennel_stays WHERE organization_id = $1 AND animal_id = $2 AND end_at IS NULL`
	st, err := scanStay(r.q.QueryRow(ctx, query, organizationID, animalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get active stay", err)
	}
	return st, nil
}

// GetActiveForUpdate igual que GetActive con FOR UPDATE.
func (r *KennelStayRepo) GetActiveForUpdate(ctx context.Context, organizationID, animalID string) (*entity.KennelStay, error) {
	query := `SELECT ` + stayColumns + `
		FROM kennel_stays WHERE organization_id = $1 AND animal_id = $2 AND end_at IS NULL
		FOR UPDATE`
	st, err := scanStay(r.q.QueryRow(ctx, query, organizationID, animalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get active stay for update", err)
	}
	return st, nil
}

// Close fija end_at solo si la estadía sigue abierta.
func (r *KennelStayRepo) Close(ctx context.Context, organizationID, id string, endAt time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE kennel_stays SET end_at = $3
		WHERE organization_id = $1 AND id = $2 AND end_at IS NULL`,
		organizationID, id, endAt,
	)
	if err != nil {
		return wrapErr("close kennel stay", err)
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	err = r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM kennel_stays WHERE organization_id = $1 AND id = $2)`,
		organizationID, id,
	).Scan(&exists)
	if err != nil {
		return wrapErr("close kennel stay", err)
	}
	if exists {
		return fmt.Errorf("close kennel stay: ya cerrada: %w", domain.ErrConflict)
	}
	return fmt.Errorf("close kennel stay: %w", domain.ErrNotFound)
}

// CountActiveByKennel ocupación actual: estadías abiertas del canil.
func (r *KennelStayRepo) CountActiveByKennel(ctx context.Context, organizationID, kennelID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM kennel_stays
		WHERE organization_id = $1 AND kennel_id = $2 AND end_at IS NULL`,
		organizationID, kennelID,
	).Scan(&n)
	if err != nil {
		return 0, wrapErr("count active stays", err)
	}
	return n, nil
}

// ListActiveByKennel estadías abiertas del canil, de la más antigua a la más reciente.
func (r *KennelStayRepo) ListActiveByKennel(ctx context.Context, organizationID, kennelID string) ([]*entity.KennelStay, error) {
	query := `SELECT ` + stayColumns + `
		FROM kennel_stays WHERE organization_id = $1 AND kennel_id = $2 AND end_at IS NULL
		ORDER BY start_at ASC`
	return r.list(ctx, "list active stays", query, organizationID, kennelID)
}

// ListByAnimal historial del animal, más reciente primero.
func (r *KennelStayRepo) ListByAnimal(ctx context.Context, organizationID, animalID string, limit, offset int) ([]*entity.KennelStay, error) {
	query := `SELECT ` + stayColumns + `
		FROM kennel_stays WHERE organization_id = $1 AND animal_id = $2
		ORDER BY start_at DESC LIMIT $3 OFFSET $4`
	return r.list(ctx, "list animal stays", query, organizationID, animalID, limit, offset)
}

func (r *KennelStayRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.KennelStay, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	list := make([]*entity.KennelStay, 0)
	for rows.Next() {
		st, err := scanStay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kennel stay: %w", err)
		}
		list = append(list, st)
	}
	return list, rows.Err()
}

func scanStay(row pgx.Row) (*entity.KennelStay, error) {
	var st entity.KennelStay
	if err := row.Scan(
		&st.ID, &st.OrganizationID, &st.KennelID, &st.AnimalID, &st.StartAt, &st.EndAt, &st.Reason, &st.Notes, &st.MovedBy,
	); err != nil {
		return nil, err
	}
	return &st, nil
}
