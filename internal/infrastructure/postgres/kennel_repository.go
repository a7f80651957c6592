package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Refugio-api/internal/domain"
	"github.com/jhoicas/Refugio-api/internal/domain/entity"
	"github.com/jhoicas/Refugio-api/internal/domain/repository"
)

var _ repository.KennelRepository = (*KennelRepo)(nil)

// KennelRepo implementación de KennelRepository sobre PostgreSQL (usable con pool o tx).
type KennelRepo struct {
	q Querier
}

// NewKennelRepository construye el adaptador de caniles. Pasar pool o tx (Querier).
func NewKennelRepository(q Querier) *KennelRepo {
	return &KennelRepo{q: q}
}

const kennelColumns = `id, organization_id, code, name, zone, status, capacity, capacity_rules, notes, created_at, updated_at`

// Create persiste un canil nuevo. Código duplicado en la organización -> ErrConflict.
func (r *KennelRepo) Create(ctx context.Context, k *entity.Kennel) error {
	rules, err := json.Marshal(k.CapacityRules)
	if err != nil {
		return fmt.Errorf("marshal capacity_rules: %w", err)
	}
	query := `
		INSERT INTO kennels (` + kennelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.q.Exec(ctx, query,
		k.ID, k.OrganizationID, k.Code, k.Name, k.Zone, string(k.Status), k.Capacity, rules, k.Notes,
		k.CreatedAt, k.UpdatedAt,
	)
	if err != nil {
		return wrapErr("insert kennel", err)
	}
	return nil
}

// GetByID obtiene un canil de la organización; (nil, nil) si no existe.
func (r *KennelRepo) GetByID(ctx context.Context, organizationID, id string) (*entity.Kennel, error) {
	query := `SELECT ` + kennelColumns + ` FROM kennels WHERE organization_id = $1 AND id = $2`
	k, err := scanKennel(r.q.QueryRow(ctx, query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get kennel", err)
	}
	return k, nil
}

// GetForUpdate obtiene el canil y bloquea la fila (SELECT FOR UPDATE).
func (r *KennelRepo) GetForUpdate(ctx context.Context, organizationID, id string) (*entity.Kennel, error) {
	query := `SELECT ` + kennelColumns + ` FROM kennels WHERE organization_id = $1 AND id = $2 FOR UPDATE`
	k, err := scanKennel(r.q.QueryRow(ctx, query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get kennel for update", err)
	}
	return k, nil
}

// Update actualiza atributos editables. El código es inmutable.
func (r *KennelRepo) Update(ctx context.Context, k *entity.Kennel) error {
	rules, err := json.Marshal(k.CapacityRules)
	if err != nil {
		return fmt.Errorf("marshal capacity_rules: %w", err)
	}
	query := `
		UPDATE kennels
		SET name = $3, zone = $4, status = $5, capacity = $6, capacity_rules = $7, notes = $8, updated_at = $9
		WHERE organization_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		k.OrganizationID, k.ID, k.Name, k.Zone, string(k.Status), k.Capacity, rules, k.Notes, k.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update kennel", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrKennelNotFound
	}
	return nil
}

// ListByOrganization lista caniles por organización con paginación.
func (r *KennelRepo) ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]*entity.Kennel, error) {
	query := `SELECT ` + kennelColumns + `
		FROM kennels WHERE organization_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, wrapErr("list kennels", err)
	}
	defer rows.Close()
	list := make([]*entity.Kennel, 0)
	for rows.Next() {
		k, err := scanKennel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kennel: %w", err)
		}
		list = append(list, k)
	}
	return list, rows.Err()
}

func scanKennel(row pgx.Row) (*entity.Kennel, error) {
	var (
		k      entity.Kennel
		status string
		rules  []byte
	)
	if err := row.Scan(
		&k.ID, &k.OrganizationID, &k.Code, &k.Name, &k.Zone, &status, &k.Capacity, &rules, &k.Notes,
		&k.CreatedAt, &k.UpdatedAt,
	); err != nil {
		return nil, err
	}
	k.Status = entity.KennelStatus(status)
	if len(rules) > 0 {
		if err := json.Unmarshal(rules, &k.CapacityRules); err != nil {
			return nil, fmt.Errorf("unmarshal capacity_rules: %w", err)
		}
	}
	return &k, nil
}
