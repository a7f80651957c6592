package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Refugio-api/internal/domain/entity"
	"github.com/jhoicas/Refugio-api/internal/domain/repository"
)

var _ repository.AnimalRepository = (*AnimalRepo)(nil)

// AnimalRepo implementación de AnimalRepository sobre PostgreSQL (usable con pool o tx).
type AnimalRepo struct {
	q Querier
}

// NewAnimalRepository construye el adaptador de animales. Pasar pool o tx (Querier).
func NewAnimalRepository(q Querier) *AnimalRepo {
	return &AnimalRepo{q: q}
}

const animalColumns = `id, organization_id, name, species, breed, weight_kg, status, created_at, updated_at`

// Create persiste un animal nuevo.
func (r *AnimalRepo) Create(ctx context.Context, a *entity.Animal) error {
	query := `
		INSERT INTO animals (` + animalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.OrganizationID, a.Name, a.Species, a.Breed, a.WeightKg, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return wrapErr("insert animal", err)
	}
	return nil
}

// GetByID obtiene un animal de la organización; (nil, nil) si no existe.
func (r *AnimalRepo) GetByID(ctx context.Context, organizationID, id string) (*entity.Animal, error) {
	query := `SELECT ` + animalColumns + ` FROM animals WHERE organization_id = $1 AND id = $2`
	a, err := scanAnimal(r.q.QueryRow(ctx, query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get animal", err)
	}
	return a, nil
}

// GetForUpdate obtiene el animal y bloquea la fila (SELECT FOR UPDATE).
func (r *AnimalRepo) GetForUpdate(ctx context.Context, organizationID, id string) (*entity.Animal, error) {
	query := `SELECT ` + animalColumns + ` FROM animals WHERE organization_id = $1 AND id = $2 FOR UPDATE`
	a, err := scanAnimal(r.q.QueryRow(ctx, query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get animal for update", err)
	}
	return a, nil
}

// ListByOrganization lista animales por organización con paginación.
func (r *AnimalRepo) ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]*entity.Animal, error) {
	query := `SELECT ` + animalColumns + `
		FROM animals WHERE organization_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, wrapErr("list animals", err)
	}
	defer rows.Close()
	list := make([]*entity.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan animal: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAnimal(row pgx.Row) (*entity.Animal, error) {
	var a entity.Animal
	if err := row.Scan(
		&a.ID, &a.OrganizationID, &a.Name, &a.Species, &a.Breed, &a.WeightKg, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
