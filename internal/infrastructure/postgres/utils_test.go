package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Refugio-api/internal/domain"
)

func TestWrapErr(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "ux_kennel_stays_active_animal"}
	assert.ErrorIs(t, wrapErr("insert kennel stay", unique), domain.ErrConflict)

	lock := fmt.Errorf("query: %w", &pgconn.PgError{Code: "55P03"})
	err := wrapErr("get kennel for update", lock)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "lock timeout")

	other := errors.New("conn reset")
	err = wrapErr("list kennels", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, domain.ErrConflict)
}
