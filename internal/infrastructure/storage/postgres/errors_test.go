package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: ConstraintOpenShift})

	name, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, ConstraintOpenShift, name)

	_, ok = UniqueViolation(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok)
	_, ok = UniqueViolation(errors.New("plain"))
	assert.False(t, ok)
}
