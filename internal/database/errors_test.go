package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestSQLState(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("connection refused"), ""},
		{"lib/pq error", &pq.Error{Code: "23505"}, SQLStateUniqueViolation},
		{"wrapped lib/pq error", fmt.Errorf("exec: %w", &pq.Error{Code: "23514"}), SQLStateCheckViolation},
		{"pgx error", &pgconn.PgError{Code: "23503"}, SQLStateForeignKeyViolation},
		{"wrapped pgx error", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "57014"}), "57014"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SQLState(tt.err))
		})
	}
}

func TestIsConstraintViolation(t *testing.T) {
	assert.True(t, IsConstraintViolation(&pq.Error{Code: "23502"}))
	assert.True(t, IsConstraintViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, IsConstraintViolation(&pq.Error{Code: "40001"}))
	assert.False(t, IsConstraintViolation(errors.New("boom")))
}
