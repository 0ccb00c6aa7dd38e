package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE codes the repositories care about
const (
	SQLStateNotNullViolation    = "23502"
	SQLStateForeignKeyViolation = "23503"
	SQLStateUniqueViolation     = "23505"
	SQLStateCheckViolation      = "23514"
)

// SQLState extracts the SQLSTATE code from a driver error. Both supported
// drivers are recognised; an empty string means the error did not come from
// the server.
func SQLState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

// IsConstraintViolation reports whether err is an integrity constraint
// violation (SQLSTATE class 23)
func IsConstraintViolation(err error) bool {
	return strings.HasPrefix(SQLState(err), "23")
}
