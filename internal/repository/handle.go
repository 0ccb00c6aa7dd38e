// Package repository persists guild aggregates in PostgreSQL.
//
// Repositories receive their persistence handle through their constructor
// and keep no other state, so one instance can serve concurrent callers.
// They never log: every failure is returned to the caller.
package repository

import (
	"context"
	"database/sql"
)

// Handle is the persistence capability repositories need: statement
// execution, row fetching and transactions. *database.DB and *sql.DB both
// satisfy it.
type Handle interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// execer is the statement surface shared by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
