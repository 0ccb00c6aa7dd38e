package repository

import (
	"errors"
	"fmt"

	"github.com/parsascontentcorner/guildstore/internal/database"
)

var (
	// ErrMalformedRow matches every *MalformedRowError
	ErrMalformedRow = errors.New("malformed row")
	// ErrPersistence matches every *PersistenceError
	ErrPersistence = errors.New("persistence failure")
	// ErrInvalidChannel is returned by Save before any statement runs
	ErrInvalidChannel = errors.New("invalid channel")
	// ErrInvalidMember is returned by member Save before any statement runs
	ErrInvalidMember = errors.New("invalid member")
)

// MalformedRowError reports a fetched row the mapper cannot turn into an aggregate
type MalformedRowError struct {
	Column string
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row: column %q: %s", e.Column, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedRow) hold
func (e *MalformedRowError) Is(target error) bool {
	return target == ErrMalformedRow
}

func malformed(column, format string, args ...any) *MalformedRowError {
	return &MalformedRowError{Column: column, Reason: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a failed statement or transaction control call.
// SQLState is empty when the failure did not come from the server.
type PersistenceError struct {
	Op       string
	SQLState string
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.SQLState != "" {
		return fmt.Sprintf("failed to %s (sqlstate %s): %v", e.Op, e.SQLState, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrPersistence) hold
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func persistenceError(op string, err error) error {
	var pErr *PersistenceError
	if errors.As(err, &pErr) {
		return err
	}
	return &PersistenceError{Op: op, SQLState: database.SQLState(err), Err: err}
}
