// Package store defines the persistence port for expense records.
// Identifier generation and uniqueness are delegated to the concrete
// engine; the service layer never interprets identifiers beyond passing
// them through.
package store

import (
	"context"
	"errors"

	"outlay/internal/core"
)

var (
	// ErrNotFound means the identifier is well formed but no record matches.
	ErrNotFound = errors.New("no entity with such `id`")
	// ErrInvalidID means the identifier cannot name a record in this engine.
	ErrInvalidID = errors.New("malformed expense id")
	// ErrUnavailable means the underlying engine failed or timed out.
	ErrUnavailable = errors.New("storage unavailable")
)

// Store is the persistence port for expense records.
type Store interface {
	// Insert persists the record, assigns a fresh unique identifier and
	// returns it. The caller is expected to pass a validated record.
	Insert(ctx context.Context, e core.Expense) (string, error)

	// ListAll returns every stored record in no particular order.
	ListAll(ctx context.Context) ([]core.Expense, error)

	// UpdateFields merges only the supplied patch fields into the record.
	// An empty patch still resolves the identifier, so unknown ids report
	// ErrNotFound either way.
	UpdateFields(ctx context.Context, id string, patch core.ExpensePatch) error

	// DeleteByID removes the record, returning the number of records
	// removed (0 or 1).
	DeleteByID(ctx context.Context, id string) (int64, error)
}
