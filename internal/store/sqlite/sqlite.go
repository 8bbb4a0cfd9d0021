// Package sqlite persists expenses in a local SQLite database. Row ids are
// rendered as decimal strings at the Store boundary.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"outlay/internal/core"
	"outlay/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, e core.Expense) (string, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (description, cost, created_date) VALUES (?, ?, ?)`,
		e.Description, e.Cost, e.CreatedDate.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", unavailable("insert expense", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return "", unavailable("insert expense", err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (s *Store) ListAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, cost, created_date FROM expenses`)
	if err != nil {
		return nil, unavailable("list expenses", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			id      int64
			e       core.Expense
			created string
		)
		if err := rows.Scan(&id, &e.Description, &e.Cost, &created); err != nil {
			return nil, unavailable("scan expense", err)
		}
		e.ID = strconv.FormatInt(id, 10)
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedDate = t
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list expenses", err)
	}
	return out, nil
}

func (s *Store) UpdateFields(ctx context.Context, id string, patch core.ExpensePatch) error {
	rowID, err := parseID(id)
	if err != nil {
		return err
	}

	var (
		assignments []string
		args        []any
	)
	if patch.Description != nil {
		assignments = append(assignments, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Cost != nil {
		assignments = append(assignments, "cost = ?")
		args = append(args, *patch.Cost)
	}

	if len(assignments) == 0 {
		var one int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM expenses WHERE id = ?`, rowID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return unavailable("find expense", err)
		}
		return nil
	}

	args = append(args, rowID)
	result, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET `+strings.Join(assignments, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return unavailable("update expense", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return unavailable("update expense", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) (int64, error) {
	rowID, err := parseID(id)
	if err != nil {
		return 0, err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, rowID)
	if err != nil {
		return 0, unavailable("delete expense", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, unavailable("delete expense", err)
	}
	return n, nil
}

func parseID(id string) (int64, error) {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || rowID < 1 {
		return 0, store.ErrInvalidID
	}
	return rowID, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, store.ErrUnavailable, err)
}
