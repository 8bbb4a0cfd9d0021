// Package memory provides an in-process expense store. It is the default
// backend and the one the tests run against.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"

	"outlay/internal/core"
	"outlay/internal/store"
)

type Store struct {
	mu    sync.Mutex
	items map[string]core.Expense
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{items: make(map[string]core.Expense)}
}

// Insert assigns a random hex identifier and stores the record.
func (s *Store) Insert(_ context.Context, e core.Expense) (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", store.ErrUnavailable
	}
	id := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = id
	s.items[id] = e
	return id, nil
}

func (s *Store) ListAll(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) UpdateFields(_ context.Context, id string, patch core.ExpensePatch) error {
	if id == "" {
		return store.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return store.ErrNotFound
	}
	s.items[id] = patch.Apply(e)
	return nil
}

func (s *Store) DeleteByID(_ context.Context, id string) (int64, error) {
	if id == "" {
		return 0, store.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return 0, nil
	}
	delete(s.items, id)
	return 1, nil
}
