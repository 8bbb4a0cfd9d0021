// Package service validates requests and orchestrates store calls. Handlers
// stay thin; every rule from the persistence contract lives here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"outlay/internal/amqp"
	"outlay/internal/core"
	"outlay/internal/store"
)

// EventPublisher pushes expense events to the mirror queue. Publishing is
// best effort; the store write has already happened when it runs.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, ev *amqp.ExpenseEvent) error
}

const defaultStoreTimeout = 5 * time.Second

// ExpenseService implements the expense CRUD contract on top of a Store.
type ExpenseService struct {
	store        store.Store
	events       EventPublisher
	storeTimeout time.Duration
}

func New(st store.Store, events EventPublisher, storeTimeout time.Duration) *ExpenseService {
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &ExpenseService{
		store:        st,
		events:       events,
		storeTimeout: storeTimeout,
	}
}

// Add validates the candidate fields, stamps the creation time and inserts
// the record. The returned expense carries the store-assigned id.
func (s *ExpenseService) Add(ctx context.Context, description string, cost float64) (core.Expense, error) {
	e, err := core.NewExpense(description, cost)
	if err != nil {
		return core.Expense{}, err
	}

	cctx, cancel := s.storeContext(ctx)
	defer cancel()
	id, err := s.store.Insert(cctx, e)
	if err != nil {
		return core.Expense{}, storeErr("insert expense", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Expense created",
		"id", e.ID,
		"description", e.Description,
		"cost", e.Cost)

	s.publish(ctx, amqp.NewExpenseEvent(amqp.ActionCreated, e.ID, e.Description, e.Cost, e.CreatedDate))

	return e, nil
}

// List returns every stored record, unfiltered and unsorted. Grouping and
// ordering are presentation concerns left to the consumer.
func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	cctx, cancel := s.storeContext(ctx)
	defer cancel()
	items, err := s.store.ListAll(cctx)
	if err != nil {
		return nil, storeErr("list expenses", err)
	}
	return items, nil
}

// Update applies a partial update. All supplied fields are validated before
// any store write, so a request with one invalid field changes nothing.
func (s *ExpenseService) Update(ctx context.Context, id string, patch core.ExpensePatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	cctx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.UpdateFields(cctx, id, patch); err != nil {
		return storeErr("update expense", err)
	}

	slog.InfoContext(ctx, "Expense updated",
		"id", id,
		"description_changed", patch.Description != nil,
		"cost_changed", patch.Cost != nil)

	ev := amqp.NewExpenseEvent(amqp.ActionUpdated, id, "", 0, time.Time{})
	if patch.Description != nil {
		ev.Description = *patch.Description
	}
	if patch.Cost != nil {
		ev.Cost = *patch.Cost
	}
	s.publish(ctx, ev)

	return nil
}

// Remove deletes the record. A valid id that matches nothing reports
// store.ErrNotFound.
func (s *ExpenseService) Remove(ctx context.Context, id string) error {
	cctx, cancel := s.storeContext(ctx)
	defer cancel()
	n, err := s.store.DeleteByID(cctx, id)
	if err != nil {
		return storeErr("delete expense", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)

	s.publish(ctx, amqp.NewExpenseEvent(amqp.ActionDeleted, id, "", 0, time.Time{}))

	return nil
}

func (s *ExpenseService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

func (s *ExpenseService) publish(ctx context.Context, ev *amqp.ExpenseEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseEvent(ctx, ev); err != nil {
		// The record is already persisted; losing a mirror event must not
		// fail the request.
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"error", err,
			"action", ev.Action,
			"id", ev.ID)
	}
}

// storeErr normalizes store failures: timeouts become ErrUnavailable,
// sentinel errors pass through for the boundary to map.
func storeErr(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrInvalidID):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %v", op, store.ErrUnavailable, err)
	default:
		return err
	}
}
