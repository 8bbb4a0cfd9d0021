// Package worker maintains the Google Sheets mirror of the expense store by
// consuming expense events.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"outlay/internal/amqp"
	"outlay/internal/sheets"
)

// SheetMirror is the slice of the sheets client the worker needs.
type SheetMirror interface {
	AppendExpense(ctx context.Context, id, description string, cost float64, createdDate time.Time) error
	UpdateExpense(ctx context.Context, id string, description *string, cost *float64) error
	DeleteExpense(ctx context.Context, id string) error
}

// MirrorWorker applies expense events to the spreadsheet.
type MirrorWorker struct {
	mirror SheetMirror
	logger *slog.Logger
}

func NewMirrorWorker(mirror SheetMirror, logger *slog.Logger) *MirrorWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &MirrorWorker{mirror: mirror, logger: logger}
}

// HandleEvent applies one event. Returning an error requeues the delivery,
// except for events whose row no longer exists: those are dropped so a
// delete raced by the mirror cannot wedge the queue.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.ExpenseEvent) error {
	var err error
	switch ev.Action {
	case amqp.ActionCreated:
		err = w.mirror.AppendExpense(ctx, ev.ID, ev.Description, ev.Cost, ev.CreatedDate)
	case amqp.ActionUpdated:
		// Zero values mean the field was not part of the update: an empty
		// description and a non-positive cost are both rejected upstream.
		var description *string
		var cost *float64
		if ev.Description != "" {
			description = &ev.Description
		}
		if ev.Cost != 0 {
			cost = &ev.Cost
		}
		err = w.mirror.UpdateExpense(ctx, ev.ID, description, cost)
	case amqp.ActionDeleted:
		err = w.mirror.DeleteExpense(ctx, ev.ID)
	default:
		return fmt.Errorf("unknown event action %q", ev.Action)
	}

	if errors.Is(err, sheets.ErrRowNotFound) {
		w.logger.Warn("Mirror row missing, dropping event",
			"action", ev.Action,
			"id", ev.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("mirror %s event for %s: %w", ev.Action, ev.ID, err)
	}

	w.logger.Info("Mirrored expense event",
		"action", ev.Action,
		"id", ev.ID)
	return nil
}
