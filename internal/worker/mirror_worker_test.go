package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"outlay/internal/amqp"
	"outlay/internal/sheets"
)

type fakeMirror struct {
	appended []string
	updated  []string
	deleted  []string

	lastDescription *string
	lastCost        *float64

	err error
}

func (f *fakeMirror) AppendExpense(_ context.Context, id, _ string, _ float64, _ time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, id)
	return nil
}

func (f *fakeMirror) UpdateExpense(_ context.Context, id string, description *string, cost *float64) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, id)
	f.lastDescription = description
	f.lastCost = cost
	return nil
}

func (f *fakeMirror) DeleteExpense(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func TestHandleEventCreated(t *testing.T) {
	mirror := &fakeMirror{}
	w := NewMirrorWorker(mirror, nil)

	ev := amqp.NewExpenseEvent(amqp.ActionCreated, "abc123", "coffee", 4.5, time.Now().UTC())
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}
	if len(mirror.appended) != 1 || mirror.appended[0] != "abc123" {
		t.Errorf("appended = %v, want [abc123]", mirror.appended)
	}
}

func TestHandleEventUpdatedPartialFields(t *testing.T) {
	tests := []struct {
		name            string
		description     string
		cost            float64
		wantDescription bool
		wantCost        bool
	}{
		{name: "cost only", cost: 5, wantCost: true},
		{name: "description only", description: "groceries", wantDescription: true},
		{name: "both fields", description: "groceries", cost: 12.3, wantDescription: true, wantCost: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mirror := &fakeMirror{}
			w := NewMirrorWorker(mirror, nil)

			ev := amqp.NewExpenseEvent(amqp.ActionUpdated, "abc123", tt.description, tt.cost, time.Time{})
			if err := w.HandleEvent(context.Background(), ev); err != nil {
				t.Fatalf("HandleEvent() error = %v", err)
			}

			if got := mirror.lastDescription != nil; got != tt.wantDescription {
				t.Errorf("description provided = %v, want %v", got, tt.wantDescription)
			}
			if got := mirror.lastCost != nil; got != tt.wantCost {
				t.Errorf("cost provided = %v, want %v", got, tt.wantCost)
			}
		})
	}
}

func TestHandleEventDeleted(t *testing.T) {
	mirror := &fakeMirror{}
	w := NewMirrorWorker(mirror, nil)

	ev := amqp.NewExpenseEvent(amqp.ActionDeleted, "abc123", "", 0, time.Time{})
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}
	if len(mirror.deleted) != 1 {
		t.Errorf("deleted = %v, want one entry", mirror.deleted)
	}
}

func TestHandleEventMissingRowIsDropped(t *testing.T) {
	mirror := &fakeMirror{err: sheets.ErrRowNotFound}
	w := NewMirrorWorker(mirror, nil)

	ev := amqp.NewExpenseEvent(amqp.ActionDeleted, "gone", "", 0, time.Time{})
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Errorf("HandleEvent() error = %v, want nil for missing row", err)
	}
}

func TestHandleEventMirrorFailureRequeues(t *testing.T) {
	mirror := &fakeMirror{err: errors.New("quota exceeded")}
	w := NewMirrorWorker(mirror, nil)

	ev := amqp.NewExpenseEvent(amqp.ActionCreated, "abc123", "coffee", 4.5, time.Now().UTC())
	if err := w.HandleEvent(context.Background(), ev); err == nil {
		t.Error("HandleEvent() error = nil, want failure to propagate")
	}
}

func TestHandleEventUnknownAction(t *testing.T) {
	w := NewMirrorWorker(&fakeMirror{}, nil)

	ev := &amqp.ExpenseEvent{Action: "renamed", ID: "abc123"}
	if err := w.HandleEvent(context.Background(), ev); err == nil {
		t.Error("HandleEvent() error = nil, want unknown action error")
	}
}
