package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action identifies what happened to an expense.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ExpenseEvent is published after every successful mutation. It carries the
// record snapshot so the mirror worker never has to read the store back.
type ExpenseEvent struct {
	Action      Action    `json:"action"`
	ID          string    `json:"id"`
	Description string    `json:"description,omitempty"`
	Cost        float64   `json:"cost,omitempty"`
	CreatedDate time.Time `json:"createdDate,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewExpenseEvent(action Action, id, description string, cost float64, createdDate time.Time) *ExpenseEvent {
	return &ExpenseEvent{
		Action:      action,
		ID:          id,
		Description: description,
		Cost:        cost,
		CreatedDate: createdDate,
		Timestamp:   time.Now().UTC(),
	}
}

func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	switch ev.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return nil, fmt.Errorf("unknown event action %q", ev.Action)
	}
	if ev.ID == "" {
		return nil, fmt.Errorf("event carries no expense id")
	}
	return &ev, nil
}
