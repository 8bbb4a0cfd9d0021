package core

import (
	"errors"
	"time"
)

type (
	// Expense is a single recorded purchase. The identifier is assigned by
	// the store on insert; CreatedDate is stamped by the service and never
	// changes afterwards.
	Expense struct {
		ID          string    `json:"id" bson:"_id,omitempty"`
		Description string    `json:"description" bson:"description"`
		Cost        float64   `json:"cost" bson:"cost"`
		CreatedDate time.Time `json:"createdDate" bson:"createdDate"`
	}

	// ExpensePatch carries the mutable fields of a partial update. A nil
	// pointer means the field was not supplied and must be left untouched.
	ExpensePatch struct {
		Description *string  `json:"description" bson:"description,omitempty"`
		Cost        *float64 `json:"cost" bson:"cost,omitempty"`
	}
)

var (
	ErrCostNotPositive  = errors.New("`cost` must be a positive number")
	ErrEmptyDescription = errors.New("`description` must not be empty")
)

// NewExpense builds a validated expense with CreatedDate set to now.
func NewExpense(description string, cost float64) (Expense, error) {
	e := Expense{
		Description: description,
		Cost:        cost,
		CreatedDate: time.Now().UTC(),
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (e Expense) Validate() error {
	if e.Cost <= 0 {
		return ErrCostNotPositive
	}
	if e.Description == "" {
		return ErrEmptyDescription
	}
	return nil
}

// Validate checks every supplied field; absent fields are not validated.
// All supplied fields must be valid before any of them is applied.
func (p ExpensePatch) Validate() error {
	if p.Cost != nil && *p.Cost <= 0 {
		return ErrCostNotPositive
	}
	if p.Description != nil && *p.Description == "" {
		return ErrEmptyDescription
	}
	return nil
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ExpensePatch) IsEmpty() bool {
	return p.Description == nil && p.Cost == nil
}

// Apply merges the supplied fields into e. ID and CreatedDate are immutable.
func (p ExpensePatch) Apply(e Expense) Expense {
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Cost != nil {
		e.Cost = *p.Cost
	}
	return e
}
