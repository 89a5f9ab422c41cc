package models

import (
	"github.com/go-playground/validator/v10"
)

type RoundStatus string

const (
	RoundPending   RoundStatus = "pending"
	RoundActive    RoundStatus = "active"
	RoundCompleted RoundStatus = "completed"
)

// Valid reports whether the status is one of the known round states.
// Any transition between valid states is allowed: organizers reopen
// completed rounds to fix judging mistakes.
func (s RoundStatus) Valid() bool {
	switch s {
	case RoundPending, RoundActive, RoundCompleted:
		return true
	}
	return false
}

type Round struct {
	ID      int64       `db:"id" json:"id"`
	EventID int64       `db:"event_id" json:"event_id"`
	Name    string      `db:"name" json:"name" validate:"required,max=64"`
	Order   int64       `db:"round_order" json:"round_order" validate:"required,gt=0"`
	Status  RoundStatus `db:"status" json:"status"`
}

func (r *Round) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

func (r *Round) IsCompleted() bool {
	return r.Status == RoundCompleted
}
