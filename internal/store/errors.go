package store

import "errors"

var (
	// ErrNotFound is returned by mutations that matched no row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateOrder is returned when a round with the same
	// (event_id, round_order) already exists.
	ErrDuplicateOrder = errors.New("round order already taken for this event")

	// ErrAlreadyInRound is returned when the registrant already has an
	// entry in the round.
	ErrAlreadyInRound = errors.New("registrant already entered in this round")
)
