package service

import (
	"errors"
	"fmt"
)

// ErrUnknownClaim is returned when a claim names an id that does not exist:
// either the id is malformed or the score was already consumed.
var ErrUnknownClaim = errors.New("unknown claim: the id does not exist or was already claimed")

// IncompleteError is returned when an opt-in requires a field the claimant
// left empty. Field names the first missing form field.
type IncompleteError struct {
	Field string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("incomplete submission: missing %s", e.Field)
}
