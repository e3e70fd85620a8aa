package state

import "github.com/pkg/errors"

var (
	// ErrNilValidatorsInState returns when accessing validators in the state while the state has a
	// nil slice for the validators field.
	ErrNilValidatorsInState = errors.New("state has nil validator slice")
	// ErrNilParticipation is returned when the participation record of the state is missing.
	ErrNilParticipation = errors.New("nil participation record in state")
)
