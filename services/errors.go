package services

import (
	"errors"
	"fmt"
)

// Shared errors surfaced by services and mapped onto HTTP statuses in the
// handlers package.
var (
	// Resource lookups.
	ErrNotFound            = errors.New("requested resource not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrMatchNotFound       = errors.New("match not found")

	// Validation and business rules.
	ErrValidationFailed     = errors.New("validation failed")
	ErrInvalidConfiguration = errors.New("invalid match configuration")
	ErrInvalidTransition    = errors.New("invalid match transition")
	ErrTournamentNotActive  = errors.New("tournament is not active")
	ErrSlotsNotFilled       = errors.New("both participant slots must be filled")
	ErrNotAByeMatch         = errors.New("match does not have exactly one participant")
	ErrTiedScore            = errors.New("cannot complete a tied match")
	ErrExternalSourceOnly   = errors.New("snapshots are accepted for externally fed matches only")
	ErrEngineSourceOnly     = errors.New("match is fed by an external scoreboard")
	ErrDownstreamStarted    = errors.New("downstream match already started")

	// Refinements of ErrInvalidTransition; errors.Is matches either.
	ErrMatchNotScoreable = fmt.Errorf("%w: match cannot be scored", ErrInvalidTransition)
	ErrHistoryEmpty      = fmt.Errorf("%w: nothing to undo", ErrInvalidTransition)

	// Concurrency.
	ErrConcurrencyConflict = errors.New("match was modified concurrently, retry with fresh state")

	// Authorization capability, decided by the caller's identity layer.
	ErrScoreForbidden = errors.New("caller is not allowed to score this match")

	// ErrDisplayKeyInvalid covers every display key failure mode so clients
	// cannot probe which part of the key was wrong.
	ErrDisplayKeyInvalid = errors.New("display key is invalid or revoked")
)
