package core

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewTeams      = errors.New("not enough approved teams for this tournament format")
	ErrCapacityExceeded = errors.New("tournament registration is full")
	ErrDuplicateSeed    = errors.New("duplicate seed among approved teams")
	ErrUnknownTeam      = errors.New("team is not registered")
	ErrDuplicateTeam    = errors.New("team is already registered")
	ErrSeedOutOfRange   = errors.New("seed assignment references more teams than are approved")

	ErrTooFewGroups     = errors.New("group phase needs at least one group")
	ErrTooManyGroups    = errors.New("not enough teams to fill every group with two")
	ErrTooFewQualifiers = errors.New("qualifier count does not produce a knockout")

	ErrUnknownGame   = errors.New("game id is not part of the bracket")
	ErrStaleResult   = errors.New("game already has a different final result")
	ErrGameNotReady  = errors.New("both opponents of the game are not determined yet")
	ErrByeGame       = errors.New("a bye game cannot take a result")
	ErrNoWinner      = errors.New("final result does not determine a winner")
	ErrDrawForbidden = errors.New("draws are not allowed in this format")
	ErrWrongWinner   = errors.New("winner is not one of the game's opponents")

	ErrInvalidTransition = errors.New("invalid tournament status transition")
	ErrInsufficientTeams = errors.New("approved team count is below the minimum")
	ErrBracketExists     = errors.New("bracket was already generated")
	ErrNotFinished       = errors.New("tournament has no resolved champion yet")

	ErrNotLadder          = errors.New("operation requires a ladder tournament")
	ErrUnknownChallenge   = errors.New("challenge id is not part of the ladder")
	ErrChallengeClosed    = errors.New("challenge was already resolved")
	ErrSelfChallenge      = errors.New("a team cannot challenge itself")
	ErrChallengeRange     = errors.New("defender is out of the allowed challenge range")
	ErrDuplicateChallenge = errors.New("an open challenge between these teams already exists")
)

// A ValidationError reports malformed input such as duplicate
// seeds or a team count outside the format bounds. It is never
// retryable.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// A StateError reports an operation that is illegal in the
// tournament's current lifecycle state.
type StateError struct {
	Op     string
	Status Status
	Err    error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s in status %q: %v", e.Op, e.Status, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// A ConflictError reports a result that does not fit the current
// bracket, either because the game id is unknown or because the
// bracket advanced concurrently. The caller should re-fetch the
// latest bracket and retry.
type ConflictError struct {
	GameID GameID
	Err    error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("game %q: %v", e.GameID, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may retry the operation
// after re-fetching the bracket. Only conflicts qualify.
func Retryable(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

func validationErr(op string, err error) error {
	return &ValidationError{Op: op, Err: err}
}

func stateErr(op string, status Status, err error) error {
	return &StateError{Op: op, Status: status, Err: err}
}

func conflictErr(id GameID, err error) error {
	return &ConflictError{GameID: id, Err: err}
}
