package core

import (
	"github.com/rs/zerolog"
)

// Status is the lifecycle state of a tournament.
type Status string

const (
	StatusDraft              Status = "draft"
	StatusRegistrationOpen   Status = "registration_open"
	StatusRegistrationClosed Status = "registration_closed"
	StatusInProgress         Status = "in_progress"
	StatusCompleted          Status = "completed"
	StatusCancelled          Status = "cancelled"
)

// validTransitions is the full lifecycle graph. Cancelled is
// reachable from every non-terminal status; the two terminal
// statuses have no way out.
var validTransitions = map[Status][]Status{
	StatusDraft:              {StatusRegistrationOpen, StatusCancelled},
	StatusRegistrationOpen:   {StatusRegistrationClosed, StatusCancelled},
	StatusRegistrationClosed: {StatusInProgress, StatusCancelled},
	StatusInProgress:         {StatusCompleted, StatusCancelled},
}

func canTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// A Tournament ties a registry, a config and a bracket together
// and guards every operation behind the lifecycle. It is not
// safe for concurrent use; serialize access per tournament, for
// example through the dispatch package.
type Tournament struct {
	ID     string
	Name   string
	Config Config

	Status   Status
	Registry *Registry
	Bracket  Bracket

	engine *Engine
	log    zerolog.Logger
}

func NewTournament(id, name string, cfg Config, log zerolog.Logger) *Tournament {
	cfg = cfg.withDefaults()
	return &Tournament{
		ID:       id,
		Name:     name,
		Config:   cfg,
		Status:   StatusDraft,
		Registry: NewRegistry(cfg.MaxTeams),
		engine:   NewEngine(log),
		log:      log.With().Str("tournament", id).Logger(),
	}
}

func (t *Tournament) transition(op string, to Status) error {
	if !canTransition(t.Status, to) {
		return stateErr(op, t.Status, ErrInvalidTransition)
	}
	t.log.Info().Str("from", string(t.Status)).Str("to", string(to)).Msg("status change")
	t.Status = to
	return nil
}

func (t *Tournament) OpenRegistration() error {
	return t.transition("open registration", StatusRegistrationOpen)
}

// CloseRegistration ends the sign-up window. It fails while the
// approved roster is still below the format minimum.
func (t *Tournament) CloseRegistration() error {
	if t.Registry.ApprovedCount() < t.Config.MinTeams {
		return stateErr("close registration", t.Status, ErrInsufficientTeams)
	}
	return t.transition("close registration", StatusRegistrationClosed)
}

// Start generates the bracket from the approved roster and moves
// the tournament into play.
func (t *Tournament) Start() error {
	const op = "start"

	if !canTransition(t.Status, StatusInProgress) {
		return stateErr(op, t.Status, ErrInvalidTransition)
	}
	if t.Bracket != nil {
		return stateErr(op, t.Status, ErrBracketExists)
	}

	bracket, err := Generate(t.Registry.Approved(), t.Config)
	if err != nil {
		return err
	}

	t.Bracket = bracket
	return t.transition(op, StatusInProgress)
}

// Submit records a game result. On Finished the tournament
// completes itself.
func (t *Tournament) Submit(res GameResult) (Signal, error) {
	if t.Status != StatusInProgress {
		return Continue, stateErr("submit", t.Status, ErrInvalidTransition)
	}

	bracket, signal, err := t.engine.Advance(t.Bracket, res)
	if err != nil {
		return Continue, err
	}
	t.Bracket = bracket

	if signal == Finished {
		if err := t.transition("submit", StatusCompleted); err != nil {
			return signal, err
		}
	}
	return signal, nil
}

// Withdraw removes a team. Before play it only touches the
// registry; during play the team additionally forfeits all
// remaining games.
func (t *Tournament) Withdraw(id TeamID, reason string) error {
	switch t.Status {
	case StatusCompleted, StatusCancelled:
		return stateErr("withdraw", t.Status, ErrInvalidTransition)
	case StatusInProgress:
		if err := t.Registry.Withdraw(id, reason); err != nil {
			return err
		}
		bracket, err := t.engine.Forfeit(t.Bracket, id)
		if err != nil {
			return err
		}
		t.Bracket = bracket
		if bracket.Complete() {
			return t.transition("withdraw", StatusCompleted)
		}
		return nil
	default:
		return t.Registry.Withdraw(id, reason)
	}
}

// Cancel aborts the tournament from any non-terminal status.
func (t *Tournament) Cancel() error {
	return t.transition("cancel", StatusCancelled)
}

// Champion returns the winner of a completed tournament.
func (t *Tournament) Champion() (TeamID, error) {
	if t.Bracket == nil {
		return "", stateErr("champion", t.Status, ErrNotFinished)
	}
	winner, ok := t.Bracket.Champion()
	if !ok {
		return "", stateErr("champion", t.Status, ErrNotFinished)
	}
	return winner, nil
}

// OpenChallenge is the ladder-only entry point for creating a
// new game while the tournament runs.
func (t *Tournament) OpenChallenge(challenger, defender TeamID) (*Challenge, error) {
	if t.Status != StatusInProgress {
		return nil, stateErr("open challenge", t.Status, ErrInvalidTransition)
	}
	ladder, ok := t.Bracket.(*Ladder)
	if !ok {
		return nil, validationErr("open challenge", ErrNotLadder)
	}

	clone := ladder.Clone().(*Ladder)
	challenge, err := clone.OpenChallenge(challenger, defender)
	if err != nil {
		return nil, err
	}
	t.Bracket = clone
	return challenge, nil
}

// CloseSeason ends a ladder season and completes the tournament.
func (t *Tournament) CloseSeason() error {
	const op = "close season"

	if t.Status != StatusInProgress {
		return stateErr(op, t.Status, ErrInvalidTransition)
	}
	ladder, ok := t.Bracket.(*Ladder)
	if !ok {
		return validationErr(op, ErrNotLadder)
	}

	clone := ladder.Clone().(*Ladder)
	clone.CloseSeason()
	t.Bracket = clone
	return t.transition(op, StatusCompleted)
}
