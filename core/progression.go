package core

import (
	"time"

	"github.com/rs/zerolog"
)

// walkoverScore is the score credited to the opponent of a
// forfeiting team, following the basketball convention of a
// 20:0 forfeit win.
const walkoverScore = 20

// The Engine applies game results to brackets. It never mutates
// a bracket it was handed; every transition works on a clone and
// returns it, so the caller keeps the previous state for free.
type Engine struct {
	log zerolog.Logger
	now func() time.Time
}

func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log, now: time.Now}
}

// WithClock replaces the engine's time source. Season-end checks
// of ladder tournaments use this clock.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Advance records a final game result and runs every progression
// step it triggers: dependent slots fill in, bye games resolve,
// the next swiss round pairs up, a grand final loss by the
// winners-bracket champion spawns the bracket reset, and group
// completion materializes the knockout.
//
// Submitting the identical final result twice is a no-op; a
// different result for an already-final game is rejected as a
// conflict. Results with Final unset are ignored entirely.
func (e *Engine) Advance(b Bracket, res GameResult) (Bracket, Signal, error) {
	if !res.Final {
		return b, Continue, nil
	}

	ref, ok := b.Find(res.GameID)
	if !ok {
		return b, Continue, conflictErr(res.GameID, ErrUnknownGame)
	}

	current := b.game(ref)
	if current.HasBye() {
		return b, Continue, validationErr("advance", ErrByeGame)
	}
	if current.Final {
		if current.Winner == res.Winner && current.ScoreA == res.ScoreA && current.ScoreB == res.ScoreB {
			return b, Continue, nil
		}
		return b, Continue, conflictErr(res.GameID, ErrStaleResult)
	}
	if !current.Ready() {
		return b, Continue, validationErr("advance", ErrGameNotReady)
	}

	if res.Winner == "" {
		if !allowsDraws(b, ref) {
			if res.ScoreA == res.ScoreB {
				return b, Continue, validationErr("advance", ErrDrawForbidden)
			}
			return b, Continue, validationErr("advance", ErrNoWinner)
		}
	} else if !current.Contains(res.Winner) {
		return b, Continue, validationErr("advance", ErrWrongWinner)
	}

	clone := b.Clone()
	game := clone.game(ref)
	game.Winner = res.Winner
	game.ScoreA = res.ScoreA
	game.ScoreB = res.ScoreB
	game.Draw = res.Winner == ""
	game.Final = true

	e.log.Debug().
		Str("game", string(res.GameID)).
		Str("winner", string(res.Winner)).
		Msg("result recorded")

	if err := e.progress(clone, ref); err != nil {
		return b, Continue, err
	}

	return clone, e.signalFor(clone, ref), nil
}

// progress runs the format-specific follow-up steps after a game
// of the (already cloned) bracket turned final.
func (e *Engine) progress(b Bracket, ref GameRef) error {
	switch t := b.(type) {
	case *SingleElimination:
		resolveSlots(t)

	case *DoubleElimination:
		resolveSlots(t)
		gf := &t.GrandFinal
		if ref.Section == SectionGrandFinal && ref.Index == 0 &&
			gf.Winner != "" && gf.Winner == gf.SlotB.Team {
			// The losers-bracket finalist took the grand final;
			// both teams now stand at one loss each.
			t.materializeReset()
			e.log.Info().Str("winner", string(gf.Winner)).Msg("grand final lost by the winners-bracket champion, bracket reset")
		}

	case *Swiss:
		last := t.Rounds[len(t.Rounds)-1]
		if roundComplete(last) && len(t.Rounds) < t.TotalRounds {
			return t.nextRound(e.log)
		}

	case *GroupKnockout:
		if ref.Section == SectionGroup {
			if t.Knockout == nil && t.GroupPhaseComplete() {
				return t.materializeKnockout()
			}
			return nil
		}
		resolveSlots(t.Knockout)

	case *Ladder:
		if err := t.settleChallenge(ref); err != nil {
			return err
		}
		if !t.SeasonEnd.IsZero() && !e.now().Before(t.SeasonEnd) {
			t.CloseSeason()
		}
	}
	return nil
}

// Forfeit withdraws a team from the running bracket. Every
// pending game the team is (or becomes) part of resolves as a
// walkover for the opponent, so the surrounding bracket keeps
// progressing as if the games had been played.
func (e *Engine) Forfeit(b Bracket, team TeamID) (Bracket, error) {
	clone := b.Clone()

	if t, ok := clone.(*Swiss); ok {
		if t.Withdrawn == nil {
			t.Withdrawn = make(map[TeamID]bool)
		}
		t.Withdrawn[team] = true
	}

	forfeited := 0
	for {
		ref, ok := nextPendingGame(clone, team)
		if !ok {
			break
		}

		game := clone.game(ref)
		game.Winner = game.Opponent(team)
		if game.SlotA.Team == team {
			game.ScoreB = walkoverScore
		} else {
			game.ScoreA = walkoverScore
		}
		game.Forfeit = true
		game.Final = true
		forfeited++

		if err := e.progress(clone, ref); err != nil {
			return b, err
		}
	}

	if forfeited == 0 && !rosterContains(clone, team) {
		return b, validationErr("forfeit", ErrUnknownTeam)
	}

	e.log.Info().
		Str("team", string(team)).
		Int("walkovers", forfeited).
		Msg("team forfeited")

	return clone, nil
}

// nextPendingGame finds the first non-final, ready game the team
// occupies. Progression after each walkover can seat the team in
// further games, so the caller loops until none remain.
func nextPendingGame(b Bracket, team TeamID) (GameRef, bool) {
	for _, ref := range b.refs() {
		g := b.game(ref)
		if !g.Final && g.Ready() && g.Contains(team) {
			return ref, true
		}
	}
	return GameRef{}, false
}

func rosterContains(b Bracket, team TeamID) bool {
	for _, ref := range b.refs() {
		if b.game(ref).Contains(team) {
			return true
		}
	}
	return false
}

// allowsDraws reports whether the addressed game may end without
// a winner. Elimination games never can; round robin games can
// when configured, swiss games always can.
func allowsDraws(b Bracket, ref GameRef) bool {
	switch t := b.(type) {
	case *RoundRobin:
		return t.AllowDraws
	case *Swiss:
		return true
	case *GroupKnockout:
		return ref.Section == SectionGroup && t.Groups[ref.Group].AllowDraws
	}
	return false
}

// signalFor classifies what the finished game meant for the
// bracket as a whole.
func (e *Engine) signalFor(b Bracket, ref GameRef) Signal {
	if b.Complete() {
		return Finished
	}

	switch t := b.(type) {
	case *SingleElimination:
		if ref.Section == SectionMain && roundComplete(t.Rounds[ref.Round]) {
			return RoundComplete
		}
	case *DoubleElimination:
		switch ref.Section {
		case SectionMain:
			if roundComplete(t.Winners[ref.Round]) {
				return RoundComplete
			}
		case SectionLosers:
			if roundComplete(t.Losers[ref.Round]) {
				return RoundComplete
			}
		}
	case *RoundRobin:
		if roundComplete(t.Rounds[ref.Round]) {
			return RoundComplete
		}
	case *Swiss:
		// nextRound may already have appended a fresh round.
		if roundComplete(t.Rounds[ref.Round]) {
			return RoundComplete
		}
	case *GroupKnockout:
		if ref.Section == SectionGroup {
			if t.Knockout != nil {
				// This result closed the group phase.
				return RoundComplete
			}
			if groupRoundComplete(t, ref.Round) {
				return RoundComplete
			}
			return Continue
		}
		if ref.Section == SectionMain && roundComplete(t.Knockout.Rounds[ref.Round]) {
			return RoundComplete
		}
	}
	return Continue
}

// groupRoundComplete reports whether the given round number is
// final across every group that has it.
func groupRoundComplete(t *GroupKnockout, round int) bool {
	for gi := range t.Groups {
		if round >= len(t.Groups[gi].Rounds) {
			continue
		}
		if !roundComplete(t.Groups[gi].Rounds[round]) {
			return false
		}
	}
	return true
}

// resolveSlots runs the slot-filling fixpoint over the whole
// bracket: a final game feeds its winner (or loser) into every
// slot sourcing it, a game with a bye slot and a seated opponent
// finalizes as a free win, and a game between two byes finalizes
// with no winner so the bye keeps propagating.
func resolveSlots(b Bracket) {
	refs := b.refs()
	for changed := true; changed; {
		changed = false
		for _, ref := range refs {
			g := b.game(ref)
			if fillSlot(b, &g.SlotA) {
				changed = true
			}
			if fillSlot(b, &g.SlotB) {
				changed = true
			}
			if !g.Final && g.HasBye() && g.SlotA.Resolved() && g.SlotB.Resolved() {
				g.Final = true
				if g.SlotA.Team != "" {
					g.Winner = g.SlotA.Team
				} else {
					g.Winner = g.SlotB.Team
				}
				changed = true
			}
		}
	}
}

// fillSlot resolves a single sourced slot if its feeding game is
// final. A source without the wanted outcome (a bye game has no
// loser, a double bye has no winner) turns the slot itself into
// a bye.
func fillSlot(b Bracket, s *Slot) bool {
	if s.Source == nil || s.Resolved() {
		return false
	}
	src := gameAt(b, *s.Source)
	if src == nil || !src.Final {
		return false
	}

	if s.TakeLoser {
		if loser := src.Loser(); loser != "" {
			s.Team = loser
			return true
		}
		s.Bye = true
		return true
	}

	if src.Winner == "" {
		s.Bye = true
		return true
	}
	s.Team = src.Winner
	return true
}
