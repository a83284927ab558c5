package core

import (
	"fmt"
	"strings"
)

type GameID string

// A Section names one of the flat game arenas a bracket variant
// is made of. A GameRef addresses games as section + round +
// index instead of holding object references, which keeps every
// bracket value acyclic, serializable and diffable.
type Section string

const (
	SectionMain       Section = "main"
	SectionLosers     Section = "losers"
	SectionGrandFinal Section = "grand_final"
	SectionThirdPlace Section = "third_place"
	SectionGroup      Section = "group"
)

// A GameRef addresses a single game inside a bracket arena.
// Round and Index are zero based. Group is only meaningful for
// SectionGroup.
type GameRef struct {
	Section Section `json:"section"`
	Group   int     `json:"group,omitempty"`
	Round   int     `json:"round"`
	Index   int     `json:"index"`
}

// A Slot is one of the two places in a game.
//
// A slot represents one of three things: a concrete team, a bye
// (free win for the opponent), or a not yet determined
// qualification that resolves from the outcome of another game.
// For the latter the Source ref points at the feeding game and
// TakeLoser selects which of its outcomes the slot takes.
type Slot struct {
	Team      TeamID   `json:"team,omitempty"`
	Bye       bool     `json:"bye,omitempty"`
	Source    *GameRef `json:"source,omitempty"`
	TakeLoser bool     `json:"take_loser,omitempty"`
}

func (s Slot) Resolved() bool {
	return s.Team != "" || s.Bye
}

func ByeSlot() Slot {
	return Slot{Bye: true}
}

func TeamSlot(team TeamID) Slot {
	return Slot{Team: team}
}

func SourceSlot(ref GameRef, takeLoser bool) Slot {
	return Slot{Source: &ref, TakeLoser: takeLoser}
}

// A Game is a single pairing inside a bracket. Games are stored
// by value in per-round arenas; transitions clone the whole
// bracket, so a Game value is never shared between two bracket
// states.
type Game struct {
	ID    GameID `json:"id"`
	Round int    `json:"round"`

	SlotA Slot `json:"slot_a"`
	SlotB Slot `json:"slot_b"`

	Winner  TeamID `json:"winner,omitempty"`
	ScoreA  int    `json:"score_a"`
	ScoreB  int    `json:"score_b"`
	Final   bool   `json:"is_final"`
	Draw    bool   `json:"draw,omitempty"`
	Forfeit bool   `json:"forfeit,omitempty"`
}

// HasBye reports whether one of the slots is a bye. Such a game
// auto-resolves to the opposing team with no score.
func (g *Game) HasBye() bool {
	return g.SlotA.Bye || g.SlotB.Bye
}

// Ready reports whether both opponents are determined and the
// game can take a result.
func (g *Game) Ready() bool {
	return g.SlotA.Team != "" && g.SlotB.Team != ""
}

func (g *Game) Contains(team TeamID) bool {
	if team == "" {
		return false
	}
	return g.SlotA.Team == team || g.SlotB.Team == team
}

// Loser returns the losing team of a final, non-draw game.
// It is empty for byes because no opponent ever played.
func (g *Game) Loser() TeamID {
	if !g.Final || g.Winner == "" || g.HasBye() {
		return ""
	}
	if g.SlotA.Team == g.Winner {
		return g.SlotB.Team
	}
	return g.SlotA.Team
}

func (g *Game) Opponent(team TeamID) TeamID {
	switch team {
	case g.SlotA.Team:
		return g.SlotB.Team
	case g.SlotB.Team:
		return g.SlotA.Team
	}
	return ""
}

func (g *Game) String() string {
	var sb strings.Builder
	sb.WriteString(slotString(g.SlotA))
	sb.WriteString(" vs. ")
	sb.WriteString(slotString(g.SlotB))
	if g.Final {
		if g.HasBye() {
			sb.WriteString("\t(bye)")
		} else {
			fmt.Fprintf(&sb, "\t%d - %d", g.ScoreA, g.ScoreB)
		}
	}
	return sb.String()
}

func slotString(s Slot) string {
	switch {
	case s.Team != "":
		return string(s.Team)
	case s.Bye:
		return "[Bye]"
	default:
		return "[Empty]"
	}
}

// A GameResult is a finalized outcome reported by the external
// scoring source. Partial results (Final == false) are ignored
// by the progression engine.
type GameResult struct {
	GameID GameID `json:"game_id"`
	Winner TeamID `json:"winner,omitempty"`
	ScoreA int    `json:"score_a"`
	ScoreB int    `json:"score_b"`
	Final  bool   `json:"is_final"`
}

// A Signal tells the notification consumer what a bracket
// transition meant beyond the single recorded game.
type Signal int

const (
	// Continue means the result was recorded (or was a
	// duplicate no-op) and the tournament goes on.
	Continue Signal = iota
	// RoundComplete means every game of the affected round is
	// final now.
	RoundComplete
	// Finished means a champion is resolved (or the ladder
	// season is over) and the tournament can complete.
	Finished
)

func (s Signal) String() string {
	switch s {
	case Continue:
		return "continue"
	case RoundComplete:
		return "round_complete"
	case Finished:
		return "finished"
	}
	return "unknown"
}
