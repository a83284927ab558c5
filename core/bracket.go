package core

import (
	"time"
)

type Format string

const (
	FormatSingleElimination Format = "single_elimination"
	FormatDoubleElimination Format = "double_elimination"
	FormatRoundRobin        Format = "round_robin"
	FormatSwiss             Format = "swiss"
	FormatGroupKnockout     Format = "group_knockout"
	FormatLadder            Format = "ladder"
)

// Config carries every knob of a tournament. The zero value is
// not usable; construct one and let withDefaults fill the rest,
// or use the config package to load one from file or env.
type Config struct {
	Format Format `json:"format"`

	MinTeams int `json:"min_teams"`
	MaxTeams int `json:"max_teams"`

	// Single and double elimination
	ThirdPlace bool `json:"third_place,omitempty"`

	// Round robin: how often all matchups are played through
	Passes     int  `json:"passes,omitempty"`
	AllowDraws bool `json:"allow_draws,omitempty"`

	// Swiss: 0 means ceil(log2(N)) rounds
	SwissRounds int `json:"swiss_rounds,omitempty"`

	// Group knockout
	Groups     int `json:"groups,omitempty"`
	Qualifiers int `json:"qualifiers,omitempty"`

	// Ladder
	BaseRating     float64   `json:"base_rating,omitempty"`
	KFactor        float64   `json:"k_factor,omitempty"`
	ChallengeRange int       `json:"challenge_range,omitempty"`
	SeasonEnd      time.Time `json:"season_end,omitempty"`

	// Seed for every randomized draw the engine makes, so a
	// bracket can be regenerated identically.
	RNGSeed int64 `json:"rng_seed,omitempty"`

	// Tie-break precedence for standings. Empty means the
	// default order of DefaultTieBreaks.
	TieBreaks []TieBreak `json:"tie_breaks,omitempty"`
}

func (c Config) withDefaults() Config {
	if c.MinTeams == 0 {
		c.MinTeams = formatMinTeams(c.Format)
	}
	if c.Passes < 1 {
		c.Passes = 1
	}
	if c.Groups < 1 {
		c.Groups = 1
	}
	if c.Qualifiers < 1 {
		c.Qualifiers = 1
	}
	if c.BaseRating == 0 {
		c.BaseRating = 1000
	}
	if c.KFactor == 0 {
		c.KFactor = 32
	}
	if c.ChallengeRange < 1 {
		c.ChallengeRange = 3
	}
	if len(c.TieBreaks) == 0 {
		c.TieBreaks = DefaultTieBreaks()
	}
	return c
}

func formatMinTeams(f Format) int {
	switch f {
	case FormatDoubleElimination:
		return 3
	default:
		return 2
	}
}

// A Bracket is the format-tagged structure of games produced for
// a tournament. All variants share these rules: every approved
// team occupies exactly one initial slot (once per group for
// group formats), no game pairs a team against itself, and a
// bracket value is immutable. Every transition clones the value,
// so past states stay inspectable.
type Bracket interface {
	Format() Format

	// Clone returns a deep copy that shares no game storage
	// with the receiver.
	Clone() Bracket

	// Find locates a game by its id.
	Find(id GameID) (GameRef, bool)

	// Champion returns the resolved champion, if any.
	Champion() (TeamID, bool)

	// Complete reports whether no playable games remain.
	Complete() bool

	// refs lists every game of the bracket in arena order.
	refs() []GameRef

	// game returns a pointer into the receiver's arena.
	// Mutating it is only legal on a fresh clone.
	game(ref GameRef) *Game
}

// gameAt resolves a ref defensively; out-of-arena refs yield nil.
func gameAt(b Bracket, ref GameRef) *Game {
	for _, r := range b.refs() {
		if r == ref {
			return b.game(ref)
		}
	}
	return nil
}

func findGame(b Bracket, id GameID) (GameRef, bool) {
	for _, ref := range b.refs() {
		if b.game(ref).ID == id {
			return ref, true
		}
	}
	return GameRef{}, false
}

// playedGames collects every game of the bracket excluding byes,
// in arena order. This is the game list the standings and the
// coverage properties are defined over.
func playedGames(b Bracket) []Game {
	refs := b.refs()
	games := make([]Game, 0, len(refs))
	for _, ref := range refs {
		g := b.game(ref)
		if g.HasBye() {
			continue
		}
		games = append(games, *g)
	}
	return games
}

func cloneGame(g Game) Game {
	if g.SlotA.Source != nil {
		src := *g.SlotA.Source
		g.SlotA.Source = &src
	}
	if g.SlotB.Source != nil {
		src := *g.SlotB.Source
		g.SlotB.Source = &src
	}
	return g
}

func cloneRounds(rounds [][]Game) [][]Game {
	cloned := make([][]Game, len(rounds))
	for i, round := range rounds {
		cloned[i] = make([]Game, len(round))
		for j, g := range round {
			cloned[i][j] = cloneGame(g)
		}
	}
	return cloned
}

func roundComplete(round []Game) bool {
	for i := range round {
		if !round[i].Final {
			return false
		}
	}
	return true
}
