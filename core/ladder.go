package core

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// A LadderRank is one rung of the ladder standings.
type LadderRank struct {
	Team   TeamID  `json:"team"`
	Rating float64 `json:"rating"`
	Rank   int     `json:"rank"`
}

// A Challenge is a single ladder matchup. It stays open until a
// final result arrives for its game; the ratings of both teams
// are adjusted at that moment.
type Challenge struct {
	ID         string `json:"id"`
	Challenger TeamID `json:"challenger"`
	Defender   TeamID `json:"defender"`
	Game       Game   `json:"game"`
	Open       bool   `json:"open"`
}

// A Ladder ranks teams by an Elo-style rating instead of playing
// a fixed schedule. Games only come into existence through
// challenges: a team may challenge a team up to ChallengeRange
// rungs above itself, and a finished challenge shifts both
// ratings toward the observed outcome. The ladder has no natural
// final game; it closes when the season end passes.
type Ladder struct {
	Rankings   []LadderRank `json:"rankings"`
	Challenges []Challenge  `json:"challenges"`

	BaseRating     float64   `json:"base_rating"`
	KFactor        float64   `json:"k_factor"`
	ChallengeRange int       `json:"challenge_range"`
	SeasonEnd      time.Time `json:"season_end,omitempty"`

	Closed bool `json:"closed,omitempty"`
}

func (t *Ladder) Format() Format {
	return FormatLadder
}

func (t *Ladder) Clone() Bracket {
	clone := *t
	clone.Rankings = slices.Clone(t.Rankings)
	clone.Challenges = make([]Challenge, len(t.Challenges))
	for i, c := range t.Challenges {
		c.Game = cloneGame(c.Game)
		clone.Challenges[i] = c
	}
	return &clone
}

func (t *Ladder) Find(id GameID) (GameRef, bool) {
	return findGame(t, id)
}

// Champion is the top rung, resolved only once the season is
// closed.
func (t *Ladder) Champion() (TeamID, bool) {
	if !t.Closed || len(t.Rankings) == 0 {
		return "", false
	}
	return t.Rankings[0].Team, true
}

func (t *Ladder) Complete() bool {
	return t.Closed
}

func (t *Ladder) refs() []GameRef {
	refs := make([]GameRef, 0, len(t.Challenges))
	for i := range t.Challenges {
		refs = append(refs, GameRef{Section: SectionMain, Round: i})
	}
	return refs
}

func (t *Ladder) game(ref GameRef) *Game {
	return &t.Challenges[ref.Round].Game
}

// Standings adapts the rating order to the shared standings
// shape.
func (t *Ladder) Standings() []RankedTeam {
	ranked := make([]RankedTeam, len(t.Rankings))
	for i, r := range t.Rankings {
		ranked[i] = RankedTeam{Team: r.Team, Rank: r.Rank}
	}
	return ranked
}

// newLadder seats the teams in seed order, everyone at the base
// rating. Unseeded teams go below the seeded ones in entry order.
func newLadder(teams []TeamEntry, cfg Config) (*Ladder, error) {
	if len(teams) < max(2, cfg.MinTeams) {
		return nil, validationErr("ladder", ErrTooFewTeams)
	}

	rankings := make([]LadderRank, len(teams))
	for i, team := range teams {
		rankings[i] = LadderRank{Team: team.ID, Rating: cfg.BaseRating, Rank: i + 1}
	}

	return &Ladder{
		Rankings:       rankings,
		BaseRating:     cfg.BaseRating,
		KFactor:        cfg.KFactor,
		ChallengeRange: cfg.ChallengeRange,
		SeasonEnd:      cfg.SeasonEnd,
	}, nil
}

func (t *Ladder) rankOf(team TeamID) (int, bool) {
	for _, r := range t.Rankings {
		if r.Team == team {
			return r.Rank, true
		}
	}
	return 0, false
}

func (t *Ladder) ratingOf(team TeamID) float64 {
	for _, r := range t.Rankings {
		if r.Team == team {
			return r.Rating
		}
	}
	return t.BaseRating
}

// OpenChallenge registers a challenge of the defender by the
// challenger and returns the created game. The defender must
// rank above the challenger by at most the challenge range, and
// only one open challenge may exist between any two teams.
func (t *Ladder) OpenChallenge(challenger, defender TeamID) (*Challenge, error) {
	const op = "open challenge"

	if t.Closed {
		return nil, validationErr(op, ErrChallengeClosed)
	}
	if challenger == defender {
		return nil, validationErr(op, ErrSelfChallenge)
	}

	challengerRank, ok := t.rankOf(challenger)
	if !ok {
		return nil, validationErr(op, ErrUnknownTeam)
	}
	defenderRank, ok := t.rankOf(defender)
	if !ok {
		return nil, validationErr(op, ErrUnknownTeam)
	}
	if defenderRank >= challengerRank || challengerRank-defenderRank > t.ChallengeRange {
		return nil, validationErr(op, ErrChallengeRange)
	}

	for _, c := range t.Challenges {
		if !c.Open {
			continue
		}
		if (c.Challenger == challenger && c.Defender == defender) ||
			(c.Challenger == defender && c.Defender == challenger) {
			return nil, validationErr(op, ErrDuplicateChallenge)
		}
	}

	id := uuid.NewString()
	challenge := Challenge{
		ID:         id,
		Challenger: challenger,
		Defender:   defender,
		Game: Game{
			ID:    GameID(id),
			Round: len(t.Challenges) + 1,
			SlotA: TeamSlot(challenger),
			SlotB: TeamSlot(defender),
		},
		Open: true,
	}

	t.Challenges = append(t.Challenges, challenge)
	return &t.Challenges[len(t.Challenges)-1], nil
}

// settleChallenge closes the challenge owning the given game and
// applies the rating exchange for its recorded result.
func (t *Ladder) settleChallenge(ref GameRef) error {
	challenge := &t.Challenges[ref.Round]
	if !challenge.Open {
		return validationErr("settle challenge", ErrChallengeClosed)
	}
	challenge.Open = false

	game := &challenge.Game
	var scoreA float64
	switch game.Winner {
	case game.SlotA.Team:
		scoreA = 1
	case game.SlotB.Team:
		scoreA = 0
	default:
		scoreA = 0.5
	}

	ratingA := t.ratingOf(game.SlotA.Team)
	ratingB := t.ratingOf(game.SlotB.Team)
	expectedA := 1 / (1 + math.Pow(10, (ratingB-ratingA)/400))

	t.adjustRating(game.SlotA.Team, t.KFactor*(scoreA-expectedA))
	t.adjustRating(game.SlotB.Team, t.KFactor*((1-scoreA)-(1-expectedA)))

	t.resort()
	return nil
}

func (t *Ladder) adjustRating(team TeamID, delta float64) {
	for i := range t.Rankings {
		if t.Rankings[i].Team == team {
			t.Rankings[i].Rating += delta
			return
		}
	}
}

// resort reorders the rungs by rating. Equal ratings keep their
// previous relative order, so the ordering stays deterministic.
func (t *Ladder) resort() {
	slices.SortStableFunc(t.Rankings, func(a, b LadderRank) int {
		switch {
		case a.Rating > b.Rating:
			return -1
		case a.Rating < b.Rating:
			return 1
		}
		return 0
	})
	for i := range t.Rankings {
		t.Rankings[i].Rank = i + 1
	}
}

// CloseSeason freezes the ladder. No further challenges can be
// opened and the top rung becomes the champion.
func (t *Ladder) CloseSeason() {
	t.Closed = true
}
