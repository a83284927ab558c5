package core

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clubcourt/tournament/internal/pairing"
)

// A Swiss bracket pairs teams with the closest running scores
// each round without eliminating anyone. Opponents never repeat
// unless no legal pairing exists at all; then the repeat
// constraint is relaxed once and the forced rematch is logged.
type Swiss struct {
	Entries []TeamEntry `json:"entries"`

	// Rounds holds the completed rounds plus the currently
	// running one. The next round only comes into existence
	// once every game of the current round is final.
	Rounds [][]Game `json:"rounds"`

	TotalRounds int `json:"total_rounds"`

	// PairingHistory records every matchup that was already
	// played, keyed canonically so (a,b) and (b,a) collide.
	PairingHistory map[string]bool `json:"pairing_history"`

	// SideCounts balances which team is first-named; positive
	// means the team was first-named more often.
	SideCounts map[TeamID]int `json:"side_counts"`

	// ByeHistory marks teams that already sat out a round.
	ByeHistory map[TeamID]bool `json:"bye_history"`

	Withdrawn map[TeamID]bool `json:"withdrawn,omitempty"`

	// ForcedRematches counts how often the no-repeat constraint
	// had to be relaxed.
	ForcedRematches int `json:"forced_rematches"`

	TieBreaks []TieBreak `json:"tie_breaks,omitempty"`
	RNGSeed   int64      `json:"rng_seed,omitempty"`
}

func (t *Swiss) Format() Format {
	return FormatSwiss
}

func (t *Swiss) Clone() Bracket {
	clone := *t
	clone.Rounds = cloneRounds(t.Rounds)
	clone.PairingHistory = cloneBoolMap(t.PairingHistory)
	clone.SideCounts = cloneIntMap(t.SideCounts)
	clone.ByeHistory = cloneBoolMap(t.ByeHistory)
	clone.Withdrawn = cloneBoolMap(t.Withdrawn)
	return &clone
}

func (t *Swiss) Find(id GameID) (GameRef, bool) {
	return findGame(t, id)
}

func (t *Swiss) Champion() (TeamID, bool) {
	if !t.Complete() {
		return "", false
	}
	ranked := t.Standings()
	if len(ranked) == 0 {
		return "", false
	}
	return ranked[0].Team, true
}

func (t *Swiss) Complete() bool {
	if len(t.Rounds) < t.TotalRounds {
		return false
	}
	return roundComplete(t.Rounds[len(t.Rounds)-1])
}

// Standings ranks all entries by their record so far. Byes count
// toward the pairing score but not toward the played record.
func (t *Swiss) Standings() []RankedTeam {
	return Rank(t.Entries, playedGames(t), t.TieBreaks)
}

func (t *Swiss) refs() []GameRef {
	refs := make([]GameRef, 0, len(t.Rounds)*len(t.Entries)/2)
	for r, round := range t.Rounds {
		for i := range round {
			refs = append(refs, GameRef{Section: SectionMain, Round: r, Index: i})
		}
	}
	return refs
}

func (t *Swiss) game(ref GameRef) *Game {
	return &t.Rounds[ref.Round][ref.Index]
}

func newSwiss(teams []TeamEntry, cfg Config) (*Swiss, error) {
	if len(teams) < max(2, cfg.MinTeams) {
		return nil, validationErr("swiss", ErrTooFewTeams)
	}

	totalRounds := cfg.SwissRounds
	if totalRounds <= 0 {
		_, totalRounds = bracketSize(len(teams))
	}

	bracket := &Swiss{
		Entries:        teams,
		TotalRounds:    totalRounds,
		PairingHistory: make(map[string]bool),
		SideCounts:     make(map[TeamID]int),
		ByeHistory:     make(map[TeamID]bool),
		Withdrawn:      make(map[TeamID]bool),
		TieBreaks:      cfg.TieBreaks,
		RNGSeed:        cfg.RNGSeed,
	}

	bracket.Rounds = append(bracket.Rounds, bracket.firstRound())

	return bracket, nil
}

// firstRound pairs by seed, top half against bottom half. A
// fully unseeded field is drawn randomly instead, reproducible
// through the configured rng seed.
func (t *Swiss) firstRound() []Game {
	ids := make([]TeamID, 0, len(t.Entries))
	for _, e := range t.Entries {
		ids = append(ids, e.ID)
	}

	unseeded := true
	for _, e := range t.Entries {
		if e.Seed != 0 {
			unseeded = false
			break
		}
	}
	if unseeded {
		rng := rand.New(rand.NewSource(t.RNGSeed))
		rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	}

	round := make([]Game, 0, (len(ids)+1)/2)

	if len(ids)%2 != 0 {
		// The lowest entry sits the first round out.
		bye := ids[len(ids)-1]
		ids = ids[:len(ids)-1]
		round = append(round, t.byeGame(1, bye))
	}

	half := len(ids) / 2
	for i := 0; i < half; i++ {
		round = append(round, t.pairGame(1, len(round)+1, ids[i], ids[i+half]))
	}

	return round
}

// nextRound pairs the upcoming round from the current scores.
// Returns an error only when even the relaxed matching fails,
// which cannot happen for two or more pairable teams.
func (t *Swiss) nextRound(log zerolog.Logger) error {
	roundNo := len(t.Rounds) + 1

	ids := t.pairingOrder()

	round := make([]Game, 0, (len(ids)+1)/2)

	if len(ids)%2 != 0 {
		bye := t.pickBye(ids)
		ids = slices.DeleteFunc(slices.Clone(ids), func(id TeamID) bool { return id == bye })
		round = append(round, t.byeGame(roundNo, bye))
	}

	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = string(id)
	}

	noRepeat := func(a, b string) bool {
		return !t.PairingHistory[pairKey(TeamID(a), TeamID(b))]
	}

	pairs, err := pairing.Match(strs, noRepeat)
	if errors.Is(err, pairing.ErrNoPerfectMatching) {
		// Relax the no-repeat constraint once rather than
		// failing the round.
		t.ForcedRematches++
		log.Warn().
			Int("round", roundNo).
			Msg("no repeat-free pairing exists, allowing a forced rematch")
		pairs, err = pairing.Match(strs, func(a, b string) bool { return true })
	}
	if err != nil {
		return validationErr("swiss pairing", err)
	}

	for _, p := range pairs {
		round = append(round, t.pairGame(roundNo, len(round)+1, TeamID(p[0]), TeamID(p[1])))
	}

	t.Rounds = append(t.Rounds, round)
	return nil
}

// pairingOrder sorts the active teams descending by score, with
// seed and id as deterministic tie-breaks.
func (t *Swiss) pairingOrder() []TeamID {
	scores := t.scores()
	seeds := make(map[TeamID]int, len(t.Entries))

	ids := make([]TeamID, 0, len(t.Entries))
	for _, e := range t.Entries {
		if t.Withdrawn[e.ID] {
			continue
		}
		ids = append(ids, e.ID)
		seeds[e.ID] = e.Seed
	}

	slices.SortStableFunc(ids, func(a, b TeamID) int {
		if scores[a] != scores[b] {
			if scores[a] > scores[b] {
				return -1
			}
			return 1
		}
		if c := compareSeeds(seeds[a], seeds[b]); c != 0 {
			return c
		}
		return strings.Compare(string(a), string(b))
	})

	return ids
}

// scores returns each team's pairing score: one point per win,
// half per draw, one per bye.
func (t *Swiss) scores() map[TeamID]float64 {
	scores := make(map[TeamID]float64, len(t.Entries))
	for _, round := range t.Rounds {
		for i := range round {
			g := &round[i]
			if !g.Final {
				continue
			}
			switch {
			case g.HasBye():
				scores[g.Winner]++
			case g.Draw:
				scores[g.SlotA.Team] += 0.5
				scores[g.SlotB.Team] += 0.5
			case g.Winner != "":
				scores[g.Winner]++
			}
		}
	}
	return scores
}

// pickBye gives the round's bye to the lowest-ranked team that
// did not have one yet.
func (t *Swiss) pickBye(ordered []TeamID) TeamID {
	for i := len(ordered) - 1; i >= 0; i-- {
		if !t.ByeHistory[ordered[i]] {
			return ordered[i]
		}
	}
	return ordered[len(ordered)-1]
}

func (t *Swiss) byeGame(roundNo int, team TeamID) Game {
	t.ByeHistory[team] = true
	return Game{
		ID:     GameID(fmt.Sprintf("R%dBYE", roundNo)),
		Round:  roundNo,
		SlotA:  TeamSlot(team),
		SlotB:  ByeSlot(),
		Winner: team,
		Final:  true,
	}
}

// pairGame creates a game between a and b, balancing which team
// is first-named across the tournament.
func (t *Swiss) pairGame(roundNo, matchNo int, a, b TeamID) Game {
	if t.SideCounts[a] > t.SideCounts[b] {
		a, b = b, a
	}
	t.SideCounts[a]++
	t.SideCounts[b]--
	t.PairingHistory[pairKey(a, b)] = true

	return Game{
		ID:    GameID(fmt.Sprintf("R%dM%d", roundNo, matchNo)),
		Round: roundNo,
		SlotA: TeamSlot(a),
		SlotB: TeamSlot(b),
	}
}

func pairKey(a, b TeamID) string {
	if b < a {
		a, b = b, a
	}
	return string(a) + "|" + string(b)
}

func cloneBoolMap[K comparable](m map[K]bool) map[K]bool {
	if m == nil {
		return nil
	}
	clone := make(map[K]bool, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

func cloneIntMap[K comparable](m map[K]int) map[K]int {
	if m == nil {
		return nil
	}
	clone := make(map[K]int, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}
