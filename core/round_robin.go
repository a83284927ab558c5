package core

import "fmt"

// A RoundRobin bracket has every team play every other team once
// per pass. The complete schedule is generated up front with the
// classic circle method: position 0 stays fixed while all other
// positions rotate between rounds. With an odd team count one
// circle position is a bye and the team drawn against it sits
// the round out.
type RoundRobin struct {
	Entries []TeamEntry `json:"entries"`
	Rounds  [][]Game    `json:"rounds"`

	Passes     int        `json:"passes"`
	AllowDraws bool       `json:"allow_draws,omitempty"`
	TieBreaks  []TieBreak `json:"tie_breaks,omitempty"`
}

func (t *RoundRobin) Format() Format {
	return FormatRoundRobin
}

func (t *RoundRobin) Clone() Bracket {
	clone := *t
	clone.Rounds = cloneRounds(t.Rounds)
	return &clone
}

func (t *RoundRobin) Find(id GameID) (GameRef, bool) {
	return findGame(t, id)
}

// Champion returns the standings leader once the schedule is
// fully played.
func (t *RoundRobin) Champion() (TeamID, bool) {
	if !t.Complete() {
		return "", false
	}
	ranked := Rank(t.Entries, playedGames(t), t.TieBreaks)
	if len(ranked) == 0 {
		return "", false
	}
	return ranked[0].Team, true
}

func (t *RoundRobin) Complete() bool {
	for _, round := range t.Rounds {
		if !roundComplete(round) {
			return false
		}
	}
	return true
}

func (t *RoundRobin) refs() []GameRef {
	refs := make([]GameRef, 0, len(t.Rounds)*len(t.Entries)/2)
	for r, round := range t.Rounds {
		for i := range round {
			refs = append(refs, GameRef{Section: SectionMain, Round: r, Index: i})
		}
	}
	return refs
}

func (t *RoundRobin) game(ref GameRef) *Game {
	return &t.Rounds[ref.Round][ref.Index]
}

func newRoundRobin(teams []TeamEntry, cfg Config) (*RoundRobin, error) {
	if len(teams) < max(2, cfg.MinTeams) {
		return nil, validationErr("round robin", ErrTooFewTeams)
	}

	bracket := &RoundRobin{
		Entries:    teams,
		Passes:     cfg.Passes,
		AllowDraws: cfg.AllowDraws,
		TieBreaks:  cfg.TieBreaks,
	}
	bracket.Rounds = roundRobinSchedule(teams, cfg.Passes, "")

	return bracket, nil
}

// roundRobinSchedule lays out the circle-method schedule. The
// idPrefix namespaces game ids when the schedule belongs to a
// group of a larger bracket.
func roundRobinSchedule(teams []TeamEntry, passes int, idPrefix string) [][]Game {
	// Pad to an even circle; the padding position is the bye.
	numSlots := len(teams)
	if numSlots%2 != 0 {
		numSlots++
	}

	numRounds := numSlots - 1
	rounds := make([][]Game, 0, passes*numRounds)

	for pass := 0; pass < passes; pass++ {
		for roundI := 0; roundI < numRounds; roundI++ {
			displayRound := pass*numRounds + roundI + 1
			round := make([]Game, 0, numSlots/2)

			for matchI := 0; matchI < numSlots/2; matchI++ {
				i1, i2 := circleOpponents(numSlots, roundI, matchI)
				if i1 >= len(teams) || i2 >= len(teams) {
					// One of the positions is the bye;
					// the opposing team sits this round
					// out.
					continue
				}

				slotA := TeamSlot(teams[i1].ID)
				slotB := TeamSlot(teams[i2].ID)

				// Distribute the share of first-named
				// games evenly among the teams.
				if matchI == 0 && roundI%2 != 0 {
					slotA, slotB = slotB, slotA
				}
				if pass%2 != 0 {
					slotA, slotB = slotB, slotA
				}

				round = append(round, Game{
					ID:    GameID(fmt.Sprintf("%sR%dM%d", idPrefix, displayRound, len(round)+1)),
					Round: displayRound,
					SlotA: slotA,
					SlotB: slotB,
				})
			}

			rounds = append(rounds, round)
		}
	}

	return rounds
}

func circleOpponents(numSlots, roundI, matchI int) (int, int) {
	i1 := circleIndex(matchI, numSlots, roundI)
	i2 := circleIndex(numSlots-1-matchI, numSlots, roundI)
	return i1, i2
}

// circleIndex rotates the given position according to
// https://en.wikipedia.org/wiki/Round-robin_tournament#Circle_method
func circleIndex(index, length, round int) int {
	if index == 0 {
		return 0
	}
	index -= 1
	index -= round
	index += length - 1
	index %= length - 1
	index += 1
	return index
}
