package core

import "fmt"

// A SingleElimination bracket is a binary tree of games stored
// as one flat arena per round. A game's successors are addressed
// by arithmetic on round and index, never by object references:
// the winner of game i in round r feeds slot i%2 of game i/2 in
// round r+1.
type SingleElimination struct {
	Rounds [][]Game `json:"rounds"`

	// ThirdPlace pairs the two semi-final losers. It is only
	// present when configured.
	ThirdPlace *Game `json:"third_place,omitempty"`
}

func (t *SingleElimination) Format() Format {
	return FormatSingleElimination
}

func (t *SingleElimination) Clone() Bracket {
	clone := &SingleElimination{Rounds: cloneRounds(t.Rounds)}
	if t.ThirdPlace != nil {
		g := cloneGame(*t.ThirdPlace)
		clone.ThirdPlace = &g
	}
	return clone
}

func (t *SingleElimination) Find(id GameID) (GameRef, bool) {
	return findGame(t, id)
}

func (t *SingleElimination) Champion() (TeamID, bool) {
	final := t.finalGame()
	if final.Final && final.Winner != "" {
		return final.Winner, true
	}
	return "", false
}

func (t *SingleElimination) Complete() bool {
	if _, ok := t.Champion(); !ok {
		return false
	}
	if t.ThirdPlace != nil && !t.ThirdPlace.Final {
		return false
	}
	return true
}

func (t *SingleElimination) finalGame() *Game {
	lastRound := t.Rounds[len(t.Rounds)-1]
	return &lastRound[0]
}

func (t *SingleElimination) refs() []GameRef {
	refs := make([]GameRef, 0, 2*len(t.Rounds[0]))
	for r, round := range t.Rounds {
		for i := range round {
			refs = append(refs, GameRef{Section: SectionMain, Round: r, Index: i})
		}
	}
	if t.ThirdPlace != nil {
		refs = append(refs, GameRef{Section: SectionThirdPlace})
	}
	return refs
}

func (t *SingleElimination) game(ref GameRef) *Game {
	if ref.Section == SectionThirdPlace {
		return t.ThirdPlace
	}
	return &t.Rounds[ref.Round][ref.Index]
}

// newSingleElimination builds the initial bracket for the
// seed-sorted teams. Byes pad the entry slots up to the next
// power of two; since the bye slots take the bottom seed
// indices, the highest seeds get the byes first.
func newSingleElimination(teams []TeamEntry, cfg Config) (*SingleElimination, error) {
	if len(teams) < max(2, cfg.MinTeams) {
		return nil, validationErr("single elimination", ErrTooFewTeams)
	}

	size, numRounds := bracketSize(len(teams))
	slots := entrySlots(teams, size)
	matchups := arrangeSeeds(numRounds)

	rounds := make([][]Game, numRounds)

	firstRound := make([]Game, len(matchups))
	for i, matchup := range matchups {
		firstRound[i] = Game{
			ID:    seGameID(1, i),
			Round: 1,
			SlotA: slots[matchup.seed1],
			SlotB: slots[matchup.seed2],
		}
	}
	rounds[0] = firstRound

	for r := 1; r < numRounds; r++ {
		numGames := size >> uint(r+1)
		round := make([]Game, numGames)
		for i := range round {
			round[i] = Game{
				ID:    seGameID(r+1, i),
				Round: r + 1,
				SlotA: SourceSlot(GameRef{Section: SectionMain, Round: r - 1, Index: 2 * i}, false),
				SlotB: SourceSlot(GameRef{Section: SectionMain, Round: r - 1, Index: 2*i + 1}, false),
			}
		}
		rounds[r] = round
	}

	bracket := &SingleElimination{Rounds: rounds}

	if cfg.ThirdPlace && numRounds >= 2 {
		semis := numRounds - 2
		bracket.ThirdPlace = &Game{
			ID:    "TP",
			Round: numRounds,
			SlotA: SourceSlot(GameRef{Section: SectionMain, Round: semis, Index: 0}, true),
			SlotB: SourceSlot(GameRef{Section: SectionMain, Round: semis, Index: 1}, true),
		}
	}

	resolveSlots(bracket)

	return bracket, nil
}

func seGameID(round, index int) GameID {
	return GameID(fmt.Sprintf("R%dM%d", round, index+1))
}
