package core

import "fmt"

// A DoubleElimination bracket runs a winners and a losers arena
// side by side. Every team has to lose twice to be out: the
// loser of winners round r drops into the losers bracket, whose
// rounds alternate between minor rounds (losers-bracket
// survivors pair up) and major rounds (a winners-bracket loser
// meets a minor-round winner). The losers-bracket survivor meets
// the winners-bracket champion in the grand final; if the
// survivor wins it, a bracket reset game decides the title.
type DoubleElimination struct {
	Winners [][]Game `json:"winners"`
	Losers  [][]Game `json:"losers"`

	GrandFinal Game `json:"grand_final"`

	// BracketReset is materialized by the progression engine
	// only when the losers-bracket finalist wins the grand
	// final.
	BracketReset *Game `json:"bracket_reset,omitempty"`
}

func (t *DoubleElimination) Format() Format {
	return FormatDoubleElimination
}

func (t *DoubleElimination) Clone() Bracket {
	clone := &DoubleElimination{
		Winners:    cloneRounds(t.Winners),
		Losers:     cloneRounds(t.Losers),
		GrandFinal: cloneGame(t.GrandFinal),
	}
	if t.BracketReset != nil {
		g := cloneGame(*t.BracketReset)
		clone.BracketReset = &g
	}
	return clone
}

func (t *DoubleElimination) Find(id GameID) (GameRef, bool) {
	return findGame(t, id)
}

func (t *DoubleElimination) Champion() (TeamID, bool) {
	if t.BracketReset != nil {
		if t.BracketReset.Final && t.BracketReset.Winner != "" {
			return t.BracketReset.Winner, true
		}
		return "", false
	}

	gf := &t.GrandFinal
	if gf.Final && gf.Winner != "" && gf.Winner == gf.SlotA.Team {
		// The winners-bracket champion defended the grand
		// final; no reset is played.
		return gf.Winner, true
	}
	return "", false
}

func (t *DoubleElimination) Complete() bool {
	_, ok := t.Champion()
	return ok
}

func (t *DoubleElimination) refs() []GameRef {
	refs := make([]GameRef, 0, 64)
	for r, round := range t.Winners {
		for i := range round {
			refs = append(refs, GameRef{Section: SectionMain, Round: r, Index: i})
		}
	}
	for r, round := range t.Losers {
		for i := range round {
			refs = append(refs, GameRef{Section: SectionLosers, Round: r, Index: i})
		}
	}
	refs = append(refs, GameRef{Section: SectionGrandFinal, Index: 0})
	if t.BracketReset != nil {
		refs = append(refs, GameRef{Section: SectionGrandFinal, Index: 1})
	}
	return refs
}

func (t *DoubleElimination) game(ref GameRef) *Game {
	switch ref.Section {
	case SectionLosers:
		return &t.Losers[ref.Round][ref.Index]
	case SectionGrandFinal:
		if ref.Index == 1 {
			return t.BracketReset
		}
		return &t.GrandFinal
	default:
		return &t.Winners[ref.Round][ref.Index]
	}
}

func newDoubleElimination(teams []TeamEntry, cfg Config) (*DoubleElimination, error) {
	if len(teams) < max(3, cfg.MinTeams) {
		return nil, validationErr("double elimination", ErrTooFewTeams)
	}

	size, numRounds := bracketSize(len(teams))
	slots := entrySlots(teams, size)
	matchups := arrangeSeeds(numRounds)

	winners := make([][]Game, numRounds)

	firstRound := make([]Game, len(matchups))
	for i, matchup := range matchups {
		firstRound[i] = Game{
			ID:    deGameID("W", 1, i),
			Round: 1,
			SlotA: slots[matchup.seed1],
			SlotB: slots[matchup.seed2],
		}
	}
	winners[0] = firstRound

	for r := 1; r < numRounds; r++ {
		numGames := size >> uint(r+1)
		round := make([]Game, numGames)
		for i := range round {
			round[i] = Game{
				ID:    deGameID("W", r+1, i),
				Round: r + 1,
				SlotA: SourceSlot(GameRef{Section: SectionMain, Round: r - 1, Index: 2 * i}, false),
				SlotB: SourceSlot(GameRef{Section: SectionMain, Round: r - 1, Index: 2*i + 1}, false),
			}
		}
		winners[r] = round
	}

	losers := make([][]Game, 0, 2*(numRounds-1))
	for t := 0; t < numRounds-1; t++ {
		numGames := size >> uint(t+2)

		minor := make([]Game, numGames)
		for i := range minor {
			l := len(losers)
			if t == 0 {
				minor[i] = Game{
					ID:    deGameID("L", l+1, i),
					Round: l + 1,
					SlotA: SourceSlot(GameRef{Section: SectionMain, Round: 0, Index: 2 * i}, true),
					SlotB: SourceSlot(GameRef{Section: SectionMain, Round: 0, Index: 2*i + 1}, true),
				}
			} else {
				minor[i] = Game{
					ID:    deGameID("L", l+1, i),
					Round: l + 1,
					SlotA: SourceSlot(GameRef{Section: SectionLosers, Round: l - 1, Index: 2 * i}, false),
					SlotB: SourceSlot(GameRef{Section: SectionLosers, Round: l - 1, Index: 2*i + 1}, false),
				}
			}
		}
		losers = append(losers, minor)

		major := make([]Game, numGames)
		for i := range major {
			l := len(losers)
			major[i] = Game{
				ID:    deGameID("L", l+1, i),
				Round: l + 1,
				SlotA: SourceSlot(GameRef{Section: SectionMain, Round: t + 1, Index: loserDropIndex(t, i, numGames)}, true),
				SlotB: SourceSlot(GameRef{Section: SectionLosers, Round: l - 1, Index: i}, false),
			}
		}
		losers = append(losers, major)
	}

	grandFinal := Game{
		ID:    "GF",
		Round: 1,
		SlotA: SourceSlot(GameRef{Section: SectionMain, Round: numRounds - 1, Index: 0}, false),
		SlotB: SourceSlot(GameRef{Section: SectionLosers, Round: len(losers) - 1, Index: 0}, false),
	}

	bracket := &DoubleElimination{
		Winners:    winners,
		Losers:     losers,
		GrandFinal: grandFinal,
	}

	resolveSlots(bracket)

	return bracket, nil
}

// loserDropIndex maps the loser of game i in winners round t+1
// onto a major losers-round game. Every second major round the
// bracket halves are swapped so that two teams who already met
// in the winners bracket cannot rematch right away.
func loserDropIndex(t, i, numGames int) int {
	if t%2 == 0 && numGames > 1 {
		return (i + numGames/2) % numGames
	}
	return i
}

func deGameID(prefix string, round, index int) GameID {
	return GameID(fmt.Sprintf("%s%dM%d", prefix, round, index+1))
}

// materializeReset creates the bracket reset game after the
// losers-bracket finalist won the grand final.
func (t *DoubleElimination) materializeReset() {
	gf := &t.GrandFinal
	reset := Game{
		ID:    "GF2",
		Round: 2,
		SlotA: TeamSlot(gf.SlotA.Team),
		SlotB: TeamSlot(gf.SlotB.Team),
	}
	t.BracketReset = &reset
}
