package core

import "fmt"

// A GroupKnockout bracket runs a preliminary group phase and
// feeds the top finishers of every group into a single
// elimination knockout. The groups are drawn serpentine-style
// over the seeds so the group strengths stay balanced; the
// knockout is seeded by cross-group ranking and only
// materializes once every group finished its round robin.
type GroupKnockout struct {
	Entries []TeamEntry  `json:"entries"`
	Groups  []RoundRobin `json:"groups"`

	Knockout *SingleElimination `json:"knockout,omitempty"`

	// Qualifiers is the number of top finishers per group that
	// advance into the knockout.
	Qualifiers int `json:"qualifiers"`

	ThirdPlace bool       `json:"third_place,omitempty"`
	TieBreaks  []TieBreak `json:"tie_breaks,omitempty"`
}

func (t *GroupKnockout) Format() Format {
	return FormatGroupKnockout
}

func (t *GroupKnockout) Clone() Bracket {
	clone := *t
	clone.Groups = make([]RoundRobin, len(t.Groups))
	for i := range t.Groups {
		clone.Groups[i] = *t.Groups[i].Clone().(*RoundRobin)
	}
	if t.Knockout != nil {
		clone.Knockout = t.Knockout.Clone().(*SingleElimination)
	}
	return &clone
}

func (t *GroupKnockout) Find(id GameID) (GameRef, bool) {
	return findGame(t, id)
}

func (t *GroupKnockout) Champion() (TeamID, bool) {
	if t.Knockout == nil {
		return "", false
	}
	return t.Knockout.Champion()
}

func (t *GroupKnockout) Complete() bool {
	return t.Knockout != nil && t.Knockout.Complete()
}

// GroupPhaseComplete reports whether every group played out its
// full round robin.
func (t *GroupKnockout) GroupPhaseComplete() bool {
	for i := range t.Groups {
		if !t.Groups[i].Complete() {
			return false
		}
	}
	return true
}

// GroupStandings ranks one group by its games so far.
func (t *GroupKnockout) GroupStandings(group int) []RankedTeam {
	g := &t.Groups[group]
	return Rank(g.Entries, playedGames(g), t.TieBreaks)
}

func (t *GroupKnockout) refs() []GameRef {
	refs := make([]GameRef, 0, 64)
	for gi := range t.Groups {
		for r, round := range t.Groups[gi].Rounds {
			for i := range round {
				refs = append(refs, GameRef{Section: SectionGroup, Group: gi, Round: r, Index: i})
			}
		}
	}
	if t.Knockout != nil {
		refs = append(refs, t.Knockout.refs()...)
	}
	return refs
}

func (t *GroupKnockout) game(ref GameRef) *Game {
	if ref.Section == SectionGroup {
		return &t.Groups[ref.Group].Rounds[ref.Round][ref.Index]
	}
	return t.Knockout.game(ref)
}

func newGroupKnockout(teams []TeamEntry, cfg Config) (*GroupKnockout, error) {
	switch {
	case len(teams) < max(2, cfg.MinTeams):
		return nil, validationErr("group knockout", ErrTooFewTeams)
	case cfg.Groups < 1:
		return nil, validationErr("group knockout", ErrTooFewGroups)
	case 2*cfg.Groups > len(teams):
		return nil, validationErr("group knockout", ErrTooManyGroups)
	case cfg.Groups*cfg.Qualifiers < 2:
		return nil, validationErr("group knockout", ErrTooFewQualifiers)
	}

	groupTeams := serpentine(teams, cfg.Groups)

	groups := make([]RoundRobin, len(groupTeams))
	for gi, members := range groupTeams {
		groups[gi] = RoundRobin{
			Entries:    members,
			Rounds:     roundRobinSchedule(members, 1, fmt.Sprintf("G%d", gi+1)),
			Passes:     1,
			AllowDraws: cfg.AllowDraws,
			TieBreaks:  cfg.TieBreaks,
		}
	}

	return &GroupKnockout{
		Entries:    teams,
		Groups:     groups,
		Qualifiers: cfg.Qualifiers,
		ThirdPlace: cfg.ThirdPlace,
		TieBreaks:  cfg.TieBreaks,
	}, nil
}

// materializeKnockout builds the knockout bracket from the group
// results. The qualifiers are seeded by group rank first and by
// their cross-group record among each other second, so the group
// winners occupy the top of the knockout seeding.
func (t *GroupKnockout) materializeKnockout() error {
	qualifiers := make([]TeamEntry, 0, len(t.Groups)*t.Qualifiers)

	allGroupGames := make([]Game, 0, 64)
	for gi := range t.Groups {
		allGroupGames = append(allGroupGames, playedGames(&t.Groups[gi])...)
	}

	for rank := 0; rank < t.Qualifiers; rank++ {
		// Collect the rank-th finisher of every group, then
		// order that band by the cross-group record.
		band := make([]TeamEntry, 0, len(t.Groups))
		for gi := range t.Groups {
			standings := t.GroupStandings(gi)
			if rank >= len(standings) {
				continue
			}
			entry, ok := findEntry(t.Groups[gi].Entries, standings[rank].Team)
			if !ok {
				return validationErr("group knockout", ErrUnknownTeam)
			}
			band = append(band, entry)
		}

		banded := Rank(band, allGroupGames, t.TieBreaks)
		for _, r := range banded {
			entry, _ := findEntry(band, r.Team)
			qualifiers = append(qualifiers, entry)
		}
	}

	// Reseed by qualification order for the knockout draw.
	for i := range qualifiers {
		qualifiers[i].Seed = i + 1
	}

	knockout, err := newSingleElimination(qualifiers, Config{
		Format:     FormatSingleElimination,
		ThirdPlace: t.ThirdPlace,
		TieBreaks:  t.TieBreaks,
	})
	if err != nil {
		return err
	}

	t.Knockout = knockout
	return nil
}

func findEntry(entries []TeamEntry, id TeamID) (TeamEntry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return TeamEntry{}, false
}
