package core

// Seed placement helpers shared by the elimination and group
// generators. All of them are pure functions over the seed-sorted
// entry slice; none of them reach into any ambient state.

type seedMatchup struct {
	seed1 int
	seed2 int
}

// arrangeSeeds arranges the seed indices for the first round of
// an elimination bracket with numRounds rounds.
//
// The arrangement ensures that the top 2 seeds can only meet in
// the final, the top 4 seeds only in the semi-finals, etc. The
// matchups come out in bracket order, so the winners of matchups
// 2i and 2i+1 meet in the following round.
//
// More info: https://en.wikipedia.org/wiki/Single-elimination_tournament#Seeding
func arrangeSeeds(numRounds int) []seedMatchup {
	// Start with the final between the first two seeds
	matchups := []seedMatchup{{0, 1}}
	totalSeeds := 2

	// Work down the tournament tree by round (semis, quarters, ...)
	for i := 1; i < numRounds; i++ {
		nextMatchups := make([]seedMatchup, 0, totalSeeds)
		totalSeeds *= 2
		for _, parent := range matchups {
			s1 := parent.seed1
			s2 := parent.seed2

			nextMatchups = append(
				nextMatchups,
				seedMatchup{s1, totalSeeds - 1 - s1},
				seedMatchup{totalSeeds - 1 - s2, s2},
			)
		}

		matchups = nextMatchups
	}

	for i, m := range matchups {
		if m.seed2 < m.seed1 {
			matchups[i] = seedMatchup{m.seed2, m.seed1}
		}
	}

	return matchups
}

// bracketSize rounds the team count up to the next power of two
// and returns it together with the resulting number of rounds.
// The difference between size and count is the number of byes,
// which arrangeSeeds hands to the highest seeds first because
// the bye slots occupy the bottom seed indices.
func bracketSize(count int) (size, rounds int) {
	size = 1
	for size < count {
		size <<= 1
		rounds++
	}
	return size, rounds
}

// entrySlots returns one slot per seed index of a full bracket:
// the seed-sorted teams first, bye slots padding the rest.
func entrySlots(teams []TeamEntry, size int) []Slot {
	slots := make([]Slot, size)
	for i := range slots {
		if i < len(teams) {
			slots[i] = TeamSlot(teams[i].ID)
		} else {
			slots[i] = ByeSlot()
		}
	}
	return slots
}

// serpentine distributes the seed-sorted teams into numGroups
// groups in a snaking order, going back and forth so the group
// strengths stay balanced.
func serpentine(teams []TeamEntry, numGroups int) [][]TeamEntry {
	groups := make([][]TeamEntry, numGroups)
	maxGroupSize := (len(teams) + numGroups - 1) / numGroups
	for i := range groups {
		groups[i] = make([]TeamEntry, 0, maxGroupSize)
	}

	forward := true
	for i := 0; i < len(teams); i += numGroups {
		row := teams[i:min(i+numGroups, len(teams))]
		for j, team := range row {
			g := j
			if !forward {
				g = numGroups - 1 - j
			}
			groups[g] = append(groups[g], team)
		}
		forward = !forward
	}

	return groups
}

// validateSeeds checks that all non-zero seeds among the given
// entries are unique.
func validateSeeds(teams []TeamEntry) error {
	seen := make(map[int]bool, len(teams))
	for _, t := range teams {
		if t.Seed == 0 {
			continue
		}
		if seen[t.Seed] {
			return validationErr("seeding", ErrDuplicateSeed)
		}
		seen[t.Seed] = true
	}
	return nil
}
