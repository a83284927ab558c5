package core

import (
	"fmt"
	"slices"
)

// Generate builds the initial bracket for the given teams. The
// teams are expected in the shape Registry.Approved returns:
// seeded entries first in seed order. Generation is pure; the
// same teams and config always produce the identical bracket.
func Generate(teams []TeamEntry, cfg Config) (Bracket, error) {
	cfg = cfg.withDefaults()

	if err := validateSeeds(teams); err != nil {
		return nil, err
	}
	if err := validateRoster(teams, cfg); err != nil {
		return nil, err
	}

	// Seed order decides slot placement everywhere, so settle it
	// once up front.
	teams = slices.Clone(teams)
	slices.SortStableFunc(teams, func(a, b TeamEntry) int {
		return compareSeeds(a.Seed, b.Seed)
	})

	switch cfg.Format {
	case FormatSingleElimination:
		return newSingleElimination(teams, cfg)
	case FormatDoubleElimination:
		return newDoubleElimination(teams, cfg)
	case FormatRoundRobin:
		return newRoundRobin(teams, cfg)
	case FormatSwiss:
		return newSwiss(teams, cfg)
	case FormatGroupKnockout:
		return newGroupKnockout(teams, cfg)
	case FormatLadder:
		return newLadder(teams, cfg)
	}
	return nil, validationErr("generate", fmt.Errorf("unknown format %q", cfg.Format))
}

func validateRoster(teams []TeamEntry, cfg Config) error {
	seen := make(map[TeamID]bool, len(teams))
	for _, t := range teams {
		if seen[t.ID] {
			return validationErr("generate", ErrDuplicateTeam)
		}
		seen[t.ID] = true
	}
	if cfg.MaxTeams > 0 && len(teams) > cfg.MaxTeams {
		return validationErr("generate", ErrCapacityExceeded)
	}
	return nil
}
