package core

import (
	"slices"
	"testing"
)

func TestArrangeSeeds(t *testing.T) {
	matchups := arrangeSeeds(3)
	want := []seedMatchup{{0, 7}, {3, 4}, {2, 5}, {1, 6}}
	if !slices.Equal(matchups, want) {
		t.Fatalf("eight-bracket seed order is %v, want %v", matchups, want)
	}

	// The two top seeds must sit in opposite halves at every
	// bracket size.
	for rounds := 1; rounds <= 6; rounds++ {
		matchups := arrangeSeeds(rounds)
		half := len(matchups) / 2
		for i, m := range matchups {
			if m.seed1 == 0 && half > 0 && i >= half {
				t.Fatalf("%d rounds: top seed in bottom half", rounds)
			}
			if (m.seed1 == 1 || m.seed2 == 1) && half > 0 && i < half {
				t.Fatalf("%d rounds: second seed in top half", rounds)
			}
		}
	}
}

func TestBracketSize(t *testing.T) {
	cases := []struct {
		count, size, rounds int
	}{
		{2, 2, 1},
		{3, 4, 2},
		{4, 4, 2},
		{5, 8, 3},
		{8, 8, 3},
		{9, 16, 4},
		{16, 16, 4},
	}
	for _, c := range cases {
		size, rounds := bracketSize(c.count)
		if size != c.size || rounds != c.rounds {
			t.Errorf("bracketSize(%d) = %d, %d, want %d, %d", c.count, size, rounds, c.size, c.rounds)
		}
	}
}

func TestSerpentine(t *testing.T) {
	groups := serpentine(testTeams(8), 2)

	got := make([][]TeamID, len(groups))
	for i, g := range groups {
		for _, team := range g {
			got[i] = append(got[i], team.ID)
		}
	}

	want := [][]TeamID{
		{"T1", "T4", "T5", "T8"},
		{"T2", "T3", "T6", "T7"},
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Fatalf("group %d is %v, want %v", i+1, got[i], want[i])
		}
	}
}

func TestValidateSeeds(t *testing.T) {
	teams := testTeams(4)
	if err := validateSeeds(teams); err != nil {
		t.Fatalf("unique seeds rejected: %v", err)
	}

	teams[3].Seed = 2
	if err := validateSeeds(teams); err == nil {
		t.Fatal("duplicate seed accepted")
	}
}
