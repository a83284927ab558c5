package pairing

import (
	"errors"
	"testing"
)

func allowAll(a, b string) bool { return true }

func TestMatchPairsNeighbors(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}

	pairs, err := Match(ids, allowAll)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}

	// Unconstrained, the matcher pairs adjacent ids.
	if pairs[0] != [2]string{"a", "b"} || pairs[1] != [2]string{"c", "d"} {
		t.Fatalf("pairs are %v, want neighbors first", pairs)
	}
}

func TestMatchBacktracks(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}

	// a-b is forbidden, so the greedy first choice must be
	// undone: the only perfect matching is a-c, b-d.
	forbidden := map[[2]string]bool{
		{"a", "b"}: true,
		{"c", "d"}: true,
	}
	allowed := func(x, y string) bool {
		return !forbidden[[2]string{x, y}] && !forbidden[[2]string{y, x}]
	}

	pairs, err := Match(ids, allowed)
	if err != nil {
		t.Fatal(err)
	}

	covered := make(map[string]bool)
	for _, p := range pairs {
		if !allowed(p[0], p[1]) {
			t.Fatalf("forbidden pair %v in result", p)
		}
		covered[p[0]] = true
		covered[p[1]] = true
	}
	if len(covered) != len(ids) {
		t.Fatalf("pairing covers %d ids, want %d", len(covered), len(ids))
	}
}

func TestMatchOddCount(t *testing.T) {
	if _, err := Match([]string{"a", "b", "c"}, allowAll); !errors.Is(err, ErrOddCount) {
		t.Fatalf("got %v, want odd count error", err)
	}
}

func TestMatchNoPerfectMatching(t *testing.T) {
	_, err := Match([]string{"a", "b"}, func(a, b string) bool { return false })
	if !errors.Is(err, ErrNoPerfectMatching) {
		t.Fatalf("got %v, want no perfect matching", err)
	}
}

func TestMatchEmpty(t *testing.T) {
	pairs, err := Match(nil, allowAll)
	if err != nil || len(pairs) != 0 {
		t.Fatalf("empty input: %v, %v", pairs, err)
	}
}
