// Package pairing solves the constrained matching problem behind
// Swiss-style round pairings: split an ordered list of ids into
// pairs such that every pair satisfies a compatibility predicate,
// preferring pairings between close neighbors of the order.
package pairing

import (
	"errors"

	"github.com/dominikbraun/graph"
)

var (
	ErrOddCount          = errors.New("cannot pair an odd number of ids")
	ErrNoPerfectMatching = errors.New("no perfect matching satisfies the constraints")
)

// Match pairs the ids two by two. The ids are expected in
// priority order (e.g. descending by score); the matcher walks a
// compatibility graph with backtracking, always trying the
// nearest available candidate first, so that the result pairs
// neighbors wherever the constraints allow it.
//
// It returns ErrNoPerfectMatching when no complete pairing
// exists; the caller decides which constraint to relax then.
func Match(ids []string, allowed func(a, b string) bool) ([][2]string, error) {
	if len(ids)%2 != 0 {
		return nil, ErrOddCount
	}
	if len(ids) == 0 {
		return [][2]string{}, nil
	}

	g := graph.New(graph.StringHash)
	for _, id := range ids {
		_ = g.AddVertex(id)
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if allowed(ids[i], ids[j]) {
				_ = g.AddEdge(ids[i], ids[j])
			}
		}
	}

	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return nil, err
	}

	m := &matcher{ids: ids, adjacency: adjacency, paired: make(map[string]bool, len(ids))}
	pairs := make([][2]string, 0, len(ids)/2)
	pairs, ok := m.match(pairs)
	if !ok {
		return nil, ErrNoPerfectMatching
	}
	return pairs, nil
}

type matcher struct {
	ids       []string
	adjacency map[string]map[string]graph.Edge[string]
	paired    map[string]bool
}

// match extends the partial pairing until all ids are paired or
// every completion is exhausted.
func (m *matcher) match(pairs [][2]string) ([][2]string, bool) {
	first := ""
	for _, id := range m.ids {
		if !m.paired[id] {
			first = id
			break
		}
	}
	if first == "" {
		return pairs, true
	}

	m.paired[first] = true
	neighbors := m.adjacency[first]

	for _, candidate := range m.ids {
		if m.paired[candidate] {
			continue
		}
		if _, ok := neighbors[candidate]; !ok {
			continue
		}

		m.paired[candidate] = true
		if done, ok := m.match(append(pairs, [2]string{first, candidate})); ok {
			return done, true
		}
		m.paired[candidate] = false
	}

	m.paired[first] = false
	return nil, false
}
