package core

import (
	"cmp"
	"slices"
)

// A TieBreak is one criterion of the standings order. The
// primary sort key is always win percentage; the configured
// tie-breaks are applied successively until a tie is resolved.
// Real federations vary the precedence, so it is configuration
// rather than a hard-coded rule.
type TieBreak string

const (
	// TieBreakHeadToHead compares the records of the games
	// played among the tied teams only.
	TieBreakHeadToHead TieBreak = "head_to_head"
	// TieBreakPointDiff compares point differential across all
	// games.
	TieBreakPointDiff TieBreak = "point_diff"
	// TieBreakPointsFor compares total points scored.
	TieBreakPointsFor TieBreak = "points_for"
	// TieBreakSeed resolves any remaining tie by the lower
	// numeric seed. Deterministic last resort, never random.
	TieBreakSeed TieBreak = "seed"
)

func DefaultTieBreaks() []TieBreak {
	return []TieBreak{TieBreakHeadToHead, TieBreakPointDiff, TieBreakPointsFor, TieBreakSeed}
}

type RankedTeam struct {
	Team TeamID `json:"team"`
	Rank int    `json:"rank"`
	Seed int    `json:"seed,omitempty"`

	Played int `json:"played"`
	Wins   int `json:"wins"`
	Draws  int `json:"draws"`
	Losses int `json:"losses"`

	PointsFor     int `json:"points_for"`
	PointsAgainst int `json:"points_against"`
	PointDiff     int `json:"point_diff"`

	WinPct float64 `json:"win_pct"`
}

type teamMetrics struct {
	played, wins, draws, losses int
	pointsFor, pointsAgainst    int
}

func (m *teamMetrics) winPct() float64 {
	if m.played == 0 {
		return 0
	}
	return (float64(m.wins) + 0.5*float64(m.draws)) / float64(m.played)
}

func (m *teamMetrics) pointDiff() int {
	return m.pointsFor - m.pointsAgainst
}

// collectMetrics tallies the final games into per-team metrics.
// When within is non-empty only games where both opponents are
// in the set are counted; that is how head-to-head records among
// tied teams are built.
func collectMetrics(games []Game, within []TeamID) map[TeamID]*teamMetrics {
	metrics := make(map[TeamID]*teamMetrics)

	counted := func(id TeamID) bool {
		return len(within) == 0 || slices.Contains(within, id)
	}

	tally := func(id TeamID) *teamMetrics {
		m, ok := metrics[id]
		if !ok {
			m = &teamMetrics{}
			metrics[id] = m
		}
		return m
	}

	for i := range games {
		g := &games[i]
		if !g.Final || g.HasBye() || !g.Ready() {
			continue
		}
		a, b := g.SlotA.Team, g.SlotB.Team
		if !counted(a) || !counted(b) {
			continue
		}

		ma, mb := tally(a), tally(b)
		ma.played++
		mb.played++
		ma.pointsFor += g.ScoreA
		ma.pointsAgainst += g.ScoreB
		mb.pointsFor += g.ScoreB
		mb.pointsAgainst += g.ScoreA

		switch {
		case g.Draw:
			ma.draws++
			mb.draws++
		case g.Winner == a:
			ma.wins++
			mb.losses++
		case g.Winner == b:
			mb.wins++
			ma.losses++
		}
	}

	return metrics
}

// Rank orders the given teams by their record in the given
// games. The order is strictly deterministic: after the
// configured tie-breaks any remaining tie falls back to seed and
// finally to the team id, so repeated invocations always return
// the same ranking no matter how maps iterated underneath.
func Rank(teams []TeamEntry, games []Game, order []TieBreak) []RankedTeam {
	if len(order) == 0 {
		order = DefaultTieBreaks()
	}

	ids := make([]TeamID, 0, len(teams))
	seeds := make(map[TeamID]int, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
		seeds[t.ID] = t.Seed
	}

	metrics := collectMetrics(games, nil)
	for _, id := range ids {
		if _, ok := metrics[id]; !ok {
			metrics[id] = &teamMetrics{}
		}
	}

	sorted := make([]TeamID, 0, len(ids))
	byWinPct := bucketBy(ids, func(id TeamID) float64 { return metrics[id].winPct() })
	for _, tie := range byWinPct {
		sorted = append(sorted, breakTie(tie, games, metrics, seeds, order)...)
	}

	ranked := make([]RankedTeam, 0, len(sorted))
	for i, id := range sorted {
		m := metrics[id]
		ranked = append(ranked, RankedTeam{
			Team:          id,
			Rank:          i + 1,
			Seed:          seeds[id],
			Played:        m.played,
			Wins:          m.wins,
			Draws:         m.draws,
			Losses:        m.losses,
			PointsFor:     m.pointsFor,
			PointsAgainst: m.pointsAgainst,
			PointDiff:     m.pointDiff(),
			WinPct:        m.winPct(),
		})
	}

	return ranked
}

// breakTie resolves a group of teams with equal win percentage.
// The configured criteria are tried in order; the first one that
// splits the group wins and the emerging sub-ties are broken
// recursively, starting over from the first criterion.
func breakTie(tie []TeamID, games []Game, metrics map[TeamID]*teamMetrics, seeds map[TeamID]int, order []TieBreak) []TeamID {
	if len(tie) == 1 {
		return tie
	}

	for _, tb := range order {
		var buckets [][]TeamID

		switch tb {
		case TieBreakHeadToHead:
			direct := collectMetrics(games, tie)
			buckets = bucketBy(tie, func(id TeamID) float64 {
				if m, ok := direct[id]; ok {
					return m.winPct()
				}
				return 0
			})
		case TieBreakPointDiff:
			buckets = bucketBy(tie, func(id TeamID) float64 { return float64(metrics[id].pointDiff()) })
		case TieBreakPointsFor:
			buckets = bucketBy(tie, func(id TeamID) float64 { return float64(metrics[id].pointsFor) })
		case TieBreakSeed:
			return sortBySeed(tie, seeds)
		}

		if len(buckets) > 1 {
			broken := make([]TeamID, 0, len(tie))
			for _, sub := range buckets {
				broken = append(broken, breakTie(sub, games, metrics, seeds, order)...)
			}
			return broken
		}
	}

	// None of the configured criteria split the group.
	return sortBySeed(tie, seeds)
}

func sortBySeed(tie []TeamID, seeds map[TeamID]int) []TeamID {
	sorted := slices.Clone(tie)
	slices.SortFunc(sorted, func(a, b TeamID) int {
		if c := compareSeeds(seeds[a], seeds[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return sorted
}

// bucketBy groups the ids into descending buckets of the key,
// preserving the incoming order inside each bucket.
func bucketBy(ids []TeamID, key func(TeamID) float64) [][]TeamID {
	buckets := make(map[float64][]TeamID)
	for _, id := range ids {
		k := key(id)
		buckets[k] = append(buckets[k], id)
	}

	keys := make([]float64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b float64) int { return cmp.Compare(b, a) })

	grouped := make([][]TeamID, 0, len(keys))
	for _, k := range keys {
		grouped = append(grouped, buckets[k])
	}
	return grouped
}
