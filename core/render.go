package core

import (
	"fmt"
	"strings"
)

// Render writes a plain-text view of the bracket, one game per
// line, grouped into the sections and rounds of the variant. The
// output is deterministic for a given bracket state, which makes
// it suitable for golden-file comparisons.
func Render(b Bracket) string {
	var sb strings.Builder

	switch t := b.(type) {
	case *SingleElimination:
		renderRounds(&sb, "Round", t.Rounds)
		if t.ThirdPlace != nil {
			sb.WriteString("Third Place\n")
			renderGame(&sb, t.ThirdPlace)
		}

	case *DoubleElimination:
		sb.WriteString("Winners Bracket\n")
		renderRounds(&sb, "Round", t.Winners)
		sb.WriteString("Losers Bracket\n")
		renderRounds(&sb, "Round", t.Losers)
		sb.WriteString("Grand Final\n")
		renderGame(&sb, &t.GrandFinal)
		if t.BracketReset != nil {
			sb.WriteString("Bracket Reset\n")
			renderGame(&sb, t.BracketReset)
		}

	case *RoundRobin:
		renderRounds(&sb, "Round", t.Rounds)
		renderStandings(&sb, Rank(t.Entries, playedGames(t), t.TieBreaks))

	case *Swiss:
		renderRounds(&sb, "Round", t.Rounds)
		renderStandings(&sb, t.Standings())

	case *GroupKnockout:
		for gi := range t.Groups {
			fmt.Fprintf(&sb, "Group %d\n", gi+1)
			renderRounds(&sb, "Round", t.Groups[gi].Rounds)
			renderStandings(&sb, t.GroupStandings(gi))
		}
		if t.Knockout != nil {
			sb.WriteString("Knockout\n")
			sb.WriteString(Render(t.Knockout))
		}

	case *Ladder:
		sb.WriteString("Ladder\n")
		for _, r := range t.Rankings {
			fmt.Fprintf(&sb, "  %d. %s (%.0f)\n", r.Rank, r.Team, r.Rating)
		}
		if len(t.Challenges) > 0 {
			sb.WriteString("Challenges\n")
			for i := range t.Challenges {
				renderGame(&sb, &t.Challenges[i].Game)
			}
		}
	}

	return sb.String()
}

func renderRounds(sb *strings.Builder, label string, rounds [][]Game) {
	for r := range rounds {
		fmt.Fprintf(sb, "%s %d\n", label, r+1)
		for i := range rounds[r] {
			renderGame(sb, &rounds[r][i])
		}
	}
}

func renderGame(sb *strings.Builder, g *Game) {
	fmt.Fprintf(sb, "  %s: %s\n", g.ID, g.String())
}

func renderStandings(sb *strings.Builder, ranked []RankedTeam) {
	sb.WriteString("Standings\n")
	for _, r := range ranked {
		fmt.Fprintf(sb, "  %d. %s\n", r.Rank, r.Team)
	}
}
