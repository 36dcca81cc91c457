package scoring

import "github.com/riskibarqy/community-league/internal/domain/matchresult"

// MatchTotals is the number of lines won by each side.
type MatchTotals struct {
	Home int
	Away int
}

// ReduceMatch counts lines by their already derived winner. Singles and
// doubles lines weigh the same; a line with no winner set counts for home,
// the same fallback AggregateLine applies.
func ReduceMatch(lines []matchresult.MatchLine) MatchTotals {
	var out MatchTotals
	for _, line := range lines {
		if line.Winner == matchresult.SideAway {
			out.Away++
			continue
		}
		out.Home++
	}
	return out
}

// ScoreResult returns a copy of result with every line rescored and the match
// totals recomputed, keeping the stored invariants in step with the set scores.
func ScoreResult(result matchresult.MatchResult) matchresult.MatchResult {
	out := result.Clone()
	for i := range out.Lines {
		out.Lines[i] = ScoreLine(out.Lines[i])
	}
	totals := ReduceMatch(out.Lines)
	out.HomeTotalScore = totals.Home
	out.AwayTotalScore = totals.Away
	return out
}
