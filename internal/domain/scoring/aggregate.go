package scoring

import "github.com/riskibarqy/community-league/internal/domain/matchresult"

// LineOutcome is the reduced form of one match line's set scores.
type LineOutcome struct {
	Winner   matchresult.Side
	HomeSets int
	AwaySets int
	// Decided is false when both sides won the same number of sets. Winner is
	// still SideHome in that case so stored results keep their historical shape.
	Decided bool
}

// AggregateLine counts the sets won by each side and picks the line winner.
// A set with equal game counts goes to nobody. Scores are not validated here.
func AggregateLine(sets []matchresult.SetScore) LineOutcome {
	var out LineOutcome
	for _, set := range sets {
		switch {
		case set.HomeGames > set.AwayGames:
			out.HomeSets++
		case set.AwayGames > set.HomeGames:
			out.AwaySets++
		}
	}

	switch {
	case out.HomeSets > out.AwaySets:
		out.Winner = matchresult.SideHome
		out.Decided = true
	case out.AwaySets > out.HomeSets:
		out.Winner = matchresult.SideAway
		out.Decided = true
	default:
		out.Winner = matchresult.SideHome
	}

	return out
}

// ScoreLine returns a copy of line with its derived fields recomputed from Sets.
func ScoreLine(line matchresult.MatchLine) matchresult.MatchLine {
	out := line.Clone()
	outcome := AggregateLine(out.Sets)
	out.Winner = outcome.Winner
	out.HomeSetsWon = outcome.HomeSets
	out.AwaySetsWon = outcome.AwaySets
	out.Decided = outcome.Decided
	return out
}
