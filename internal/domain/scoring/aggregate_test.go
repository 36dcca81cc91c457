package scoring

import (
	"testing"

	"github.com/riskibarqy/community-league/internal/domain/matchresult"
)

func sets(pairs ...[2]int) []matchresult.SetScore {
	out := make([]matchresult.SetScore, 0, len(pairs))
	for i, p := range pairs {
		out = append(out, matchresult.SetScore{SetNumber: i + 1, HomeGames: p[0], AwayGames: p[1]})
	}
	return out
}

func TestAggregateLine(t *testing.T) {
	tests := []struct {
		name     string
		sets     []matchresult.SetScore
		winner   matchresult.Side
		homeSets int
		awaySets int
		decided  bool
	}{
		{
			name:     "home straight sets",
			sets:     sets([2]int{6, 4}, [2]int{6, 3}),
			winner:   matchresult.SideHome,
			homeSets: 2,
			decided:  true,
		},
		{
			name:     "away straight sets",
			sets:     sets([2]int{4, 6}, [2]int{3, 6}),
			winner:   matchresult.SideAway,
			awaySets: 2,
			decided:  true,
		},
		{
			name:     "away in three",
			sets:     sets([2]int{6, 4}, [2]int{5, 7}, [2]int{2, 6}),
			winner:   matchresult.SideAway,
			homeSets: 1,
			awaySets: 2,
			decided:  true,
		},
		{
			name:     "split sets fall back to home",
			sets:     sets([2]int{6, 4}, [2]int{4, 6}),
			winner:   matchresult.SideHome,
			homeSets: 1,
			awaySets: 1,
		},
		{
			name:   "no sets fall back to home",
			sets:   nil,
			winner: matchresult.SideHome,
		},
		{
			name:     "tied set awards nobody",
			sets:     sets([2]int{6, 6}, [2]int{3, 6}),
			winner:   matchresult.SideAway,
			awaySets: 1,
			decided:  true,
		},
		{
			name:     "negative scores are not validated here",
			sets:     sets([2]int{-1, 0}),
			winner:   matchresult.SideAway,
			awaySets: 1,
			decided:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateLine(tt.sets)
			if got.Winner != tt.winner {
				t.Fatalf("unexpected winner: got=%s want=%s", got.Winner, tt.winner)
			}
			if got.HomeSets != tt.homeSets || got.AwaySets != tt.awaySets {
				t.Fatalf("unexpected set tally: got=%d-%d want=%d-%d", got.HomeSets, got.AwaySets, tt.homeSets, tt.awaySets)
			}
			if got.Decided != tt.decided {
				t.Fatalf("unexpected decided flag: got=%t want=%t", got.Decided, tt.decided)
			}
		})
	}
}

func TestScoreLine_DoesNotMutateInput(t *testing.T) {
	line := matchresult.MatchLine{
		LineNumber:    1,
		MatchType:     matchresult.MatchTypeSingles,
		HomePlayerIDs: []string{"p1"},
		AwayPlayerIDs: []string{"p2"},
		Sets:          sets([2]int{2, 6}, [2]int{1, 6}),
		Winner:        matchresult.SideHome,
	}

	scored := ScoreLine(line)
	if scored.Winner != matchresult.SideAway || scored.AwaySetsWon != 2 || !scored.Decided {
		t.Fatalf("unexpected scored line: %+v", scored)
	}
	if line.Winner != matchresult.SideHome || line.AwaySetsWon != 0 {
		t.Fatalf("input line was mutated: %+v", line)
	}

	scored.Sets[0].HomeGames = 7
	if line.Sets[0].HomeGames != 2 {
		t.Fatalf("scored line shares set slice with input")
	}
}
