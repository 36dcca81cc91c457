package scoring

import (
	"errors"
	"strings"
	"testing"

	"github.com/riskibarqy/community-league/internal/domain/matchresult"
)

func validLines() []matchresult.MatchLine {
	return []matchresult.MatchLine{
		{
			LineNumber:    1,
			MatchType:     matchresult.MatchTypeDoubles,
			HomePlayerIDs: []string{"h1", "h2"},
			AwayPlayerIDs: []string{"a1", "a2"},
			Sets:          sets([2]int{6, 4}, [2]int{7, 5}),
		},
		{
			LineNumber:    2,
			MatchType:     matchresult.MatchTypeSingles,
			HomePlayerIDs: []string{"h3"},
			AwayPlayerIDs: []string{"a3"},
			Sets:          sets([2]int{3, 6}, [2]int{6, 3}, [2]int{7, 6}),
		},
	}
}

func TestValidateLines(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func([]matchresult.MatchLine) []matchresult.MatchLine
		wantField string
	}{
		{
			name:   "valid lines",
			mutate: func(lines []matchresult.MatchLine) []matchresult.MatchLine { return lines },
		},
		{
			name:      "empty collection",
			mutate:    func([]matchresult.MatchLine) []matchresult.MatchLine { return nil },
			wantField: "lines",
		},
		{
			name: "negative games",
			mutate: func(lines []matchresult.MatchLine) []matchresult.MatchLine {
				lines[0].Sets[1].AwayGames = -1
				return lines
			},
			wantField: "lines[0].sets[1].away_games",
		},
		{
			name: "games above bound",
			mutate: func(lines []matchresult.MatchLine) []matchresult.MatchLine {
				lines[1].Sets[0].HomeGames = 8
				return lines
			},
			wantField: "lines[1].sets[0].home_games",
		},
		{
			name: "too many sets",
			mutate: func(lines []matchresult.MatchLine) []matchresult.MatchLine {
				lines[1].Sets = sets([2]int{6, 0}, [2]int{0, 6}, [2]int{6, 0}, [2]int{0, 6}, [2]int{6, 0}, [2]int{0, 6})
				return lines
			},
			wantField: "lines[1].sets",
		},
		{
			name: "no sets",
			mutate: func(lines []matchresult.MatchLine) []matchresult.MatchLine {
				lines[0].Sets = nil
				return lines
			},
			wantField: "lines[0].sets",
		},
		{
			name: "duplicate line number",
			mutate: func(lines []matchresult.MatchLine) []matchresult.MatchLine {
				lines[1].LineNumber = 1
				return lines
			},
			wantField: "lines[1].line_number",
		},
		{
			name: "doubles with one player",
			mutate: func(lines []matchresult.MatchLine) []matchresult.MatchLine {
				lines[0].AwayPlayerIDs = []string{"a1"}
				return lines
			},
			wantField: "lines[0].away_player_ids",
		},
		{
			name: "unknown match type",
			mutate: func(lines []matchresult.MatchLine) []matchresult.MatchLine {
				lines[1].MatchType = "mixed"
				return lines
			},
			wantField: "lines[1].match_type",
		},
		{
			name: "player on both sides",
			mutate: func(lines []matchresult.MatchLine) []matchresult.MatchLine {
				lines[1].AwayPlayerIDs = []string{"h3"}
				return lines
			},
			wantField: "lines[1].away_player_ids[0]",
		},
		{
			name: "blank player id",
			mutate: func(lines []matchresult.MatchLine) []matchresult.MatchLine {
				lines[0].HomePlayerIDs[1] = " "
				return lines
			},
			wantField: "lines[0].home_player_ids[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLines(tt.mutate(validLines()))
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			if !errors.Is(err, ErrInvalidScore) {
				t.Fatalf("expected ErrInvalidScore, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			found := false
			for _, f := range verr.Fields {
				if f.Field == tt.wantField {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("expected field %s in %+v", tt.wantField, verr.Fields)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Fatalf("error message should name the field: %s", err.Error())
			}
		})
	}
}

func TestValidateLines_CollectsEveryProblem(t *testing.T) {
	lines := validLines()
	lines[0].Sets[0].HomeGames = -2
	lines[1].Sets[2].AwayGames = 9

	var verr *ValidationError
	if !errors.As(ValidateLines(lines), &verr) {
		t.Fatalf("expected validation error")
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %+v", verr.Fields)
	}
}
