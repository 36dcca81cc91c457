package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/community-league/internal/domain/matchresult"
)

const (
	MaxGamesPerSet = 7
	MaxSetsPerLine = 5
)

var ErrInvalidScore = errors.New("invalid match score")

// FieldError describes one rejected value. Field is a dotted path such as
// "lines[1].sets[0].home_games".
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError collects every problem found in a score submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrInvalidScore.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return ErrInvalidScore.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidScore
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// ValidateLines checks submitted lines before they reach the aggregator. It
// returns nil or a *ValidationError.
func ValidateLines(lines []matchresult.MatchLine) error {
	verr := &ValidationError{}
	if len(lines) == 0 {
		verr.add("lines", "at least one line is required")
		return verr
	}

	seenLines := make(map[int]struct{}, len(lines))
	for i, line := range lines {
		prefix := fmt.Sprintf("lines[%d]", i)

		if line.LineNumber <= 0 {
			verr.add(prefix+".line_number", "must be greater than zero")
		} else if _, dup := seenLines[line.LineNumber]; dup {
			verr.add(prefix+".line_number", "duplicate line number %d", line.LineNumber)
		} else {
			seenLines[line.LineNumber] = struct{}{}
		}

		size := line.MatchType.RosterSize()
		if size == 0 {
			verr.add(prefix+".match_type", "unknown match type %q", line.MatchType)
		} else {
			if len(line.HomePlayerIDs) != size {
				verr.add(prefix+".home_player_ids", "%s needs %d player(s), got %d", line.MatchType, size, len(line.HomePlayerIDs))
			}
			if len(line.AwayPlayerIDs) != size {
				verr.add(prefix+".away_player_ids", "%s needs %d player(s), got %d", line.MatchType, size, len(line.AwayPlayerIDs))
			}
		}
		validatePlayers(verr, prefix, line)

		if len(line.Sets) == 0 {
			verr.add(prefix+".sets", "at least one set is required")
		}
		if len(line.Sets) > MaxSetsPerLine {
			verr.add(prefix+".sets", "at most %d sets allowed, got %d", MaxSetsPerLine, len(line.Sets))
		}
		for j, set := range line.Sets {
			setPrefix := fmt.Sprintf("%s.sets[%d]", prefix, j)
			checkGames(verr, setPrefix+".home_games", set.HomeGames)
			checkGames(verr, setPrefix+".away_games", set.AwayGames)
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func validatePlayers(verr *ValidationError, prefix string, line matchresult.MatchLine) {
	home := make(map[string]struct{}, len(line.HomePlayerIDs))
	for k, id := range line.HomePlayerIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			verr.add(fmt.Sprintf("%s.home_player_ids[%d]", prefix, k), "player id is required")
			continue
		}
		if _, dup := home[id]; dup {
			verr.add(fmt.Sprintf("%s.home_player_ids[%d]", prefix, k), "player %s listed twice", id)
		}
		home[id] = struct{}{}
	}

	away := make(map[string]struct{}, len(line.AwayPlayerIDs))
	for k, id := range line.AwayPlayerIDs {
		id = strings.TrimSpace(id)
		field := fmt.Sprintf("%s.away_player_ids[%d]", prefix, k)
		if id == "" {
			verr.add(field, "player id is required")
			continue
		}
		if _, dup := away[id]; dup {
			verr.add(field, "player %s listed twice", id)
		}
		if _, both := home[id]; both {
			verr.add(field, "player %s cannot play for both sides", id)
		}
		away[id] = struct{}{}
	}
}

func checkGames(verr *ValidationError, field string, games int) {
	if games < 0 {
		verr.add(field, "must not be negative")
		return
	}
	if games > MaxGamesPerSet {
		verr.add(field, "must be at most %d", MaxGamesPerSet)
	}
}
