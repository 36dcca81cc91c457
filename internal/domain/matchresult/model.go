package matchresult

import (
	"fmt"
	"strings"
	"time"
)

// Side identifies one of the two teams in a match.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

func (s Side) Opposite() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

type MatchType string

const (
	MatchTypeSingles MatchType = "singles"
	MatchTypeDoubles MatchType = "doubles"
)

// RosterSize is the number of players each side fields for the match type.
func (t MatchType) RosterSize() int {
	switch t {
	case MatchTypeSingles:
		return 1
	case MatchTypeDoubles:
		return 2
	default:
		return 0
	}
}

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

func ParseApprovalStatus(value string) (ApprovalStatus, error) {
	status := ApprovalStatus(strings.ToLower(strings.TrimSpace(value)))
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return status, nil
	default:
		return "", fmt.Errorf("invalid approval status %q", value)
	}
}

// SetScore is the game count of one set.
type SetScore struct {
	SetNumber int
	HomeGames int
	AwayGames int
}

// MatchLine is one rubber of a team match. Winner, HomeSetsWon, AwaySetsWon and
// Decided are derived from Sets.
type MatchLine struct {
	LineNumber    int
	MatchType     MatchType
	HomePlayerIDs []string
	AwayPlayerIDs []string
	Sets          []SetScore
	Winner        Side
	HomeSetsWon   int
	AwaySetsWon   int
	Decided       bool
}

func (l MatchLine) PlayersOn(side Side) []string {
	if side == SideHome {
		return l.HomePlayerIDs
	}
	return l.AwayPlayerIDs
}

func (l MatchLine) Clone() MatchLine {
	out := l
	out.HomePlayerIDs = append([]string(nil), l.HomePlayerIDs...)
	out.AwayPlayerIDs = append([]string(nil), l.AwayPlayerIDs...)
	out.Sets = append([]SetScore(nil), l.Sets...)
	return out
}

// MatchResult aggregates every line played for one game.
type MatchResult struct {
	ID             string
	GameID         string
	HomeTeamID     string
	AwayTeamID     string
	Lines          []MatchLine
	HomeTotalScore int
	AwayTotalScore int
	SubmittedBy    string
	SubmittedAt    time.Time
	UpdatedAt      time.Time
	Status         ApprovalStatus
}

func (r MatchResult) IsApproved() bool {
	return r.Status == StatusApproved
}

func (r MatchResult) TeamOn(side Side) string {
	if side == SideHome {
		return r.HomeTeamID
	}
	return r.AwayTeamID
}

// Clone returns a deep copy so callers never share line slices.
func (r MatchResult) Clone() MatchResult {
	out := r
	if r.Lines != nil {
		out.Lines = make([]MatchLine, len(r.Lines))
		for i, line := range r.Lines {
			out.Lines[i] = line.Clone()
		}
	}
	return out
}
