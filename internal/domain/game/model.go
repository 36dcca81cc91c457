package game

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusPreseason Status = "preseason"
)

// ParseStatus normalizes a status string. Empty input means scheduled.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	switch status {
	case "":
		return StatusScheduled, nil
	case StatusScheduled, StatusCompleted, StatusPreseason:
		return status, nil
	default:
		return "", fmt.Errorf("invalid game status %q", value)
	}
}

// Game is one scheduled fixture between two teams.
type Game struct {
	ID          string
	ScheduledAt time.Time
	HomeTeamID  string
	AwayTeamID  string
	Venue       string
	Status      Status
	CreatedBy   string
	UpdatedAt   time.Time
}

func (g Game) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(g.HomeTeamID) == "" || strings.TrimSpace(g.AwayTeamID) == "" {
		return fmt.Errorf("home and away team ids are required")
	}
	if g.HomeTeamID == g.AwayTeamID {
		return fmt.Errorf("home and away team must differ")
	}
	if g.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled time is required")
	}
	if _, err := ParseStatus(string(g.Status)); err != nil {
		return err
	}

	return nil
}

// Involves reports whether teamID plays in this game.
func (g Game) Involves(teamID string) bool {
	return teamID != "" && (g.HomeTeamID == teamID || g.AwayTeamID == teamID)
}
