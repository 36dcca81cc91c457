package player

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/community-league/internal/platform/locale"
)

// Position is the slot a player usually fills on match day.
type Position string

const (
	PositionSingles Position = "singles"
	PositionDoubles Position = "doubles"
	PositionReserve Position = "reserve"
)

var AllPositions = map[Position]struct{}{
	PositionSingles: {},
	PositionDoubles: {},
	PositionReserve: {},
}

// Player is a rostered member of a team. Wins and Losses are derived from
// approved match results and are never persisted.
type Player struct {
	ID       string
	TeamID   string
	Name     locale.Text
	Position Position
	Wins     int
	Losses   int
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.TeamID) == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.Name.IsZero() {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}

	return nil
}
