package team

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/community-league/internal/platform/locale"
)

// Team is one club entered in the league.
type Team struct {
	ID            string
	Name          locale.Text
	Short         string
	CaptainUserID string
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name.IsZero() {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// IsCaptain reports whether userID captains this team.
func (t Team) IsCaptain(userID string) bool {
	userID = strings.TrimSpace(userID)
	return userID != "" && t.CaptainUserID == userID
}
