package httpapi

import (
	"time"

	"golang.org/x/text/language"

	"github.com/riskibarqy/community-league/internal/domain/game"
	"github.com/riskibarqy/community-league/internal/domain/matchresult"
	"github.com/riskibarqy/community-league/internal/domain/player"
	"github.com/riskibarqy/community-league/internal/domain/post"
	"github.com/riskibarqy/community-league/internal/domain/standing"
	"github.com/riskibarqy/community-league/internal/domain/team"
	"github.com/riskibarqy/community-league/internal/platform/locale"
	"github.com/riskibarqy/community-league/internal/usecase"
)

type teamDTO struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Names         locale.Text `json:"names"`
	Short         string      `json:"short"`
	CaptainUserID string      `json:"captain_user_id,omitempty"`
}

type teamDetailDTO struct {
	teamDTO
	Players []playerDTO `json:"players"`
}

type playerDTO struct {
	ID       string      `json:"id"`
	TeamID   string      `json:"team_id"`
	Name     string      `json:"name"`
	Names    locale.Text `json:"names"`
	Position string      `json:"position"`
	Wins     int         `json:"wins"`
	Losses   int         `json:"losses"`
}

type gameDTO struct {
	ID           string `json:"id"`
	ScheduledAt  string `json:"scheduled_at"`
	HomeTeamID   string `json:"home_team_id"`
	HomeTeamName string `json:"home_team_name"`
	AwayTeamID   string `json:"away_team_id"`
	AwayTeamName string `json:"away_team_name"`
	Venue        string `json:"venue"`
	Status       string `json:"status"`
	UpdatedAt    string `json:"updated_at"`
}

type setScoreDTO struct {
	SetNumber int `json:"set_number"`
	HomeGames int `json:"home_games"`
	AwayGames int `json:"away_games"`
}

type matchLineDTO struct {
	LineNumber    int           `json:"line_number"`
	MatchType     string        `json:"match_type"`
	HomePlayerIDs []string      `json:"home_player_ids"`
	AwayPlayerIDs []string      `json:"away_player_ids"`
	Sets          []setScoreDTO `json:"sets"`
	Winner        string        `json:"winner"`
	HomeSetsWon   int           `json:"home_sets_won"`
	AwaySetsWon   int           `json:"away_sets_won"`
	Decided       bool          `json:"decided"`
}

type matchResultDTO struct {
	ID             string         `json:"id"`
	GameID         string         `json:"game_id"`
	HomeTeamID     string         `json:"home_team_id"`
	AwayTeamID     string         `json:"away_team_id"`
	Lines          []matchLineDTO `json:"lines"`
	HomeTotalScore int            `json:"home_total_score"`
	AwayTotalScore int            `json:"away_total_score"`
	SubmittedBy    string         `json:"submitted_by"`
	SubmittedAt    string         `json:"submitted_at"`
	UpdatedAt      string         `json:"updated_at"`
	Status         string         `json:"status"`
}

type teamStandingDTO struct {
	Position int    `json:"position"`
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Played   int    `json:"played"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
	Points   int    `json:"points"`
}

type playerStandingDTO struct {
	Position   int     `json:"position"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	TeamID     string  `json:"team_id"`
	TeamName   string  `json:"team_name"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Games      int     `json:"games"`
	WinPercent float64 `json:"win_percent"`
}

type standingsDTO struct {
	Teams   []teamStandingDTO   `json:"teams"`
	Players []playerStandingDTO `json:"players"`
}

type postDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	AuthorID    string `json:"author_id"`
	PublishedAt string `json:"published_at"`
}

type createGameRequest struct {
	ScheduledAt string `json:"scheduled_at" validate:"required"`
	HomeTeamID  string `json:"home_team_id" validate:"required"`
	AwayTeamID  string `json:"away_team_id" validate:"required,nefield=HomeTeamID"`
	Venue       string `json:"venue" validate:"omitempty,max=200"`
	Status      string `json:"status" validate:"omitempty,oneof=scheduled completed preseason"`
}

type updateGameRequest struct {
	ScheduledAt *string `json:"scheduled_at,omitempty"`
	Venue       *string `json:"venue,omitempty" validate:"omitempty,max=200"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=scheduled completed preseason"`
}

type setScoreRequest struct {
	SetNumber int `json:"set_number"`
	HomeGames int `json:"home_games"`
	AwayGames int `json:"away_games"`
}

type matchLineRequest struct {
	LineNumber    int               `json:"line_number"`
	MatchType     string            `json:"match_type" validate:"required,oneof=singles doubles"`
	HomePlayerIDs []string          `json:"home_player_ids"`
	AwayPlayerIDs []string          `json:"away_player_ids"`
	Sets          []setScoreRequest `json:"sets"`
}

// Score ranges and roster sizes are checked by the scoring rules so the
// response can point at the offending field.
type matchResultRequest struct {
	Lines []matchLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type createPostRequest struct {
	Title locale.Text `json:"title"`
	Body  locale.Text `json:"body"`
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func teamToDTO(v team.Team, lang language.Tag) teamDTO {
	return teamDTO{
		ID:            v.ID,
		Name:          v.Name.In(lang),
		Names:         v.Name,
		Short:         v.Short,
		CaptainUserID: v.CaptainUserID,
	}
}

func teamDetailToDTO(v usecase.TeamDetail, lang language.Tag) teamDetailDTO {
	return teamDetailDTO{
		teamDTO: teamToDTO(v.Team, lang),
		Players: playersToDTO(v.Players, lang),
	}
}

func playersToDTO(items []player.Player, lang language.Tag) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerDTO{
			ID:       p.ID,
			TeamID:   p.TeamID,
			Name:     p.Name.In(lang),
			Names:    p.Name,
			Position: string(p.Position),
			Wins:     p.Wins,
			Losses:   p.Losses,
		})
	}
	return out
}

func gameToDTO(v game.Game, teamNames map[string]string) gameDTO {
	return gameDTO{
		ID:           v.ID,
		ScheduledAt:  formatTime(v.ScheduledAt),
		HomeTeamID:   v.HomeTeamID,
		HomeTeamName: teamNames[v.HomeTeamID],
		AwayTeamID:   v.AwayTeamID,
		AwayTeamName: teamNames[v.AwayTeamID],
		Venue:        v.Venue,
		Status:       string(v.Status),
		UpdatedAt:    formatTime(v.UpdatedAt),
	}
}

func matchResultToDTO(v matchresult.MatchResult) matchResultDTO {
	lines := make([]matchLineDTO, 0, len(v.Lines))
	for _, line := range v.Lines {
		sets := make([]setScoreDTO, 0, len(line.Sets))
		for _, set := range line.Sets {
			sets = append(sets, setScoreDTO{SetNumber: set.SetNumber, HomeGames: set.HomeGames, AwayGames: set.AwayGames})
		}
		lines = append(lines, matchLineDTO{
			LineNumber:    line.LineNumber,
			MatchType:     string(line.MatchType),
			HomePlayerIDs: append([]string{}, line.HomePlayerIDs...),
			AwayPlayerIDs: append([]string{}, line.AwayPlayerIDs...),
			Sets:          sets,
			Winner:        string(line.Winner),
			HomeSetsWon:   line.HomeSetsWon,
			AwaySetsWon:   line.AwaySetsWon,
			Decided:       line.Decided,
		})
	}

	return matchResultDTO{
		ID:             v.ID,
		GameID:         v.GameID,
		HomeTeamID:     v.HomeTeamID,
		AwayTeamID:     v.AwayTeamID,
		Lines:          lines,
		HomeTotalScore: v.HomeTotalScore,
		AwayTotalScore: v.AwayTotalScore,
		SubmittedBy:    v.SubmittedBy,
		SubmittedAt:    formatTime(v.SubmittedAt),
		UpdatedAt:      formatTime(v.UpdatedAt),
		Status:         string(v.Status),
	}
}

func teamStandingsToDTO(items []standing.TeamStanding, teamNames map[string]string) []teamStandingDTO {
	out := make([]teamStandingDTO, 0, len(items))
	for _, row := range items {
		out = append(out, teamStandingDTO{
			Position: row.Position,
			TeamID:   row.TeamID,
			TeamName: teamNames[row.TeamID],
			Played:   row.Played,
			Wins:     row.Wins,
			Losses:   row.Losses,
			Draws:    row.Draws,
			Points:   row.Points,
		})
	}
	return out
}

func playerStandingsToDTO(items []standing.PlayerStanding, playerNames, teamNames map[string]string) []playerStandingDTO {
	out := make([]playerStandingDTO, 0, len(items))
	for _, row := range items {
		out = append(out, playerStandingDTO{
			Position:   row.Position,
			PlayerID:   row.PlayerID,
			PlayerName: playerNames[row.PlayerID],
			TeamID:     row.TeamID,
			TeamName:   teamNames[row.TeamID],
			Wins:       row.Wins,
			Losses:     row.Losses,
			Games:      row.Games(),
			WinPercent: row.WinPercent,
		})
	}
	return out
}

func postToDTO(v post.Post, lang language.Tag) postDTO {
	return postDTO{
		ID:          v.ID,
		Title:       v.Title.In(lang),
		Body:        v.Body.In(lang),
		AuthorID:    v.AuthorID,
		PublishedAt: formatTime(v.PublishedAt),
	}
}

func linesFromRequest(items []matchLineRequest) []matchresult.MatchLine {
	out := make([]matchresult.MatchLine, 0, len(items))
	for i, item := range items {
		lineNumber := item.LineNumber
		if lineNumber <= 0 {
			lineNumber = i + 1
		}
		sets := make([]matchresult.SetScore, 0, len(item.Sets))
		for _, set := range item.Sets {
			sets = append(sets, matchresult.SetScore{SetNumber: set.SetNumber, HomeGames: set.HomeGames, AwayGames: set.AwayGames})
		}
		out = append(out, matchresult.MatchLine{
			LineNumber:    lineNumber,
			MatchType:     matchresult.MatchType(item.MatchType),
			HomePlayerIDs: item.HomePlayerIDs,
			AwayPlayerIDs: item.AwayPlayerIDs,
			Sets:          sets,
		})
	}
	return out
}
