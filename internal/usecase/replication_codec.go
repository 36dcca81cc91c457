package usecase

import (
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/community-league/internal/domain/game"
	"github.com/riskibarqy/community-league/internal/domain/matchresult"
	"github.com/riskibarqy/community-league/internal/domain/replication"
)

type gameDocument struct {
	ID          string    `json:"id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	HomeTeamID  string    `json:"home_team_id"`
	AwayTeamID  string    `json:"away_team_id"`
	Venue       string    `json:"venue"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"created_by"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type setDocument struct {
	SetNumber int `json:"set_number"`
	HomeGames int `json:"home_games"`
	AwayGames int `json:"away_games"`
}

type lineDocument struct {
	LineNumber    int           `json:"line_number"`
	MatchType     string        `json:"match_type"`
	HomePlayerIDs []string      `json:"home_player_ids"`
	AwayPlayerIDs []string      `json:"away_player_ids"`
	Sets          []setDocument `json:"sets"`
}

type resultDocument struct {
	ID             string         `json:"id"`
	GameID         string         `json:"game_id"`
	HomeTeamID     string         `json:"home_team_id"`
	AwayTeamID     string         `json:"away_team_id"`
	Lines          []lineDocument `json:"lines"`
	HomeTotalScore int            `json:"home_total_score"`
	AwayTotalScore int            `json:"away_total_score"`
	SubmittedBy    string         `json:"submitted_by"`
	SubmittedAt    time.Time      `json:"submitted_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Status         string         `json:"status"`
}

func encodeEntity(change Change) ([]byte, error) {
	if change.Deleted || change.Entity == nil {
		return nil, nil
	}

	var doc any
	switch item := change.Entity.(type) {
	case game.Game:
		doc = gameDocument{
			ID:          item.ID,
			ScheduledAt: item.ScheduledAt,
			HomeTeamID:  item.HomeTeamID,
			AwayTeamID:  item.AwayTeamID,
			Venue:       item.Venue,
			Status:      string(item.Status),
			CreatedBy:   item.CreatedBy,
			UpdatedAt:   item.UpdatedAt,
		}
	case matchresult.MatchResult:
		lines := make([]lineDocument, 0, len(item.Lines))
		for _, line := range item.Lines {
			sets := make([]setDocument, 0, len(line.Sets))
			for _, set := range line.Sets {
				sets = append(sets, setDocument(set))
			}
			lines = append(lines, lineDocument{
				LineNumber:    line.LineNumber,
				MatchType:     string(line.MatchType),
				HomePlayerIDs: line.HomePlayerIDs,
				AwayPlayerIDs: line.AwayPlayerIDs,
				Sets:          sets,
			})
		}
		doc = resultDocument{
			ID:             item.ID,
			GameID:         item.GameID,
			HomeTeamID:     item.HomeTeamID,
			AwayTeamID:     item.AwayTeamID,
			Lines:          lines,
			HomeTotalScore: item.HomeTotalScore,
			AwayTotalScore: item.AwayTotalScore,
			SubmittedBy:    item.SubmittedBy,
			SubmittedAt:    item.SubmittedAt,
			UpdatedAt:      item.UpdatedAt,
			Status:         string(item.Status),
		}
	default:
		return nil, crerr.Newf("unsupported replicated entity %T", change.Entity)
	}

	payload, err := sonic.Marshal(doc)
	if err != nil {
		return nil, crerr.Wrapf(err, "encode %s %s", change.Kind, change.EntityID)
	}
	return payload, nil
}

func decodeGame(doc replication.Document) (game.Game, error) {
	var payload gameDocument
	if err := sonic.Unmarshal(doc.Data, &payload); err != nil {
		return game.Game{}, crerr.Wrapf(err, "decode game document %s", doc.ID)
	}
	status, err := game.ParseStatus(payload.Status)
	if err != nil {
		return game.Game{}, crerr.Wrapf(err, "decode game document %s", doc.ID)
	}

	item := game.Game{
		ID:          doc.ID,
		ScheduledAt: payload.ScheduledAt.UTC(),
		HomeTeamID:  payload.HomeTeamID,
		AwayTeamID:  payload.AwayTeamID,
		Venue:       payload.Venue,
		Status:      status,
		CreatedBy:   payload.CreatedBy,
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}
	if err := item.Validate(); err != nil {
		return game.Game{}, crerr.Wrapf(err, "remote game %s", doc.ID)
	}
	return item, nil
}

// decodeResult rebuilds a result from its remote copy. Derived line fields are
// not trusted; callers rescore the lines.
func decodeResult(doc replication.Document) (matchresult.MatchResult, error) {
	var payload resultDocument
	if err := sonic.Unmarshal(doc.Data, &payload); err != nil {
		return matchresult.MatchResult{}, crerr.Wrapf(err, "decode result document %s", doc.ID)
	}
	status, err := matchresult.ParseApprovalStatus(payload.Status)
	if err != nil {
		return matchresult.MatchResult{}, crerr.Wrapf(err, "decode result document %s", doc.ID)
	}

	lines := make([]matchresult.MatchLine, 0, len(payload.Lines))
	for _, line := range payload.Lines {
		sets := make([]matchresult.SetScore, 0, len(line.Sets))
		for _, set := range line.Sets {
			sets = append(sets, matchresult.SetScore(set))
		}
		lines = append(lines, matchresult.MatchLine{
			LineNumber:    line.LineNumber,
			MatchType:     matchresult.MatchType(line.MatchType),
			HomePlayerIDs: line.HomePlayerIDs,
			AwayPlayerIDs: line.AwayPlayerIDs,
			Sets:          sets,
		})
	}

	return matchresult.MatchResult{
		ID:          doc.ID,
		GameID:      payload.GameID,
		HomeTeamID:  payload.HomeTeamID,
		AwayTeamID:  payload.AwayTeamID,
		Lines:       lines,
		SubmittedBy: payload.SubmittedBy,
		SubmittedAt: payload.SubmittedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
		Status:      status,
	}, nil
}
