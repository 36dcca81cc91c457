package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/community-league/internal/domain/matchresult"
	qb "github.com/riskibarqy/community-league/internal/platform/querybuilder"
)

var matchResultSelectColumns = []string{
	"public_id",
	"game_public_id",
	"home_team_public_id",
	"away_team_public_id",
	"lines",
	"home_total_score",
	"away_total_score",
	"submitted_by",
	"submitted_at",
	"updated_at",
	"status",
}

// lineRecord is the JSONB shape of one line inside match_results.lines.
type lineRecord struct {
	LineNumber    int         `json:"line_number"`
	MatchType     string      `json:"match_type"`
	HomePlayerIDs []string    `json:"home_player_ids"`
	AwayPlayerIDs []string    `json:"away_player_ids"`
	Sets          []setRecord `json:"sets"`
	Winner        string      `json:"winner"`
	HomeSetsWon   int         `json:"home_sets_won"`
	AwaySetsWon   int         `json:"away_sets_won"`
	Decided       bool        `json:"decided"`
}

type setRecord struct {
	SetNumber int `json:"set_number"`
	HomeGames int `json:"home_games"`
	AwayGames int `json:"away_games"`
}

type MatchResultRepository struct {
	db *sqlx.DB
}

func NewMatchResultRepository(db *sqlx.DB) *MatchResultRepository {
	return &MatchResultRepository{db: db}
}

func (r *MatchResultRepository) List(ctx context.Context) ([]matchresult.MatchResult, error) {
	return r.selectResults(ctx, "select match results")
}

func (r *MatchResultRepository) GetByID(ctx context.Context, resultID string) (matchresult.MatchResult, bool, error) {
	items, err := r.selectResults(ctx, "select match result by id", qb.Eq("public_id", resultID))
	if err != nil || len(items) == 0 {
		return matchresult.MatchResult{}, false, err
	}
	return items[0], true, nil
}

func (r *MatchResultRepository) GetByGame(ctx context.Context, gameID string) (matchresult.MatchResult, bool, error) {
	items, err := r.selectResults(ctx, "select match result by game", qb.Eq("game_public_id", gameID))
	if err != nil || len(items) == 0 {
		return matchresult.MatchResult{}, false, err
	}
	return items[0], true, nil
}

// Upsert stores item as the single result of its game, replacing any
// earlier result for the same game.
func (r *MatchResultRepository) Upsert(ctx context.Context, item matchresult.MatchResult) error {
	lines, err := encodeLines(item.Lines)
	if err != nil {
		return fmt.Errorf("encode lines result id=%s: %w", item.ID, err)
	}

	query, args, err := qb.Upsert("match_results").
		Set("public_id", item.ID).
		Set("game_public_id", item.GameID).
		Set("home_team_public_id", item.HomeTeamID).
		Set("away_team_public_id", item.AwayTeamID).
		Set("lines", string(lines)).
		Set("home_total_score", item.HomeTotalScore).
		Set("away_total_score", item.AwayTotalScore).
		Set("submitted_by", item.SubmittedBy).
		Set("submitted_at", item.SubmittedAt.UTC()).
		Set("updated_at", item.UpdatedAt.UTC()).
		Set("status", string(item.Status)).
		OnConflict("game_public_id").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert match result query: %w", err)
	}
	// public_id is rewritten on conflict so a replacement result takes over the game slot.
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match result id=%s game=%s: %w", item.ID, item.GameID, err)
	}
	return nil
}

func (r *MatchResultRepository) Delete(ctx context.Context, resultID string) error {
	query := r.db.Rebind(`DELETE FROM match_results WHERE public_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, resultID); err != nil {
		return fmt.Errorf("delete match result id=%s: %w", resultID, err)
	}
	return nil
}

func (r *MatchResultRepository) selectResults(ctx context.Context, op string, conds ...qb.Condition) ([]matchresult.MatchResult, error) {
	query, args, err := qb.Select(matchResultSelectColumns...).From("match_results").
		Where(conds...).
		OrderBy("submitted_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []matchResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]matchresult.MatchResult, 0, len(rows))
	for _, row := range rows {
		item, err := matchResultFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func matchResultFromRow(row matchResultTableModel) (matchresult.MatchResult, error) {
	lines, err := decodeLines(row.Lines)
	if err != nil {
		return matchresult.MatchResult{}, fmt.Errorf("decode lines result id=%s: %w", row.PublicID, err)
	}
	return matchresult.MatchResult{
		ID:             row.PublicID,
		GameID:         row.GameID,
		HomeTeamID:     row.HomeTeamID,
		AwayTeamID:     row.AwayTeamID,
		Lines:          lines,
		HomeTotalScore: row.HomeTotalScore,
		AwayTotalScore: row.AwayTotalScore,
		SubmittedBy:    row.SubmittedBy,
		SubmittedAt:    row.SubmittedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
		Status:         matchresult.ApprovalStatus(row.Status),
	}, nil
}

func encodeLines(lines []matchresult.MatchLine) ([]byte, error) {
	records := make([]lineRecord, 0, len(lines))
	for _, line := range lines {
		sets := make([]setRecord, 0, len(line.Sets))
		for _, set := range line.Sets {
			sets = append(sets, setRecord{SetNumber: set.SetNumber, HomeGames: set.HomeGames, AwayGames: set.AwayGames})
		}
		records = append(records, lineRecord{
			LineNumber:    line.LineNumber,
			MatchType:     string(line.MatchType),
			HomePlayerIDs: line.HomePlayerIDs,
			AwayPlayerIDs: line.AwayPlayerIDs,
			Sets:          sets,
			Winner:        string(line.Winner),
			HomeSetsWon:   line.HomeSetsWon,
			AwaySetsWon:   line.AwaySetsWon,
			Decided:       line.Decided,
		})
	}
	return sonic.Marshal(records)
}

func decodeLines(raw []byte) ([]matchresult.MatchLine, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var records []lineRecord
	if err := sonic.Unmarshal(raw, &records); err != nil {
		return nil, err
	}

	out := make([]matchresult.MatchLine, 0, len(records))
	for _, rec := range records {
		sets := make([]matchresult.SetScore, 0, len(rec.Sets))
		for _, set := range rec.Sets {
			sets = append(sets, matchresult.SetScore{SetNumber: set.SetNumber, HomeGames: set.HomeGames, AwayGames: set.AwayGames})
		}
		out = append(out, matchresult.MatchLine{
			LineNumber:    rec.LineNumber,
			MatchType:     matchresult.MatchType(rec.MatchType),
			HomePlayerIDs: rec.HomePlayerIDs,
			AwayPlayerIDs: rec.AwayPlayerIDs,
			Sets:          sets,
			Winner:        matchresult.Side(rec.Winner),
			HomeSetsWon:   rec.HomeSetsWon,
			AwaySetsWon:   rec.AwaySetsWon,
			Decided:       rec.Decided,
		})
	}
	return out, nil
}
