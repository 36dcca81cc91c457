package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/community-league/internal/domain/game"
	qb "github.com/riskibarqy/community-league/internal/platform/querybuilder"
)

var gameSelectColumns = []string{
	"public_id",
	"scheduled_at",
	"home_team_public_id",
	"away_team_public_id",
	"venue",
	"status",
	"created_by",
	"created_at",
	"updated_at",
}

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	query, args, err := qb.Select(gameSelectColumns...).From("games").
		OrderBy("scheduled_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select(gameSelectColumns...).From("games").
		Where(qb.Eq("public_id", gameID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build select game by id query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return game.Game{}, false, fmt.Errorf("select game by id: %w", err)
	}
	if len(rows) == 0 {
		return game.Game{}, false, nil
	}
	return gameFromRow(rows[0]), true, nil
}

func (r *GameRepository) Upsert(ctx context.Context, item game.Game) error {
	query, args, err := qb.Upsert("games").
		Set("public_id", item.ID).
		Set("scheduled_at", item.ScheduledAt.UTC()).
		Set("home_team_public_id", item.HomeTeamID).
		Set("away_team_public_id", item.AwayTeamID).
		Set("venue", item.Venue).
		Set("status", string(item.Status)).
		Set("created_by", nullString(item.CreatedBy)).
		Set("updated_at", item.UpdatedAt.UTC()).
		OnConflict("public_id").
		Preserve("created_by").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert game id=%s: %w", item.ID, err)
	}
	return nil
}

func (r *GameRepository) Delete(ctx context.Context, gameID string) error {
	query := r.db.Rebind(`DELETE FROM games WHERE public_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, gameID); err != nil {
		return fmt.Errorf("delete game id=%s: %w", gameID, err)
	}
	return nil
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:          row.PublicID,
		ScheduledAt: row.ScheduledAt.UTC(),
		HomeTeamID:  row.HomeTeamID,
		AwayTeamID:  row.AwayTeamID,
		Venue:       row.Venue,
		Status:      game.Status(row.Status),
		CreatedBy:   row.CreatedBy.String,
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
