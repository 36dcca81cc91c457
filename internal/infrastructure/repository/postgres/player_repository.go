package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/community-league/internal/domain/player"
	"github.com/riskibarqy/community-league/internal/platform/locale"
	qb "github.com/riskibarqy/community-league/internal/platform/querybuilder"
)

var playerSelectColumns = []string{
	"id",
	"public_id",
	"team_public_id",
	"name_en",
	"name_zh",
	"position",
	"created_at",
	"updated_at",
	"deleted_at",
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	return r.selectPlayers(ctx, "select players", qb.IsNull("deleted_at"))
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	return r.selectPlayers(ctx, "select players by team", qb.Eq("team_public_id", teamID), qb.IsNull("deleted_at"))
}

func (r *PlayerRepository) selectPlayers(ctx context.Context, op string, conds ...qb.Condition) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(conds...).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:       row.PublicID,
			TeamID:   row.TeamID,
			Name:     locale.Text{EN: row.NameEN, ZH: row.NameZH},
			Position: player.Position(row.Position),
		})
	}
	return out, nil
}
