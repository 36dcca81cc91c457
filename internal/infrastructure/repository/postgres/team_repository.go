package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/community-league/internal/domain/team"
	"github.com/riskibarqy/community-league/internal/platform/locale"
	qb "github.com/riskibarqy/community-league/internal/platform/querybuilder"
)

var teamSelectColumns = []string{
	"id",
	"public_id",
	"name_en",
	"name_zh",
	"short",
	"captain_user_id",
	"created_at",
	"updated_at",
	"deleted_at",
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").
		Where(qb.IsNull("deleted_at")).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").
		Where(qb.Eq("public_id", teamID), qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by id query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return team.Team{}, false, fmt.Errorf("select team by id: %w", err)
	}
	if len(rows) == 0 {
		return team.Team{}, false, nil
	}
	return teamFromRow(rows[0]), true, nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:            row.PublicID,
		Name:          locale.Text{EN: row.NameEN, ZH: row.NameZH},
		Short:         row.Short,
		CaptainUserID: row.CaptainUserID,
	}
}
