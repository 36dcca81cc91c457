package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/community-league/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo league into an empty database. It is a no-op
// once any team exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, seasonStart time.Time) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exec := func(label, query string, arg map[string]any) error {
		sqlQuery, args, err := sqlx.Named(query, arg)
		if err != nil {
			return fmt.Errorf("bind seed %s query: %w", label, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed %s: %w", label, err)
		}
		return nil
	}

	for _, t := range memory.SeedTeams() {
		if err := exec("team "+t.ID, `
INSERT INTO teams (public_id, name_en, name_zh, short, captain_user_id)
VALUES (:public_id, :name_en, :name_zh, :short, :captain_user_id)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":       t.ID,
			"name_en":         t.Name.EN,
			"name_zh":         t.Name.ZH,
			"short":           t.Short,
			"captain_user_id": t.CaptainUserID,
		}); err != nil {
			return err
		}
	}

	for _, p := range memory.SeedPlayers() {
		if err := exec("player "+p.ID, `
INSERT INTO players (public_id, team_public_id, name_en, name_zh, position)
VALUES (:public_id, :team_public_id, :name_en, :name_zh, :position)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":      p.ID,
			"team_public_id": p.TeamID,
			"name_en":        p.Name.EN,
			"name_zh":        p.Name.ZH,
			"position":       string(p.Position),
		}); err != nil {
			return err
		}
	}

	for _, g := range memory.SeedGames(seasonStart) {
		if err := exec("game "+g.ID, `
INSERT INTO games (public_id, scheduled_at, home_team_public_id, away_team_public_id, venue, status, updated_at)
VALUES (:public_id, :scheduled_at, :home_team_public_id, :away_team_public_id, :venue, :status, :updated_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":           g.ID,
			"scheduled_at":        g.ScheduledAt,
			"home_team_public_id": g.HomeTeamID,
			"away_team_public_id": g.AwayTeamID,
			"venue":               g.Venue,
			"status":              string(g.Status),
			"updated_at":          g.UpdatedAt,
		}); err != nil {
			return err
		}
	}

	for _, p := range memory.SeedPosts(seasonStart.AddDate(0, 0, -14)) {
		if err := exec("post "+p.ID, `
INSERT INTO posts (public_id, title_en, title_zh, body_en, body_zh, author_user_id, published_at)
VALUES (:public_id, :title_en, :title_zh, :body_en, :body_zh, :author_user_id, :published_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":      p.ID,
			"title_en":       p.Title.EN,
			"title_zh":       p.Title.ZH,
			"body_en":        p.Body.EN,
			"body_zh":        p.Body.ZH,
			"author_user_id": p.AuthorID,
			"published_at":   p.PublishedAt,
		}); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
