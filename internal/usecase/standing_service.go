package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/community-league/internal/domain/game"
	"github.com/riskibarqy/community-league/internal/domain/matchresult"
	"github.com/riskibarqy/community-league/internal/domain/player"
	"github.com/riskibarqy/community-league/internal/domain/scoring"
	"github.com/riskibarqy/community-league/internal/domain/standing"
	"github.com/riskibarqy/community-league/internal/domain/team"
	"github.com/riskibarqy/community-league/internal/platform/cache"
)

const (
	standingsCachePrefix = "standings:"
	standingsTableKey    = standingsCachePrefix + "table"
)

// StandingService projects the league table from stored results. The table is
// cached until a game or result changes.
type StandingService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
	resultRepo matchresult.Repository
	gameRepo   game.Repository
	cache      *cache.Store
	opts       scoring.ProjectionOptions
}

func NewStandingService(
	teamRepo team.Repository,
	playerRepo player.Repository,
	resultRepo matchresult.Repository,
	gameRepo game.Repository,
	store *cache.Store,
	opts scoring.ProjectionOptions,
) *StandingService {
	return &StandingService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		resultRepo: resultRepo,
		gameRepo:   gameRepo,
		cache:      store,
		opts:       opts,
	}
}

func (s *StandingService) GetStandings(ctx context.Context) (standing.Table, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.GetStandings")
	defer span.End()

	return s.table(ctx)
}

func (s *StandingService) GetTeamStandings(ctx context.Context) ([]standing.TeamStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.GetTeamStandings")
	defer span.End()

	table, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	return table.Teams, nil
}

func (s *StandingService) GetPlayerLeaderboard(ctx context.Context) ([]standing.PlayerStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.GetPlayerLeaderboard")
	defer span.End()

	table, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	return table.Players, nil
}

// RecordChange drops the cached table whenever a game or result is written.
func (s *StandingService) RecordChange(ctx context.Context, _ Change) error {
	if s.cache != nil {
		s.cache.DeletePrefix(ctx, standingsCachePrefix)
	}
	return nil
}

func (s *StandingService) table(ctx context.Context) (standing.Table, error) {
	if s.cache == nil {
		return s.compute(ctx)
	}
	table, err := cache.Load(ctx, s.cache, standingsTableKey, s.compute)
	if err != nil {
		return standing.Table{}, err
	}
	return copyTable(table), nil
}

type standingSnapshot struct {
	teams   []team.Team
	players []player.Player
	results []matchresult.MatchResult
	games   []game.Game
}

func (s *StandingService) compute(ctx context.Context) (standing.Table, error) {
	var snap standingSnapshot

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := s.teamRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		snap.teams = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.playerRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list players: %w", err)
		}
		snap.players = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.resultRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list match results: %w", err)
		}
		snap.results = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.gameRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list games: %w", err)
		}
		snap.games = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return standing.Table{}, err
	}

	table := scoring.ProjectStandings(scoring.ProjectionInput{
		Teams:   snap.teams,
		Players: snap.players,
		Results: countableResults(snap.results, snap.games),
	}, s.opts)
	return table, nil
}

// countableResults keeps one result per game, the most recently updated, and
// drops results of preseason games.
func countableResults(results []matchresult.MatchResult, games []game.Game) []matchresult.MatchResult {
	preseason := make(map[string]struct{})
	for _, g := range games {
		if g.Status == game.StatusPreseason {
			preseason[g.ID] = struct{}{}
		}
	}

	latest := make(map[string]int, len(results))
	out := make([]matchresult.MatchResult, 0, len(results))
	for _, r := range results {
		if _, skip := preseason[r.GameID]; skip {
			continue
		}
		if idx, seen := latest[r.GameID]; seen {
			if r.UpdatedAt.After(out[idx].UpdatedAt) {
				out[idx] = r
			}
			continue
		}
		latest[r.GameID] = len(out)
		out = append(out, r)
	}
	return out
}

func copyTable(t standing.Table) standing.Table {
	return standing.Table{
		Teams:   append([]standing.TeamStanding(nil), t.Teams...),
		Players: append([]standing.PlayerStanding(nil), t.Players...),
	}
}
