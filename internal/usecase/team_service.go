package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/community-league/internal/domain/player"
	"github.com/riskibarqy/community-league/internal/domain/scoring"
	"github.com/riskibarqy/community-league/internal/domain/standing"
	"github.com/riskibarqy/community-league/internal/domain/team"
)

// PlayerRecordProvider supplies the player leaderboard used to fill roster
// win/loss counters.
type PlayerRecordProvider interface {
	GetPlayerLeaderboard(ctx context.Context) ([]standing.PlayerStanding, error)
}

type TeamDetail struct {
	Team    team.Team
	Players []player.Player
}

type TeamService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
	records    PlayerRecordProvider
}

func NewTeamService(teamRepo team.Repository, playerRepo player.Repository, records PlayerRecordProvider) *TeamService {
	return &TeamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		records:    records,
	}
}

func (s *TeamService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamID string) (TeamDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeam")
	defer span.End()

	item, err := s.getTeam(ctx, teamID)
	if err != nil {
		return TeamDetail{}, err
	}

	players, err := s.rosterWithRecords(ctx, item.ID)
	if err != nil {
		return TeamDetail{}, err
	}

	return TeamDetail{Team: item, Players: players}, nil
}

func (s *TeamService) ListPlayersByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListPlayersByTeam")
	defer span.End()

	item, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return s.rosterWithRecords(ctx, item.ID)
}

// ListPlayers returns every registered player without win/loss counters.
func (s *TeamService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListPlayers")
	defer span.End()

	items, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *TeamService) rosterWithRecords(ctx context.Context, teamID string) ([]player.Player, error) {
	players, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list players by team: %w", err)
	}
	sort.SliceStable(players, func(i, j int) bool { return players[i].ID < players[j].ID })

	if s.records == nil {
		return players, nil
	}
	rows, err := s.records.GetPlayerLeaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("load player records: %w", err)
	}
	return scoring.ApplyRecords(players, rows), nil
}

func (s *TeamService) getTeam(ctx context.Context, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	return item, nil
}
