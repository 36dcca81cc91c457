package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/community-league/internal/domain/game"
	"github.com/riskibarqy/community-league/internal/domain/matchresult"
	"github.com/riskibarqy/community-league/internal/domain/replication"
	"github.com/riskibarqy/community-league/internal/domain/team"
	"github.com/riskibarqy/community-league/internal/platform/id"
)

type GameFilter struct {
	TeamID string
	Status string
}

type CreateGameInput struct {
	CaptainUserID string
	ScheduledAt   time.Time
	HomeTeamID    string
	AwayTeamID    string
	Venue         string
	Status        string
}

// UpdateGameInput edits schedule details. Nil fields are left unchanged.
type UpdateGameInput struct {
	CaptainUserID string
	GameID        string
	ScheduledAt   *time.Time
	Venue         *string
	Status        *string
}

type GameService struct {
	gameRepo   game.Repository
	teamRepo   team.Repository
	resultRepo matchresult.Repository
	idGen      id.Generator
	recorder   ChangeRecorder
	now        func() time.Time
}

func NewGameService(
	gameRepo game.Repository,
	teamRepo team.Repository,
	resultRepo matchresult.Repository,
	idGen id.Generator,
	recorder ChangeRecorder,
) *GameService {
	return &GameService{
		gameRepo:   gameRepo,
		teamRepo:   teamRepo,
		resultRepo: resultRepo,
		idGen:      idGen,
		recorder:   recorder,
		now:        time.Now,
	}
}

func (s *GameService) ListGames(ctx context.Context, filter GameFilter) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListGames")
	defer span.End()

	var status game.Status
	if strings.TrimSpace(filter.Status) != "" {
		parsed, err := game.ParseStatus(filter.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		status = parsed
	}
	teamID := strings.TrimSpace(filter.TeamID)

	items, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	out := make([]game.Game, 0, len(items))
	for _, item := range items {
		if teamID != "" && !item.Involves(teamID) {
			continue
		}
		if status != "" && item.Status != status {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.Before(out[j].ScheduledAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *GameService) GetGame(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetGame")
	defer span.End()

	return s.getGame(ctx, gameID)
}

func (s *GameService) CreateGame(ctx context.Context, input CreateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.CreateGame")
	defer span.End()

	homeID := strings.TrimSpace(input.HomeTeamID)
	awayID := strings.TrimSpace(input.AwayTeamID)
	if homeID == "" || awayID == "" {
		return game.Game{}, fmt.Errorf("%w: home and away team ids are required", ErrInvalidInput)
	}
	if homeID == awayID {
		return game.Game{}, fmt.Errorf("%w: home and away team must differ", ErrInvalidInput)
	}
	for _, teamID := range []string{homeID, awayID} {
		_, exists, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return game.Game{}, fmt.Errorf("get team by id: %w", err)
		}
		if !exists {
			return game.Game{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
		}
	}
	if _, err := requireCaptain(ctx, s.teamRepo, input.CaptainUserID, homeID, awayID); err != nil {
		return game.Game{}, err
	}

	status, err := game.ParseStatus(input.Status)
	if err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	gameID, err := s.idGen.NewID()
	if err != nil {
		return game.Game{}, fmt.Errorf("generate game id: %w", err)
	}

	item := game.Game{
		ID:          gameID,
		ScheduledAt: input.ScheduledAt.UTC(),
		HomeTeamID:  homeID,
		AwayTeamID:  awayID,
		Venue:       strings.TrimSpace(input.Venue),
		Status:      status,
		CreatedBy:   strings.TrimSpace(input.CaptainUserID),
		UpdatedAt:   s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.gameRepo.Upsert(ctx, item); err != nil {
		return game.Game{}, fmt.Errorf("create game: %w", err)
	}
	notifyChange(ctx, s.recorder, gameChange(item))
	return item, nil
}

func (s *GameService) UpdateGame(ctx context.Context, input UpdateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.UpdateGame")
	defer span.End()

	item, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return game.Game{}, err
	}
	if _, err := requireCaptain(ctx, s.teamRepo, input.CaptainUserID, item.HomeTeamID, item.AwayTeamID); err != nil {
		return game.Game{}, err
	}

	if input.ScheduledAt != nil {
		item.ScheduledAt = input.ScheduledAt.UTC()
	}
	if input.Venue != nil {
		item.Venue = strings.TrimSpace(*input.Venue)
	}
	if input.Status != nil {
		status, err := game.ParseStatus(*input.Status)
		if err != nil {
			return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		item.Status = status
	}
	item.UpdatedAt = s.now().UTC()
	if err := item.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.gameRepo.Upsert(ctx, item); err != nil {
		return game.Game{}, fmt.Errorf("update game: %w", err)
	}
	notifyChange(ctx, s.recorder, gameChange(item))
	return item, nil
}

// DeleteGame removes the game and any result recorded for it.
func (s *GameService) DeleteGame(ctx context.Context, gameID, captainUserID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.DeleteGame")
	defer span.End()

	item, err := s.getGame(ctx, gameID)
	if err != nil {
		return err
	}
	if _, err := requireCaptain(ctx, s.teamRepo, captainUserID, item.HomeTeamID, item.AwayTeamID); err != nil {
		return err
	}

	now := s.now().UTC()
	result, hasResult, err := s.resultRepo.GetByGame(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("get result by game: %w", err)
	}
	if hasResult {
		if err := s.resultRepo.Delete(ctx, result.ID); err != nil {
			return fmt.Errorf("delete game result: %w", err)
		}
		notifyChange(ctx, s.recorder, Change{
			Kind:      replication.KindMatchResult,
			EntityID:  result.ID,
			Deleted:   true,
			UpdatedAt: now,
		})
	}

	if err := s.gameRepo.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	notifyChange(ctx, s.recorder, Change{
		Kind:      replication.KindGame,
		EntityID:  item.ID,
		Deleted:   true,
		UpdatedAt: now,
	})
	return nil
}

func (s *GameService) getGame(ctx context.Context, gameID string) (game.Game, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	item, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game by id: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	return item, nil
}

func gameChange(item game.Game) Change {
	return Change{
		Kind:      replication.KindGame,
		EntityID:  item.ID,
		Entity:    item,
		UpdatedAt: item.UpdatedAt,
	}
}
