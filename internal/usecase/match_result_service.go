package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/community-league/internal/domain/game"
	"github.com/riskibarqy/community-league/internal/domain/matchresult"
	"github.com/riskibarqy/community-league/internal/domain/player"
	"github.com/riskibarqy/community-league/internal/domain/replication"
	"github.com/riskibarqy/community-league/internal/domain/scoring"
	"github.com/riskibarqy/community-league/internal/domain/team"
	"github.com/riskibarqy/community-league/internal/platform/id"
	"github.com/riskibarqy/community-league/internal/platform/logging"
)

type SubmitResultInput struct {
	CaptainUserID string
	GameID        string
	Lines         []matchresult.MatchLine
}

type UpdateResultInput struct {
	CaptainUserID string
	ResultID      string
	Lines         []matchresult.MatchLine
}

type ResultFilter struct {
	Status string
}

type MatchResultConfig struct {
	// RequireReview stores new results as pending until the opposing captain approves.
	RequireReview bool
}

type MatchResultService struct {
	resultRepo matchresult.Repository
	gameRepo   game.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	idGen      id.Generator
	recorder   ChangeRecorder
	cfg        MatchResultConfig
	now        func() time.Time
}

func NewMatchResultService(
	resultRepo matchresult.Repository,
	gameRepo game.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	idGen id.Generator,
	recorder ChangeRecorder,
	cfg MatchResultConfig,
) *MatchResultService {
	return &MatchResultService{
		resultRepo: resultRepo,
		gameRepo:   gameRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		idGen:      idGen,
		recorder:   recorder,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Submit scores and stores the result of a game, replacing any earlier result
// for the same game.
func (s *MatchResultService) Submit(ctx context.Context, input SubmitResultInput) (matchresult.MatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchResultService.Submit")
	defer span.End()

	gameID := strings.TrimSpace(input.GameID)
	if gameID == "" {
		return matchresult.MatchResult{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	item, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return matchresult.MatchResult{}, fmt.Errorf("get game by id: %w", err)
	}
	if !exists {
		return matchresult.MatchResult{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	if _, err := requireCaptain(ctx, s.teamRepo, input.CaptainUserID, item.HomeTeamID, item.AwayTeamID); err != nil {
		return matchresult.MatchResult{}, err
	}

	lines := normalizeLines(input.Lines)
	if err := s.checkLines(ctx, item.HomeTeamID, item.AwayTeamID, lines); err != nil {
		return matchresult.MatchResult{}, err
	}

	previous, hadPrevious, err := s.resultRepo.GetByGame(ctx, item.ID)
	if err != nil {
		return matchresult.MatchResult{}, fmt.Errorf("get result by game: %w", err)
	}
	resultID := previous.ID
	if !hadPrevious {
		resultID, err = s.idGen.NewID()
		if err != nil {
			return matchresult.MatchResult{}, fmt.Errorf("generate result id: %w", err)
		}
	}

	now := s.now().UTC()
	status := matchresult.StatusApproved
	if s.cfg.RequireReview {
		status = matchresult.StatusPending
	}
	result := scoring.ScoreResult(matchresult.MatchResult{
		ID:          resultID,
		GameID:      item.ID,
		HomeTeamID:  item.HomeTeamID,
		AwayTeamID:  item.AwayTeamID,
		Lines:       lines,
		SubmittedBy: strings.TrimSpace(input.CaptainUserID),
		SubmittedAt: now,
		UpdatedAt:   now,
		Status:      status,
	})

	if err := s.resultRepo.Upsert(ctx, result); err != nil {
		return matchresult.MatchResult{}, fmt.Errorf("store match result: %w", err)
	}
	notifyChange(ctx, s.recorder, resultChange(result))

	if item.Status == game.StatusScheduled {
		item.Status = game.StatusCompleted
		item.UpdatedAt = now
		if err := s.gameRepo.Upsert(ctx, item); err != nil {
			return matchresult.MatchResult{}, fmt.Errorf("mark game completed: %w", err)
		}
		notifyChange(ctx, s.recorder, gameChange(item))
	}

	logging.Default().InfoContext(ctx, "match result submitted",
		"result_id", result.ID,
		"game_id", result.GameID,
		"home_total", result.HomeTotalScore,
		"away_total", result.AwayTotalScore,
		"status", string(result.Status),
		"replaced", hadPrevious,
	)
	return result, nil
}

// Update replaces the lines of a stored result. The approval status is kept.
func (s *MatchResultService) Update(ctx context.Context, input UpdateResultInput) (matchresult.MatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchResultService.Update")
	defer span.End()

	current, err := s.getResult(ctx, input.ResultID)
	if err != nil {
		return matchresult.MatchResult{}, err
	}
	if _, err := requireCaptain(ctx, s.teamRepo, input.CaptainUserID, current.HomeTeamID, current.AwayTeamID); err != nil {
		return matchresult.MatchResult{}, err
	}

	lines := normalizeLines(input.Lines)
	if err := s.checkLines(ctx, current.HomeTeamID, current.AwayTeamID, lines); err != nil {
		return matchresult.MatchResult{}, err
	}

	current.Lines = lines
	current.UpdatedAt = s.now().UTC()
	result := scoring.ScoreResult(current)
	if err := s.resultRepo.Upsert(ctx, result); err != nil {
		return matchresult.MatchResult{}, fmt.Errorf("update match result: %w", err)
	}
	notifyChange(ctx, s.recorder, resultChange(result))
	return result, nil
}

func (s *MatchResultService) Approve(ctx context.Context, resultID, reviewerUserID string) (matchresult.MatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchResultService.Approve")
	defer span.End()

	return s.review(ctx, resultID, reviewerUserID, matchresult.StatusApproved)
}

func (s *MatchResultService) Reject(ctx context.Context, resultID, reviewerUserID string) (matchresult.MatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchResultService.Reject")
	defer span.End()

	return s.review(ctx, resultID, reviewerUserID, matchresult.StatusRejected)
}

func (s *MatchResultService) Get(ctx context.Context, resultID string) (matchresult.MatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchResultService.Get")
	defer span.End()

	return s.getResult(ctx, resultID)
}

func (s *MatchResultService) GetByGame(ctx context.Context, gameID string) (matchresult.MatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchResultService.GetByGame")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return matchresult.MatchResult{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	item, exists, err := s.resultRepo.GetByGame(ctx, gameID)
	if err != nil {
		return matchresult.MatchResult{}, fmt.Errorf("get result by game: %w", err)
	}
	if !exists {
		return matchresult.MatchResult{}, fmt.Errorf("%w: result for game=%s", ErrNotFound, gameID)
	}
	return item, nil
}

func (s *MatchResultService) List(ctx context.Context, filter ResultFilter) ([]matchresult.MatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchResultService.List")
	defer span.End()

	var status matchresult.ApprovalStatus
	if strings.TrimSpace(filter.Status) != "" {
		parsed, err := matchresult.ParseApprovalStatus(filter.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		status = parsed
	}

	items, err := s.resultRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list match results: %w", err)
	}
	out := make([]matchresult.MatchResult, 0, len(items))
	for _, item := range items {
		if status != "" && item.Status != status {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// review lets the captain of the team opposing the submitter settle a result.
// When the submitter captains neither team, either captain may review.
func (s *MatchResultService) review(ctx context.Context, resultID, reviewerUserID string, status matchresult.ApprovalStatus) (matchresult.MatchResult, error) {
	current, err := s.getResult(ctx, resultID)
	if err != nil {
		return matchresult.MatchResult{}, err
	}

	allowed := []string{current.HomeTeamID, current.AwayTeamID}
	submitterTeam, err := requireCaptain(ctx, s.teamRepo, current.SubmittedBy, current.HomeTeamID, current.AwayTeamID)
	switch {
	case err == nil && submitterTeam.ID == current.HomeTeamID:
		allowed = []string{current.AwayTeamID}
	case err == nil && submitterTeam.ID == current.AwayTeamID:
		allowed = []string{current.HomeTeamID}
	case err != nil && !isCaptainMismatch(err):
		return matchresult.MatchResult{}, err
	}
	if _, err := requireCaptain(ctx, s.teamRepo, reviewerUserID, allowed...); err != nil {
		return matchresult.MatchResult{}, err
	}

	current.Status = status
	current.UpdatedAt = s.now().UTC()
	if err := s.resultRepo.Upsert(ctx, current); err != nil {
		return matchresult.MatchResult{}, fmt.Errorf("store review: %w", err)
	}
	notifyChange(ctx, s.recorder, resultChange(current))

	logging.Default().InfoContext(ctx, "match result reviewed",
		"result_id", current.ID,
		"reviewer", reviewerUserID,
		"status", string(status),
	)
	return current, nil
}

func (s *MatchResultService) getResult(ctx context.Context, resultID string) (matchresult.MatchResult, error) {
	resultID = strings.TrimSpace(resultID)
	if resultID == "" {
		return matchresult.MatchResult{}, fmt.Errorf("%w: result id is required", ErrInvalidInput)
	}
	item, exists, err := s.resultRepo.GetByID(ctx, resultID)
	if err != nil {
		return matchresult.MatchResult{}, fmt.Errorf("get result by id: %w", err)
	}
	if !exists {
		return matchresult.MatchResult{}, fmt.Errorf("%w: result=%s", ErrNotFound, resultID)
	}
	return item, nil
}

// checkLines validates score shape and that every player belongs to the roster
// of the side they are listed on.
func (s *MatchResultService) checkLines(ctx context.Context, homeTeamID, awayTeamID string, lines []matchresult.MatchLine) error {
	if err := scoring.ValidateLines(lines); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	homeRoster, err := s.rosterIDs(ctx, homeTeamID)
	if err != nil {
		return err
	}
	awayRoster, err := s.rosterIDs(ctx, awayTeamID)
	if err != nil {
		return err
	}

	verr := &scoring.ValidationError{}
	for i, line := range lines {
		for k, playerID := range line.HomePlayerIDs {
			if _, ok := homeRoster[playerID]; !ok {
				verr.Fields = append(verr.Fields, scoring.FieldError{
					Field:  fmt.Sprintf("lines[%d].home_player_ids[%d]", i, k),
					Reason: fmt.Sprintf("player %s is not on team %s", playerID, homeTeamID),
				})
			}
		}
		for k, playerID := range line.AwayPlayerIDs {
			if _, ok := awayRoster[playerID]; !ok {
				verr.Fields = append(verr.Fields, scoring.FieldError{
					Field:  fmt.Sprintf("lines[%d].away_player_ids[%d]", i, k),
					Reason: fmt.Sprintf("player %s is not on team %s", playerID, awayTeamID),
				})
			}
		}
	}
	if len(verr.Fields) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, verr)
	}
	return nil
}

func (s *MatchResultService) rosterIDs(ctx context.Context, teamID string) (map[string]struct{}, error) {
	players, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list players by team: %w", err)
	}
	out := make(map[string]struct{}, len(players))
	for _, p := range players {
		out[p.ID] = struct{}{}
	}
	return out, nil
}

func normalizeLines(lines []matchresult.MatchLine) []matchresult.MatchLine {
	out := make([]matchresult.MatchLine, 0, len(lines))
	for _, line := range lines {
		line = line.Clone()
		for i := range line.HomePlayerIDs {
			line.HomePlayerIDs[i] = strings.TrimSpace(line.HomePlayerIDs[i])
		}
		for i := range line.AwayPlayerIDs {
			line.AwayPlayerIDs[i] = strings.TrimSpace(line.AwayPlayerIDs[i])
		}
		for i := range line.Sets {
			if line.Sets[i].SetNumber == 0 {
				line.Sets[i].SetNumber = i + 1
			}
		}
		out = append(out, line)
	}
	return out
}

func isCaptainMismatch(err error) bool {
	return errorsIsAny(err, ErrForbidden, ErrUnauthorized)
}

func resultChange(item matchresult.MatchResult) Change {
	return Change{
		Kind:      replication.KindMatchResult,
		EntityID:  item.ID,
		Entity:    item,
		UpdatedAt: item.UpdatedAt,
	}
}
