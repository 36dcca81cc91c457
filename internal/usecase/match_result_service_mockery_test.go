package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/community-league/internal/domain/matchresult"
	matchresultmock "github.com/riskibarqy/community-league/internal/mocks/domain/matchresult"
	"github.com/stretchr/testify/mock"
)

func TestMatchResultService_List_FiltersAndSortsUsingMockery(t *testing.T) {
	t.Parallel()

	resultRepo := matchresultmock.NewRepository(t)
	service := NewMatchResultService(resultRepo, nil, nil, nil, nil, nil, MatchResultConfig{})

	base := time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)
	resultRepo.
		On("List", mock.Anything).
		Return([]matchresult.MatchResult{
			{ID: "r1", GameID: "g1", Status: matchresult.StatusApproved, SubmittedAt: base},
			{ID: "r2", GameID: "g2", Status: matchresult.StatusPending, SubmittedAt: base.Add(time.Hour)},
			{ID: "r3", GameID: "g3", Status: matchresult.StatusApproved, SubmittedAt: base.Add(2 * time.Hour)},
		}, nil).
		Once()

	got, err := service.List(context.Background(), ResultFilter{Status: "Approved"})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r3" || got[1].ID != "r1" {
		t.Fatalf("expected approved results newest first, got %+v", got)
	}
}

func TestMatchResultService_List_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	resultRepo := matchresultmock.NewRepository(t)
	service := NewMatchResultService(resultRepo, nil, nil, nil, nil, nil, MatchResultConfig{})

	_, err := service.List(context.Background(), ResultFilter{Status: "disputed"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchResultService_GetByGame_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	resultRepo := matchresultmock.NewRepository(t)
	service := NewMatchResultService(resultRepo, nil, nil, nil, nil, nil, MatchResultConfig{})

	resultRepo.
		On("GetByGame", mock.Anything, "round-1-a").
		Return(matchresult.MatchResult{}, false, nil).
		Once()

	_, err := service.GetByGame(context.Background(), " round-1-a ")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchResultService_Get_WrapsRepositoryError(t *testing.T) {
	t.Parallel()

	resultRepo := matchresultmock.NewRepository(t)
	service := NewMatchResultService(resultRepo, nil, nil, nil, nil, nil, MatchResultConfig{})
	repoErr := errors.New("connection reset")

	resultRepo.
		On("GetByID", mock.Anything, "r1").
		Return(matchresult.MatchResult{}, false, repoErr).
		Once()

	_, err := service.Get(context.Background(), "r1")
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error to be wrapped, got %v", err)
	}
}
