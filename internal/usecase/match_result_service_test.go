package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/community-league/internal/domain/game"
	"github.com/riskibarqy/community-league/internal/domain/matchresult"
	"github.com/riskibarqy/community-league/internal/domain/replication"
	"github.com/riskibarqy/community-league/internal/domain/scoring"
)

var resultClock = time.Date(2026, 4, 11, 15, 0, 0, 0, time.UTC)

func newResultFixture(cfg MatchResultConfig, games ...game.Game) (*MatchResultService, *stubGameRepo, *stubResultRepo, *captureRecorder) {
	gameRepo := newStubGameRepo(games...)
	resultRepo := newStubResultRepo()
	recorder := &captureRecorder{}
	svc := NewMatchResultService(resultRepo, gameRepo, leagueTeams(), leaguePlayers(), &sequenceIDs{}, recorder, cfg)
	svc.now = fixedClock(resultClock)
	return svc, gameRepo, resultRepo, recorder
}

func scheduledGame(id string, status game.Status) game.Game {
	return game.Game{
		ID:          id,
		ScheduledAt: resultClock.Add(-2 * time.Hour),
		HomeTeamID:  "falcons",
		AwayTeamID:  "herons",
		Status:      status,
	}
}

func TestMatchResultService_SubmitScoresAndCompletesGame(t *testing.T) {
	t.Parallel()

	svc, gameRepo, resultRepo, recorder := newResultFixture(MatchResultConfig{}, scheduledGame("g1", game.StatusScheduled))

	got, err := svc.Submit(context.Background(), SubmitResultInput{
		CaptainUserID: "cap-falcons",
		GameID:        "g1",
		Lines:         falconsBeatHerons(),
	})
	if err != nil {
		t.Fatalf("submit result: %v", err)
	}

	if got.HomeTotalScore != 2 || got.AwayTotalScore != 1 {
		t.Fatalf("unexpected totals: home=%d away=%d", got.HomeTotalScore, got.AwayTotalScore)
	}
	if got.Status != matchresult.StatusApproved {
		t.Fatalf("expected approved by default, got %s", got.Status)
	}
	if got.Lines[2].Winner != matchresult.SideAway || got.Lines[2].AwaySetsWon != 2 {
		t.Fatalf("unexpected third line: %+v", got.Lines[2])
	}
	if got.SubmittedBy != "cap-falcons" || !got.SubmittedAt.Equal(resultClock) {
		t.Fatalf("unexpected submission metadata: %+v", got)
	}

	stored, ok, _ := resultRepo.GetByGame(context.Background(), "g1")
	if !ok || stored.ID != got.ID {
		t.Fatalf("result not stored: %+v", stored)
	}
	if g, _, _ := gameRepo.GetByID(context.Background(), "g1"); g.Status != game.StatusCompleted {
		t.Fatalf("expected game completed, got %s", g.Status)
	}

	if len(recorder.changes) != 2 {
		t.Fatalf("expected result and game changes, got %d", len(recorder.changes))
	}
	if recorder.changes[0].Kind != replication.KindMatchResult || recorder.changes[1].Kind != replication.KindGame {
		t.Fatalf("unexpected change kinds: %+v", recorder.changes)
	}
}

func TestMatchResultService_SubmitPendingWhenReviewRequired(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newResultFixture(MatchResultConfig{RequireReview: true}, scheduledGame("g1", game.StatusScheduled))
	got, err := svc.Submit(context.Background(), SubmitResultInput{CaptainUserID: "cap-herons", GameID: "g1", Lines: falconsBeatHerons()})
	if err != nil {
		t.Fatalf("submit result: %v", err)
	}
	if got.Status != matchresult.StatusPending {
		t.Fatalf("expected pending, got %s", got.Status)
	}
}

func TestMatchResultService_SubmitPreseasonKeepsStatus(t *testing.T) {
	t.Parallel()

	svc, gameRepo, _, _ := newResultFixture(MatchResultConfig{}, scheduledGame("g1", game.StatusPreseason))
	if _, err := svc.Submit(context.Background(), SubmitResultInput{CaptainUserID: "cap-falcons", GameID: "g1", Lines: falconsBeatHerons()}); err != nil {
		t.Fatalf("submit preseason result: %v", err)
	}
	if g, _, _ := gameRepo.GetByID(context.Background(), "g1"); g.Status != game.StatusPreseason {
		t.Fatalf("preseason game must keep its status, got %s", g.Status)
	}
}

func TestMatchResultService_ResubmitReplacesPrevious(t *testing.T) {
	t.Parallel()

	svc, _, resultRepo, _ := newResultFixture(MatchResultConfig{}, scheduledGame("g1", game.StatusScheduled))
	first, err := svc.Submit(context.Background(), SubmitResultInput{CaptainUserID: "cap-falcons", GameID: "g1", Lines: falconsBeatHerons()})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	lines := falconsBeatHerons()[:1]
	second, err := svc.Submit(context.Background(), SubmitResultInput{CaptainUserID: "cap-herons", GameID: "g1", Lines: lines})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected result id to be kept, got %s want %s", second.ID, first.ID)
	}

	all, _ := resultRepo.List(context.Background())
	if len(all) != 1 || all[0].HomeTotalScore != 1 || all[0].AwayTotalScore != 0 {
		t.Fatalf("expected a single replaced result, got %+v", all)
	}
}

func TestMatchResultService_SubmitRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   SubmitResultInput
		wantErr error
	}{
		{
			name:    "missing game",
			input:   SubmitResultInput{CaptainUserID: "cap-falcons", GameID: "nope", Lines: falconsBeatHerons()},
			wantErr: ErrNotFound,
		},
		{
			name:    "anonymous caller",
			input:   SubmitResultInput{GameID: "g1", Lines: falconsBeatHerons()},
			wantErr: ErrUnauthorized,
		},
		{
			name:    "captain of another team",
			input:   SubmitResultInput{CaptainUserID: "cap-owls", GameID: "g1", Lines: falconsBeatHerons()},
			wantErr: ErrForbidden,
		},
		{
			name: "games out of range",
			input: func() SubmitResultInput {
				lines := falconsBeatHerons()
				lines[0].Sets[0].HomeGames = 11
				return SubmitResultInput{CaptainUserID: "cap-falcons", GameID: "g1", Lines: lines}
			}(),
			wantErr: scoring.ErrInvalidScore,
		},
		{
			name: "player from wrong roster",
			input: func() SubmitResultInput {
				lines := falconsBeatHerons()
				lines[0].AwayPlayerIDs = []string{"f3"}
				return SubmitResultInput{CaptainUserID: "cap-falcons", GameID: "g1", Lines: lines}
			}(),
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, _, resultRepo, recorder := newResultFixture(MatchResultConfig{}, scheduledGame("g1", game.StatusScheduled))
			_, err := svc.Submit(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if all, _ := resultRepo.List(context.Background()); len(all) != 0 {
				t.Fatalf("rejected submission must not be stored")
			}
			if len(recorder.changes) != 0 {
				t.Fatalf("rejected submission must not record changes")
			}
		})
	}
}

func TestMatchResultService_RosterErrorCarriesFieldDetails(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newResultFixture(MatchResultConfig{}, scheduledGame("g1", game.StatusScheduled))
	lines := falconsBeatHerons()
	lines[1].HomePlayerIDs = []string{"f2", "ghost"}

	_, err := svc.Submit(context.Background(), SubmitResultInput{CaptainUserID: "cap-falcons", GameID: "g1", Lines: lines})
	var verr *scoring.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "lines[1].home_player_ids[1]" {
		t.Fatalf("unexpected fields: %+v", verr.Fields)
	}
}

func TestMatchResultService_Review(t *testing.T) {
	t.Parallel()

	svc, _, _, recorder := newResultFixture(MatchResultConfig{RequireReview: true}, scheduledGame("g1", game.StatusScheduled))
	submitted, err := svc.Submit(context.Background(), SubmitResultInput{CaptainUserID: "cap-falcons", GameID: "g1", Lines: falconsBeatHerons()})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.Approve(context.Background(), submitted.ID, "cap-falcons"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("submitting captain must not approve own result, got %v", err)
	}
	if _, err := svc.Approve(context.Background(), submitted.ID, "cap-owls"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("unrelated captain must not approve, got %v", err)
	}

	before := len(recorder.changes)
	approved, err := svc.Approve(context.Background(), submitted.ID, "cap-herons")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != matchresult.StatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if len(recorder.changes) != before+1 {
		t.Fatalf("approval must record a change")
	}

	rejected, err := svc.Reject(context.Background(), submitted.ID, "cap-herons")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != matchresult.StatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}
}

func TestMatchResultService_UpdateKeepsStatus(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newResultFixture(MatchResultConfig{RequireReview: true}, scheduledGame("g1", game.StatusScheduled))
	submitted, err := svc.Submit(context.Background(), SubmitResultInput{CaptainUserID: "cap-falcons", GameID: "g1", Lines: falconsBeatHerons()})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	lines := falconsBeatHerons()
	lines[0].Sets = scoredSets([2]int{1, 6}, [2]int{2, 6})
	updated, err := svc.Update(context.Background(), UpdateResultInput{CaptainUserID: "cap-falcons", ResultID: submitted.ID, Lines: lines})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.HomeTotalScore != 1 || updated.AwayTotalScore != 2 {
		t.Fatalf("expected recomputed totals 1-2, got %d-%d", updated.HomeTotalScore, updated.AwayTotalScore)
	}
	if updated.Status != matchresult.StatusPending {
		t.Fatalf("update must keep status, got %s", updated.Status)
	}
}

func TestMatchResultService_ListFiltersByStatus(t *testing.T) {
	t.Parallel()

	svc, _, resultRepo, _ := newResultFixture(MatchResultConfig{})
	_ = resultRepo.Upsert(context.Background(), matchresult.MatchResult{ID: "r1", GameID: "g1", Status: matchresult.StatusApproved, SubmittedAt: resultClock})
	_ = resultRepo.Upsert(context.Background(), matchresult.MatchResult{ID: "r2", GameID: "g2", Status: matchresult.StatusPending, SubmittedAt: resultClock.Add(time.Hour)})

	all, err := svc.List(context.Background(), ResultFilter{})
	if err != nil || len(all) != 2 || all[0].ID != "r2" {
		t.Fatalf("expected newest first, got %+v err=%v", all, err)
	}
	pending, err := svc.List(context.Background(), ResultFilter{Status: "PENDING"})
	if err != nil || len(pending) != 1 || pending[0].ID != "r2" {
		t.Fatalf("unexpected pending list: %+v err=%v", pending, err)
	}
	if _, err := svc.List(context.Background(), ResultFilter{Status: "maybe"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
