package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/community-league/internal/domain/game"
	"github.com/riskibarqy/community-league/internal/domain/matchresult"
	"github.com/riskibarqy/community-league/internal/domain/scoring"
	"github.com/riskibarqy/community-league/internal/domain/standing"
	"github.com/riskibarqy/community-league/internal/platform/cache"
)

func teamRow(t *testing.T, rows []standing.TeamStanding, teamID string) standing.TeamStanding {
	t.Helper()
	for _, row := range rows {
		if row.TeamID == teamID {
			return row
		}
	}
	t.Fatalf("team %s missing", teamID)
	return standing.TeamStanding{}
}

func approvedResult(id, gameID string, home, away int, updatedAt time.Time) matchresult.MatchResult {
	return matchresult.MatchResult{
		ID:             id,
		GameID:         gameID,
		HomeTeamID:     "falcons",
		AwayTeamID:     "herons",
		HomeTotalScore: home,
		AwayTotalScore: away,
		UpdatedAt:      updatedAt,
		Status:         matchresult.StatusApproved,
	}
}

func TestStandingService_ExcludesPreseasonGames(t *testing.T) {
	t.Parallel()

	games := newStubGameRepo(
		game.Game{ID: "g-regular", Status: game.StatusCompleted},
		game.Game{ID: "g-friendly", Status: game.StatusPreseason},
	)
	results := newStubResultRepo(
		approvedResult("r1", "g-regular", 2, 1, gameClock),
		approvedResult("r2", "g-friendly", 0, 3, gameClock),
	)
	svc := NewStandingService(leagueTeams(), leaguePlayers(), results, games, nil, scoring.ProjectionOptions{})

	rows, err := svc.GetTeamStandings(context.Background())
	if err != nil {
		t.Fatalf("get standings: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected every team listed, got %+v", rows)
	}
	falcons := teamRow(t, rows, "falcons")
	if falcons.Played != 1 || falcons.Points != 3 {
		t.Fatalf("preseason result must not count: %+v", falcons)
	}
	if rows[0].TeamID != "falcons" || rows[0].Position != 1 {
		t.Fatalf("expected falcons to lead: %+v", rows)
	}
}

func TestStandingService_DeduplicatesByGame(t *testing.T) {
	t.Parallel()

	got := countableResults([]matchresult.MatchResult{
		approvedResult("old", "g1", 0, 3, gameClock),
		approvedResult("new", "g1", 3, 0, gameClock.Add(time.Minute)),
		approvedResult("other", "g2", 1, 1, gameClock),
	}, nil)

	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "other" {
		t.Fatalf("expected newest result per game, got %+v", got)
	}
}

func TestStandingService_CachesUntilChange(t *testing.T) {
	t.Parallel()

	games := newStubGameRepo(game.Game{ID: "g1", Status: game.StatusCompleted})
	results := newStubResultRepo(approvedResult("r1", "g1", 2, 1, gameClock))
	svc := NewStandingService(leagueTeams(), leaguePlayers(), results, games, cache.NewStore(time.Minute), scoring.ProjectionOptions{})

	if _, err := svc.GetStandings(context.Background()); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := svc.GetPlayerLeaderboard(context.Background()); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if games.lists != 1 {
		t.Fatalf("expected cached table, games listed %d times", games.lists)
	}

	_ = results.Upsert(context.Background(), approvedResult("r1", "g1", 0, 3, gameClock.Add(time.Hour)))
	if err := svc.RecordChange(context.Background(), Change{}); err != nil {
		t.Fatalf("record change: %v", err)
	}

	rows, err := svc.GetTeamStandings(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if games.lists != 2 {
		t.Fatalf("expected reload after change, games listed %d times", games.lists)
	}
	if teamRow(t, rows, "herons").Points != 3 {
		t.Fatalf("expected reloaded table to reflect new result: %+v", rows)
	}
}

func TestStandingService_ResultWrittenDuringRecomputeIsNotLost(t *testing.T) {
	t.Parallel()

	games := newStubGameRepo(game.Game{ID: "g1", Status: game.StatusCompleted})
	results := newStubResultRepo()
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	results.beforeList = func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}
	svc := NewStandingService(leagueTeams(), leaguePlayers(), results, games, cache.NewStore(time.Minute), scoring.ProjectionOptions{})

	loaded := make(chan error, 1)
	go func() {
		_, err := svc.GetTeamStandings(context.Background())
		loaded <- err
	}()

	<-entered
	if err := results.Upsert(context.Background(), approvedResult("r1", "g1", 3, 2, gameClock)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := svc.RecordChange(context.Background(), Change{}); err != nil {
		t.Fatalf("record change: %v", err)
	}
	close(release)
	if err := <-loaded; err != nil {
		t.Fatalf("in-flight load: %v", err)
	}

	rows, err := svc.GetTeamStandings(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	falcons := teamRow(t, rows, "falcons")
	if falcons.Wins != 1 || falcons.Points != 3 {
		t.Fatalf("expected committed result in standings, got %+v", falcons)
	}
}

func TestStandingService_CallerCannotMutateCache(t *testing.T) {
	t.Parallel()

	svc := NewStandingService(leagueTeams(), leaguePlayers(), newStubResultRepo(), newStubGameRepo(), cache.NewStore(time.Minute), scoring.ProjectionOptions{})
	rows, err := svc.GetTeamStandings(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rows[0].Points = 99

	again, _ := svc.GetTeamStandings(context.Background())
	if again[0].Points != 0 {
		t.Fatalf("cached table was mutated through returned slice")
	}
}

func TestStandingService_PropagatesLoadErrors(t *testing.T) {
	t.Parallel()

	results := newStubResultRepo()
	results.err = errStubUnavailable
	svc := NewStandingService(leagueTeams(), leaguePlayers(), results, newStubGameRepo(), cache.NewStore(time.Minute), scoring.ProjectionOptions{})

	if _, err := svc.GetStandings(context.Background()); !errors.Is(err, errStubUnavailable) {
		t.Fatalf("expected load error, got %v", err)
	}
}
