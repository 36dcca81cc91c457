package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/community-league/internal/domain/scoring"
	"github.com/riskibarqy/community-league/internal/domain/user"
	"github.com/riskibarqy/community-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/community-league/internal/platform/cache"
	"github.com/riskibarqy/community-league/internal/platform/id"
	"github.com/riskibarqy/community-league/internal/platform/logging"
	"github.com/riskibarqy/community-league/internal/usecase"
)

type stubVerifier map[string]string

func (s stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	userID, ok := s[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return user.Principal{UserID: userID}, nil
}

const testJobToken = "job-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	seasonStart := time.Date(2026, time.March, 7, 9, 0, 0, 0, time.UTC)
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	gameRepo := memory.NewGameRepository(memory.SeedGames(seasonStart))
	resultRepo := memory.NewMatchResultRepository()
	postRepo := memory.NewPostRepository(memory.SeedPosts(seasonStart.AddDate(0, 0, -14)))
	idGen := id.NewUUIDGenerator()

	standingSvc := usecase.NewStandingService(teamRepo, playerRepo, resultRepo, gameRepo, cache.NewStore(time.Minute), scoring.ProjectionOptions{})
	recorder := usecase.MultiRecorder(standingSvc)

	handler := NewHandler(
		usecase.NewTeamService(teamRepo, playerRepo, standingSvc),
		usecase.NewGameService(gameRepo, teamRepo, resultRepo, idGen, recorder),
		usecase.NewMatchResultService(resultRepo, gameRepo, teamRepo, playerRepo, idGen, recorder, usecase.MatchResultConfig{}),
		standingSvc,
		usecase.NewPostService(postRepo, teamRepo, idGen),
		nil,
		logging.NewNop(),
	)
	verifier := stubVerifier{
		"hawks-token":   "captain-hawks",
		"dragons-token": "captain-dragons",
	}
	return NewRouter(handler, verifier, logging.NewNop(), []string{"*"}, testJobToken)
}

func doRequest(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Data T `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response body: %v (body=%s)", err, rec.Body.String())
	}
	return envelope.Data
}

const roundOneResult = `{
	"lines": [
		{"match_type": "singles", "home_player_ids": ["haw-1"], "away_player_ids": ["ott-1"],
		 "sets": [{"home_games": 6, "away_games": 3}, {"home_games": 6, "away_games": 4}]},
		{"match_type": "doubles", "home_player_ids": ["haw-3", "haw-4"], "away_player_ids": ["ott-3", "ott-4"],
		 "sets": [{"home_games": 4, "away_games": 6}, {"home_games": 6, "away_games": 2}, {"home_games": 6, "away_games": 1}]}
	]
}`

func TestHandler_ListTeamsLocalized(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/teams?lang=zh", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	teams := decodeData[[]teamDTO](t, rec)
	if len(teams) != 4 {
		t.Fatalf("expected 4 teams, got %d", len(teams))
	}
	if teams[0].ID != memory.TeamIDHarbourHawks || teams[0].Name != "港湾之鹰" {
		t.Fatalf("unexpected first team: %+v", teams[0])
	}
	if teams[0].Names.EN != "Harbour Hawks" {
		t.Fatalf("expected english name alongside, got %+v", teams[0].Names)
	}
}

func TestHandler_GetTeamNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/teams/unknown", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandler_SubmitResultRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/captain/games/round-1-a/result", "", roundOneResult)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/captain/games/round-1-a/result", "bogus", roundOneResult)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for unknown token, got %d", rec.Code)
	}
}

func TestHandler_SubmitResultRejectsOtherCaptain(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/captain/games/round-1-a/result", "dragons-token", roundOneResult)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_SubmitResultUpdatesStandings(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/standings/teams", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	for _, row := range decodeData[[]teamStandingDTO](t, rec) {
		if row.Played != 0 {
			t.Fatalf("expected empty table before any result, got %+v", row)
		}
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/captain/games/round-1-a/result", "hawks-token", roundOneResult)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	result := decodeData[matchResultDTO](t, rec)
	if result.HomeTotalScore != 2 || result.AwayTotalScore != 0 {
		t.Fatalf("expected 2-0 result, got %d-%d", result.HomeTotalScore, result.AwayTotalScore)
	}
	if result.Status != "approved" {
		t.Fatalf("expected approved status, got %q", result.Status)
	}
	if len(result.Lines) != 2 || result.Lines[1].LineNumber != 2 || result.Lines[1].HomeSetsWon != 2 {
		t.Fatalf("unexpected scored lines: %+v", result.Lines)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/standings/teams", "", "")
	rows := decodeData[[]teamStandingDTO](t, rec)
	if len(rows) == 0 || rows[0].TeamID != memory.TeamIDHarbourHawks {
		t.Fatalf("expected harbour hawks on top, got %+v", rows)
	}
	if rows[0].Wins != 1 || rows[0].Points != scoring.PointsForWin || rows[0].TeamName != "Harbour Hawks" {
		t.Fatalf("unexpected leader row: %+v", rows[0])
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/games/round-1-a", "", "")
	if got := decodeData[gameDTO](t, rec); got.Status != "completed" {
		t.Fatalf("expected game to be completed, got %q", got.Status)
	}
}

func TestHandler_SubmitResultReportsInvalidFields(t *testing.T) {
	router := newTestRouter(t)

	body := `{"lines": [{"match_type": "singles", "home_player_ids": ["haw-1"], "away_player_ids": ["jad-1"],
		"sets": [{"home_games": 9, "away_games": 3}]}]}`
	rec := doRequest(t, router, http.MethodPost, "/v1/captain/games/round-1-a/result", "hawks-token", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "lines[0].sets[0].home_games") {
		t.Fatalf("expected offending field in response, got %s", rec.Body.String())
	}
}

func TestHandler_CreateGameValidatesPayload(t *testing.T) {
	router := newTestRouter(t)

	body := `{"scheduled_at": "next friday", "home_team_id": "harbour-hawks", "away_team_id": "jade-dragons"}`
	rec := doRequest(t, router, http.MethodPost, "/v1/captain/games", "hawks-token", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	body = `{"scheduled_at": "2026-04-04T09:00:00Z", "home_team_id": "harbour-hawks", "away_team_id": "harbour-hawks"}`
	rec = doRequest(t, router, http.MethodPost, "/v1/captain/games", "hawks-token", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for same teams, got %d", rec.Code)
	}

	body = `{"scheduled_at": "2026-04-04T09:00:00Z", "home_team_id": "harbour-hawks", "away_team_id": "jade-dragons", "venue": "Court 3"}`
	rec = doRequest(t, router, http.MethodPost, "/v1/captain/games", "hawks-token", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeData[gameDTO](t, rec)
	if created.ID == "" || created.AwayTeamName != "Jade Dragons" || created.ScheduledAt != "2026-04-04T09:00:00Z" {
		t.Fatalf("unexpected created game: %+v", created)
	}
}

func TestHandler_ListPostsLocalized(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/posts", nil)
	req.Header.Set("Accept-Language", "zh-HK,zh;q=0.9,en;q=0.5")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	posts := decodeData[[]postDTO](t, rec)
	if len(posts) != 1 || posts[0].Title != "新赛季欢迎辞" {
		t.Fatalf("unexpected posts: %+v", posts)
	}
}

func TestHandler_InternalReplicationRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/replication/sync", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without job token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/replication/sync", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503 when replication is disabled, got %d", rec.Code)
	}
}
