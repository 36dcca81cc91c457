package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/community-league/internal/usecase"
)

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	query := r.URL.Query()
	games, err := h.gameService.ListGames(ctx, usecase.GameFilter{
		TeamID: query.Get("team_id"),
		Status: query.Get("status"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	names, err := h.teamNames(ctx, requestLanguage(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed while mapping games", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(g, names))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	item, err := h.gameService.GetGame(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	names, err := h.teamNames(ctx, requestLanguage(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(item, names))
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	var req createGameRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	scheduledAt, err := parseTimestamp("scheduled_at", req.ScheduledAt)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.gameService.CreateGame(ctx, usecase.CreateGameInput{
		CaptainUserID: callerID(ctx),
		ScheduledAt:   scheduledAt,
		HomeTeamID:    req.HomeTeamID,
		AwayTeamID:    req.AwayTeamID,
		Venue:         req.Venue,
		Status:        req.Status,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create game failed", "home_team_id", req.HomeTeamID, "away_team_id", req.AwayTeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	names, err := h.teamNames(ctx, requestLanguage(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(item, names))
}

func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	var req updateGameRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.UpdateGameInput{
		CaptainUserID: callerID(ctx),
		GameID:        gameID,
		Venue:         req.Venue,
		Status:        req.Status,
	}
	if req.ScheduledAt != nil {
		scheduledAt, err := parseTimestamp("scheduled_at", *req.ScheduledAt)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		input.ScheduledAt = &scheduledAt
	}

	item, err := h.gameService.UpdateGame(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "update game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	names, err := h.teamNames(ctx, requestLanguage(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(item, names))
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	if err := h.gameService.DeleteGame(ctx, gameID, callerID(ctx)); err != nil {
		h.logger.WarnContext(ctx, "delete game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": gameID, "status": "deleted"})
}

func parseTimestamp(field, raw string) (time.Time, error) {
	value, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC3339", usecase.ErrInvalidInput, field)
	}
	return value.UTC(), nil
}
