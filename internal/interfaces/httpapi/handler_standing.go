package httpapi

import "net/http"

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	table, err := h.standingService.GetStandings(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	teamNames, playerNames, err := h.standingNames(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsDTO{
		Teams:   teamStandingsToDTO(table.Teams, teamNames),
		Players: playerStandingsToDTO(table.Players, playerNames, teamNames),
	})
}

func (h *Handler) GetTeamStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamStandings")
	defer span.End()

	rows, err := h.standingService.GetTeamStandings(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get team standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	teamNames, err := h.teamNames(ctx, requestLanguage(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamStandingsToDTO(rows, teamNames))
}

func (h *Handler) GetPlayerLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerLeaderboard")
	defer span.End()

	rows, err := h.standingService.GetPlayerLeaderboard(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get player leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	teamNames, playerNames, err := h.standingNames(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerStandingsToDTO(rows, playerNames, teamNames))
}

func (h *Handler) standingNames(r *http.Request) (map[string]string, map[string]string, error) {
	ctx := r.Context()
	lang := requestLanguage(r)

	teamNames, err := h.teamNames(ctx, lang)
	if err != nil {
		return nil, nil, err
	}
	players, err := h.teamService.ListPlayers(ctx)
	if err != nil {
		return nil, nil, err
	}
	playerNames := make(map[string]string, len(players))
	for _, p := range players {
		playerNames[p.ID] = p.Name.In(lang)
	}
	return teamNames, playerNames, nil
}
