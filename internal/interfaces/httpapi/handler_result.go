package httpapi

import (
	"net/http"

	"github.com/riskibarqy/community-league/internal/usecase"
)

func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListResults")
	defer span.End()

	items, err := h.resultService.List(ctx, usecase.ResultFilter{Status: r.URL.Query().Get("status")})
	if err != nil {
		h.logger.WarnContext(ctx, "list results failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchResultDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchResultToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetResult")
	defer span.End()

	resultID := r.PathValue("resultID")
	item, err := h.resultService.Get(ctx, resultID)
	if err != nil {
		h.logger.WarnContext(ctx, "get result failed", "result_id", resultID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchResultToDTO(item))
}

func (h *Handler) GetResultByGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetResultByGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	item, err := h.resultService.GetByGame(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get result by game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchResultToDTO(item))
}

func (h *Handler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitResult")
	defer span.End()

	gameID := r.PathValue("gameID")
	var req matchResultRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.resultService.Submit(ctx, usecase.SubmitResultInput{
		CaptainUserID: callerID(ctx),
		GameID:        gameID,
		Lines:         linesFromRequest(req.Lines),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit result failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchResultToDTO(item))
}

func (h *Handler) UpdateResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateResult")
	defer span.End()

	resultID := r.PathValue("resultID")
	var req matchResultRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.resultService.Update(ctx, usecase.UpdateResultInput{
		CaptainUserID: callerID(ctx),
		ResultID:      resultID,
		Lines:         linesFromRequest(req.Lines),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update result failed", "result_id", resultID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchResultToDTO(item))
}

func (h *Handler) ApproveResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveResult")
	defer span.End()

	resultID := r.PathValue("resultID")
	item, err := h.resultService.Approve(ctx, resultID, callerID(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "approve result failed", "result_id", resultID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchResultToDTO(item))
}

func (h *Handler) RejectResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectResult")
	defer span.End()

	resultID := r.PathValue("resultID")
	item, err := h.resultService.Reject(ctx, resultID, callerID(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "reject result failed", "result_id", resultID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchResultToDTO(item))
}
