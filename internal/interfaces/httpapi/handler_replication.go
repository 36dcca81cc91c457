package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/community-league/internal/usecase"
)

var errReplicationDisabled = fmt.Errorf("%w: replication is not configured", usecase.ErrDependencyUnavailable)

func (h *Handler) RunReplicationPush(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReplicationPush")
	defer span.End()

	if h.replicationService == nil {
		writeError(ctx, w, errReplicationDisabled)
		return
	}

	report, err := h.replicationService.Push(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "replication push failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) RunReplicationPull(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReplicationPull")
	defer span.End()

	if h.replicationService == nil {
		writeError(ctx, w, errReplicationDisabled)
		return
	}

	report, err := h.replicationService.Pull(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "replication pull failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) RunReplicationSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReplicationSync")
	defer span.End()

	if h.replicationService == nil {
		writeError(ctx, w, errReplicationDisabled)
		return
	}

	report, err := h.replicationService.Sync(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "replication sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}
