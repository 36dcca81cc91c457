package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"github.com/riskibarqy/community-league/internal/platform/locale"
	"github.com/riskibarqy/community-league/internal/platform/logging"
	"github.com/riskibarqy/community-league/internal/usecase"
)

const maxRequestBody = 1 << 20

type Handler struct {
	teamService        *usecase.TeamService
	gameService        *usecase.GameService
	resultService      *usecase.MatchResultService
	standingService    *usecase.StandingService
	postService        *usecase.PostService
	replicationService *usecase.ReplicationService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	teamService *usecase.TeamService,
	gameService *usecase.GameService,
	resultService *usecase.MatchResultService,
	standingService *usecase.StandingService,
	postService *usecase.PostService,
	replicationService *usecase.ReplicationService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		teamService:        teamService,
		gameService:        gameService,
		resultService:      resultService,
		standingService:    standingService,
		postService:        postService,
		replicationService: replicationService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSON reads a strict JSON body into target and validates it.
func (h *Handler) decodeJSON(ctx context.Context, r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, target)
}

// requestLanguage resolves the display language from ?lang= first, then Accept-Language.
func requestLanguage(r *http.Request) language.Tag {
	return locale.Match(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}

func queryLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput)
	}
	return limit, nil
}

// teamNames maps team ids to their display name in lang.
func (h *Handler) teamNames(ctx context.Context, lang language.Tag) (map[string]string, error) {
	teams, err := h.teamService.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(teams))
	for _, t := range teams {
		out[t.ID] = t.Name.In(lang)
	}
	return out, nil
}
