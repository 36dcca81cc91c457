package httpapi

import (
	"net/http"

	"github.com/riskibarqy/community-league/internal/usecase"
)

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPosts")
	defer span.End()

	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	posts, err := h.postService.ListPosts(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list posts failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	lang := requestLanguage(r)
	items := make([]postDTO, 0, len(posts))
	for _, p := range posts {
		items = append(items, postToDTO(p, lang))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPost")
	defer span.End()

	postID := r.PathValue("postID")
	item, err := h.postService.GetPost(ctx, postID)
	if err != nil {
		h.logger.WarnContext(ctx, "get post failed", "post_id", postID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, postToDTO(item, requestLanguage(r)))
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePost")
	defer span.End()

	var req createPostRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.postService.CreatePost(ctx, usecase.CreatePostInput{
		AuthorUserID: callerID(ctx),
		Title:        req.Title,
		Body:         req.Body,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create post failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, postToDTO(item, requestLanguage(r)))
}
