package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/community-league/internal/domain/post"
	"github.com/riskibarqy/community-league/internal/domain/team"
	"github.com/riskibarqy/community-league/internal/platform/id"
	"github.com/riskibarqy/community-league/internal/platform/locale"
)

const (
	defaultPostLimit = 20
	maxPostLimit     = 100
)

type CreatePostInput struct {
	AuthorUserID string
	Title        locale.Text
	Body         locale.Text
}

type PostService struct {
	postRepo post.Repository
	teamRepo team.Repository
	idGen    id.Generator
	now      func() time.Time
}

func NewPostService(postRepo post.Repository, teamRepo team.Repository, idGen id.Generator) *PostService {
	return &PostService{
		postRepo: postRepo,
		teamRepo: teamRepo,
		idGen:    idGen,
		now:      time.Now,
	}
}

func (s *PostService) ListPosts(ctx context.Context, limit int) ([]post.Post, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PostService.ListPosts")
	defer span.End()

	switch {
	case limit <= 0:
		limit = defaultPostLimit
	case limit > maxPostLimit:
		limit = maxPostLimit
	}

	items, err := s.postRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return items, nil
}

func (s *PostService) GetPost(ctx context.Context, postID string) (post.Post, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PostService.GetPost")
	defer span.End()

	postID = strings.TrimSpace(postID)
	if postID == "" {
		return post.Post{}, fmt.Errorf("%w: post id is required", ErrInvalidInput)
	}
	item, exists, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return post.Post{}, fmt.Errorf("get post by id: %w", err)
	}
	if !exists {
		return post.Post{}, fmt.Errorf("%w: post=%s", ErrNotFound, postID)
	}
	return item, nil
}

// CreatePost publishes an announcement. Only team captains may post.
func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (post.Post, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PostService.CreatePost")
	defer span.End()

	author := strings.TrimSpace(input.AuthorUserID)
	if author == "" {
		return post.Post{}, fmt.Errorf("%w: author user id is required", ErrUnauthorized)
	}
	_, isCaptain, err := captainedTeam(ctx, s.teamRepo, author)
	if err != nil {
		return post.Post{}, err
	}
	if !isCaptain {
		return post.Post{}, fmt.Errorf("%w: user=%s is not a captain", ErrForbidden, author)
	}

	postID, err := s.idGen.NewID()
	if err != nil {
		return post.Post{}, fmt.Errorf("generate post id: %w", err)
	}
	item := post.Post{
		ID:          postID,
		Title:       input.Title.Trimmed(),
		Body:        input.Body.Trimmed(),
		AuthorID:    author,
		PublishedAt: s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return post.Post{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.postRepo.Create(ctx, item); err != nil {
		return post.Post{}, fmt.Errorf("create post: %w", err)
	}
	return item, nil
}
