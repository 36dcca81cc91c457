package post

import "context"

type Repository interface {
	// List returns posts newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]Post, error)
	GetByID(ctx context.Context, postID string) (Post, bool, error)
	Create(ctx context.Context, item Post) error
}
