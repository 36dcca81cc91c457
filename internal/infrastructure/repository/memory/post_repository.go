package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/community-league/internal/domain/post"
)

type PostRepository struct {
	mu    sync.RWMutex
	posts []post.Post
}

func NewPostRepository(posts []post.Post) *PostRepository {
	return &PostRepository{posts: append([]post.Post(nil), posts...)}
}

func (r *PostRepository) List(_ context.Context, limit int) ([]post.Post, error) {
	r.mu.RLock()
	out := append([]post.Post(nil), r.posts...)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *PostRepository) GetByID(_ context.Context, postID string) (post.Post, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.posts {
		if item.ID == postID {
			return item, true, nil
		}
	}
	return post.Post{}, false, nil
}

func (r *PostRepository) Create(_ context.Context, item post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts = append(r.posts, item)
	return nil
}
