package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/community-league/internal/domain/post"
	"github.com/riskibarqy/community-league/internal/platform/locale"
	qb "github.com/riskibarqy/community-league/internal/platform/querybuilder"
)

var postSelectColumns = []string{
	"id",
	"public_id",
	"title_en",
	"title_zh",
	"body_en",
	"body_zh",
	"author_user_id",
	"published_at",
	"deleted_at",
}

type PostRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) List(ctx context.Context, limit int) ([]post.Post, error) {
	builder := qb.Select(postSelectColumns...).From("posts").
		Where(qb.IsNull("deleted_at")).
		OrderBy("published_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select posts query: %w", err)
	}

	var rows []postTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}

	out := make([]post.Post, 0, len(rows))
	for _, row := range rows {
		out = append(out, postFromRow(row))
	}
	return out, nil
}

func (r *PostRepository) GetByID(ctx context.Context, postID string) (post.Post, bool, error) {
	query, args, err := qb.Select(postSelectColumns...).From("posts").
		Where(qb.Eq("public_id", postID), qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return post.Post{}, false, fmt.Errorf("build select post by id query: %w", err)
	}

	var rows []postTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return post.Post{}, false, fmt.Errorf("select post by id: %w", err)
	}
	if len(rows) == 0 {
		return post.Post{}, false, nil
	}
	return postFromRow(rows[0]), true, nil
}

func (r *PostRepository) Create(ctx context.Context, item post.Post) error {
	query := r.db.Rebind(`
INSERT INTO posts (public_id, title_en, title_zh, body_en, body_zh, author_user_id, published_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Title.EN,
		item.Title.ZH,
		item.Body.EN,
		item.Body.ZH,
		item.AuthorID,
		item.PublishedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert post id=%s: %w", item.ID, err)
	}
	return nil
}

func postFromRow(row postTableModel) post.Post {
	return post.Post{
		ID:          row.PublicID,
		Title:       locale.Text{EN: row.TitleEN, ZH: row.TitleZH},
		Body:        locale.Text{EN: row.BodyEN, ZH: row.BodyZH},
		AuthorID:    row.AuthorID,
		PublishedAt: row.PublishedAt.UTC(),
	}
}
