package game

import "context"

// Repository stores the league schedule. Upsert is last-write-wins.
type Repository interface {
	List(ctx context.Context) ([]Game, error)
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	Upsert(ctx context.Context, item Game) error
	Delete(ctx context.Context, gameID string) error
}
