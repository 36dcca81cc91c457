package matchresult

import "context"

// Repository stores submitted results. A game has at most one result: Upsert
// replaces whatever is stored for the same game id.
type Repository interface {
	List(ctx context.Context) ([]MatchResult, error)
	GetByID(ctx context.Context, resultID string) (MatchResult, bool, error)
	GetByGame(ctx context.Context, gameID string) (MatchResult, bool, error)
	Upsert(ctx context.Context, item MatchResult) error
	Delete(ctx context.Context, resultID string) error
}
