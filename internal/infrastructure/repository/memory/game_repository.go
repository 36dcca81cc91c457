package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/community-league/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	games map[string]game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	byID := make(map[string]game.Game, len(games))
	for _, item := range games {
		byID[item.ID] = item
	}
	return &GameRepository{games: byID}
}

func (r *GameRepository) List(_ context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.games))
	for _, item := range r.games {
		out = append(out, item)
	}
	return out, nil
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.games[gameID]
	return item, ok, nil
}

func (r *GameRepository) Upsert(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.games[item.ID] = item
	return nil
}

func (r *GameRepository) Delete(_ context.Context, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.games, gameID)
	return nil
}
