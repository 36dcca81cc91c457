package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/community-league/internal/domain/matchresult"
)

// MatchResultRepository keeps at most one result per game.
type MatchResultRepository struct {
	mu      sync.RWMutex
	results map[string]matchresult.MatchResult
	byGame  map[string]string
}

func NewMatchResultRepository() *MatchResultRepository {
	return &MatchResultRepository{
		results: make(map[string]matchresult.MatchResult),
		byGame:  make(map[string]string),
	}
}

func (r *MatchResultRepository) List(_ context.Context) ([]matchresult.MatchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matchresult.MatchResult, 0, len(r.results))
	for _, item := range r.results {
		out = append(out, item.Clone())
	}
	return out, nil
}

func (r *MatchResultRepository) GetByID(_ context.Context, resultID string) (matchresult.MatchResult, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.results[resultID]
	if !ok {
		return matchresult.MatchResult{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *MatchResultRepository) GetByGame(_ context.Context, gameID string) (matchresult.MatchResult, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resultID, ok := r.byGame[gameID]
	if !ok {
		return matchresult.MatchResult{}, false, nil
	}
	return r.results[resultID].Clone(), true, nil
}

func (r *MatchResultRepository) Upsert(_ context.Context, item matchresult.MatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if previousID, ok := r.byGame[item.GameID]; ok && previousID != item.ID {
		delete(r.results, previousID)
	}
	if previous, ok := r.results[item.ID]; ok && previous.GameID != item.GameID {
		delete(r.byGame, previous.GameID)
	}
	r.results[item.ID] = item.Clone()
	r.byGame[item.GameID] = item.ID
	return nil
}

func (r *MatchResultRepository) Delete(_ context.Context, resultID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.results[resultID]
	if !ok {
		return nil
	}
	delete(r.results, resultID)
	if r.byGame[item.GameID] == resultID {
		delete(r.byGame, item.GameID)
	}
	return nil
}
