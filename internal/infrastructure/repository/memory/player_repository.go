package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/community-league/internal/domain/player"
)

type PlayerRepository struct {
	mu     sync.RWMutex
	byTeam map[string][]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	byTeam := make(map[string][]player.Player)
	for _, item := range players {
		byTeam[item.TeamID] = append(byTeam[item.TeamID], item)
	}
	return &PlayerRepository{byTeam: byTeam}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []player.Player
	for _, items := range r.byTeam {
		out = append(out, items...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]player.Player(nil), r.byTeam[teamID]...), nil
}
