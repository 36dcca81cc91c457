package cache

import (
	"context"

	"github.com/riskibarqy/community-league/internal/domain/game"
	"github.com/riskibarqy/community-league/internal/domain/player"
	"github.com/riskibarqy/community-league/internal/domain/team"
	basecache "github.com/riskibarqy/community-league/internal/platform/cache"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	items, err := basecache.Load(ctx, r.cache, "team:list", func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, "team:id:"+teamID, func(ctx context.Context) (cachedByID[team.Team], error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return cachedByID[team.Team]{}, err
		}
		return cachedByID[team.Team]{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cached.value, cached.exists, nil
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	return r.load(ctx, "player:list", r.next.List)
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	return r.load(ctx, "player:team:"+teamID, func(ctx context.Context) ([]player.Player, error) {
		return r.next.ListByTeam(ctx, teamID)
	})
}

func (r *PlayerRepository) load(ctx context.Context, key string, fetch func(context.Context) ([]player.Player, error)) ([]player.Player, error) {
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]player.Player, error) {
		items, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]player.Player(nil), items...), nil
}

// GameRepository caches reads and drops every game key on write.
type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	items, err := basecache.Load(ctx, r.cache, "game:list", func(ctx context.Context) ([]game.Game, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]game.Game(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]game.Game(nil), items...), nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, "game:id:"+gameID, func(ctx context.Context) (cachedByID[game.Game], error) {
		item, exists, err := r.next.GetByID(ctx, gameID)
		if err != nil {
			return cachedByID[game.Game]{}, err
		}
		return cachedByID[game.Game]{value: item, exists: exists}, nil
	})
	if err != nil {
		return game.Game{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *GameRepository) Upsert(ctx context.Context, item game.Game) error {
	defer r.cache.DeletePrefix(ctx, "game:")
	return r.next.Upsert(ctx, item)
}

func (r *GameRepository) Delete(ctx context.Context, gameID string) error {
	defer r.cache.DeletePrefix(ctx, "game:")
	return r.next.Delete(ctx, gameID)
}

type cachedByID[T any] struct {
	value  T
	exists bool
}
