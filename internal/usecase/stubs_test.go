package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/community-league/internal/domain/game"
	"github.com/riskibarqy/community-league/internal/domain/matchresult"
	"github.com/riskibarqy/community-league/internal/domain/player"
	"github.com/riskibarqy/community-league/internal/domain/post"
	"github.com/riskibarqy/community-league/internal/domain/replication"
	"github.com/riskibarqy/community-league/internal/domain/team"
	"github.com/riskibarqy/community-league/internal/platform/locale"
)

var errStubUnavailable = errors.New("stub store unavailable")

type stubTeamRepo struct {
	items map[string]team.Team
}

func (r *stubTeamRepo) List(context.Context) ([]team.Team, error) {
	out := make([]team.Team, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTeamRepo) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	item, ok := r.items[teamID]
	return item, ok, nil
}

type stubPlayerRepo struct {
	items []player.Player
	err   error
}

func (r *stubPlayerRepo) List(context.Context) ([]player.Player, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]player.Player(nil), r.items...), nil
}

func (r *stubPlayerRepo) ListByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []player.Player
	for _, p := range r.items {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubGameRepo struct {
	mu    sync.Mutex
	items map[string]game.Game
	lists int
}

func newStubGameRepo(items ...game.Game) *stubGameRepo {
	r := &stubGameRepo{items: map[string]game.Game{}}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *stubGameRepo) List(context.Context) ([]game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	out := make([]game.Game, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *stubGameRepo) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[gameID]
	return item, ok, nil
}

func (r *stubGameRepo) Upsert(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *stubGameRepo) Delete(_ context.Context, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, gameID)
	return nil
}

type stubResultRepo struct {
	mu    sync.Mutex
	items map[string]matchresult.MatchResult
	err   error

	// beforeList runs ahead of every List, outside the lock.
	beforeList func()
}

func newStubResultRepo(items ...matchresult.MatchResult) *stubResultRepo {
	r := &stubResultRepo{items: map[string]matchresult.MatchResult{}}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *stubResultRepo) List(context.Context) ([]matchresult.MatchResult, error) {
	if r.beforeList != nil {
		r.beforeList()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]matchresult.MatchResult, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubResultRepo) GetByID(_ context.Context, resultID string) (matchresult.MatchResult, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[resultID]
	return item.Clone(), ok, nil
}

func (r *stubResultRepo) GetByGame(_ context.Context, gameID string) (matchresult.MatchResult, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.GameID == gameID {
			return item.Clone(), true, nil
		}
	}
	return matchresult.MatchResult{}, false, nil
}

func (r *stubResultRepo) Upsert(_ context.Context, item matchresult.MatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.items {
		if existing.GameID == item.GameID && id != item.ID {
			delete(r.items, id)
		}
	}
	r.items[item.ID] = item.Clone()
	return nil
}

func (r *stubResultRepo) Delete(_ context.Context, resultID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, resultID)
	return nil
}

type stubPostRepo struct {
	items     []post.Post
	lastLimit int
}

func (r *stubPostRepo) List(_ context.Context, limit int) ([]post.Post, error) {
	r.lastLimit = limit
	return append([]post.Post(nil), r.items...), nil
}

func (r *stubPostRepo) GetByID(_ context.Context, postID string) (post.Post, bool, error) {
	for _, item := range r.items {
		if item.ID == postID {
			return item, true, nil
		}
	}
	return post.Post{}, false, nil
}

func (r *stubPostRepo) Create(_ context.Context, item post.Post) error {
	r.items = append(r.items, item)
	return nil
}

type stubOutbox struct {
	mu     sync.Mutex
	ops    []replication.Operation
	done   map[string]bool
	failed map[string]string
}

func newStubOutbox() *stubOutbox {
	return &stubOutbox{done: map[string]bool{}, failed: map[string]string{}}
}

func (o *stubOutbox) Append(_ context.Context, op replication.Operation) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, op)
	return nil
}

func (o *stubOutbox) ListPending(_ context.Context, limit int) ([]replication.Operation, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []replication.Operation
	for _, op := range o.ops {
		if o.done[op.ID] {
			continue
		}
		out = append(out, op)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (o *stubOutbox) MarkDone(_ context.Context, ids []string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, id := range ids {
		o.done[id] = true
	}
	return nil
}

func (o *stubOutbox) MarkFailed(_ context.Context, id, reason string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed[id] = reason
	return nil
}

type stubRemote struct {
	mu     sync.Mutex
	docs   map[replication.Kind][]replication.Document
	puts   []replication.Document
	failID string

	listErr error
}

func newStubRemote() *stubRemote {
	return &stubRemote{docs: map[replication.Kind][]replication.Document{}}
}

func (r *stubRemote) Put(_ context.Context, kind replication.Kind, doc replication.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.ID == r.failID {
		return errStubUnavailable
	}
	r.puts = append(r.puts, doc)
	r.docs[kind] = append(r.docs[kind], doc)
	return nil
}

func (r *stubRemote) List(_ context.Context, kind replication.Kind) ([]replication.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]replication.Document(nil), r.docs[kind]...), nil
}

type captureRecorder struct {
	mu      sync.Mutex
	changes []Change
}

func (c *captureRecorder) RecordChange(_ context.Context, change Change) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changes = append(c.changes, change)
	return nil
}

type sequenceIDs struct {
	mu   sync.Mutex
	next int
}

func (s *sequenceIDs) NewID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("id-%d", s.next), nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func leagueTeams() *stubTeamRepo {
	return &stubTeamRepo{items: map[string]team.Team{
		"falcons": {ID: "falcons", Name: locale.Text{EN: "Falcons", ZH: "猎鹰"}, CaptainUserID: "cap-falcons"},
		"herons":  {ID: "herons", Name: locale.Text{EN: "Herons", ZH: "苍鹭"}, CaptainUserID: "cap-herons"},
		"owls":    {ID: "owls", Name: locale.Text{EN: "Owls", ZH: "猫头鹰"}, CaptainUserID: "cap-owls"},
	}}
}

func leaguePlayers() *stubPlayerRepo {
	return &stubPlayerRepo{items: []player.Player{
		{ID: "f1", TeamID: "falcons", Position: player.PositionSingles},
		{ID: "f2", TeamID: "falcons", Position: player.PositionDoubles},
		{ID: "f3", TeamID: "falcons", Position: player.PositionDoubles},
		{ID: "h1", TeamID: "herons", Position: player.PositionSingles},
		{ID: "h2", TeamID: "herons", Position: player.PositionDoubles},
		{ID: "h3", TeamID: "herons", Position: player.PositionDoubles},
	}}
}

func scoredSets(pairs ...[2]int) []matchresult.SetScore {
	out := make([]matchresult.SetScore, 0, len(pairs))
	for i, p := range pairs {
		out = append(out, matchresult.SetScore{SetNumber: i + 1, HomeGames: p[0], AwayGames: p[1]})
	}
	return out
}

// falconsBeatHerons is a 2-1 result: falcons take the singles and the first
// doubles, herons take the second doubles.
func falconsBeatHerons() []matchresult.MatchLine {
	return []matchresult.MatchLine{
		{LineNumber: 1, MatchType: matchresult.MatchTypeSingles, HomePlayerIDs: []string{"f1"}, AwayPlayerIDs: []string{"h1"}, Sets: scoredSets([2]int{6, 3}, [2]int{6, 4})},
		{LineNumber: 2, MatchType: matchresult.MatchTypeDoubles, HomePlayerIDs: []string{"f2", "f3"}, AwayPlayerIDs: []string{"h2", "h3"}, Sets: scoredSets([2]int{6, 2}, [2]int{3, 6}, [2]int{7, 5})},
		{LineNumber: 3, MatchType: matchresult.MatchTypeDoubles, HomePlayerIDs: []string{"f1", "f2"}, AwayPlayerIDs: []string{"h1", "h2"}, Sets: scoredSets([2]int{2, 6}, [2]int{4, 6})},
	}
}
