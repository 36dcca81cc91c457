package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/community-league/internal/domain/matchresult"
)

func TestMatchResultRepository_OneResultPerGame(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchResultRepository()

	_ = repo.Upsert(ctx, matchresult.MatchResult{ID: "r1", GameID: "g1", HomeTotalScore: 2})
	_ = repo.Upsert(ctx, matchresult.MatchResult{ID: "r2", GameID: "g1", HomeTotalScore: 0, AwayTotalScore: 3})

	items, _ := repo.List(ctx)
	if len(items) != 1 || items[0].ID != "r2" {
		t.Fatalf("expected r2 to replace r1, got %+v", items)
	}
	if _, ok, _ := repo.GetByID(ctx, "r1"); ok {
		t.Fatalf("replaced result must be gone")
	}
	got, ok, _ := repo.GetByGame(ctx, "g1")
	if !ok || got.ID != "r2" {
		t.Fatalf("unexpected result by game: %+v", got)
	}

	if err := repo.Delete(ctx, "r2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := repo.GetByGame(ctx, "g1"); ok {
		t.Fatalf("game index must be cleared on delete")
	}
}

func TestMatchResultRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchResultRepository()
	_ = repo.Upsert(ctx, matchresult.MatchResult{
		ID: "r1", GameID: "g1",
		Lines: []matchresult.MatchLine{{LineNumber: 1, HomePlayerIDs: []string{"p1"}}},
	})

	got, _, _ := repo.GetByID(ctx, "r1")
	got.Lines[0].HomePlayerIDs[0] = "mutated"

	again, _, _ := repo.GetByID(ctx, "r1")
	if again.Lines[0].HomePlayerIDs[0] != "p1" {
		t.Fatalf("stored result was mutated through a returned copy")
	}
}

func TestSeed_IsConsistent(t *testing.T) {
	teams := map[string]bool{}
	for _, item := range SeedTeams() {
		if err := item.Validate(); err != nil {
			t.Fatalf("invalid seed team %s: %v", item.ID, err)
		}
		if item.CaptainUserID == "" {
			t.Fatalf("seed team %s has no captain", item.ID)
		}
		teams[item.ID] = true
	}
	for _, p := range SeedPlayers() {
		if err := p.Validate(); err != nil {
			t.Fatalf("invalid seed player %s: %v", p.ID, err)
		}
		if !teams[p.TeamID] {
			t.Fatalf("player %s references unknown team %s", p.ID, p.TeamID)
		}
	}
}
