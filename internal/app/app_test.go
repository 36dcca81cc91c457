package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/community-league/internal/config"
	"github.com/riskibarqy/community-league/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		HTTPAddr:           ":0",
		StoreDriver:        config.StoreMemory,
		SeedOnStart:        true,
		SeasonStart:        time.Date(2026, time.March, 7, 9, 0, 0, 0, time.UTC),
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		CORSAllowedOrigins: []string{"*"},
		AnubisBaseURL:      "http://127.0.0.1:1",
		AnubisTimeout:      time.Second,
		InternalJobToken:   "job-token",
	}
}

func TestNew_MemoryStoreServesSeededTeams(t *testing.T) {
	application, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	t.Cleanup(func() { _ = application.Close() })

	rec := httptest.NewRecorder()
	application.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/teams", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Harbour Hawks") {
		t.Fatalf("expected seeded team in response, got %s", rec.Body.String())
	}
}

func TestNew_WithoutSeedStartsEmpty(t *testing.T) {
	cfg := memoryConfig()
	cfg.SeedOnStart = false

	application, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}

	rec := httptest.NewRecorder()
	application.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/games", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Fatalf("expected empty game list, got %s", rec.Body.String())
	}
}

func TestNew_ReplicationDisabledWithoutDocstore(t *testing.T) {
	application, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	if application.replication != nil {
		t.Fatalf("expected replication to stay disabled without a document store")
	}
	application.StartBackground(context.Background())

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/replication/push", nil)
	req.Header.Set("X-Internal-Job-Token", "job-token")
	rec := httptest.NewRecorder()
	application.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestNew_DocstoreEnablesReplication(t *testing.T) {
	cfg := memoryConfig()
	cfg.DocstoreEnabled = true
	cfg.DocstoreBaseURL = "http://127.0.0.1:1"
	cfg.DocstoreTimeout = time.Second

	application, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	if application.replication == nil {
		t.Fatalf("expected replication service when the document store is enabled")
	}
}

func TestNew_RequiresHTTPAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for empty http addr")
	}
}

func TestNewStandingsCache_FollowsCacheFlag(t *testing.T) {
	cfg := memoryConfig()
	if newStandingsCache(cfg) == nil {
		t.Fatalf("expected standings cache when CACHE_ENABLED=true")
	}

	cfg.CacheEnabled = false
	if store := newStandingsCache(cfg); store != nil {
		t.Fatalf("expected no standings cache when CACHE_ENABLED=false, got %+v", store)
	}
}
