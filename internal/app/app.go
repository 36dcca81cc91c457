package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/community-league/internal/config"
	"github.com/riskibarqy/community-league/internal/domain/game"
	"github.com/riskibarqy/community-league/internal/domain/matchresult"
	"github.com/riskibarqy/community-league/internal/domain/player"
	"github.com/riskibarqy/community-league/internal/domain/post"
	"github.com/riskibarqy/community-league/internal/domain/replication"
	"github.com/riskibarqy/community-league/internal/domain/scoring"
	"github.com/riskibarqy/community-league/internal/domain/team"
	"github.com/riskibarqy/community-league/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/community-league/internal/infrastructure/docstore"
	cacherepo "github.com/riskibarqy/community-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/community-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/community-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/community-league/internal/interfaces/httpapi"
	"github.com/riskibarqy/community-league/internal/platform/cache"
	idgen "github.com/riskibarqy/community-league/internal/platform/id"
	"github.com/riskibarqy/community-league/internal/platform/logging"
	"github.com/riskibarqy/community-league/internal/platform/resilience"
	"github.com/riskibarqy/community-league/internal/usecase"
)

// App owns the HTTP server and the background work that shares its stores.
type App struct {
	Server      *http.Server
	replication *usecase.ReplicationService
	interval    time.Duration
	db          *sqlx.DB
	logger      *logging.Logger
}

type repositories struct {
	teams   team.Repository
	players player.Repository
	games   game.Repository
	results matchresult.Repository
	posts   post.Repository
	outbox  replication.Outbox
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, db, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.players = cacherepo.NewPlayerRepository(repos.players, store)
		repos.games = cacherepo.NewGameRepository(repos.games, store)
	}

	ids := idgen.NewUUIDGenerator()
	standingSvc := usecase.NewStandingService(
		repos.teams,
		repos.players,
		repos.results,
		repos.games,
		newStandingsCache(cfg),
		scoring.ProjectionOptions{SkipUndecidedLines: cfg.StandingsSkipUndecided},
	)

	var replicationSvc *usecase.ReplicationService
	recorder := usecase.ChangeRecorder(standingSvc)
	if cfg.DocstoreEnabled {
		remote := docstore.NewClient(docstore.ClientConfig{
			BaseURL:      cfg.DocstoreBaseURL,
			Token:        cfg.DocstoreToken,
			Timeout:      cfg.DocstoreTimeout,
			MaxRetries:   cfg.DocstoreMaxRetries,
			RetryBackoff: cfg.DocstoreRetryBackoff,
			Logger:       logger.Component("docstore"),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.DocstoreCircuitEnabled,
				FailureThreshold: cfg.DocstoreCircuitFailureCount,
				OpenTimeout:      cfg.DocstoreCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.DocstoreCircuitHalfOpenMax,
				OnStateChange:    logBreakerTransitions(logger, "docstore"),
			},
		})
		replicationSvc = usecase.NewReplicationService(
			repos.outbox,
			remote,
			repos.games,
			repos.results,
			ids,
			standingSvc,
			usecase.ReplicationConfig{BatchSize: cfg.ReplicationBatchSize, Workers: cfg.ReplicationWorkers},
			logger.Component("replication"),
		)
		recorder = usecase.MultiRecorder(replicationSvc, standingSvc)
	}

	gameSvc := usecase.NewGameService(repos.games, repos.teams, repos.results, ids, recorder)
	resultSvc := usecase.NewMatchResultService(
		repos.results,
		repos.games,
		repos.teams,
		repos.players,
		ids,
		recorder,
		usecase.MatchResultConfig{RequireReview: cfg.ResultRequireReview},
	)
	teamSvc := usecase.NewTeamService(repos.teams, repos.players, standingSvc)
	postSvc := usecase.NewPostService(repos.posts, repos.teams, ids)

	verifier := anubis.NewClient(anubis.ClientConfig{
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectURL,
		AdminKey:       cfg.AnubisAdminKey,
		Timeout:        cfg.AnubisTimeout,
		CacheTTL:       cfg.AnubisCacheTTL,
		Logger:         logger.Component("anubis"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
			OnStateChange:    logBreakerTransitions(logger, "anubis"),
		},
	})

	handler := httpapi.NewHandler(teamSvc, gameSvc, resultSvc, standingSvc, postSvc, replicationSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		replication: replicationSvc,
		interval:    cfg.ReplicationInterval,
		db:          db,
		logger:      logger,
	}, nil
}

// StartBackground runs scheduled replication until ctx is cancelled.
func (a *App) StartBackground(ctx context.Context) {
	if a.replication == nil || a.interval <= 0 {
		return
	}
	a.logger.Info("replication ticker started", "interval", a.interval.String())
	go a.replication.Run(ctx, a.interval)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func logBreakerTransitions(logger *logging.Logger, dependency string) resilience.StateListener {
	return func(from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed",
			"dependency", dependency,
			"from", string(from),
			"to", string(to),
		)
	}
}

// newStandingsCache returns nil when caching is off so every standings read
// recomputes from the repositories.
func newStandingsCache(cfg config.Config) *cache.Store {
	if !cfg.CacheEnabled {
		return nil
	}
	return cache.NewStore(cfg.CacheTTL)
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if cfg.StoreDriver != config.StorePostgres {
		logger.Info("using in-memory store", "seed", cfg.SeedOnStart)
		return memoryRepositories(cfg), nil, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, nil, err
	}
	if cfg.SeedOnStart {
		if err := postgres.BootstrapSeed(ctx, db, cfg.SeasonStart); err != nil {
			_ = db.Close()
			return repositories{}, nil, fmt.Errorf("seed database: %w", err)
		}
	}
	logger.Info("using postgres store", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		teams:   postgres.NewTeamRepository(db),
		players: postgres.NewPlayerRepository(db),
		games:   postgres.NewGameRepository(db),
		results: postgres.NewMatchResultRepository(db),
		posts:   postgres.NewPostRepository(db),
		outbox:  postgres.NewOutboxRepository(db),
	}, db, nil
}

func memoryRepositories(cfg config.Config) repositories {
	var (
		teams   []team.Team
		players []player.Player
		games   []game.Game
		posts   []post.Post
	)
	if cfg.SeedOnStart {
		teams = memory.SeedTeams()
		players = memory.SeedPlayers()
		games = memory.SeedGames(cfg.SeasonStart)
		posts = memory.SeedPosts(cfg.SeasonStart.AddDate(0, 0, -14))
	}
	return repositories{
		teams:   memory.NewTeamRepository(teams),
		players: memory.NewPlayerRepository(players),
		games:   memory.NewGameRepository(games),
		results: memory.NewMatchResultRepository(),
		posts:   memory.NewPostRepository(posts),
		outbox:  memory.NewOutboxRepository(),
	}
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBBinaryParameters)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
