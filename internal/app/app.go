package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/castaway-fantasy/internal/config"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/rules"
	cacherepo "github.com/riskibarqy/castaway-fantasy/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/castaway-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/castaway-fantasy/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/castaway-fantasy/internal/platform/cache"
	idgen "github.com/riskibarqy/castaway-fantasy/internal/platform/id"
	"github.com/riskibarqy/castaway-fantasy/internal/platform/logging"
	"github.com/riskibarqy/castaway-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/castaway-fantasy/internal/usecase"
)

// App holds the wired services for one process.
type App struct {
	Scoring    *usecase.ScoringService
	Selection  *usecase.SelectionService
	Prediction *usecase.PredictionService
	Logger     *logging.Logger

	db *sqlx.DB
}

// NewLogger builds the process logger from config and installs it as the
// package default.
func NewLogger(cfg config.Config) *logging.Logger {
	logger := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		ServiceName: cfg.ServiceName,
		Env:         cfg.AppEnv,
	})
	logging.SetDefault(logger)
	return logger
}

// New wires repositories and services. An empty DB_URL falls back to the
// seeded in-memory season premiering three weeks before now.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	var defaultRules *rules.LeagueRules
	if cfg.RulesFile != "" {
		loaded, err := rules.LoadFile(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("load rules file: %w", err)
		}
		defaultRules = &loaded
		logger.InfoContext(ctx, "default league rules loaded", "path", cfg.RulesFile)
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	app := &App{Logger: logger}

	var repos usecase.ScoringRepositories
	if cfg.DBURL == "" {
		logger.WarnContext(ctx, "DB_URL is empty, using seeded in-memory repositories")
		seeded := memory.NewSeeded(time.Now().UTC().Add(-3 * 7 * 24 * time.Hour))
		repos = usecase.ScoringRepositories{
			Leagues:     seeded.Leagues,
			Rules:       seeded.Rules,
			Episodes:    seeded.Episodes,
			Seasons:     seeded.Seasons,
			Events:      seeded.Events,
			Selections:  seeded.Selections,
			Predictions: seeded.Predictions,
		}
	} else {
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.db = db
		repos = usecase.ScoringRepositories{
			Leagues:     postgres.NewLeagueRepository(db),
			Rules:       postgres.NewRulesRepository(db),
			Episodes:    postgres.NewEpisodeRepository(db),
			Seasons:     postgres.NewSeasonRepository(db),
			Events:      postgres.NewEventRepository(db),
			Selections:  postgres.NewSelectionRepository(db),
			Predictions: postgres.NewPredictionRepository(db),
		}
		logger.InfoContext(ctx, "postgres repositories ready", "db_name", dbNameFromURL(cfg.DBURL))
	}

	if store != nil {
		repos.Leagues = cacherepo.NewLeagueRepository(repos.Leagues, store)
		repos.Episodes = cacherepo.NewEpisodeRepository(repos.Episodes, store)
		repos.Seasons = cacherepo.NewSeasonRepository(repos.Seasons, store)
	}

	app.Scoring = usecase.NewScoringService(repos, usecase.ScoringOptions{
		Cache:        store,
		Breaker:      resilience.DefaultCircuitBreakerConfig(),
		Workers:      cfg.ScoringWorkers,
		LoadTimeout:  cfg.ScoringLoadTimeout,
		DefaultRules: defaultRules,
		IDGenerator:  idgen.NewUUIDGenerator(),
		Logger:       logger,
	})
	app.Selection = usecase.NewSelectionService(repos.Selections, app.Scoring, logger)
	app.Prediction = usecase.NewPredictionService(repos.Predictions, app.Scoring, logger)

	return app, nil
}

// Close releases the database pool, if any, and flushes the logger.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var err error
	if a.db != nil {
		err = a.db.Close()
	}
	_ = a.Logger.Sync()
	return err
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ScoringLoadTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
