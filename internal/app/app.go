// Package app wires configuration, storage, the feed client and the HTTP
// layer into a runnable server.
package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dmarchuk/matchfeed/external/reportfeed"
	"github.com/dmarchuk/matchfeed/internal/config"
	"github.com/dmarchuk/matchfeed/internal/infrastructure/repository/postgres"
	"github.com/dmarchuk/matchfeed/internal/interfaces/httpapi"
	"github.com/dmarchuk/matchfeed/internal/platform/logging"
	"github.com/dmarchuk/matchfeed/internal/platform/resilience"
	"github.com/dmarchuk/matchfeed/internal/usecase"
)

func OpenDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
	}
	if name := dbNameFromURL(dsn); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Open("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func NewHTTPServer(cfg config.Config, db *sqlx.DB, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	competitionRepo := postgres.NewCompetitionRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	matchRepo := postgres.NewMatchRepository(db)
	eventRepo := postgres.NewEventRepository(db)

	feedClient := reportfeed.NewClient(reportfeed.ClientConfig{
		BaseURL:    cfg.FeedBaseURL,
		Timeout:    cfg.FeedTimeout,
		MaxRetries: cfg.FeedMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailureCount,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
		},
	})

	matchLoader := usecase.NewMatchLoaderService(competitionRepo, teamRepo, matchRepo, logger)
	eventLoader := usecase.NewEventLoaderService(matchRepo, playerRepo, eventRepo, logger)
	eventQuery := usecase.NewEventQueryService(matchRepo, eventRepo)
	teamStats := usecase.NewTeamStatsService(matchRepo, teamRepo, eventRepo)
	playerStats := usecase.NewPlayerStatsService(matchRepo, playerRepo, eventRepo)
	backfill := usecase.NewBackfillService(feedClient, matchLoader, eventLoader, cfg.BackfillMaxWorkers, logger)

	handler := httpapi.NewHandler(matchLoader, eventLoader, eventQuery, teamStats, playerStats, backfill, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.BackfillToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
