// Package control wires configuration into a running triage service and
// owns its lifecycle.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pressly/goose/v3"

	"github.com/minhnx/txtriage/internal/core/classify"
	"github.com/minhnx/txtriage/internal/core/config"
	"github.com/minhnx/txtriage/internal/diagnose"
	"github.com/minhnx/txtriage/internal/infra/llm"
	redisclient "github.com/minhnx/txtriage/internal/infra/redis"
	"github.com/minhnx/txtriage/internal/infra/storage"
	"github.com/minhnx/txtriage/internal/infra/storage/memory"
	"github.com/minhnx/txtriage/internal/infra/storage/postgres"
	"github.com/minhnx/txtriage/internal/server"
)

// Config holds the application configuration.
type Config struct {
	Port     int
	LLM      config.LLMConfig
	Redis    redisclient.Config
	Database postgres.Config
}

// Triage is the main application struct that manages the service lifecycle.
type Triage struct {
	cfg    Config
	server *server.Server
	db     *postgres.DB
	cache  *redisclient.Cache
	log    *slog.Logger
}

// NewTriage creates a new Triage instance with all dependencies initialized.
func NewTriage(cfg Config) (*Triage, error) {

	// 1. Initialize Storage
	var repo storage.ReportRepository
	var db *postgres.DB

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		// Run migrations
		// Note: Goose needs direct *sql.DB which sqlx.DB wraps
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		repo = postgres.NewReportRepo(db)
		slog.Info("Using PostgreSQL storage")
	} else {
		repo = memory.NewReportRepo()
		slog.Info("Using Memory storage")
	}

	// 2. Initialize Diagnosis Cache
	var cache *redisclient.Cache
	if cfg.Redis.URL != "" {
		var err error
		cache, err = redisclient.NewCache(cfg.Redis)
		if err != nil {
			slog.Warn("Failed to connect to Redis, diagnosis caching disabled", "error", err)
			cache = nil
		} else {
			slog.Info("Diagnosis cache enabled", "ttl", cfg.Redis.DiagnosisTTL)
		}
	}

	// 3. Initialize Diagnoser
	var diagnoser *diagnose.Diagnoser
	if cfg.LLM.APIKey != "" {
		client := llm.NewClient(llm.Config{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Timeout:     cfg.LLM.Timeout,
			MaxAttempts: cfg.LLM.MaxAttempts,
			Temperature: cfg.LLM.Temperature,
		})
		var diagCache diagnose.Cache
		if cache != nil {
			diagCache = cache
		}
		diagnoser = diagnose.NewDiagnoser(client, diagCache)
		slog.Info("Narrative diagnosis enabled", "model", cfg.LLM.Model)
	} else {
		slog.Info("No inference API key configured, diagnosis disabled")
	}

	// 4. Initialize API Server
	var dbHealth server.HealthChecker
	if db != nil {
		dbHealth = db
	}
	var cacheHealth server.HealthChecker
	if cache != nil {
		cacheHealth = cache
	}
	srv := server.NewServer(
		classify.NewNormalizer(),
		repo,
		diagnoser,
		dbHealth,
		cacheHealth,
		cfg.Port,
	)

	return &Triage{
		cfg:    cfg,
		server: srv,
		db:     db,
		cache:  cache,
		log:    slog.Default(),
	}, nil
}

// Start starts the API server and background collectors.
func (t *Triage) Start(ctx context.Context) error {
	go func() {
		if err := t.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.log.Error("API server failed", "error", err)
		}
	}()

	if t.db != nil {
		t.db.StartMetricsCollector(ctx)
	}

	t.log.Info("API server listening", "port", t.cfg.Port)
	return nil
}

// Stop stops the service.
func (t *Triage) Stop(ctx context.Context) error {
	t.log.Info("Stopping txtriage...")

	if t.cache != nil {
		if err := t.cache.Close(); err != nil {
			t.log.Warn("Failed to close Redis", "error", err)
		}
	}

	if t.db != nil {
		defer t.db.Close()
	}

	return t.server.Stop(ctx)
}
