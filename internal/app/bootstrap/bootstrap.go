package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	accountservice "astrade/contexts/identity-access/account-service"
	accountpostgres "astrade/contexts/identity-access/account-service/adapters/postgres"
	accountapp "astrade/contexts/identity-access/account-service/application"
	accountworkers "astrade/contexts/identity-access/account-service/application/workers"
	rewardsservice "astrade/contexts/player-engagement/rewards-service"
	"astrade/contexts/player-engagement/rewards-service/adapters/configfile"
	rewardspostgres "astrade/contexts/player-engagement/rewards-service/adapters/postgres"
	rewardsworkers "astrade/contexts/player-engagement/rewards-service/application/workers"
	"astrade/internal/platform/config"
	"astrade/internal/platform/db"
	"astrade/internal/platform/httpserver"
	"astrade/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	rewardsRelay rewardsworkers.OutboxRelay
	accountRelay accountworkers.OutboxRelay
	registration rewardsworkers.RegistrationConsumer

	runRewardsRelay bool
	runAccountRelay bool
	runRegistration bool

	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	rewardsRepo := rewardspostgres.NewRepository(pg.DB, logger)
	rewardsModule := rewardsservice.NewModule(rewardsservice.Dependencies{
		Profiles: rewardsRepo,
		Rewards: configfile.Source{
			Path:   cfg.RewardsCalendarPath,
			Logger: logger,
		},
		Idempotency:     rewardsRepo,
		Clock:           rewardspostgres.SystemClock{},
		IDGenerator:     rewardspostgres.UUIDGenerator{},
		IdempotencyTTL:  7 * 24 * time.Hour,
		MaxSwapAttempts: 3,
		Logger:          logger,
	})

	accountRepo := accountpostgres.NewRepository(pg.DB, logger)
	accountModule := accountservice.NewModule(accountservice.Dependencies{
		Repo:           accountRepo,
		Idempotency:    accountRepo,
		Clock:          accountpostgres.SystemClock{},
		IDGenerator:    accountpostgres.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})

	server := httpserver.New(rewardsModule, accountModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	rewardsRepo := rewardspostgres.NewRepository(pg.DB, logger)
	accountRepo := accountpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		rewardsRelay: rewardsworkers.OutboxRelay{
			Outbox:    rewardsRepo,
			Publisher: kafka,
			Clock:     rewardspostgres.SystemClock{},
			Topic:     "engagement.rewards",
			BatchSize: 100,
			Logger:    logger,
		},
		accountRelay: accountworkers.OutboxRelay{
			Outbox:    accountRepo,
			Publisher: kafka,
			Clock:     accountpostgres.SystemClock{},
			Topic:     accountapp.UserRegisteredEventType,
			BatchSize: 100,
			Logger:    logger,
		},
		registration: rewardsworkers.RegistrationConsumer{
			Subscriber:    kafka,
			Profiles:      rewardsRepo,
			Dedup:         rewardsRepo,
			Clock:         rewardspostgres.SystemClock{},
			ConsumerGroup: "rewards-registration-cg",
			DedupTTL:      7 * 24 * time.Hour,
			Logger:        logger,
		},
		runRewardsRelay: cfg.EnableRewardsOutboxRelay,
		runAccountRelay: cfg.EnableAccountOutboxRelay,
		runRegistration: cfg.EnableRewardsRegistrationConsumer,
		pollInterval:    2 * time.Second,
		logger:          logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.runRegistration {
		if err := w.registration.Start(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"rewards_relay", w.runRewardsRelay,
		"account_relay", w.runAccountRelay,
		"registration_consumer", w.runRegistration,
	)

	for {
		if w.runAccountRelay {
			if err := w.accountRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.runRewardsRelay {
			if err := w.rewardsRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
