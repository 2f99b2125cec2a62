package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/coursepay/internal/adapters/kafka"
	"github.com/DanielPopoola/coursepay/internal/adapters/postgres"
	"github.com/DanielPopoola/coursepay/internal/adapters/provider"
	"github.com/DanielPopoola/coursepay/internal/adapters/provider/midtrans"
	"github.com/DanielPopoola/coursepay/internal/adapters/provider/paystack"
	"github.com/DanielPopoola/coursepay/internal/adapters/provider/stripe"
	"github.com/DanielPopoola/coursepay/internal/adapters/redis"
	"github.com/DanielPopoola/coursepay/internal/config"
	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/DanielPopoola/coursepay/internal/core/ports"
	"github.com/DanielPopoola/coursepay/internal/core/service"
)

// app holds the wired dependencies shared by serve and sweep.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	db        *postgres.DB
	claimer   *redis.Claimer
	publisher *kafka.Publisher
	repo      *postgres.TransactionRepository

	adapters []ports.ProviderAdapter

	initService   *service.InitializationService
	engine        *service.ReconciliationEngine
	refundService *service.RefundService
	queryService  *service.TransactionQueryService
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	adapters := enabledProviders(cfg)
	if len(adapters) == 0 {
		return nil, fmt.Errorf("no payment provider is enabled")
	}

	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	claimer, err := redis.Connect(ctx, cfg.Redis, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	publisher := kafka.NewPublisher(kafka.NewWriter(cfg.Kafka, logger), logger)

	repo := postgres.NewTransactionRepository(db)
	catalog := postgres.NewCourseCatalog(db)
	selector := service.NewProviderSelector(adapters)

	return &app{
		cfg:           cfg,
		logger:        logger,
		db:            db,
		claimer:       claimer,
		publisher:     publisher,
		repo:          repo,
		adapters:      adapters,
		initService:   service.NewInitializationService(repo, catalog, selector, logger),
		engine:        service.NewReconciliationEngine(repo, selector, publisher, claimer, cfg.Redis.ClaimTTL, logger),
		refundService: service.NewRefundService(repo, selector, publisher, logger),
		queryService:  service.NewTransactionQueryService(repo),
	}, nil
}

// enabledProviders returns the configured adapters in fallback order.
func enabledProviders(cfg *config.Config) []ports.ProviderAdapter {
	var adapters []ports.ProviderAdapter
	if cfg.Providers.Stripe.Enabled {
		adapters = append(adapters, provider.NewRetryAdapter(stripe.NewClient(cfg.Providers.Stripe), cfg.Retry))
	}
	if cfg.Providers.Paystack.Enabled {
		adapters = append(adapters, provider.NewRetryAdapter(paystack.NewClient(cfg.Providers.Paystack), cfg.Retry))
	}
	if cfg.Providers.Midtrans.Enabled {
		adapters = append(adapters, provider.NewRetryAdapter(midtrans.NewClient(cfg.Providers.Midtrans), cfg.Retry))
	}
	return adapters
}

func (a *app) signatureHeaders() map[domain.ProviderName]string {
	headers := make(map[domain.ProviderName]string, len(a.adapters))
	for _, adapter := range a.adapters {
		headers[adapter.Name()] = adapter.SignatureHeader()
	}
	return headers
}

func (a *app) Close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Error("failed to close kafka writer", "error", err)
	}
	if err := a.claimer.Close(); err != nil {
		a.logger.Error("failed to close redis client", "error", err)
	}
	a.db.Close()
}
