package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	marketservice "curio/contexts/marketplace/market-service"
	marketpostgres "curio/contexts/marketplace/market-service/adapters/postgres"
	marketworkers "curio/contexts/marketplace/market-service/application/workers"
	markethttp "curio/contexts/marketplace/market-service/transport/http"
	registryfactory "curio/contexts/token-registry/registry-factory"
	tokenledger "curio/contexts/token-registry/token-ledger-service"
	ledgerpostgres "curio/contexts/token-registry/token-ledger-service/adapters/postgres"
	ledgerworkers "curio/contexts/token-registry/token-ledger-service/application/workers"
	"curio/internal/platform/config"
	"curio/internal/platform/db"
	"curio/internal/platform/httpserver"
	"curio/internal/platform/messaging"
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
	ledgerRelay  ledgerworkers.OutboxRelay
	marketRelay  marketworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	var (
		pg     *db.Postgres
		ledger tokenledger.Module
		market marketservice.Module
	)
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		ledger, market = NewMemoryModules(cfg.BaseTokenURI, cfg.MarketOperatorAccount, logger)
		if err := seedDefaultCollection(context.Background(), cfg, market); err != nil {
			return nil, err
		}
	} else {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := ledgerpostgres.Migrate(pg.DB); err != nil {
			_ = pg.Close()
			return nil, err
		}
		if err := marketpostgres.Migrate(pg.DB); err != nil {
			_ = pg.Close()
			return nil, err
		}
		ledger, market = newPostgresModules(pg, cfg, logger)
	}

	server := httpserver.New(ledger, market, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

// NewMemoryModules wires both contexts against their in-memory adapters, with
// the registry factory bridging the marketplace to the ledger. Exposed so
// in-process tests can drive the same composition the API boots with.
func NewMemoryModules(
	baseTokenURI string,
	operatorAccount string,
	logger *slog.Logger,
) (tokenledger.Module, marketservice.Module) {
	ledger := tokenledger.NewInMemoryModule(logger)
	hub := registryfactory.Hub{
		Items:           ledger.Store,
		Service:         ledger.Service,
		IDGenerator:     ledger.Store,
		Clock:           ledger.Store,
		BaseURI:         baseTokenURI,
		OperatorAccount: operatorAccount,
		Logger:          logger,
	}
	market := marketservice.NewInMemoryModule(hub, hub, operatorAccount, logger)
	return ledger, market
}

func newPostgresModules(
	pg *db.Postgres,
	cfg config.Config,
	logger *slog.Logger,
) (tokenledger.Module, marketservice.Module) {
	ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)
	ledger := tokenledger.NewModule(tokenledger.Dependencies{
		Items:       ledgerRepo,
		Clock:       ledgerpostgres.SystemClock{},
		IDGenerator: ledgerpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	hub := registryfactory.Hub{
		Items:           ledgerRepo,
		Service:         ledger.Service,
		IDGenerator:     ledgerpostgres.UUIDGenerator{},
		Clock:           ledgerpostgres.SystemClock{},
		BaseURI:         cfg.BaseTokenURI,
		OperatorAccount: cfg.MarketOperatorAccount,
		Logger:          logger,
	}

	marketRepo := marketpostgres.NewRepository(pg.DB, logger)
	market := marketservice.NewModule(marketservice.Dependencies{
		Listings:        marketRepo,
		Wallets:         marketRepo,
		Registries:      hub,
		Factory:         hub,
		Clock:           marketpostgres.SystemClock{},
		IDGenerator:     marketpostgres.UUIDGenerator{},
		OperatorAccount: cfg.MarketOperatorAccount,
		Logger:          logger,
	})
	return ledger, market
}

// seedDefaultCollection provisions the built-in collection for in-memory
// deployments, which start from an empty registry on every boot.
func seedDefaultCollection(ctx context.Context, cfg config.Config, market marketservice.Module) error {
	_, err := market.Handler.CreateCollectionHandler(ctx, cfg.DefaultCollectionAdmin, markethttp.CreateCollectionRequest{
		Name:     cfg.DefaultCollectionName,
		Symbol:   cfg.DefaultCollectionSymbol,
		ImageURI: cfg.DefaultCollectionImage,
	})
	return err
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
		_ = pg.Close()
		return nil, err
	}

	ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)
	marketRepo := marketpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		ledgerRelay: ledgerworkers.OutboxRelay{
			Outbox:    ledgerRepo,
			Publisher: kafka,
			Clock:     ledgerpostgres.SystemClock{},
			Topic:     "token.events",
			BatchSize: cfg.OutboxRelayBatchSize,
			Logger:    logger,
		},
		marketRelay: marketworkers.OutboxRelay{
			Outbox:    marketRepo,
			Publisher: kafka,
			Clock:     marketpostgres.SystemClock{},
			Topic:     "market.events",
			BatchSize: cfg.OutboxRelayBatchSize,
			Logger:    logger,
		},
		pollInterval: 2 * time.Second,
		logger:       logger,
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
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.ledgerRelay.RunOnce(ctx); err != nil {
			return err
		}
		if err := w.marketRelay.RunOnce(ctx); err != nil {
			return err
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
