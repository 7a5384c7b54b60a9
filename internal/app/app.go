package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqly/marketplace/internal/config"
	"github.com/souqly/marketplace/internal/event"
	handler "github.com/souqly/marketplace/internal/handler/http"
	"github.com/souqly/marketplace/internal/index"
	"github.com/souqly/marketplace/internal/index/meilisearch"
	"github.com/souqly/marketplace/internal/index/memory"
	"github.com/souqly/marketplace/internal/repository/postgres"
	"github.com/souqly/marketplace/internal/service"
	"github.com/souqly/marketplace/migrations"
	"github.com/souqly/marketplace/pkg/database"
	"github.com/souqly/marketplace/pkg/health"
	pkgkafka "github.com/souqly/marketplace/pkg/kafka"
	"github.com/souqly/marketplace/pkg/middleware"
)

// App wires together all dependencies and runs the marketplace server.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// PostgreSQL connection pool plus schema migrations.
	pgCfg := cfg.PostgresConfig()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.Files, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	// Search engine selection. The in-memory engine exists for local
	// development and tests; production uses Meilisearch.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	var engine index.Engine
	switch cfg.SearchEngine {
	case "memory":
		engine = memory.New()
		logger.Info("using in-memory search engine")
	default:
		meili := meilisearch.New(cfg.MeilisearchURL, cfg.MeilisearchAPIKey, cfg.MeilisearchIndex, logger)
		healthHandler.Register("meilisearch", meili.Ping)
		engine = meili
		logger.Info("using meilisearch engine",
			slog.String("host", cfg.MeilisearchURL),
			slog.String("index", cfg.MeilisearchIndex),
		)
	}

	// Apply index settings on startup so live sync never races index
	// creation. Startup proceeds on failure; the next reindex repairs it.
	if err := engine.EnsureIndex(ctx, index.DefaultSettings()); err != nil {
		logger.Warn("index settings not applied at startup",
			slog.String("error", err.Error()),
		)
	}

	// Kafka producer; no brokers configured means events are disabled.
	var producer *pkgkafka.Producer
	var publisher event.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = producer
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka disabled, no brokers configured")
	}

	// Build the dependency graph.
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)

	syncer := index.NewSyncer(engine, logger, cfg.SyncTimeout)
	reindexer := index.NewReindexer(engine, productRepo, logger, cfg.ReindexBatchSize)
	eventProducer := event.NewProducer(publisher, logger)

	searchService := service.NewSearchService(engine, logger)
	productService := service.NewProductService(productRepo, categoryRepo, syncer, eventProducer, logger)
	categoryService := service.NewCategoryService(categoryRepo)

	router := handler.NewRouter(handler.RouterDeps{
		SearchService:   searchService,
		ProductService:  productService,
		CategoryService: categoryService,
		Reindexer:       reindexer,
		HealthHandler:   healthHandler,
		TokenValidator:  middleware.NewJWTValidator(cfg.JWTSecret),
		ReindexTimeout:  cfg.ReindexTimeout,
		Logger:          logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
