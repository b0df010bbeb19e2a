package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"knowledge_hub/internal/api"
	"knowledge_hub/internal/config"
	"knowledge_hub/internal/publisher"
	"knowledge_hub/internal/seed"
	"knowledge_hub/internal/service"
	"knowledge_hub/internal/storage/memory"
	"knowledge_hub/internal/storage/postgres"
)

type stores struct {
	domains  service.DomainStore
	articles service.ArticleStore
	projects service.ProjectStore
	stats    service.StatsStore
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	st, closeStores, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStores()

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:          cfg.RabbitMQ.URL,
			ExchangeKind: cfg.RabbitMQ.ExchangeKind,
			Exchange:     cfg.RabbitMQ.Exchange,
			RoutingKey:   cfg.RabbitMQ.RoutingKey,
			QueueName:    cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	knowledge := service.NewKnowledgeService(
		st.domains,
		st.articles,
		st.projects,
		st.stats,
		pub,
		logger,
		cfg.Stats,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(knowledge, logger, cfg.Server.AllowedOrigins).Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting knowledge hub",
			"addr", cfg.Server.Addr,
			"storage", cfg.Storage.Driver,
			"publisher", cfg.RabbitMQ.Enabled,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return
	}
	logger.Info("server stopped")
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (stores, func(), error) {
	catalog := seed.Domains(time.Now())

	if cfg.Storage.Driver == config.DriverMemory {
		store := memory.New(catalog)
		logger.Info("using in-memory storage", "domains", len(catalog))
		return stores{domains: store, articles: store, projects: store, stats: store}, func() {}, nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return stores{}, nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return stores{}, nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("connected to database")

	domainStore := postgres.NewDomainStore(db)
	if err := domainStore.Seed(ctx, catalog); err != nil {
		db.Close()
		return stores{}, nil, fmt.Errorf("seed domains: %w", err)
	}

	return stores{
		domains:  domainStore,
		articles: postgres.NewArticleStore(db),
		projects: postgres.NewProjectStore(db),
		stats:    postgres.NewStatsStore(db),
	}, func() { db.Close() }, nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
