package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"isinhub/internal/audit"
	"isinhub/internal/enrichment"
	"isinhub/internal/enrichment/handler"
	"isinhub/internal/enrichment/metrics"
	httpapi "isinhub/internal/http"
	"isinhub/internal/isin"
	"isinhub/internal/issuer"
	"isinhub/internal/jwttoken"
	"isinhub/internal/platform/config"
	"isinhub/internal/platform/httpserver"
	"isinhub/internal/platform/logger"
	"isinhub/internal/platform/postgres"
	"isinhub/internal/platform/redis"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		fatal(log, "database connection failed", err)
	}

	var store issuer.Store
	if db != nil {
		defer db.Close()
		store = issuer.NewPostgresStore(db)
	} else {
		log.Warn("no database configured, issuer records are held in memory")
		store = issuer.NewInMemoryStore()
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		fatal(log, "redis connection failed", err)
	}

	var fetcher isin.Fetcher = isin.NewDirectoryClient(cfg.DirectoryURL, isin.WithTimeout(cfg.FetchTimeout))
	if redisClient != nil {
		defer redisClient.Close()
		fetcher = isin.NewCachedFetcher(fetcher, redisClient.Client, cfg.CacheTTL, log)
	}

	var publisher audit.Publisher = audit.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			fatal(log, "kafka connection failed", err)
		}
		defer kafka.Close()

		inbox := make(chan audit.Event, 256)
		worker := audit.NewWorker(kafka, inbox, log)
		go func() { _ = worker.Run(ctx) }()
		publisher = audit.NewChannelPublisher(inbox)
	}

	service, err := enrichment.NewService(fetcher,
		enrichment.WithStore(store),
		enrichment.WithAuditPublisher(publisher),
		enrichment.WithLogger(log),
		enrichment.WithMetrics(metrics.New()),
		enrichment.WithPoolSize(cfg.PoolSize),
	)
	if err != nil {
		fatal(log, "enrichment service construction failed", err)
	}

	tokens := jwttoken.NewService(cfg.JWTSigningKey, "isinhub")
	h := handler.New(service, store, log)
	router := httpapi.NewRouter(h, tokens, log)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting isinhub",
		"addr", cfg.Addr,
		"pool_size", cfg.PoolSize,
		"directory_url", cfg.DirectoryURL,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
