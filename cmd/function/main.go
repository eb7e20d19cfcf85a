package main

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"asciify/internal/app"
	"asciify/internal/config"
	"asciify/internal/httpapi"
	"asciify/internal/httpapi/handlers"
	"asciify/internal/metrics"
	"asciify/internal/pipeline"
	"asciify/internal/pkg/logger"
	"asciify/internal/pkg/shutdown"
	"asciify/internal/repositories"
)

func main() {
	cfg, err := config.Load()
	log := logger.New(logger.DefaultConfig())
	if err != nil {
		log.LogFatal("invalid configuration", err)
	}

	log.Info("starting asciify custom handler",
		"provider", cfg.Storage.Provider,
		"container", cfg.Storage.Container,
		"fit", string(cfg.ASCII.Fit),
		"width", cfg.ASCII.Width,
		"height", cfg.ASCII.Height,
	)

	ctx := context.Background()
	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	var (
		pool     *pgxpool.Pool
		ledger   handlers.Ledger
		recorder pipeline.Recorder
	)
	if cfg.LedgerEnabled() {
		log.Info("connecting to PostgreSQL")
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.LogFatal("failed to connect to PostgreSQL", err)
		}
		shutdownMgr.RegisterSimple("postgres", pool.Close)

		repo := repositories.NewInvocationRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.LogFatal("failed to prepare invocation ledger", err)
		}
		ledger, recorder = repo, repo
		log.Info("invocation ledger enabled")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		shutdownMgr.Register("redis", func(ctx context.Context) error {
			return rdb.Close()
		})
	}

	m := metrics.New()
	functions, err := app.Functions(cfg, app.Options{Recorder: recorder, Metrics: m, Log: log})
	if err != nil {
		log.LogFatal("failed to build functions", err)
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Handlers: handlers.Deps{
			Functions: functions,
			Ledger:    ledger,
			Pool:      pool,
			RDB:       rdb,
			Storage:   cfg.Storage,
		},
		Metrics: m,
		Log:     log,
	})

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: httpapi.DefaultTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	serveCtx, serveFailed := context.WithCancel(ctx)
	defer serveFailed()
	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", "error", err.Error())
			serveFailed()
		}
	}()

	shutdownMgr.WaitWithContext(serveCtx)
}
