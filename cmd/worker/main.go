package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"asciify/internal/app"
	"asciify/internal/config"
	"asciify/internal/pipeline"
	"asciify/internal/pkg/logger"
	"asciify/internal/pkg/shutdown"
	"asciify/internal/repositories"
	"asciify/internal/storage"
	"asciify/internal/util"
	"asciify/internal/worker"
	"asciify/internal/worker/queue"
)

func main() {
	cfg, err := config.Load()
	log := logger.New(logger.DefaultConfig()).WithComponent("worker")
	if err != nil {
		log.LogFatal("invalid configuration", err)
	}

	ctx := context.Background()
	redisAddr := util.MustEnv("REDIS_ADDR")

	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	var recorder pipeline.Recorder
	if cfg.LedgerEnabled() {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.LogFatal("failed to connect to PostgreSQL", err)
		}
		shutdownMgr.RegisterSimple("postgres", pool.Close)

		repo := repositories.NewInvocationRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.LogFatal("failed to prepare invocation ledger", err)
		}
		recorder = repo
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.LogFatal("failed to ping Redis", err)
	}
	shutdownMgr.Register("redis", func(ctx context.Context) error {
		return rdb.Close()
	})

	source, err := storage.Open(ctx, cfg.Storage, cfg.SourceContainer)
	if err != nil {
		log.LogFatal("failed to open source container", err)
	}

	functions, err := app.Functions(cfg, app.Options{Recorder: recorder, Log: log})
	if err != nil {
		log.LogFatal("failed to build functions", err)
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		log.Info("worker started", "queue", cfg.Queue, "source", cfg.SourceContainer)
		_ = worker.Run(shutdownMgr.Context(), worker.Deps{
			Queue:    queue.NewRedisQueue(rdb, cfg.Queue),
			Source:   source,
			Pipeline: functions[app.FunctionAsciifyUpload],
			Function: app.FunctionAsciifyUpload,
			Log:      log,
		})
	}()
	shutdownMgr.Register("worker", func(ctx context.Context) error {
		select {
		case <-stopped:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	shutdownMgr.Wait()
}
