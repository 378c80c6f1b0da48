package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"legalis-admin/internal/config"
	"legalis-admin/internal/infra/postgresql"
	infraredis "legalis-admin/internal/infra/redis"
	"legalis-admin/internal/observability"
	"legalis-admin/internal/provider"
	"legalis-admin/internal/queue"
	"legalis-admin/internal/repository"
	"legalis-admin/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("rabbitmq initialization failed", zap.Error(err))
	}
	defer rabbit.Close()

	limiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.PushRateLimitPerSec)
	if err != nil {
		logger.Fatal("rate limiter initialization failed", zap.Error(err))
	}

	pushProvider, err := provider.NewPushGatewayProvider(cfg.PushGatewayURL)
	if err != nil {
		logger.Fatal("push provider initialization failed", zap.Error(err))
	}

	consumer := queue.NewRabbitMQConsumer(rabbit, cfg.WorkerPrefetch, logger)

	pushService, err := service.NewPushService(
		repository.NewGormNotificationRepo(db),
		consumer,
		pushProvider,
		limiter,
		cfg.WorkerConcurrency,
		cfg.PushMaxAttempts,
		logger,
	)
	if err != nil {
		logger.Fatal("push service initialization failed", zap.Error(err))
	}
	pushService.SetMetrics(observability.NewMetrics())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("legalis-admin push worker started",
		zap.Int("concurrency", cfg.WorkerConcurrency),
		zap.Int("prefetch", cfg.WorkerPrefetch),
	)

	if err := pushService.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("push worker stopped with error", zap.Error(err))
	}

	logger.Info("push worker stopped")
}
