package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN          string `env:"DATABASE_DSN,required=true"`
	RabbitMQURL          string `env:"RABBITMQ_URL,required=true"`
	RedisURL             string `env:"REDIS_URL,required=true"`
	PushGatewayURL       string `env:"PUSH_GATEWAY_URL,required=true"`
	AdminRateLimitPerSec int    `env:"ADMIN_RATE_LIMIT_PER_SEC,default=20"`
	PushRateLimitPerSec  int    `env:"PUSH_RATE_LIMIT_PER_SEC,default=100"`
	WorkerConcurrency    int    `env:"WORKER_CONCURRENCY,default=8"`
	WorkerPrefetch       int    `env:"WORKER_PREFETCH,default=16"`
	PushMaxAttempts      int    `env:"PUSH_MAX_ATTEMPTS,default=5"`
	APIPort              int    `env:"API_PORT,default=8080"`
	LogLevel             string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
