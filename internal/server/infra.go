package server

import (
	"context"
	"fmt"

	"budgettracker/internal/config"
	"budgettracker/internal/events"
	"budgettracker/internal/lock"
	"budgettracker/internal/logger"
)

const lockPrefix = "budgettracker:lock:"

// OpenLocker returns the Redis locker when REDIS_ADDR is set and an
// in-process one otherwise. The returned close func is never nil.
func OpenLocker(ctx context.Context, cfg *config.Config) (lock.Locker, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Get().Info("REDIS_ADDR not set, recurring locks are process-local")
		return lock.NewLocalLocker(), func() {}, nil
	}
	client, err := lock.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Get().Warnw("redis close error", "error", err)
		}
	}
	return lock.NewRedisLocker(client, lockPrefix), closeFn, nil
}

// OpenPublisher returns the AMQP publisher when AMQP_URL is set and a no-op
// publisher otherwise. The returned close func is never nil.
func OpenPublisher(cfg *config.Config) (events.Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		return events.Nop{}, func() {}, nil
	}
	pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}
	logger.Get().Infow("Publishing domain events", "exchange", cfg.AMQPExchange)
	closeFn := func() {
		if err := pub.Close(); err != nil {
			logger.Get().Warnw("AMQP close error", "error", err)
		}
	}
	return pub, closeFn, nil
}
