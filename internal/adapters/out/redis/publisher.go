// Package redis delivers committed fulfillment changes to subscribers over
// Redis pub/sub: one channel for dispatchers, one per production team and one
// per order for customer tracking.
package redis

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher implements ports.EventPublisher on a Redis client.
type Publisher struct {
	client   goredis.UniversalClient
	channels Channels
	progress services.ProgressCalculator
	logger   *zap.Logger
}

// NewClient connects to Redis and verifies the connection with PING.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return client, nil
}

// NewPublisher creates a publisher writing to channels under prefix.
func NewPublisher(client goredis.UniversalClient, prefix string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		client:   client,
		channels: Channels{Prefix: prefix},
		progress: services.NewProgressCalculator(),
		logger:   logger.With(zap.String("component", "redis_publisher")),
	}
}

// Publish sends every message of the event. A failed channel does not stop the
// others; all failures are returned joined.
func (p *Publisher) Publish(ctx context.Context, e order.FulfillmentChanged) error {
	messages, err := BuildMessages(p.channels, e, p.progress)
	if err != nil {
		return fmt.Errorf("render change of order %s: %w", e.OrderNumber, err)
	}

	var failures []error
	for _, m := range messages {
		if pubErr := p.client.Publish(ctx, m.Channel, m.Payload).Err(); pubErr != nil {
			failures = append(failures, fmt.Errorf("publish to %s: %w", m.Channel, pubErr))
			continue
		}
		p.logger.Debug("change published",
			zap.String("channel", m.Channel),
			zap.String("order_number", e.OrderNumber.String()),
			zap.String("kind", string(e.Kind)),
		)
	}
	return errors.Join(failures...)
}
