// Package redis is an optional pub/sub publisher for ingestion run events.
// When REDIS_ENABLED is false the rest of the system simply runs without one.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eed-project/eedx/pkg/utils"
)

// Channel carries ingestion run lifecycle events.
const Channel = "eedx:ingest"

// Client wraps a Redis connection used for run-event notifications.
type Client struct {
	client *redis.Client
	logger *zap.Logger
}

// NewClient connects using REDIS_HOST / REDIS_PORT / REDIS_PASSWORD / REDIS_DB.
func NewClient(ctx context.Context, logger *zap.Logger) (*Client, error) {
	addr := fmt.Sprintf("%s:%s", utils.Env("REDIS_HOST", "localhost"), utils.Env("REDIS_PORT", "6379"))

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     utils.Env("REDIS_PASSWORD", ""),
		DB:           utils.EnvInt("REDIS_DB", 0),
		PoolSize:     5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	logger.Info("redis connected", zap.String("addr", addr))
	return &Client{client: rdb, logger: logger}, nil
}

// PublishEvent publishes a JSON-encoded event on the ingest channel. Publish
// failures are logged, not propagated: events are informational.
func (c *Client) PublishEvent(ctx context.Context, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		c.logger.Warn("marshal run event", zap.Error(err))
		return
	}
	if err := c.client.Publish(ctx, Channel, payload).Err(); err != nil {
		c.logger.Warn("publish run event", zap.Error(err))
	}
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.client.Close()
}
