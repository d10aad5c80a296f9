// Package cache owns the redis connection backing console sessions.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// New connects to redis at addr and verifies the connection with a ping.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := ping(ctx, client, pingTimeout); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("platform/cache: %w", err)
	}
	return client, nil
}

// Checker probes redis for the health endpoint.
type Checker struct {
	client  *redis.Client
	timeout time.Duration
}

// NewChecker builds a Checker with a short probe timeout.
func NewChecker(client *redis.Client) *Checker {
	return &Checker{client: client, timeout: time.Second}
}

// Name labels the dependency in health reports.
func (c *Checker) Name() string {
	return "redis"
}

// Check pings redis.
func (c *Checker) Check(ctx context.Context) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("platform/cache: no client")
	}
	return ping(ctx, c.client, c.timeout)
}

func ping(ctx context.Context, client *redis.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
