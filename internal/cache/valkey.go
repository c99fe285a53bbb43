// Package cache provides Valkey (Redis-compatible) client initialization
// and full-page caching for the public essay pages.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// connectTimeout bounds the startup ping. A Valkey that cannot answer
// within it is treated as down rather than slow.
const connectTimeout = 5 * time.Second

// ConnectValkey opens a client against the session and page cache
// store and verifies it answers before the server starts taking
// requests.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	addr := net.JoinHostPort(host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect valkey at %s: %w", addr, err)
	}

	slog.Info("valkey connected", "addr", addr)
	return client, nil
}
