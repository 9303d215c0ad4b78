package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Connection struct {
	*redis.Client
}

// NewConnection opens a Redis client and verifies connectivity.
func NewConnection(ctx context.Context, addr, password string, db int) (*Connection, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	return &Connection{Client: client}, nil
}

func (c *Connection) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
