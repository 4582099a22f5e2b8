package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrNotFound is returned when a session value does not exist.
var ErrNotFound = errors.New("session value not found")

type Client struct {
	rdb redis.UniversalClient
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// NewClient wraps an existing go-redis client.
func NewClient(rdb redis.UniversalClient) *Client {
	return &Client{rdb: rdb}
}

// SessionKey is the Redis key holding one field of a visitor's session.
func SessionKey(sessionID, field string) string {
	return "session:" + sessionID + ":" + field
}

func (c *Client) GetSessionValue(ctx context.Context, sessionID, field string) (string, error) {
	val, err := c.rdb.Get(ctx, SessionKey(sessionID, field)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get session value: %w", err)
	}
	return val, nil
}

func (c *Client) SetSessionValue(ctx context.Context, sessionID, field, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, SessionKey(sessionID, field), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session value: %w", err)
	}
	return nil
}

func (c *Client) DeleteSessionValue(ctx context.Context, sessionID, field string) error {
	if err := c.rdb.Del(ctx, SessionKey(sessionID, field)).Err(); err != nil {
		return fmt.Errorf("failed to delete session value: %w", err)
	}
	return nil
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
