// Package cache keeps short-lived publish status snapshots in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/postflow-studio/internal/service"
	"github.com/redis/go-redis/v9"
)

const (
	StatusSnapshotTTL = 24 * time.Hour
	statusKeyPrefix   = "postflow:status:"
)

type StatusCache interface {
	GetStatus(ctx context.Context, postID string) (*service.PublishDisplay, error)
	SetStatus(ctx context.Context, display service.PublishDisplay) error
}

// NewRedisClient accepts either host:port or a redis:// URL.
func NewRedisClient(addr string) (*redis.Client, error) {
	if strings.Contains(addr, "://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: addr}), nil
}

type redisStatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusCache returns a cache backed by client. A nil client yields a
// cache that never hits and drops writes.
func NewStatusCache(client *redis.Client) StatusCache {
	return &redisStatusCache{client: client, ttl: StatusSnapshotTTL}
}

func statusKey(postID string) string {
	return statusKeyPrefix + postID
}

// GetStatus returns (nil, nil) on a miss.
func (c *redisStatusCache) GetStatus(ctx context.Context, postID string) (*service.PublishDisplay, error) {
	if c.client == nil || postID == "" {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, statusKey(postID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	var display service.PublishDisplay
	if err := json.Unmarshal(raw, &display); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error decoding status snapshot: %w", err)
	}
	return &display, nil
}

func (c *redisStatusCache) SetStatus(ctx context.Context, display service.PublishDisplay) error {
	if c.client == nil {
		return nil
	}
	if display.PostID == "" {
		return errors.New("status snapshot has no post id")
	}

	b, err := json.Marshal(display)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, statusKey(display.PostID), b, c.ttl).Err(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
