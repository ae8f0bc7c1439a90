// Package cache stores recently generated pickup lines in Redis.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/pickup-line-api/internal/constants"
)

// Connect parses a redis:// URL, creates the client and verifies the
// connection with a ping.
func Connect(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// PickupKey builds the cache key of a generated line:
// pickup:{userID}:{description}:{dirtiness}:{style}.
func PickupKey(userID uuid.UUID, description string, dirtiness int, style string) string {
	return strings.Join([]string{
		constants.PickupCacheKeyPrefix,
		userID.String(),
		description,
		strconv.Itoa(dirtiness),
		style,
	}, ":")
}

// RedisStore writes values with an expiry into Redis.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Store(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// NopStore is used when no cache is configured.
type NopStore struct{}

func (NopStore) Store(context.Context, string, string, time.Duration) error {
	return nil
}
