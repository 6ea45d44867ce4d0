// Package redis provides a Redis implementation of webhook.EventStore.
// Claims are a single SET NX with expiry, so concurrent deliveries of the same
// event across instances race on one key and only one wins.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mihaimyh/gopay/pkg/gopay"
)

// Store implements webhook.EventStore using Redis
type Store struct {
	client redis.UniversalClient
	config Config
	now    func() time.Time
}

// Config holds Redis store configuration
type Config struct {
	// KeyPrefix is prepended to all Redis keys (default: "gopay:webhook:")
	KeyPrefix string

	// MinTTL is the lowest TTL ever set on a key (default: 1s). Redis rejects
	// zero expirations, and a non-expiring key would never be reclaimed.
	MinTTL time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		KeyPrefix: "gopay:webhook:",
		MinTTL:    time.Second,
	}
}

// New creates a new Redis event store.
// The client can be *redis.Client, *redis.ClusterClient, or *redis.Ring
func New(client redis.UniversalClient, config Config) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	if config.KeyPrefix == "" {
		config.KeyPrefix = "gopay:webhook:"
	}
	if config.MinTTL <= 0 {
		config.MinTTL = time.Second
	}

	return &Store{client: client, config: config, now: time.Now}, nil
}

// MarkProcessed implements webhook.EventStore
func (s *Store) MarkProcessed(ctx context.Context, id gopay.EventID, ttl time.Duration) (bool, error) {
	if ttl < s.config.MinTTL {
		ttl = s.config.MinTTL
	}
	processedAt := strconv.FormatInt(s.now().Unix(), 10)
	fresh, err := s.client.SetNX(ctx, s.key(id), processedAt, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim event %s: %w", id, err)
	}
	return fresh, nil
}

// Forget implements webhook.EventStore
func (s *Store) Forget(ctx context.Context, id gopay.EventID) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to release event %s: %w", id, err)
	}
	return nil
}

// ProcessedAt returns when id was claimed, or the zero time when it is not
// currently claimed.
func (s *Store) ProcessedAt(ctx context.Context, id gopay.EventID) (time.Time, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read event %s: %w", id, err)
	}
	unix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt claim for event %s: %w", id, err)
	}
	return time.Unix(unix, 0), nil
}

// Ping checks the connection to Redis
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(id gopay.EventID) string {
	return s.config.KeyPrefix + string(id)
}
