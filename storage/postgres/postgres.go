// Package postgres provides a PostgreSQL implementation of webhook.EventStore.
// Claims are an upsert that only overwrites a row whose claim has expired, so
// the row count of one statement decides which delivery wins.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mihaimyh/gopay/pkg/gopay"
)

// Schema creates the table the store uses. New runs it when
// Config.AutoMigrate is set.
const Schema = `CREATE TABLE IF NOT EXISTS webhook_events (
	event_id     TEXT PRIMARY KEY,
	processed_at TIMESTAMPTZ NOT NULL,
	expires_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS webhook_events_expires_at_idx ON webhook_events (expires_at);`

// Store implements webhook.EventStore using PostgreSQL
type Store struct {
	pool   *pgxpool.Pool
	config Config
	now    func() time.Time

	// stopCleanup cancels the background cleanup goroutine
	stopCleanup func()
}

// Config holds PostgreSQL store configuration
type Config struct {
	// ConnectionString is the PostgreSQL connection string
	ConnectionString string

	// Pool configuration
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// AutoMigrate creates the webhook_events table on start
	AutoMigrate bool

	// Cleanup configuration
	CleanupEnabled  bool
	CleanupInterval time.Duration // How often expired claims are deleted
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
		AutoMigrate:     true,
		CleanupEnabled:  true,
		CleanupInterval: time.Hour,
	}
}

// New creates a new PostgreSQL event store
func New(ctx context.Context, config Config) (*Store, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required")
	}

	poolConfig, err := pgxpool.ParseConfig(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}
	if config.MinConns > 0 {
		poolConfig.MinConns = config.MinConns
	}
	if config.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = config.MaxConnLifetime
	}
	if config.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = config.MaxConnIdleTime
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = time.Hour
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if config.AutoMigrate {
		if _, err := pool.Exec(ctx, Schema); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	cleanupCtx, cancel := context.WithCancel(context.Background())
	s := &Store{
		pool:        pool,
		config:      config,
		now:         time.Now,
		stopCleanup: cancel,
	}

	if config.CleanupEnabled {
		go s.startCleanup(cleanupCtx)
	}

	return s, nil
}

// Close stops background cleanup and closes the connection pool
func (s *Store) Close() {
	if s.stopCleanup != nil {
		s.stopCleanup()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

// MarkProcessed implements webhook.EventStore
func (s *Store) MarkProcessed(ctx context.Context, id gopay.EventID, ttl time.Duration) (bool, error) {
	now := s.now().UTC()
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO webhook_events (event_id, processed_at, expires_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (event_id) DO UPDATE
				SET processed_at = EXCLUDED.processed_at, expires_at = EXCLUDED.expires_at
				WHERE webhook_events.expires_at <= EXCLUDED.processed_at`,
		string(id), now, now.Add(ttl))
	if err != nil {
		return false, fmt.Errorf("failed to claim event %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Forget implements webhook.EventStore
func (s *Store) Forget(ctx context.Context, id gopay.EventID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM webhook_events WHERE event_id = $1`, string(id)); err != nil {
		return fmt.Errorf("failed to release event %s: %w", id, err)
	}
	return nil
}

// startCleanup runs periodic cleanup of expired claims until ctx is canceled
func (s *Store) startCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A failed sweep is retried on the next tick; claims stay correct
			// because MarkProcessed compares expires_at itself.
			_, _ = s.Cleanup(ctx)
		}
	}
}

// Cleanup deletes expired claims and returns how many rows it removed
func (s *Store) Cleanup(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM webhook_events WHERE expires_at <= $1`, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup webhook events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Ping checks the PostgreSQL connection
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
