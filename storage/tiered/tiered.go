// Package tiered provides a Hot/Cold webhook.EventStore that answers repeat
// deliveries from fast ephemeral storage (Hot) while durable storage (Cold)
// stays the source of truth for first deliveries.
package tiered

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mihaimyh/gopay/pkg/gopay"
	"github.com/mihaimyh/gopay/pkg/gopay/webhook"
)

// Config configures the tiered store behavior
type Config struct {
	// Hot is the L1 store (e.g., Redis, Memory) consulted first
	Hot webhook.EventStore

	// Cold is the L2 store (e.g., Postgres, Firestore) and the source of truth
	Cold webhook.EventStore

	// HotErrorHandler is called when the hot store fails. Hot failures never
	// fail a claim; the cold store decides alone.
	HotErrorHandler func(error)
}

// Store implements a Hot/Cold tiered event store:
// - Claim: Hot first; a duplicate there ends the claim, otherwise Cold decides
// - Release: Cold then Hot, so a redelivery is never blocked by a stale Hot claim
type Store struct {
	hot  webhook.EventStore
	cold webhook.EventStore
	conf Config
}

// New creates a new tiered event store.
func New(config Config) (*Store, error) {
	if config.Hot == nil || config.Cold == nil {
		return nil, errors.New("tiered store: both hot and cold stores are required")
	}
	return &Store{hot: config.Hot, cold: config.Cold, conf: config}, nil
}

// MarkProcessed implements webhook.EventStore
func (s *Store) MarkProcessed(ctx context.Context, id gopay.EventID, ttl time.Duration) (bool, error) {
	hotFresh, err := s.hot.MarkProcessed(ctx, id, ttl)
	switch {
	case err != nil:
		s.hotFailed(fmt.Errorf("tiered hot claim failed: %w", err))
	case !hotFresh:
		return false, nil
	}

	fresh, err := s.cold.MarkProcessed(ctx, id, ttl)
	if err != nil {
		// Undo the hot claim so a retried delivery reaches the cold store again.
		if hotFresh {
			if ferr := s.hot.Forget(ctx, id); ferr != nil {
				s.hotFailed(fmt.Errorf("tiered hot release failed: %w", ferr))
			}
		}
		return false, err
	}
	return fresh, nil
}

// Forget implements webhook.EventStore
func (s *Store) Forget(ctx context.Context, id gopay.EventID) error {
	coldErr := s.cold.Forget(ctx, id)
	hotErr := s.hot.Forget(ctx, id)
	return errors.Join(coldErr, hotErr)
}

func (s *Store) hotFailed(err error) {
	if s.conf.HotErrorHandler != nil {
		s.conf.HotErrorHandler(err)
	}
}
