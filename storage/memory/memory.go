// Package memory provides an in-memory webhook.EventStore.
// It suits tests and single-instance deployments; processed ids are lost on
// restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mihaimyh/gopay/pkg/gopay"
)

// Store remembers processed event ids until their TTL expires.
type Store struct {
	mu     sync.Mutex
	events map[gopay.EventID]time.Time
	writes int
	now    func() time.Time
}

// sweepEvery is the number of writes between expiry sweeps.
const sweepEvery = 256

// New creates an empty store.
func New() *Store {
	return &Store{
		events: make(map[gopay.EventID]time.Time),
		now:    time.Now,
	}
}

// MarkProcessed implements webhook.EventStore
func (s *Store) MarkProcessed(_ context.Context, id gopay.EventID, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiresAt, ok := s.events[id]; ok && now.Before(expiresAt) {
		return false, nil
	}
	s.events[id] = now.Add(ttl)

	s.writes++
	if s.writes%sweepEvery == 0 {
		s.sweep(now)
	}
	return true, nil
}

// Forget implements webhook.EventStore
func (s *Store) Forget(_ context.Context, id gopay.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, id)
	return nil
}

// Len returns the number of remembered ids, expired ones included until the
// next sweep.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Clear removes every id.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[gopay.EventID]time.Time)
}

func (s *Store) sweep(now time.Time) {
	for id, expiresAt := range s.events {
		if !now.Before(expiresAt) {
			delete(s.events, id)
		}
	}
}
