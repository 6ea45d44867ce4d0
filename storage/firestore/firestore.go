// Package firestore provides a Firestore implementation of webhook.EventStore.
// Each claimed event is a document keyed by event id carrying its expiry.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mihaimyh/gopay/pkg/gopay"
)

// Store implements webhook.EventStore using Google Cloud Firestore
type Store struct {
	client     *firestore.Client
	collection string
	now        func() time.Time
}

// Config holds Firestore store configuration
type Config struct {
	// Collection is the Firestore collection for processed events
	// Default: "gopay_webhook_events"
	Collection string
}

// New creates a new Firestore event store
func New(client *firestore.Client, config Config) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client is required")
	}

	if config.Collection == "" {
		config.Collection = "gopay_webhook_events"
	}

	return &Store{
		client:     client,
		collection: config.Collection,
		now:        time.Now,
	}, nil
}

// MarkProcessed implements webhook.EventStore.
// The common case is a single Create; only a conflicting document costs a
// transaction, which reclaims it when its expiry has passed.
func (s *Store) MarkProcessed(ctx context.Context, id gopay.EventID, ttl time.Duration) (bool, error) {
	doc := s.client.Collection(s.collection).Doc(string(id))
	now := s.now()
	data := map[string]interface{}{
		"processedAt": now,
		"expiresAt":   now.Add(ttl),
	}

	_, err := doc.Create(ctx, data)
	if err == nil {
		return true, nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return false, fmt.Errorf("failed to claim event %s: %w", id, err)
	}

	fresh := false
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		fresh = false
		snap, err := tx.Get(doc)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if err == nil && snap.Exists() && now.Before(getTime(snap.Data(), "expiresAt")) {
			return nil
		}
		fresh = true
		return tx.Set(doc, data)
	})
	if err != nil {
		return false, fmt.Errorf("failed to reclaim event %s: %w", id, err)
	}
	return fresh, nil
}

// Forget implements webhook.EventStore
func (s *Store) Forget(ctx context.Context, id gopay.EventID) error {
	_, err := s.client.Collection(s.collection).Doc(string(id)).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to release event %s: %w", id, err)
	}
	return nil
}

// Close closes the Firestore client
func (s *Store) Close() error {
	return s.client.Close()
}

func getTime(data map[string]interface{}, key string) time.Time {
	if v, ok := data[key].(time.Time); ok {
		return v
	}
	return time.Time{}
}
