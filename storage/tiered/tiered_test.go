package tiered

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihaimyh/gopay/pkg/gopay"
	"github.com/mihaimyh/gopay/pkg/gopay/webhook"
	"github.com/mihaimyh/gopay/storage/memory"
)

var _ webhook.EventStore = (*Store)(nil)

// failingStore fails every call with err.
type failingStore struct {
	err     error
	forgets int
}

func (f *failingStore) MarkProcessed(context.Context, gopay.EventID, time.Duration) (bool, error) {
	return false, f.err
}

func (f *failingStore) Forget(context.Context, gopay.EventID) error {
	f.forgets++
	return f.err
}

func TestNew(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store, err := New(Config{Hot: memory.New(), Cold: memory.New()})
		assert.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("nil hot store", func(t *testing.T) {
		store, err := New(Config{Cold: memory.New()})
		assert.Error(t, err)
		assert.Nil(t, store)
		assert.Contains(t, err.Error(), "hot and cold stores are required")
	})

	t.Run("nil cold store", func(t *testing.T) {
		store, err := New(Config{Hot: memory.New()})
		assert.Error(t, err)
		assert.Nil(t, store)
	})
}

func TestStore_MarkProcessed(t *testing.T) {
	ctx := context.Background()

	t.Run("first delivery claims both tiers", func(t *testing.T) {
		hot, cold := memory.New(), memory.New()
		s, err := New(Config{Hot: hot, Cold: cold})
		require.NoError(t, err)

		fresh, err := s.MarkProcessed(ctx, "evt_1", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)
		assert.Equal(t, 1, hot.Len())
		assert.Equal(t, 1, cold.Len())

		fresh, err = s.MarkProcessed(ctx, "evt_1", time.Hour)
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("cold store decides after hot restart", func(t *testing.T) {
		cold := memory.New()
		_, _ = cold.MarkProcessed(ctx, "evt_1", time.Hour)

		s, err := New(Config{Hot: memory.New(), Cold: cold})
		require.NoError(t, err)

		fresh, err := s.MarkProcessed(ctx, "evt_1", time.Hour)
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("hot failure falls through to cold", func(t *testing.T) {
		var handled []error
		cold := memory.New()
		s, err := New(Config{
			Hot:             &failingStore{err: errors.New("hot down")},
			Cold:            cold,
			HotErrorHandler: func(err error) { handled = append(handled, err) },
		})
		require.NoError(t, err)

		fresh, err := s.MarkProcessed(ctx, "evt_1", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)
		assert.Len(t, handled, 1)
		assert.Equal(t, 1, cold.Len())
	})

	t.Run("cold failure releases hot claim", func(t *testing.T) {
		hot := memory.New()
		coldErr := errors.New("cold down")
		s, err := New(Config{Hot: hot, Cold: &failingStore{err: coldErr}})
		require.NoError(t, err)

		fresh, err := s.MarkProcessed(ctx, "evt_1", time.Hour)
		assert.ErrorIs(t, err, coldErr)
		assert.False(t, fresh)
		assert.Zero(t, hot.Len())
	})
}

func TestStore_Forget(t *testing.T) {
	ctx := context.Background()
	hot, cold := memory.New(), memory.New()
	s, err := New(Config{Hot: hot, Cold: cold})
	require.NoError(t, err)

	_, err = s.MarkProcessed(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.Forget(ctx, "evt_1"))
	assert.Zero(t, hot.Len())
	assert.Zero(t, cold.Len())

	failing := &failingStore{err: errors.New("cold down")}
	s, err = New(Config{Hot: hot, Cold: failing})
	require.NoError(t, err)
	assert.Error(t, s.Forget(ctx, "evt_1"))
	assert.Equal(t, 1, failing.forgets)
}
