package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihaimyh/gopay/pkg/gopay"
	"github.com/mihaimyh/gopay/pkg/gopay/webhook"
)

var _ webhook.EventStore = (*Store)(nil)

func TestStore_MarkProcessed(t *testing.T) {
	ctx := context.Background()
	s := New()

	fresh, err := s.MarkProcessed(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = s.MarkProcessed(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.False(t, fresh, "second delivery must be reported as duplicate")

	fresh, err = s.MarkProcessed(ctx, "evt_2", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	s := New()
	s.now = func() time.Time { return now }

	fresh, _ := s.MarkProcessed(ctx, "evt_1", time.Minute)
	require.True(t, fresh)

	now = now.Add(time.Minute)
	fresh, err := s.MarkProcessed(ctx, "evt_1", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh, "expired id must be processed again")
}

func TestStore_Forget(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, _ = s.MarkProcessed(ctx, "evt_1", time.Hour)
	require.NoError(t, s.Forget(ctx, "evt_1"))

	fresh, err := s.MarkProcessed(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)

	assert.NoError(t, s.Forget(ctx, "evt_missing"))
}

func TestStore_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	s := New()
	s.now = func() time.Time { return now }

	for i := 0; i < sweepEvery-1; i++ {
		_, _ = s.MarkProcessed(ctx, gopay.EventID(fmt.Sprintf("evt_old_%d", i)), time.Second)
	}
	require.Equal(t, sweepEvery-1, s.Len())

	now = now.Add(time.Minute)
	_, _ = s.MarkProcessed(ctx, "evt_new", time.Hour)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Clear(t *testing.T) {
	s := New()
	_, _ = s.MarkProcessed(context.Background(), "evt_1", time.Hour)
	s.Clear()
	assert.Zero(t, s.Len())
}

func TestStore_ConcurrentClaims(t *testing.T) {
	ctx := context.Background()
	s := New()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fresh, err := s.MarkProcessed(ctx, "evt_race", time.Hour)
			if err == nil && fresh {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners.Load(), "exactly one delivery may win the claim")
}
