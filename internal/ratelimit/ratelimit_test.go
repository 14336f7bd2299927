package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitEnforcesMinimumInterval(t *testing.T) {
	limiter := New(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, limiter.Wait(ctx, "espn"))
	require.NoError(t, limiter.Wait(ctx, "espn"))
	require.NoError(t, limiter.Wait(ctx, "espn"))

	// Two enforced gaps after the first free call.
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestFirstCallDoesNotWait(t *testing.T) {
	limiter := New(time.Second)

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background(), "espn"))
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestDifferentKeysDoNotBlockEachOther(t *testing.T) {
	limiter := New(150 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, "espn"))

	// A different key should proceed immediately even though "espn" is hot.
	start := time.Now()
	require.NoError(t, limiter.Wait(ctx, "sportsdata"))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRegisterOverridesInterval(t *testing.T) {
	limiter := New(500 * time.Millisecond)
	limiter.Register("pfr", 20*time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, limiter.Wait(ctx, "pfr"))
	require.NoError(t, limiter.Wait(ctx, "pfr"))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	assert.Less(t, elapsed, 400*time.Millisecond)
}

func TestWaitHonorsCancellation(t *testing.T) {
	limiter := New(5 * time.Second)
	require.NoError(t, limiter.Wait(context.Background(), "espn"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, "espn")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConcurrentCallersSameKeySerialize(t *testing.T) {
	limiter := New(30 * time.Millisecond)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var stamps []time.Time

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, limiter.Wait(ctx, "espn"))
			mu.Lock()
			stamps = append(stamps, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, stamps, 4)

	// Order of arrival is not guaranteed, but no two permitted calls may be
	// closer together than the interval (minus scheduler jitter).
	for i := range stamps {
		for j := i + 1; j < len(stamps); j++ {
			gap := stamps[j].Sub(stamps[i])
			if gap < 0 {
				gap = -gap
			}
			assert.GreaterOrEqual(t, gap, 25*time.Millisecond)
		}
	}
}
