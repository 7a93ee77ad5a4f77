package infra

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucket_FirstAcquireIsImmediate(t *testing.T) {
	b := NewTokenBucket(time.Hour, 1)

	start := time.Now()
	require.NoError(t, b.Acquire(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestTokenBucket_LowBurstBlocksSecondAcquire(t *testing.T) {
	b := NewTokenBucket(time.Hour, 1)
	require.NoError(t, b.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, b.Acquire(ctx), "expected second Acquire to fail (burst=1, interval=1h)")
}

func TestTokenBucket_SpreadsConcurrentCallers(t *testing.T) {
	const (
		n        = 4
		interval = 40 * time.Millisecond
	)
	b := NewTokenBucket(interval, 1)

	var (
		mu   sync.Mutex
		done []time.Time
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := b.Acquire(context.Background()); err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			mu.Lock()
			done = append(done, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, done, n)
	sort.Slice(done, func(i, j int) bool { return done[i].Before(done[j]) })
	span := done[n-1].Sub(done[0])
	// folga pequena: o primeiro registro acontece um instante depois do token inicial
	assert.GreaterOrEqual(t, span, time.Duration(n-1)*interval-5*time.Millisecond)
}

func TestTokenBucket_Defaults(t *testing.T) {
	b := NewTokenBucket(DefaultRateInterval, 0)
	assert.Equal(t, 5*time.Second, b.Interval())
	assert.Equal(t, 1, b.Burst())
}

func TestNoopLimiter(t *testing.T) {
	assert.NoError(t, NoopLimiter{}.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NoopLimiter{}.Acquire(ctx), context.Canceled)
}
