package external

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kjannette/trahn-portfolio/internal/models"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls atomic.Int32
	gate  chan struct{} // when non-nil, each call waits for a receive
	mu    sync.Mutex
	next  []result
}

type result struct {
	stats *models.CoinStats
	err   error
}

func (f *fakeFetcher) push(stats *models.CoinStats, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next = append(f.next, result{stats, err})
}

func (f *fakeFetcher) FetchCoinStats(ctx context.Context) (*models.CoinStats, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.next) == 0 {
		return nil, errors.New("no fixture queued")
	}
	r := f.next[0]
	f.next = f.next[1:]
	return r.stats, r.err
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestCache(f Fetcher) (*CachedFetcher, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCachedFetcher(f, 2*time.Second, nil)
	c.now = clock.now
	return c, clock
}

func TestCachedFetcher_FreshValueServedWithoutRefetch(t *testing.T) {
	f := &fakeFetcher{}
	first := &models.CoinStats{TotalSpent: 1}
	f.push(first, nil)
	c, clock := newTestCache(f)

	got, err := c.FetchCoinStats(context.Background())
	require.NoError(t, err)
	require.Same(t, first, got)

	clock.advance(time.Second)
	got, err = c.FetchCoinStats(context.Background())
	require.NoError(t, err)
	require.Same(t, first, got)
	require.EqualValues(t, 1, f.calls.Load())

	age, ok := c.Age()
	require.True(t, ok)
	require.Equal(t, time.Second, age)
}

func TestCachedFetcher_StaleValueServedThenRevalidated(t *testing.T) {
	f := &fakeFetcher{}
	first := &models.CoinStats{TotalSpent: 1}
	second := &models.CoinStats{TotalSpent: 2}
	f.push(first, nil)
	f.push(second, nil)
	c, clock := newTestCache(f)

	_, err := c.FetchCoinStats(context.Background())
	require.NoError(t, err)

	clock.advance(5 * time.Second)
	got, err := c.FetchCoinStats(context.Background())
	require.NoError(t, err)
	require.Same(t, first, got, "stale value is returned immediately")

	require.Eventually(t, func() bool {
		got, _ := c.FetchCoinStats(context.Background())
		return got == second
	}, time.Second, 5*time.Millisecond)
}

func TestCachedFetcher_ErrorsAreNotCached(t *testing.T) {
	f := &fakeFetcher{}
	boom := errors.New("boom")
	ok := &models.CoinStats{TotalSpent: 3}
	f.push(nil, boom)
	f.push(ok, nil)
	c, _ := newTestCache(f)

	_, err := c.FetchCoinStats(context.Background())
	require.ErrorIs(t, err, boom)
	_, cached := c.Age()
	require.False(t, cached)

	got, err := c.FetchCoinStats(context.Background())
	require.NoError(t, err)
	require.Same(t, ok, got)
}

func TestCachedFetcher_ConcurrentMissesShareOneRequest(t *testing.T) {
	f := &fakeFetcher{gate: make(chan struct{})}
	stats := &models.CoinStats{TotalSpent: 4}
	f.push(stats, nil)
	c, _ := newTestCache(f)

	const n = 5
	var wg sync.WaitGroup
	results := make([]*models.CoinStats, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = c.FetchCoinStats(context.Background())
		}()
	}

	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(f.gate)
	wg.Wait()

	require.EqualValues(t, 1, f.calls.Load())
	for _, r := range results {
		require.Same(t, stats, r)
	}
}

func TestCachedFetcher_CallerCancellation(t *testing.T) {
	f := &fakeFetcher{gate: make(chan struct{})}
	t.Cleanup(func() { close(f.gate) })
	c, _ := newTestCache(f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchCoinStats(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCachedFetcher_CancelledCallerDoesNotFailJoinedCallers(t *testing.T) {
	f := &fakeFetcher{gate: make(chan struct{})}
	stats := &models.CoinStats{TotalSpent: 6}
	f.push(stats, nil)
	c, _ := newTestCache(f)

	first, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.FetchCoinStats(first)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)

	type outcome struct {
		stats *models.CoinStats
		err   error
	}
	second := make(chan outcome, 1)
	go func() {
		got, err := c.FetchCoinStats(context.Background())
		second <- outcome{got, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(f.gate)
	res := <-second
	require.NoError(t, res.err)
	require.Same(t, stats, res.stats)
	require.EqualValues(t, 1, f.calls.Load())

	_, cached := c.Age()
	require.True(t, cached, "the shared fetch completes and is cached")
}

func TestCachedFetcher_Refresh(t *testing.T) {
	f := &fakeFetcher{}
	f.push(&models.CoinStats{TotalSpent: 5}, nil)
	c, _ := newTestCache(f)

	require.NoError(t, c.Refresh(context.Background()))
	age, ok := c.Age()
	require.True(t, ok)
	require.Zero(t, age)
}
