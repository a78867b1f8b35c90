package external

import (
	"context"
	"sync"
	"time"

	"github.com/kjannette/trahn-portfolio/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const cacheKey = "coin-stats"

// sharedFetchTimeout bounds an upstream fetch, which runs detached from any
// single caller so that one cancellation cannot fail the others joined on it.
const sharedFetchTimeout = 90 * time.Second

// CachedFetcher serves stale-while-revalidate: a value younger than the
// dedupe interval is returned as-is, an older one is returned immediately
// while a background fetch refreshes it. Concurrent misses share a single
// upstream request. Errors are never cached.
type CachedFetcher struct {
	next   Fetcher
	dedupe time.Duration
	log    *zap.SugaredLogger
	now    func() time.Time
	group  singleflight.Group

	mu        sync.Mutex
	cached    *models.CoinStats
	lastFetch time.Time
}

func NewCachedFetcher(next Fetcher, dedupe time.Duration, log *zap.SugaredLogger) *CachedFetcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &CachedFetcher{
		next:   next,
		dedupe: dedupe,
		log:    log,
		now:    time.Now,
	}
}

func (c *CachedFetcher) FetchCoinStats(ctx context.Context) (*models.CoinStats, error) {
	c.mu.Lock()
	cached, age := c.cached, c.now().Sub(c.lastFetch)
	c.mu.Unlock()

	if cached == nil {
		return c.fetch(ctx)
	}
	if age >= c.dedupe {
		c.log.Debugw("serving stale coin stats, revalidating", "age", age.String())
		go func() {
			if _, err := c.fetch(context.Background()); err != nil {
				c.log.Warnw("background revalidation failed", "error", err)
			}
		}()
	}
	return cached, nil
}

// Refresh bypasses the cache and stores the new value on success.
func (c *CachedFetcher) Refresh(ctx context.Context) error {
	_, err := c.fetch(ctx)
	return err
}

// Age reports how old the cached value is, and false when nothing is cached.
func (c *CachedFetcher) Age() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached == nil {
		return 0, false
	}
	return c.now().Sub(c.lastFetch), true
}

func (c *CachedFetcher) fetch(ctx context.Context) (*models.CoinStats, error) {
	ch := c.group.DoChan(cacheKey, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		stats, err := c.next.FetchCoinStats(shared)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cached = stats
		c.lastFetch = c.now()
		c.mu.Unlock()
		return stats, nil
	})

	// Leaving early abandons only this caller's wait.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.CoinStats), nil
	}
}
