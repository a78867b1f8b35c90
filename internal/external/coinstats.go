package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kjannette/trahn-portfolio/internal/httputil"
	"github.com/kjannette/trahn-portfolio/internal/models"
	"go.uber.org/zap"
)

const coinsPath = "/api/coins"

var (
	// ErrFetch covers transport failures and non-2xx responses.
	ErrFetch = errors.New("coin stats fetch failed")
	// ErrDecode means the API answered with a body that is not valid JSON.
	ErrDecode = errors.New("coin stats decode failed")
)

// Fetcher loads the current portfolio snapshot.
type Fetcher interface {
	FetchCoinStats(ctx context.Context) (*models.CoinStats, error)
}

type CoinStatsOptions struct {
	Timeout time.Duration // 0 = no client timeout
	Retry   httputil.RetryConfig
	Logger  *zap.SugaredLogger
}

type CoinStatsClient struct {
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
	log        *zap.SugaredLogger
}

func NewCoinStatsClient(baseURL string, opts CoinStatsOptions) *CoinStatsClient {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	retry := opts.Retry
	if retry.MaxAttempts <= 0 {
		retry = httputil.DefaultRetry
	}
	retry.Logger = log

	return &CoinStatsClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: opts.Timeout},
		retry:      retry,
		log:        log,
	}
}

func (c *CoinStatsClient) URL() string { return c.baseURL + coinsPath }

func (c *CoinStatsClient) FetchCoinStats(ctx context.Context) (*models.CoinStats, error) {
	url := c.URL()
	start := time.Now()

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrFetch, coinsPath, resp.StatusCode)
	}

	var stats models.CoinStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	c.log.Debugw("coin stats fetched",
		"assets", stats.Paids.Len(), "prices", stats.Prices.Len(), "took", time.Since(start).String())
	return &stats, nil
}
