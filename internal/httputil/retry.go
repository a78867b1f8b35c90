package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Logger      *zap.SugaredLogger
}

var DefaultRetry = RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	MaxDelay:    5 * time.Second,
}

// Delay returns the wait before the given retry (1-based), doubling from
// BaseDelay and capped at MaxDelay.
func (c RetryConfig) Delay(retry int) time.Duration {
	d := c.BaseDelay
	for i := 1; i < retry; i++ {
		d *= 2
		if c.MaxDelay > 0 && d >= c.MaxDelay {
			return c.MaxDelay
		}
	}
	if c.MaxDelay > 0 && d > c.MaxDelay {
		return c.MaxDelay
	}
	return d
}

// Do sends the request built by buildReq, retrying transport errors and 5xx
// responses with exponential backoff. buildReq is called once per attempt.
// A 4xx response is returned to the caller as-is.
func Do(ctx context.Context, client *http.Client, cfg RetryConfig, buildReq func() (*http.Request, error)) (*http.Response, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultRetry.MaxAttempts
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	for attempt := 1; ; attempt++ {
		req, err := buildReq()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := send(client, req)
		if err == nil {
			return resp, nil
		}
		if attempt == cfg.MaxAttempts {
			return nil, fmt.Errorf("all %d attempts failed, last error: %w", cfg.MaxAttempts, err)
		}

		delay := cfg.Delay(attempt)
		log.With("url", req.URL.Redacted(), "attempt", attempt).
			Warnw("request failed, retrying", "delay", delay.String(), "error", err)
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// send performs one attempt. A 5xx response is drained, closed and turned
// into an error so the caller retries it like a transport failure.
func send(client *http.Client, req *http.Request) (*http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusInternalServerError {
		return resp, nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
