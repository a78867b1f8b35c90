package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"COINS_API_BASE_URL", "HTTP_PORT", "FETCH_TIMEOUT_SECONDS", "FETCH_MAX_ATTEMPTS",
		"FETCH_RETRY_BASE_MS", "FETCH_RETRY_MAX_MS", "DEDUPE_INTERVAL_MS", "REVALIDATE_INTERVAL_SECONDS",
		"WEBHOOK_URL", "ALERT_NAME",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultCoinsAPIBaseURL, cfg.CoinsAPIBaseURL)
	require.Equal(t, 3001, cfg.HTTPPort)
	require.Equal(t, time.Duration(0), cfg.FetchTimeout)
	require.Equal(t, 3, cfg.FetchMaxAttempts)
	require.Equal(t, 2*time.Second, cfg.DedupeInterval)
	require.Equal(t, time.Duration(0), cfg.RevalidateInterval)
	require.Empty(t, cfg.WebhookURL)
	require.Equal(t, "TrahnPortfolio", cfg.AlertName)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("COINS_API_BASE_URL", "http://coins.internal:8080/")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "15")
	t.Setenv("REVALIDATE_INTERVAL_SECONDS", "60")
	t.Setenv("FETCH_MAX_ATTEMPTS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://coins.internal:8080", cfg.CoinsAPIBaseURL)
	require.Equal(t, 9000, cfg.HTTPPort)
	require.Equal(t, 15*time.Second, cfg.FetchTimeout)
	require.Equal(t, time.Minute, cfg.RevalidateInterval)
	require.Equal(t, 3, cfg.FetchMaxAttempts, "unparseable values fall back to the default")
	require.ErrorContains(t, cfg.Validate(), `FETCH_MAX_ATTEMPTS must be an integer, got "not-a-number"`)
}

func TestValidate_ReportsUnparseableValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "abc")
	t.Setenv("DEDUPE_INTERVAL_MS", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3001, cfg.HTTPPort)

	err = cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), `HTTP_PORT must be an integer, got "abc"`)
	require.Contains(t, err.Error(), `DEDUPE_INTERVAL_MS must be an integer, got "2s"`)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		CoinsAPIBaseURL:  "localhost:3000",
		HTTPPort:         0,
		FetchMaxAttempts: 0,
		FetchTimeout:     -time.Second,
		WebhookURL:       "not a url",
	}

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "COINS_API_BASE_URL")
	require.Contains(t, err.Error(), "HTTP_PORT")
	require.Contains(t, err.Error(), "FETCH_MAX_ATTEMPTS")
	require.Contains(t, err.Error(), "FETCH_TIMEOUT_SECONDS")
	require.Contains(t, err.Error(), "WEBHOOK_URL")
}

func TestValidate_AcceptsHTTPS(t *testing.T) {
	cfg := &Config{CoinsAPIBaseURL: "https://example.com", HTTPPort: 443, FetchMaxAttempts: 1}
	require.NoError(t, cfg.Validate())
}
