package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const DefaultCoinsAPIBaseURL = "http://localhost:3000"

type Config struct {
	// Coins API
	CoinsAPIBaseURL string

	// Page server
	HTTPPort int

	// Fetch layer
	FetchTimeout       time.Duration // 0 = wait forever
	FetchMaxAttempts   int
	FetchRetryBase     time.Duration
	FetchRetryMax      time.Duration
	DedupeInterval     time.Duration
	RevalidateInterval time.Duration // 0 = disabled

	// Alerts
	WebhookURL string
	AlertName  string

	// unparseable env values, reported by Validate
	parseErrs []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		CoinsAPIBaseURL: strings.TrimRight(envStr("COINS_API_BASE_URL", DefaultCoinsAPIBaseURL), "/"),

		WebhookURL: envStr("WEBHOOK_URL", ""),
		AlertName:  envStr("ALERT_NAME", "TrahnPortfolio"),
	}

	cfg.HTTPPort = cfg.envInt("HTTP_PORT", 3001)

	cfg.FetchTimeout = time.Duration(cfg.envInt("FETCH_TIMEOUT_SECONDS", 0)) * time.Second
	cfg.FetchMaxAttempts = cfg.envInt("FETCH_MAX_ATTEMPTS", 3)
	cfg.FetchRetryBase = time.Duration(cfg.envInt("FETCH_RETRY_BASE_MS", 500)) * time.Millisecond
	cfg.FetchRetryMax = time.Duration(cfg.envInt("FETCH_RETRY_MAX_MS", 5000)) * time.Millisecond
	cfg.DedupeInterval = time.Duration(cfg.envInt("DEDUPE_INTERVAL_MS", 2000)) * time.Millisecond
	cfg.RevalidateInterval = time.Duration(cfg.envInt("REVALIDATE_INTERVAL_SECONDS", 0)) * time.Second

	return cfg, nil
}

func (c *Config) Validate() error {
	errs := append([]string(nil), c.parseErrs...)

	u, err := url.Parse(c.CoinsAPIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("COINS_API_BASE_URL must be an absolute http(s) URL, got %q", c.CoinsAPIBaseURL))
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Sprintf("HTTP_PORT out of range: %d", c.HTTPPort))
	}
	if c.FetchMaxAttempts < 1 {
		errs = append(errs, "FETCH_MAX_ATTEMPTS must be at least 1")
	}
	if c.FetchTimeout < 0 {
		errs = append(errs, "FETCH_TIMEOUT_SECONDS must not be negative")
	}
	if c.FetchRetryBase < 0 || c.FetchRetryMax < 0 {
		errs = append(errs, "FETCH_RETRY_BASE_MS and FETCH_RETRY_MAX_MS must not be negative")
	}
	if c.DedupeInterval < 0 {
		errs = append(errs, "DEDUPE_INTERVAL_MS must not be negative")
	}
	if c.WebhookURL != "" {
		if u, err := url.Parse(c.WebhookURL); err != nil || u.Host == "" {
			errs = append(errs, "WEBHOOK_URL must be an absolute URL")
		}
	}
	if c.RevalidateInterval < 0 {
		errs = append(errs, "REVALIDATE_INTERVAL_SECONDS must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Log writes the effective configuration, warning about settings that leave
// a page hanging in its loading state.
func (c *Config) Log(log *zap.SugaredLogger) {
	log.Infow("configuration",
		"coinsApi", c.CoinsAPIBaseURL+"/api/coins",
		"httpPort", c.HTTPPort,
		"fetchTimeout", c.FetchTimeout.String(),
		"fetchMaxAttempts", c.FetchMaxAttempts,
		"dedupeInterval", c.DedupeInterval.String(),
		"revalidate", boolLabel(c.RevalidateInterval > 0, c.RevalidateInterval.String(), "disabled"),
		"alerts", boolLabel(c.WebhookURL != "", "webhook", "log only"),
	)
	if c.FetchTimeout == 0 {
		log.Warn("FETCH_TIMEOUT_SECONDS not set, a stalled coins API keeps pages loading indefinitely")
	}
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt reads an integer, keeping the fallback and recording a parse error
// when the value is not a number.
func (c *Config) envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Sprintf("%s must be an integer, got %q", key, v))
		return fallback
	}
	return n
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
