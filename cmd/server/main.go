package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kjannette/trahn-portfolio/internal/api"
	"github.com/kjannette/trahn-portfolio/internal/config"
	"github.com/kjannette/trahn-portfolio/internal/external"
	"github.com/kjannette/trahn-portfolio/internal/httputil"
	"github.com/kjannette/trahn-portfolio/internal/logger"
	"github.com/kjannette/trahn-portfolio/internal/notifications"
	"github.com/kjannette/trahn-portfolio/internal/scheduler"
	"github.com/kjannette/trahn-portfolio/internal/view"
	"go.uber.org/zap"
)

const banner = `
╔══════════════════════════════════════╗
║       TRAHN Portfolio Summary        ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	log := logger.New()
	defer log.Sync()
	zap.ReplaceGlobals(log.Desugar())

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("config load error", "error", err)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Log(log)

	// Coins API, wrapped in the stale-while-revalidate cache
	client := external.NewCoinStatsClient(cfg.CoinsAPIBaseURL, external.CoinStatsOptions{
		Timeout: cfg.FetchTimeout,
		Retry: httputil.RetryConfig{
			MaxAttempts: cfg.FetchMaxAttempts,
			BaseDelay:   cfg.FetchRetryBase,
			MaxDelay:    cfg.FetchRetryMax,
		},
		Logger: log.Named("coins"),
	})
	coins := external.NewCachedFetcher(client, cfg.DedupeInterval, log.Named("coins"))

	// Alerts
	notify := notifications.NewSender(cfg.WebhookURL, cfg.AlertName, log.Named("alerts"))

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Page server
	srv := api.NewServer(coins, api.Options{
		Port:      cfg.HTTPPort,
		Stopwatch: view.NewStopwatch(nil),
		Alerts:    notify,
		Logger:    log.Named("api"),
	})
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("page server error", "error", err)
		}
	}()

	// 2. Background revalidation (optional)
	var reval *scheduler.Revalidator
	if cfg.RevalidateInterval > 0 {
		reval = scheduler.NewRevalidator(coins, scheduler.RevalidatorConfig{
			Interval: cfg.RevalidateInterval,
			OnError: func(err error) {
				notify.Send(ctx, fmt.Sprintf("coins API refresh failed: %v", err))
			},
		}, log.Named("revalidator"))
		reval.Start()
	} else {
		log.Info("background revalidation disabled")
	}

	log.Info("all services started")

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info("shutting down gracefully")

	if reval != nil {
		reval.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnw("page server shutdown error", "error", err)
	}
	log.Info("shutdown complete")
}
