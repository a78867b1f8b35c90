package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Refresher is anything whose cached coin stats can be refreshed on demand.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type RevalidatorConfig struct {
	Interval time.Duration
	Timeout  time.Duration // per refresh, defaults to 90s
	OnError  func(err error)
}

// Revalidator keeps a cache warm by refreshing it on a fixed interval, so a
// page mount rarely has to wait on the coins API.
type Revalidator struct {
	target Refresher
	cfg    RevalidatorConfig
	log    *zap.SugaredLogger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewRevalidator(target Refresher, cfg RevalidatorConfig, log *zap.SugaredLogger) *Revalidator {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Revalidator{target: target, cfg: cfg, log: log}
}

func (r *Revalidator) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		r.log.Info("already running")
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	stopCh, doneCh := r.stopCh, r.doneCh
	r.mu.Unlock()

	go func() {
		defer close(doneCh)

		r.refresh()

		ticker := time.NewTicker(r.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				r.refresh()
			}
		}
	}()

	r.log.Infow("started", "interval", r.cfg.Interval.String())
}

// Stop halts the ticker and waits for an in-progress refresh to return.
func (r *Revalidator) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	close(r.stopCh)
	r.running = false
	doneCh := r.doneCh
	r.mu.Unlock()

	<-doneCh
	r.log.Info("stopped")
}

func (r *Revalidator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Revalidator) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Timeout)
	defer cancel()

	if err := r.target.Refresh(ctx); err != nil {
		r.log.Warnw("refresh failed", "error", err)
		if r.cfg.OnError != nil {
			r.cfg.OnError(err)
		}
		return
	}
	r.log.Debug("coin stats refreshed")
}
