package view

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/kjannette/trahn-portfolio/internal/external"
	"github.com/kjannette/trahn-portfolio/internal/models"
	"github.com/kjannette/trahn-portfolio/internal/portfolio"
	"go.uber.org/zap"
)

type State int

const (
	Loading State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "loading"
	}
}

var ErrNotMounted = errors.New("view not mounted")

// SummaryView is one mount of the portfolio summary. It owns exactly one
// fetch: Loading until the fetch resolves, then Ready or Failed for good.
type SummaryView struct {
	ID uuid.UUID

	fetcher external.Fetcher
	log     *zap.SugaredLogger

	mu      sync.Mutex
	state   State
	summary portfolio.Summary
	err     error
	mounted bool
	done    chan struct{}
}

func NewSummaryView(fetcher external.Fetcher, log *zap.SugaredLogger) *SummaryView {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	id := uuid.New()
	return &SummaryView{
		ID:      id,
		fetcher: fetcher,
		log:     log.With("mount", id.String()),
		done:    make(chan struct{}),
	}
}

// Mount starts the fetch and returns immediately. Cancelling ctx unmounts
// the view: a result that arrives afterwards is dropped and the view stays
// in whatever state it had. Mounting twice is a no-op.
func (v *SummaryView) Mount(ctx context.Context) {
	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return
	}
	v.mounted = true
	v.mu.Unlock()

	go func() {
		defer close(v.done)

		stats, err := v.fetcher.FetchCoinStats(ctx)
		if ctx.Err() != nil {
			v.log.Debugw("unmounted before fetch resolved", "error", ctx.Err())
			return
		}
		v.resolve(stats, err)
	}()
}

func (v *SummaryView) resolve(stats *models.CoinStats, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.state, v.err = Failed, err
		v.log.Warnw("coin stats unavailable", "error", err)
		return
	}
	v.state, v.summary = Ready, portfolio.Summarize(stats)
	v.log.Debugw("summary ready", "assets", len(v.summary.Assets))
}

func (v *SummaryView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *SummaryView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Done is closed once the mount's fetch has returned, whether or not its
// result was applied.
func (v *SummaryView) Done() <-chan struct{} { return v.done }

// Wait blocks until the fetch returns or ctx ends, and reports the state.
func (v *SummaryView) Wait(ctx context.Context) (State, error) {
	v.mu.Lock()
	mounted := v.mounted
	v.mu.Unlock()
	if !mounted {
		return Loading, ErrNotMounted
	}

	select {
	case <-v.done:
		return v.State(), nil
	case <-ctx.Done():
		return v.State(), ctx.Err()
	}
}

// Render writes the HTML fragment for the current state.
func (v *SummaryView) Render(w io.Writer) error {
	v.mu.Lock()
	state, summary := v.state, v.summary
	v.mu.Unlock()

	switch state {
	case Ready:
		return templates.ExecuteTemplate(w, "ready", newReadyData(summary))
	case Failed:
		return templates.ExecuteTemplate(w, "failed", nil)
	default:
		return templates.ExecuteTemplate(w, "loading", nil)
	}
}
