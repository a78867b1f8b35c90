package api

import (
	"net/http"

	"github.com/kjannette/trahn-portfolio/internal/logger"
	"github.com/kjannette/trahn-portfolio/internal/view"
)

const summaryTitle = "Portfolio"

// handleSummary mounts a fresh summary view and streams it: the loading
// indicator goes out first, the final fragment follows once the fetch
// resolves. A client that disconnects unmounts the view.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	rc := http.NewResponseController(w)

	v := view.NewSummaryView(s.coins, log.Named("view"))
	v.Mount(ctx)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Mount-ID", v.ID.String())
	w.WriteHeader(http.StatusOK)

	if err := view.WriteHead(w, summaryTitle); err != nil {
		log.Warnw("write head", "error", err)
		return
	}
	if err := view.WriteLoading(w); err != nil {
		log.Warnw("write loading", "error", err)
		return
	}
	if err := rc.Flush(); err != nil {
		log.Debugw("flush unsupported", "error", err)
	}

	if _, err := v.Wait(ctx); err != nil {
		log.Debugw("client left before summary resolved", "error", err)
		return
	}

	if err := view.WriteResolved(w); err != nil {
		return
	}
	if err := v.Render(w); err != nil {
		log.Warnw("render summary", "error", err, "state", v.State().String())
		return
	}
	view.WriteTail(w)
}

func (s *Server) handleStopwatch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if err := view.WriteHead(w, "Stopwatch"); err != nil {
		return
	}
	if err := s.stopwatch.Render(w); err != nil {
		logger.FromContext(r.Context()).Warnw("render stopwatch", "error", err)
		return
	}
	view.WriteTail(w)
}
