package api

import (
	"fmt"
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Services  healthServices `json:"services"`
}

type healthServices struct {
	CoinsAPI string `json:"coinsApi"`
	Alerts   string `json:"alerts"`
}

// cacheAger is implemented by fetchers that keep the last snapshot around.
type cacheAger interface {
	Age() (time.Duration, bool)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	coins := "uncached"
	if c, ok := s.coins.(cacheAger); ok {
		coins = "empty"
		if age, ok := c.Age(); ok {
			coins = fmt.Sprintf("cached %s ago", age.Truncate(time.Second))
		}
	}

	alerts := "log only"
	if s.alerts != nil && s.alerts.Enabled() {
		alerts = "webhook"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  healthServices{CoinsAPI: coins, Alerts: alerts},
	})
}
