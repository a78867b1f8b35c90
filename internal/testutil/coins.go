package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kjannette/trahn-portfolio/internal/models"
)

// Holding is a compact description of one asset for building fixtures.
type Holding struct {
	Name  string
	Price float64
	Paids []models.PaidEntry
}

// Paid builds a purchase entry for the named asset.
func Paid(name string, amountUSD, amount float64) models.PaidEntry {
	return models.PaidEntry{Name: name, Date: "2021-05-01", AmountUSD: amountUSD, Amount: amount}
}

// Stats builds a CoinStats snapshot whose keys follow the order of holdings.
func Stats(totalSpent, totalHave float64, holdings ...Holding) *models.CoinStats {
	s := &models.CoinStats{TotalSpent: totalSpent, TotalHave: totalHave, USDPrice: 1}
	for _, h := range holdings {
		s.Prices.Set(h.Name, h.Price)
		s.Paids.Set(h.Name, h.Paids)
	}
	return s
}

// CoinsAPI is a fixture of the coins API backed by httptest.
type CoinsAPI struct {
	*httptest.Server
	Hits atomic.Int32
}

// ServeStats starts a coins API that answers /api/coins with stats.
func ServeStats(t *testing.T, stats *models.CoinStats) *CoinsAPI {
	t.Helper()
	body, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return ServeRaw(t, http.StatusOK, string(body))
}

// ServeRaw starts a coins API that answers /api/coins with a fixed status and
// body, and 404 for any other path.
func ServeRaw(t *testing.T, status int, body string) *CoinsAPI {
	t.Helper()
	api := &CoinsAPI{}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/coins" || r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		api.Hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(api.Close)
	return api
}
