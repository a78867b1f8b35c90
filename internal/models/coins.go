package models

// PaidEntry is one purchase of an asset as reported by the coins API.
type PaidEntry struct {
	Name      string  `json:"name"`
	Date      string  `json:"date"` // free-form, not validated
	AmountUSD float64 `json:"amountUsd"`
	Amount    float64 `json:"amount"`
}

// CoinStats is the snapshot served by GET /api/coins.
type CoinStats struct {
	Prices     Ordered[float64]     `json:"prices"`
	USDPrice   float64              `json:"usdPrice"`
	TotalHave  float64              `json:"totalHave"`
	TotalSpent float64              `json:"totalSpent"`
	Paids      Ordered[[]PaidEntry] `json:"paids"`
}
