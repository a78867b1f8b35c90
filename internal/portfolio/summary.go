// Package portfolio turns a coin stats snapshot into the figures shown on
// the summary page: overall gain, gain ratio and a red/green verdict per
// asset.
package portfolio

import (
	"math"

	"github.com/kjannette/trahn-portfolio/internal/models"
	"github.com/shopspring/decimal"
)

type Tone int

const (
	Negative Tone = iota
	Positive
)

func (t Tone) String() string {
	if t == Positive {
		return "positive"
	}
	return "negative"
}

type Indicator int

const (
	Green Indicator = iota
	Red
)

func (i Indicator) String() string {
	if i == Red {
		return "red"
	}
	return "green"
}

// Ratio is TotalHave/TotalSpent in float64, so the displayed percentage
// rounds the same binary value a browser would. It is undefined when nothing
// was spent.
type Ratio struct {
	Value   float64
	Defined bool
}

type AssetIndicator struct {
	Name      string
	Spent     decimal.Decimal
	Coins     decimal.Decimal
	Have      decimal.Decimal
	Indicator Indicator
}

type Summary struct {
	TotalSpent  float64
	TotalHave   float64
	CryptoCount int
	NetGain     float64
	Ratio       Ratio
	Tone        Tone
	Assets      []AssetIndicator
}

// Summarize derives the summary figures. The overall totals are taken from
// the snapshot as reported and combined in float64; per-asset totals are
// recomputed from the purchase list in decimal. An asset without a price is
// valued at zero.
func Summarize(stats *models.CoinStats) Summary {
	spent, have := stats.TotalSpent, stats.TotalHave
	net := have - spent

	s := Summary{
		TotalSpent:  spent,
		TotalHave:   have,
		CryptoCount: stats.Prices.Len(),
		NetGain:     net,
		Tone:        Negative,
	}
	if net > 0 {
		s.Tone = Positive
	}
	if spent != 0 {
		s.Ratio = Ratio{Value: have / spent, Defined: true}
	}

	s.Assets = make([]AssetIndicator, 0, stats.Paids.Len())
	for _, name := range stats.Paids.Keys() {
		paids, _ := stats.Paids.Get(name)
		price, _ := stats.Prices.Get(name)
		s.Assets = append(s.Assets, assetIndicator(name, paids, price))
	}
	return s
}

func assetIndicator(name string, paids []models.PaidEntry, price float64) AssetIndicator {
	a := AssetIndicator{Name: name, Spent: decimal.Zero, Coins: decimal.Zero}
	for _, p := range paids {
		a.Spent = a.Spent.Add(decimal.NewFromFloat(p.AmountUSD))
		a.Coins = a.Coins.Add(decimal.NewFromFloat(p.Amount))
	}
	a.Have = a.Coins.Mul(decimal.NewFromFloat(price))
	if a.Spent.GreaterThan(a.Have) {
		a.Indicator = Red
	}
	return a
}

// Percent is round(ratio*100) on the float64 product, rounding halves
// toward positive infinity. A ratio of 0.285 is 28.499999999999996 once
// scaled, so it rounds to 28. ok is false when the ratio is undefined.
func (s Summary) Percent() (pct int64, ok bool) {
	if !s.Ratio.Defined {
		return 0, false
	}
	return int64(math.Floor(s.Ratio.Value*100 + 0.5)), true
}

// Verb is the word used in the gain sentence.
func (s Summary) Verb() string {
	if s.Tone == Positive {
		return "earned"
	}
	return "lost"
}
