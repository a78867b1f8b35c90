package portfolio

import (
	"math"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// NoRatio is shown in place of the percentage when nothing was spent.
const NoRatio = "n/a"

// exactDigits is enough fractional digits to hold a float64 amount without
// creating a false tie at the cents position.
const exactDigits = 30

// FormatUSD renders an amount as en-US currency, e.g. "$1,234.50". Cents
// are rounded half away from zero on the exact binary value, so 1.005
// (stored as 1.00499999...) shows as "$1.00".
func FormatUSD(amount float64) string {
	exact, err := decimal.NewFromString(strconv.FormatFloat(amount, 'f', exactDigits, 64))
	if err != nil {
		return strconv.FormatFloat(amount, 'f', 2, 64)
	}
	cents := exact.Round(2).Shift(2).IntPart()
	return money.New(cents, money.USD).Display()
}

// FormatPercent renders the gain ratio as a whole percentage, e.g. "150%".
func FormatPercent(s Summary) string {
	pct, ok := s.Percent()
	if !ok {
		return NoRatio
	}
	return strconv.FormatInt(pct, 10) + "%"
}

// GainText is the absolute net gain as currency; the sign is carried by
// the verb and the tone.
func GainText(s Summary) string {
	return FormatUSD(math.Abs(s.NetGain))
}
