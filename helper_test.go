package statement

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	apple  = SecurityID{ISIN: "US0378331005", Ticker: "AAPL"}
	google = SecurityID{ISIN: "US38259P5089", WKN: "A0B7FY", Ticker: "GOOG"}
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(int64(math.Round(v*100)), "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(int64(math.Round(v*100)), "USD") }

// JPY is a helper for test to create yen money from const, a zero-decimal currency
func JPY(v int64) Money { return M(v, "JPY") }

// shares is a helper for test to create share quantities from const
func shares(v float64) Quantity { return Q(decimal.NewFromFloat(v)) }

// rate is a helper for test to create exchange rates from const
func rate(v float64, base, quote string) ExchangeRate {
	return NewExchangeRate(decimal.NewFromFloat(v), base, quote, NewDate(2025, 5, 15))
}
