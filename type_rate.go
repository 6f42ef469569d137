package statement

import (
	"github.com/shopspring/decimal"
)

// ExchangeRate is a conversion rate between two currencies at a point in time.
// The value is quoted as the number of Quote units per one Base unit: a rate
// of {Base: "USD", Quote: "EUR", value: 0.9} converts 13.00 USD into 11.70 EUR.
type ExchangeRate struct {
	value decimal.Decimal
	base  string // currency being converted
	quote string // currency of the result
	day   Date
}

// NewExchangeRate returns the rate converting one base unit into value quote units.
func NewExchangeRate(value decimal.Decimal, base, quote string, day Date) ExchangeRate {
	return ExchangeRate{value: value, base: base, quote: quote, day: day}
}

// Value returns the rate value (quote units per base unit).
func (r ExchangeRate) Value() decimal.Decimal { return r.value }

// Base returns the currency the rate converts from.
func (r ExchangeRate) Base() string { return r.base }

// Quote returns the currency the rate converts to.
func (r ExchangeRate) Quote() string { return r.quote }

// Day returns the date the rate was observed.
func (r ExchangeRate) Day() Date { return r.day }

// Inverse returns the rate converting in the opposite direction.
func (r ExchangeRate) Inverse() ExchangeRate {
	return ExchangeRate{
		value: decimal.New(1, 0).Div(r.value),
		base:  r.quote,
		quote: r.base,
		day:   r.day,
	}
}

// Convert converts m, denominated in the base currency, into the quote
// currency, rounding half-up to the quote currency's minor unit. This is the
// single place where rounding happens in the kernel.
func (r ExchangeRate) Convert(m Money) (Money, error) {
	if m.Currency() != "" && m.Currency() != r.base {
		return Money{}, &CurrencyMismatchError{Left: m.Currency(), Right: r.base}
	}
	major := decimal.New(m.Amount(), -minorDigits(r.base))
	minor := major.Mul(r.value).Shift(minorDigits(r.quote)).Round(0)
	return M(minor.IntPart(), r.quote), nil
}

// MarshalJSON writes the rate as {"rate": <value>, "base": ..., "quote": ...}.
func (r ExchangeRate) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("rate", r.value)
	w.Append("base", r.base)
	w.Append("quote", r.quote)
	if !r.day.IsZero() {
		w.Append("day", r.day)
	}
	return w.MarshalJSON()
}
