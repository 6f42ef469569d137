package statement

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value as an exact count of minor currency units
// (cents, pence, ...) together with its ISO-4217 currency code. All arithmetic
// is integer arithmetic; there is no floating point anywhere in the kernel.
type Money struct {
	amount int64 // count of minor units
	cur    string
}

// M returns the Money of 'amount' minor units in the given currency.
func M(amount int64, currency string) Money {
	return Money{amount: amount, cur: currency}
}

// currency returns the full go-money currency metadata, falling back to a
// generic 2-digit currency for unknown codes.
func (m Money) currency() money.Currency {
	// calling the money.Money constructor is the only way to get a never-nil currency.
	return *money.New(0, m.cur).Currency()
}

// minorDigits returns the number of minor-unit digits of a currency code
// (2 for EUR, 0 for JPY, ...).
func minorDigits(currency string) int32 {
	return int32((*money.New(0, currency).Currency()).Fraction)
}

// Amount returns the value as a count of minor units.
func (m Money) Amount() int64 { return m.amount }

// Currency returns the ISO currency code.
func (m Money) Currency() string { return m.cur }

func (m Money) IsZero() bool     { return m.amount == 0 }
func (m Money) IsPositive() bool { return m.amount > 0 }
func (m Money) IsNegative() bool { return m.amount < 0 }

func (m Money) Equal(n Money) bool       { return m.amount == n.amount && m.cur == n.cur }
func (m Money) LessThan(n Money) bool    { return m.amount < n.amount }
func (m Money) GreaterThan(n Money) bool { return m.amount > n.amount }

func (m Money) Neg() Money { return Money{amount: -m.amount, cur: m.cur} }

// Add returns m+n. Mixing two different currencies is a bookkeeping
// impossibility and panics with a *CurrencyMismatchError; the scanning engine
// turns such a panic into a failure of the single block being processed.
func (m Money) Add(n Money) Money { return Money{amount: m.amount + n.amount, cur: cur(m, n)} }

// Sub returns m-n, with the same currency rules as Add.
func (m Money) Sub(n Money) Money { return Money{amount: m.amount - n.amount, cur: cur(m, n)} }

// Mul returns the money multiplied by a share quantity, rounded half-up to the
// minor unit.
func (m Money) Mul(q Quantity) Money {
	v := decimal.New(m.amount, 0).Mul(q.value).Round(0)
	return Money{amount: v.IntPart(), cur: m.cur}
}

// cur makes the "" currency totally weak: it can combine with anything.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic(&CurrencyMismatchError{Left: a.cur, Right: b.cur})
	}
	return a.cur
}

// String returns the human readable representation, formatted with the
// currency's own conventions (symbol, grouping, minor digits).
func (m Money) String() string {
	c := m.currency()
	return c.Formatter().Format(m.amount)
}

// MarshalJSON writes the value as {"amount": <minor units>, "currency": <code>}.
func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("amount", m.amount)
	w.Optional("currency", m.cur)
	return w.MarshalJSON()
}

// CurrencyMismatchError reports an attempt to combine or compare two amounts
// of different currencies without an exchange rate.
type CurrencyMismatchError struct {
	Left, Right string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch: %s != %s", e.Left, e.Right)
}
