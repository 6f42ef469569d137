package statement

import "github.com/shopspring/decimal"

// Quantity represents an exact number of shares or units of a security.
// Statements routinely carry fractional share counts (savings plans, crypto),
// so the value is an arbitrary-precision decimal, never a float.
type Quantity struct {
	value decimal.Decimal
}

// Q returns the Quantity for the given decimal value.
func Q(value decimal.Decimal) Quantity { return Quantity{value: value} }

// QFromInt returns the Quantity for a whole number of shares.
func QFromInt(n int64) Quantity { return Quantity{value: decimal.NewFromInt(n)} }

func (q Quantity) Equal(p Quantity) bool    { return q.value.Equal(p.value) }
func (q Quantity) LessThan(p Quantity) bool { return q.value.LessThan(p.value) }
func (q Quantity) IsZero() bool             { return q.value.IsZero() }
func (q Quantity) IsPositive() bool         { return q.value.IsPositive() }
func (q Quantity) IsNegative() bool         { return q.value.IsNegative() }

func (q Quantity) Add(p Quantity) Quantity { return Quantity{value: q.value.Add(p.value)} }
func (q Quantity) Sub(p Quantity) Quantity { return Quantity{value: q.value.Sub(p.value)} }

// Decimal returns the underlying decimal value.
func (q Quantity) Decimal() decimal.Decimal { return q.value }

func (q Quantity) String() string { return q.value.String() }

func (q Quantity) MarshalJSON() ([]byte, error)  { return q.value.MarshalJSON() }
func (q *Quantity) UnmarshalJSON(b []byte) error { return q.value.UnmarshalJSON(b) }
