package statement

import (
	"fmt"
)

// UnitKind tags the role of a Unit within a transaction total.
type UnitKind string

const (
	// GrossValue is the value of the transaction before taxes and fees.
	GrossValue UnitKind = "gross-value"
	// Tax is a tax sub-amount. Several tax units may stack on one
	// transaction (withholding tax plus solidarity surcharge, for example).
	Tax UnitKind = "tax"
	// Fee is a fee or commission sub-amount. Fee units may stack as well.
	Fee UnitKind = "fee"
)

// Unit is one sub-amount of a transaction total: the gross value, a tax, or a
// fee, expressed in the transaction's booking currency. When the statement
// quotes the original amount in a foreign currency, the unit additionally
// carries that forex amount and the exchange rate that reconciles the two.
type Unit struct {
	kind   UnitKind
	amount Money
	forex  *Money
	rate   *ExchangeRate
}

// NewUnit returns a plain unit without a forex sub-amount.
func NewUnit(kind UnitKind, amount Money) Unit {
	return Unit{kind: kind, amount: amount}
}

// NewForexUnit returns a unit carrying the original foreign-currency amount
// and the rate converting it into the booking currency. The three quantities
// must reconcile: converting forex at the given rate must land within one
// minor unit of amount, the slack a single half-up rounding can introduce.
// Anything larger is a reporting error on the statement and is rejected.
func NewForexUnit(kind UnitKind, amount, forex Money, rate ExchangeRate) (Unit, error) {
	if forex.Currency() == amount.Currency() {
		return Unit{}, fmt.Errorf("forex unit: foreign amount is already in booking currency %s", amount.Currency())
	}
	converted, err := rate.Convert(forex)
	if err != nil {
		return Unit{}, fmt.Errorf("forex unit: %w", err)
	}
	if converted.Currency() != amount.Currency() {
		return Unit{}, &CurrencyMismatchError{Left: converted.Currency(), Right: amount.Currency()}
	}
	if diff := converted.Amount() - amount.Amount(); diff > 1 || diff < -1 {
		return Unit{}, fmt.Errorf("forex unit: %s at rate %s is %s, out of tolerance with declared %s",
			forex, rate.Value(), converted, amount)
	}
	return Unit{kind: kind, amount: amount, forex: &forex, rate: &rate}, nil
}

// Kind returns the role of the unit.
func (u Unit) Kind() UnitKind { return u.kind }

// Amount returns the sub-amount in the booking currency.
func (u Unit) Amount() Money { return u.amount }

// Forex returns the original foreign-currency amount, if any.
func (u Unit) Forex() (Money, bool) {
	if u.forex == nil {
		return Money{}, false
	}
	return *u.forex, true
}

// Rate returns the exchange rate attached to the forex amount, if any.
func (u Unit) Rate() (ExchangeRate, bool) {
	if u.rate == nil {
		return ExchangeRate{}, false
	}
	return *u.rate, true
}

func (u Unit) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", string(u.kind))
	w.EmbedFrom(u.amount)
	if u.forex != nil {
		w.PrefixFrom("forex", *u.forex)
	}
	if u.rate != nil {
		w.Append("rate", u.rate.Value())
	}
	return w.MarshalJSON()
}

// sumOf adds up all unit amounts of the given kind, in the given currency.
// Units of other kinds are ignored. A unit amount in a different currency is
// a *CurrencyMismatchError.
func sumOf(units []Unit, kind UnitKind, currency string) (Money, error) {
	sum := M(0, currency)
	for _, u := range units {
		if u.kind != kind {
			continue
		}
		if u.amount.Currency() != currency {
			return Money{}, &CurrencyMismatchError{Left: u.amount.Currency(), Right: currency}
		}
		sum = sum.Add(u.amount)
	}
	return sum, nil
}

// Recompose computes the transaction total from its gross value and its
// tax/fee units. The sign convention is fixed by the caller's transaction
// type: cost-increasing types (a purchase) add taxes and fees on top of the
// gross value, all others (sale, dividend, interest) deduct them.
func Recompose(gross Money, units []Unit, costIncreasing bool) (Money, error) {
	taxes, err := sumOf(units, Tax, gross.Currency())
	if err != nil {
		return Money{}, err
	}
	fees, err := sumOf(units, Fee, gross.Currency())
	if err != nil {
		return Money{}, err
	}
	if costIncreasing {
		return gross.Add(taxes).Add(fees), nil
	}
	return gross.Sub(taxes).Sub(fees), nil
}

// Decompose is the inverse of Recompose: it derives the gross value from the
// transaction total and its tax/fee units, under the same sign convention.
func Decompose(total Money, units []Unit, costIncreasing bool) (Money, error) {
	taxes, err := sumOf(units, Tax, total.Currency())
	if err != nil {
		return Money{}, err
	}
	fees, err := sumOf(units, Fee, total.Currency())
	if err != nil {
		return Money{}, err
	}
	if costIncreasing {
		return total.Sub(taxes).Sub(fees), nil
	}
	return total.Add(taxes).Add(fees), nil
}
