package statement

import (
	"errors"
	"strings"
	"testing"
)

func TestConvert(t *testing.T) {
	usdeur := rate(0.9, "USD", "EUR")

	got, err := usdeur.Convert(USD(13.00))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(EUR(11.70)) {
		t.Errorf("13.00 USD at 0.9 = %v, want 11.70 EUR", got)
	}

	// half rounds away from zero: 0.05 USD * 0.9 = 0.045 EUR -> 0.05 EUR
	got, err = usdeur.Convert(USD(0.05))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(EUR(0.05)) {
		t.Errorf("0.05 USD at 0.9 = %v, want 0.05 EUR", got)
	}

	if _, err := usdeur.Convert(EUR(1)); err == nil {
		t.Error("converting EUR with a USD-based rate did not fail")
	}
}

func TestConvertMinorDigits(t *testing.T) {
	// 1000 JPY at 0.0062 EUR/JPY: the base has no minor digits, the quote two.
	jpyeur := rate(0.0062, "JPY", "EUR")
	got, err := jpyeur.Convert(JPY(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(EUR(6.20)) {
		t.Errorf("1000 JPY at 0.0062 = %v, want 6.20 EUR", got)
	}
}

func TestInverse(t *testing.T) {
	inv := rate(0.9, "USD", "EUR").Inverse()
	if inv.Base() != "EUR" || inv.Quote() != "USD" {
		t.Fatalf("inverse converts %s->%s, want EUR->USD", inv.Base(), inv.Quote())
	}
	got, err := inv.Convert(EUR(11.70))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(USD(13.00)) {
		t.Errorf("11.70 EUR back at inverse rate = %v, want 13.00 USD", got)
	}
}

func TestNewForexUnit(t *testing.T) {
	usdeur := rate(0.9, "USD", "EUR")

	u, err := NewForexUnit(GrossValue, EUR(11.70), USD(13.00), usdeur)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f, ok := u.Forex(); !ok || !f.Equal(USD(13.00)) {
		t.Errorf("forex = %v, want 13.00 USD", f)
	}

	// one minor unit off is the statement's own rounding, accepted
	if _, err := NewForexUnit(GrossValue, EUR(11.71), USD(13.00), usdeur); err != nil {
		t.Errorf("one cent of rounding slack rejected: %v", err)
	}
	// two minor units off is a reporting error
	if _, err := NewForexUnit(GrossValue, EUR(11.72), USD(13.00), usdeur); err == nil {
		t.Error("two cents off was accepted")
	}
	// forex in the booking currency makes no sense
	if _, err := NewForexUnit(GrossValue, EUR(11.70), EUR(13.00), usdeur); err == nil {
		t.Error("forex in booking currency was accepted")
	}
}

func TestRecompose(t *testing.T) {
	units := []Unit{
		NewUnit(GrossValue, EUR(489.72)),
		NewUnit(Fee, EUR(1.95)),
	}

	// purchase: taxes and fees add to the gross value
	total, err := Recompose(EUR(489.72), units, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(EUR(491.67)) {
		t.Errorf("buy total = %v, want 491.67 EUR", total)
	}

	// sale: they reduce the proceeds
	total, err = Recompose(EUR(489.72), units, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(EUR(487.77)) {
		t.Errorf("sell total = %v, want 487.77 EUR", total)
	}
}

func TestRecomposeStackedTaxes(t *testing.T) {
	// withholding tax plus solidarity surcharge on one dividend
	units := []Unit{
		NewUnit(GrossValue, EUR(100.00)),
		NewUnit(Tax, EUR(25.00)),
		NewUnit(Tax, EUR(1.38)),
		NewUnit(Fee, EUR(0.50)),
	}
	total, err := Recompose(EUR(100.00), units, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(EUR(73.12)) {
		t.Errorf("dividend total = %v, want 73.12 EUR", total)
	}
}

func TestDecompose(t *testing.T) {
	units := []Unit{
		NewUnit(Tax, EUR(25.00)),
		NewUnit(Fee, EUR(0.50)),
	}
	gross, err := Decompose(EUR(74.50), units, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gross.Equal(EUR(100.00)) {
		t.Errorf("gross = %v, want 100.00 EUR", gross)
	}

	// Decompose and Recompose are inverses
	total, err := Recompose(gross, append(units, NewUnit(GrossValue, gross)), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(EUR(74.50)) {
		t.Errorf("recomposed total = %v, want 74.50 EUR", total)
	}
}

func TestRecomposeMixedCurrency(t *testing.T) {
	units := []Unit{
		NewUnit(GrossValue, EUR(100.00)),
		NewUnit(Tax, USD(25.00)),
	}
	_, err := Recompose(EUR(100.00), units, false)
	var mismatch *CurrencyMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("got %v, want a *CurrencyMismatchError", err)
	}
	if !strings.Contains(mismatch.Error(), "USD") {
		t.Errorf("error %q does not name the offending currency", mismatch)
	}
}
