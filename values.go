package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Values carries the attributes a section captured out of a block, together
// with the position of the block for error reporting. The typed accessors
// panic with a *MalformedFieldError on a missing or unparseable field; the
// panic fails the enclosing block only.
type Values struct {
	m         map[string]string
	filename  string
	startLine int
	endLine   int
}

// Has reports whether the named attribute was captured.
func (v Values) Has(name string) bool {
	_, ok := v.m[name]
	return ok
}

// Text returns the raw captured attribute, or "" when absent.
func (v Values) Text(name string) string { return v.m[name] }

// Currency returns the named attribute as a validated ISO 4217 code.
func (v Values) Currency(name string) string {
	c := strings.ToUpper(strings.TrimSpace(v.get(name)))
	if err := ValidateCurrency(c); err != nil {
		v.fail(name, err.Error())
	}
	return c
}

// Amount returns the named attribute as a monetary amount in the given
// currency, parsed with locale heuristics (see ParseDecimal) and rounded
// half away from zero to the currency's minor unit.
func (v Values) Amount(name, currency string) Money {
	d, err := ParseDecimal(v.get(name))
	if err != nil {
		v.fail(name, err.Error())
	}
	minor := d.Shift(minorDigits(currency)).Round(0)
	return M(minor.IntPart(), currency)
}

// Shares returns the named attribute as a quantity.
func (v Values) Shares(name string) Quantity {
	d, err := ParseDecimal(v.get(name))
	if err != nil {
		v.fail(name, err.Error())
	}
	return Q(d)
}

// Rate returns the named attribute as an exact decimal, for exchange rates.
// Unlike Amount, a lone separator is always the decimal mark: "2,345" is a
// rate of 2.345, never two thousand.
func (v Values) Rate(name string) decimal.Decimal {
	d, err := parseNumber(v.get(name), false)
	if err != nil {
		v.fail(name, err.Error())
	}
	return d
}

// Date returns the named attribute as a civil date. The formats statements
// commonly use are accepted: "02.01.2006", "2006-01-02" and "02/01/2006".
func (v Values) Date(name string) Date {
	s := strings.TrimSpace(v.get(name))
	for _, layout := range []string{"02.01.2006", DateFormat, "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), t.Month(), t.Day())
		}
	}
	v.fail(name, fmt.Sprintf("%q is not a date", s))
	return Date{}
}

func (v Values) get(name string) string {
	s, ok := v.m[name]
	if !ok {
		v.fail(name, "attribute was not captured")
	}
	return s
}

func (v Values) fail(name, reason string) {
	panic(&MalformedFieldError{Filename: v.filename, StartLine: v.startLine, EndLine: v.endLine,
		Reason: fmt.Sprintf("field %q: %s", name, reason)})
}

// ParseDecimal parses a number written in any of the statement locales:
// "1.234,56" (comma decimals), "1,234.56" (point decimals), "1'234.56"
// (apostrophe grouping) and the plain "1234.56". When both separators
// appear, the last one is the decimal mark. A single separator followed by
// exactly three digits is read as a thousands separator.
func ParseDecimal(s string) (decimal.Decimal, error) {
	return parseNumber(s, true)
}

// parseNumber does the locale work. When grouping is false a lone separator
// is read as the decimal mark; repeated separators still group.
func parseNumber(s string, grouping bool) (decimal.Decimal, error) {
	t := strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(t, "-") {
		negative = true
		t = t[1:]
	} else if strings.HasSuffix(t, "-") {
		negative = true
		t = t[:len(t)-1]
	}

	// Apostrophes, narrow spaces and plain spaces only ever group digits.
	t = strings.NewReplacer("'", "", " ", "", " ", "", " ", "").Replace(t)

	lastPoint := strings.LastIndexByte(t, '.')
	lastComma := strings.LastIndexByte(t, ',')

	var group, dec byte
	switch {
	case lastPoint >= 0 && lastComma >= 0:
		if lastComma > lastPoint {
			group, dec = '.', ','
		} else {
			group, dec = ',', '.'
		}
	case lastComma >= 0:
		group, dec = 0, ','
		if strings.Count(t, ",") > 1 || (grouping && isGrouping(t, lastComma)) {
			group, dec = ',', 0
		}
	case lastPoint >= 0:
		group, dec = 0, '.'
		if strings.Count(t, ".") > 1 || (grouping && isGrouping(t, lastPoint)) {
			group, dec = '.', 0
		}
	}

	if group != 0 {
		t = strings.ReplaceAll(t, string(group), "")
	}
	if dec != 0 && dec != '.' {
		t = strings.Replace(t, string(dec), ".", 1)
	}
	if t == "" {
		return decimal.Decimal{}, fmt.Errorf("%q is not a number", s)
	}

	if strings.ContainsAny(t, ",'") {
		return decimal.Decimal{}, fmt.Errorf("%q is not a number", s)
	}
	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%q is not a number", s)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// isGrouping reports whether the single separator at position i looks like
// a thousands separator: exactly three digits follow it and a plausible
// leading group precedes it. "46.000" groups, "0.125" does not.
func isGrouping(t string, i int) bool {
	return len(t)-i == 4 && i >= 1 && i <= 3 && t[0] != '0'
}
