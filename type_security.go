package statement

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// isinRegex checks for the basic structure: 2 letters, 9 alphanumeric, 1 digit.
var isinRegex = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// wknRegex checks for the German WKN format: 6 alphanumeric characters.
var wknRegex = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// currencyCodeRegex checks for the format: 3 uppercase letters.
var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// SecurityID is the identity of an instrument as mentioned on a statement.
// All fields are optional, but at least one must be set for the instrument to
// be resolvable against the registry.
type SecurityID struct {
	ISIN   string
	WKN    string
	Ticker string
}

// IsEmpty reports whether no identifier is present at all.
func (id SecurityID) IsEmpty() bool {
	return id.ISIN == "" && id.WKN == "" && id.Ticker == ""
}

func (id SecurityID) String() string {
	parts := make([]string, 0, 3)
	if id.ISIN != "" {
		parts = append(parts, id.ISIN)
	}
	if id.WKN != "" {
		parts = append(parts, id.WKN)
	}
	if id.Ticker != "" {
		parts = append(parts, id.Ticker)
	}
	return strings.Join(parts, "/")
}

// Security represents one tradeable instrument: stock, ETF, bond, fund or
// crypto asset. Name and currency are always present; the identifiers are
// whatever the statement disclosed.
type Security struct {
	id       SecurityID
	name     string
	currency string
}

// NewSecurity mints a security with the given identity, display name and the
// currency it is quoted in.
func NewSecurity(id SecurityID, name, currency string) *Security {
	return &Security{id: id, name: name, currency: currency}
}

func (s *Security) ID() SecurityID  { return s.id }
func (s *Security) ISIN() string    { return s.id.ISIN }
func (s *Security) WKN() string     { return s.id.WKN }
func (s *Security) Ticker() string  { return s.id.Ticker }
func (s *Security) Name() string    { return s.name }
func (s *Security) Currency() string { return s.currency }

func (s *Security) String() string {
	return fmt.Sprintf("%s (%s, %s)", s.name, s.id, s.currency)
}

func (s *Security) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("isin", s.id.ISIN)
	w.Optional("wkn", s.id.WKN)
	w.Optional("ticker", s.id.Ticker)
	w.Append("name", s.name)
	w.Append("currency", s.currency)
	return w.MarshalJSON()
}

// ValidateISIN checks if a string is a validly formatted ISIN.
// It returns nil if valid, or a descriptive error if invalid.
func ValidateISIN(isin string) error {
	if len(isin) != 12 {
		return fmt.Errorf("invalid length: must be 12 characters, got %d", len(isin))
	}
	if !isinRegex.MatchString(isin) {
		return fmt.Errorf("invalid format: must be 2 uppercase letters, 9 alphanumeric chars, and 1 digit")
	}

	// Convert letters to numbers for the check digit calculation.
	var numericStr strings.Builder
	for _, char := range isin[:11] {
		if char >= 'A' && char <= 'Z' {
			numericStr.WriteString(strconv.Itoa(int(char - 'A' + 10)))
		} else {
			numericStr.WriteRune(char)
		}
	}

	// Apply a variation of the Luhn algorithm.
	sum := 0
	isSecond := true
	digits := numericStr.String()
	for i := len(digits) - 1; i >= 0; i-- {
		digit, _ := strconv.Atoi(string(digits[i]))
		if isSecond {
			digit *= 2
		}
		sum += (digit / 10) + (digit % 10)
		isSecond = !isSecond
	}

	expectedCheckDigit := (10 - (sum % 10)) % 10
	actualCheckDigit, _ := strconv.Atoi(string(isin[11]))
	if expectedCheckDigit != actualCheckDigit {
		return fmt.Errorf("invalid check digit: expected %d, got %d", expectedCheckDigit, actualCheckDigit)
	}
	return nil
}

// ValidateWKN checks if a string conforms to the WKN format.
// Note: this validates the format only, not whether the WKN is registered.
func ValidateWKN(wkn string) error {
	if len(wkn) != 6 {
		return fmt.Errorf("invalid length: must be 6 characters, got %d", len(wkn))
	}
	if !wknRegex.MatchString(wkn) {
		return fmt.Errorf("invalid format: must be 6 uppercase alphanumeric characters")
	}
	return nil
}

// ValidateCurrency checks if a string is a 3-letter ISO-4217 currency code.
func ValidateCurrency(code string) error {
	if !currencyCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid currency code %q: must be 3 uppercase letters", code)
	}
	return nil
}

// tickerRoot normalizes a ticker symbol for matching: upper-cased, with a
// known exchange suffix (".AX", ".DE", ...) stripped. Quote feeds and
// statements disagree on whether the venue suffix is part of the symbol, so
// matching happens on the root.
func tickerRoot(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if i := strings.LastIndexByte(t, '.'); i > 0 {
		suffix := t[i+1:]
		// venue suffixes are short and alphabetic; "BRK.B" style share
		// classes are single letters and venue-less, keep those intact.
		if len(suffix) >= 2 && len(suffix) <= 4 && !strings.ContainsAny(suffix, "0123456789") {
			t = t[:i]
		}
	}
	return t
}
