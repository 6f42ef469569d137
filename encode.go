package statement

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// This file persists the securities registry as JSONL, one security per
// line, so it stays human-readable and diffs cleanly under version control.

// jsecurity is the object read from the file using the json parser.
type jsecurity struct {
	ISIN     string `json:"isin,omitempty"`
	WKN      string `json:"wkn,omitempty"`
	Ticker   string `json:"ticker,omitempty"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// DecodeSecurities reads a JSONL securities registry. filename is for error
// messages only.
func DecodeSecurities(filename string, r io.Reader) (*Securities, error) {
	db := NewSecurities()
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var js jsecurity
		if err := json.Unmarshal(line, &js); err != nil {
			return nil, fmt.Errorf("format error in %s:%d: %w", filename, n, err)
		}
		id := SecurityID{ISIN: js.ISIN, WKN: js.WKN, Ticker: js.Ticker}
		if id.IsEmpty() {
			return nil, fmt.Errorf("format error in %s:%d: security %q has no identifier", filename, n, js.Name)
		}
		if err := ValidateCurrency(js.Currency); err != nil {
			return nil, fmt.Errorf("format error in %s:%d: %w", filename, n, err)
		}
		db.Add(NewSecurity(id, js.Name, js.Currency))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", filename, err)
	}
	return db, nil
}

// EncodeSecurities writes the registry in the format DecodeSecurities reads.
func EncodeSecurities(w io.Writer, db *Securities) error {
	for _, sec := range db.All() {
		b, err := json.Marshal(sec)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n", b); err != nil {
			return err
		}
	}
	return nil
}
