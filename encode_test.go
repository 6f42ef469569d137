package statement

import (
	"strings"
	"testing"
)

func TestDecodeSecurities(t *testing.T) {
	const registry = `{"isin":"US0378331005","ticker":"AAPL","name":"Apple Inc.","currency":"USD"}

{"wkn":"A0RENB","name":"iShares Core MSCI World","currency":"EUR"}
`
	db, err := DecodeSecurities("securities.jsonl", strings.NewReader(registry))
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 2 {
		t.Fatalf("decoded %d securities, want 2 (blank line skipped)", db.Len())
	}

	r := NewResolver(db)
	res := r.Resolve(SecurityID{ISIN: "US0378331005"}, "", "USD")
	if res.Created {
		t.Error("decoded security not found by ISIN")
	}
	if res.Security.Name() != "Apple Inc." || res.Security.Currency() != "USD" {
		t.Errorf("decoded %s %s", res.Security.Name(), res.Security.Currency())
	}
	res = r.Resolve(SecurityID{WKN: "A0RENB"}, "", "EUR")
	if res.Created {
		t.Error("decoded security not found by WKN")
	}
}

func TestDecodeSecuritiesRejects(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"broken json", `{"isin":`},
		{"no identifier", `{"name":"Apple","currency":"USD"}`},
		{"no currency", `{"isin":"US0378331005","name":"Apple"}`},
		{"bad currency", `{"isin":"US0378331005","name":"Apple","currency":"usd!"}`},
	}
	for _, c := range cases {
		_, err := DecodeSecurities("securities.jsonl", strings.NewReader(c.in))
		if err == nil {
			t.Errorf("%s: accepted", c.name)
			continue
		}
		if !strings.Contains(err.Error(), "securities.jsonl:1") {
			t.Errorf("%s: error %q does not locate the line", c.name, err)
		}
	}
}

func TestEncodeSecuritiesRoundTrip(t *testing.T) {
	db := NewSecurities(
		NewSecurity(apple, "Apple Inc.", "USD"),
		NewSecurity(SecurityID{WKN: "A0RENB"}, "iShares Core MSCI World", "EUR"),
	)

	var buf strings.Builder
	if err := EncodeSecurities(&buf, db); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("encoded %d lines, want 2", len(lines))
	}

	back, err := DecodeSecurities("roundtrip", strings.NewReader(buf.String()))
	if err != nil {
		t.Fatal(err)
	}
	if back.Len() != db.Len() {
		t.Fatalf("round trip lost securities: %d != %d", back.Len(), db.Len())
	}
	res := NewResolver(back).Resolve(apple, "", "USD")
	if res.Created || res.Security.Name() != "Apple Inc." {
		t.Error("round trip does not preserve the apple entry")
	}
}
