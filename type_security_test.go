package statement

import "testing"

func TestValidateISIN(t *testing.T) {
	valid := []string{
		"US0378331005", // Apple
		"DE0007164600", // SAP
		"CH0038863350", // Nestlé
		"FR0000120271", // TotalEnergies
	}
	for _, isin := range valid {
		if err := ValidateISIN(isin); err != nil {
			t.Errorf("ValidateISIN(%q) = %v, want nil", isin, err)
		}
	}

	invalid := []string{
		"",
		"US03783310",    // too short
		"US0378331005X", // too long
		"us0378331005",  // lowercase
		"US0378331006",  // wrong check digit
		"123456789012",  // no country prefix
	}
	for _, isin := range invalid {
		if err := ValidateISIN(isin); err == nil {
			t.Errorf("ValidateISIN(%q) = nil, want error", isin)
		}
	}
}

func TestValidateWKN(t *testing.T) {
	for _, wkn := range []string{"716460", "A0RENB", "BASF11"} {
		if err := ValidateWKN(wkn); err != nil {
			t.Errorf("ValidateWKN(%q) = %v, want nil", wkn, err)
		}
	}
	for _, wkn := range []string{"", "12345", "1234567", "a0renb", "A0 ENB"} {
		if err := ValidateWKN(wkn); err == nil {
			t.Errorf("ValidateWKN(%q) = nil, want error", wkn)
		}
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, code := range []string{"EUR", "USD", "CHF", "JPY"} {
		if err := ValidateCurrency(code); err != nil {
			t.Errorf("ValidateCurrency(%q) = %v, want nil", code, err)
		}
	}
	for _, code := range []string{"", "eur", "EURO", "EU", "E1R"} {
		if err := ValidateCurrency(code); err == nil {
			t.Errorf("ValidateCurrency(%q) = nil, want error", code)
		}
	}
}

func TestSecurityIDString(t *testing.T) {
	id := SecurityID{ISIN: "US0378331005", Ticker: "AAPL"}
	if got, want := id.String(), "US0378331005/AAPL"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if !(SecurityID{}).IsEmpty() {
		t.Error("empty id not reported empty")
	}
	if id.IsEmpty() {
		t.Error("non-empty id reported empty")
	}
}
