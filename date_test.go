package statement

import (
	"encoding/json"
	"testing"
)

func TestDate(t *testing.T) {
	d := NewDate(2025, 5, 15)
	if got := d.String(); got != "2025-05-15" {
		t.Errorf("String() = %q", got)
	}
	if !NewDate(2025, 5, 14).Before(d) || !NewDate(2025, 5, 16).After(d) {
		t.Error("ordering broken")
	}
	if !(Date{}).IsZero() || d.IsZero() {
		t.Error("IsZero broken")
	}

	// month overflow normalizes like time.Date
	if got := NewDate(2025, 13, 1); got != NewDate(2026, 1, 1) {
		t.Errorf("NewDate(2025, 13, 1) = %s", got)
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2025, 5, 15))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-05-15"` {
		t.Errorf("marshaled %s", b)
	}
	var d Date
	if err := json.Unmarshal(b, &d); err != nil {
		t.Fatal(err)
	}
	if d != NewDate(2025, 5, 15) {
		t.Errorf("round trip = %s", d)
	}
	if err := json.Unmarshal([]byte(`"15.05.2025"`), &d); err == nil {
		t.Error("non ISO-8601 date accepted")
	}
}
