package statement

import (
	"strings"
	"testing"
)

func TestBuySellEntryCascade(t *testing.T) {
	e, err := NewBuySellEntry(PortfolioBuy)
	if err != nil {
		t.Fatal(err)
	}
	if e.PortfolioTx().Type() != PortfolioBuy {
		t.Errorf("portfolio leg type = %q, want buy", e.PortfolioTx().Type())
	}
	if e.AccountTx().Type() != AccountBuy {
		t.Errorf("account leg type = %q, want buy", e.AccountTx().Type())
	}

	sec := NewSecurity(apple, "Apple", "EUR")
	e.SetDate(NewDate(2025, 5, 15))
	e.SetShares(shares(46))
	e.SetAmount(EUR(491.67))
	e.SetSecurity(sec)
	e.AppendNote("order 123")

	for _, leg := range []Transaction{e.PortfolioTx(), e.AccountTx()} {
		if leg.Date() != NewDate(2025, 5, 15) {
			t.Errorf("leg date = %s", leg.Date())
		}
		if !leg.Shares().Equal(shares(46)) {
			t.Errorf("leg shares = %s", leg.Shares())
		}
		if !leg.Amount().Equal(EUR(491.67)) {
			t.Errorf("leg amount = %v", leg.Amount())
		}
		if leg.Security() != sec {
			t.Error("leg security not cascaded")
		}
		if leg.Note() != "order 123" {
			t.Errorf("leg note = %q", leg.Note())
		}
	}

	// units live on the security-side leg only
	e.AddUnit(NewUnit(GrossValue, EUR(489.72)))
	if len(e.PortfolioTx().Units()) != 1 {
		t.Error("unit not recorded on the portfolio leg")
	}
	if len(e.AccountTx().Units()) != 0 {
		t.Error("unit leaked onto the account leg")
	}

	// legs built through NewBuySellEntry reference each other
	if e.PortfolioTx().CrossEntry() != e.AccountTx() {
		t.Error("portfolio leg does not cross-reference the account leg")
	}
	if e.AccountTx().CrossEntry() != e.PortfolioTx() {
		t.Error("account leg does not cross-reference the portfolio leg")
	}
}

func TestNewBuySellEntryRejectsNonTrade(t *testing.T) {
	for _, typ := range []PortfolioTransactionType{PortfolioTransferIn, PortfolioDeliveryInbound} {
		if _, err := NewBuySellEntry(typ); err == nil {
			t.Errorf("NewBuySellEntry(%q) accepted a non-trade type", typ)
		}
	}
}

func TestLink(t *testing.T) {
	sec := NewSecurity(apple, "Apple", "EUR")
	leg := func() (*PortfolioTransaction, *AccountTransaction) {
		ptx := NewPortfolioTransaction(PortfolioSell)
		atx := NewAccountTransaction(AccountSell)
		for _, tx := range []Transaction{ptx, atx} {
			tx.SetDate(NewDate(2025, 5, 15))
			tx.SetShares(shares(46))
			tx.SetSecurity(sec)
			tx.SetAmount(EUR(487.77))
		}
		return ptx, atx
	}

	ptx, atx := leg()
	e, err := Link(ptx, atx)
	if err != nil {
		t.Fatal(err)
	}
	if e.PortfolioTx() != ptx || e.AccountTx() != atx {
		t.Error("entry does not carry the linked legs")
	}
	if ptx.CrossEntry() != atx || atx.CrossEntry() != ptx {
		t.Error("cross-links not symmetric")
	}

	// a leg can be linked exactly once
	if _, err := Link(ptx, atx); err == nil {
		t.Error("relinking accepted")
	}
}

func TestLinkRejectsDisagreeingLegs(t *testing.T) {
	sec := NewSecurity(apple, "Apple", "EUR")
	mk := func(mutate func(ptx *PortfolioTransaction, atx *AccountTransaction)) error {
		ptx := NewPortfolioTransaction(PortfolioBuy)
		atx := NewAccountTransaction(AccountBuy)
		for _, tx := range []Transaction{ptx, atx} {
			tx.SetDate(NewDate(2025, 5, 15))
			tx.SetShares(shares(46))
			tx.SetSecurity(sec)
			tx.SetAmount(EUR(491.67))
		}
		mutate(ptx, atx)
		_, err := Link(ptx, atx)
		return err
	}

	cases := []struct {
		name   string
		mutate func(ptx *PortfolioTransaction, atx *AccountTransaction)
		want   string
	}{
		{"agreeing", func(ptx *PortfolioTransaction, atx *AccountTransaction) {}, ""},
		{"date", func(ptx *PortfolioTransaction, atx *AccountTransaction) { atx.SetDate(NewDate(2025, 5, 16)) }, "date"},
		{"shares", func(ptx *PortfolioTransaction, atx *AccountTransaction) { atx.SetShares(shares(45)) }, "shares"},
		{"security", func(ptx *PortfolioTransaction, atx *AccountTransaction) {
			atx.SetSecurity(NewSecurity(google, "Google", "EUR"))
		}, "security"},
		{"amount", func(ptx *PortfolioTransaction, atx *AccountTransaction) { atx.SetAmount(EUR(491.68)) }, "amount"},
	}
	for _, c := range cases {
		err := mk(c.mutate)
		if c.want == "" {
			if err != nil {
				t.Errorf("%s: unexpected error %v", c.name, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s: disagreement accepted", c.name)
			continue
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Errorf("%s: error %q does not name the field", c.name, err)
		}
	}
}

func TestLinkRejectsOppositeDirections(t *testing.T) {
	ptx := NewPortfolioTransaction(PortfolioBuy)
	atx := NewAccountTransaction(AccountSell)
	if _, err := Link(ptx, atx); err == nil {
		t.Error("buy/sell direction mismatch accepted")
	}
	if _, err := Link(nil, atx); err == nil {
		t.Error("nil leg accepted")
	}
}

func TestAppendNote(t *testing.T) {
	tx := NewAccountTransaction(AccountDividends)
	tx.AppendNote("")
	if tx.Note() != "" {
		t.Errorf("empty fragment recorded: %q", tx.Note())
	}
	tx.AppendNote("coupon 2025")
	tx.AppendNote("ref 42")
	if got, want := tx.Note(), "coupon 2025 | ref 42"; got != want {
		t.Errorf("note = %q, want %q", got, want)
	}
}

func TestCostIncreasing(t *testing.T) {
	if !AccountBuy.CostIncreasing() || AccountSell.CostIncreasing() {
		t.Error("account buy/sell sign convention wrong")
	}
	if AccountDividends.CostIncreasing() || !AccountFees.CostIncreasing() {
		t.Error("account dividends/fees sign convention wrong")
	}
	if !PortfolioBuy.CostIncreasing() || PortfolioSell.CostIncreasing() {
		t.Error("portfolio buy/sell sign convention wrong")
	}
	if !PortfolioDeliveryInbound.CostIncreasing() || PortfolioDeliveryOutbound.CostIncreasing() {
		t.Error("portfolio delivery sign convention wrong")
	}
}
