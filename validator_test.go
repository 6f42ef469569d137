package statement

import (
	"strings"
	"testing"
)

func TestCheckCurrencies(t *testing.T) {
	sec := NewSecurity(apple, "Apple", "USD")
	secEUR := NewSecurity(google, "Google", "EUR")
	r := rate(0.9, "USD", "EUR")

	mk := func(build func(tx *AccountTransaction)) Transaction {
		tx := NewAccountTransaction(AccountDividends)
		tx.SetDate(NewDate(2025, 5, 15))
		build(tx)
		return tx
	}

	forexGross := func(t *testing.T) Unit {
		t.Helper()
		u, err := NewForexUnit(GrossValue, EUR(11.70), USD(13.00), r)
		if err != nil {
			t.Fatal(err)
		}
		return u
	}

	t.Run("plain", func(t *testing.T) {
		tx := mk(func(tx *AccountTransaction) {
			tx.SetAmount(EUR(11.70))
			tx.AddUnit(NewUnit(GrossValue, EUR(11.70)))
		})
		if err := CheckCurrencies(tx, ""); err != nil {
			t.Error(err)
		}
	})

	t.Run("no currency", func(t *testing.T) {
		tx := mk(func(tx *AccountTransaction) {})
		if err := CheckCurrencies(tx, ""); err == nil {
			t.Error("transaction without a currency accepted")
		}
	})

	t.Run("owner pin", func(t *testing.T) {
		tx := mk(func(tx *AccountTransaction) { tx.SetAmount(EUR(11.70)) })
		if err := CheckCurrencies(tx, "EUR"); err != nil {
			t.Error(err)
		}
		if err := CheckCurrencies(tx, "USD"); err == nil {
			t.Error("EUR transaction accepted into a USD container")
		}
	})

	t.Run("unit in wrong currency", func(t *testing.T) {
		tx := mk(func(tx *AccountTransaction) {
			tx.SetAmount(EUR(11.70))
			tx.AddUnit(NewUnit(Tax, USD(1.00)))
		})
		if err := CheckCurrencies(tx, ""); err == nil {
			t.Error("USD unit on an EUR transaction accepted")
		}
	})

	t.Run("forex reconciles", func(t *testing.T) {
		tx := mk(func(tx *AccountTransaction) {
			tx.SetAmount(EUR(11.70))
			tx.SetSecurity(sec)
			tx.AddUnit(forexGross(t))
		})
		if err := CheckCurrencies(tx, "EUR"); err != nil {
			t.Error(err)
		}
	})

	t.Run("forex off by more than one minor unit", func(t *testing.T) {
		// 13.00 USD at 0.9 books 11.70 EUR, not 11.75
		forex, fr := USD(13.00), r
		u := Unit{kind: GrossValue, amount: EUR(11.75), forex: &forex, rate: &fr}
		tx := mk(func(tx *AccountTransaction) {
			tx.SetAmount(EUR(11.75))
			tx.AddUnit(u)
		})
		if err := CheckCurrencies(tx, ""); err == nil {
			t.Error("unreconcilable forex accepted")
		}
	})

	t.Run("forex without rate", func(t *testing.T) {
		forex := USD(13.00)
		u := Unit{kind: GrossValue, amount: EUR(11.70), forex: &forex}
		tx := mk(func(tx *AccountTransaction) {
			tx.SetAmount(EUR(11.70))
			tx.AddUnit(u)
		})
		if err := CheckCurrencies(tx, ""); err == nil {
			t.Error("forex amount without a rate accepted")
		}
	})

	t.Run("foreign security requires gross forex", func(t *testing.T) {
		// booked EUR, security registered USD, gross unit carries the USD side
		tx := mk(func(tx *AccountTransaction) {
			tx.SetAmount(EUR(11.70))
			tx.SetSecurity(sec)
			tx.AddUnit(forexGross(t))
		})
		if err := CheckCurrencies(tx, ""); err != nil {
			t.Error(err)
		}

		// same booking without the forex side is reported
		bare := mk(func(tx *AccountTransaction) {
			tx.SetAmount(EUR(11.70))
			tx.SetSecurity(sec)
			tx.AddUnit(NewUnit(GrossValue, EUR(11.70)))
		})
		err := CheckCurrencies(bare, "")
		if err == nil {
			t.Fatal("missing original-currency amount accepted")
		}
		if !strings.Contains(err.Error(), "USD") {
			t.Errorf("error %q does not name the registered currency", err)
		}
	})

	t.Run("security in booking currency", func(t *testing.T) {
		tx := mk(func(tx *AccountTransaction) {
			tx.SetAmount(EUR(11.70))
			tx.SetSecurity(secEUR)
			tx.AddUnit(NewUnit(GrossValue, EUR(11.70)))
		})
		if err := CheckCurrencies(tx, ""); err != nil {
			t.Error(err)
		}
	})
}

func TestCheckDecomposition(t *testing.T) {
	buy := func(total, gross, fee Money) Transaction {
		tx := NewAccountTransaction(AccountBuy)
		tx.SetAmount(total)
		tx.AddUnit(NewUnit(GrossValue, gross))
		if !fee.IsZero() {
			tx.AddUnit(NewUnit(Fee, fee))
		}
		return tx
	}

	// buy adds the fee on top of gross
	if err := CheckDecomposition(buy(EUR(491.67), EUR(489.72), EUR(1.95))); err != nil {
		t.Error(err)
	}
	if err := CheckDecomposition(buy(EUR(489.72), EUR(489.72), EUR(1.95))); err == nil {
		t.Error("total ignoring the fee accepted")
	}

	// dividend deducts taxes from gross
	div := NewAccountTransaction(AccountDividends)
	div.SetAmount(EUR(73.12))
	div.AddUnit(NewUnit(GrossValue, EUR(100.00)))
	div.AddUnit(NewUnit(Tax, EUR(25.00)))
	div.AddUnit(NewUnit(Tax, EUR(1.38)))
	div.AddUnit(NewUnit(Fee, EUR(0.50)))
	if err := CheckDecomposition(div); err != nil {
		t.Error(err)
	}

	// without a gross value unit there is nothing to check
	plain := NewAccountTransaction(AccountInterest)
	plain.SetAmount(EUR(1.23))
	if err := CheckDecomposition(plain); err != nil {
		t.Error(err)
	}
}

func TestAssertImportActions(t *testing.T) {
	sec := NewSecurity(apple, "Apple", "EUR")

	entry := func() *BuySellEntry {
		e, err := NewBuySellEntry(PortfolioBuy)
		if err != nil {
			t.Fatal(err)
		}
		e.SetDate(NewDate(2025, 5, 15))
		e.SetShares(shares(46))
		e.SetSecurity(sec)
		e.SetAmount(EUR(491.67))
		e.AddUnit(NewUnit(GrossValue, EUR(489.72)))
		e.AddUnit(NewUnit(Fee, EUR(1.95)))
		e.SetSource("buy.txt")
		return e
	}

	t.Run("clean batch", func(t *testing.T) {
		items := []Item{
			&SecurityItem{Security: sec, source: "buy.txt"},
			&BuySellEntryItem{Entry: entry()},
		}
		if got := AssertImportActions(items, "EUR"); len(got) != 0 {
			t.Errorf("violations on a clean batch: %v", got)
		}
	})

	t.Run("duplicate announcement", func(t *testing.T) {
		items := []Item{
			&SecurityItem{Security: sec, source: "a.txt"},
			&SecurityItem{Security: sec, source: "b.txt"},
		}
		got := AssertImportActions(items, "EUR")
		if len(got) != 1 || !strings.Contains(got[0].Error(), "announced more than once") {
			t.Errorf("got %v", got)
		}
	})

	t.Run("wrong account currency", func(t *testing.T) {
		items := []Item{&BuySellEntryItem{Entry: entry()}}
		got := AssertImportActions(items, "USD")
		if len(got) == 0 {
			t.Fatal("EUR buy accepted into a USD account")
		}
	})

	t.Run("missing date and source", func(t *testing.T) {
		tx := NewAccountTransaction(AccountInterest)
		tx.SetAmount(EUR(1.23))
		got := AssertImportActions([]Item{&TransactionItem{Transaction: tx}}, "EUR")
		var sawDate, sawSource bool
		for _, err := range got {
			if strings.Contains(err.Error(), "no date") {
				sawDate = true
			}
			if strings.Contains(err.Error(), "no source") {
				sawSource = true
			}
		}
		if !sawDate || !sawSource {
			t.Errorf("got %v, want missing date and missing source violations", got)
		}
	})

	t.Run("non-positive shares", func(t *testing.T) {
		ptx := NewPortfolioTransaction(PortfolioBuy)
		ptx.SetDate(NewDate(2025, 5, 15))
		ptx.SetSecurity(sec)
		ptx.SetAmount(EUR(100.00))
		ptx.SetSource("buy.txt")
		got := AssertImportActions([]Item{&PortfolioTransactionItem{Transaction: ptx}}, "EUR")
		var saw bool
		for _, err := range got {
			if strings.Contains(err.Error(), "non-positive shares") {
				saw = true
			}
		}
		if !saw {
			t.Errorf("got %v, want a non-positive shares violation", got)
		}
	})

	t.Run("legs drift apart", func(t *testing.T) {
		e := entry()
		// mutate one leg behind the entry's back
		e.AccountTx().transaction.amount = EUR(491.68)
		got := AssertImportActions([]Item{&BuySellEntryItem{Entry: e}}, "EUR")
		var saw bool
		for _, err := range got {
			if strings.Contains(err.Error(), "disagree on amount") {
				saw = true
			}
		}
		if !saw {
			t.Errorf("got %v, want an amount disagreement violation", got)
		}
	})
}
