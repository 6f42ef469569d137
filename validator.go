package statement

import "fmt"

// This file is the template-independent validation pass: it re-derives the
// monetary invariants from the assembled items and reports violations
// without correcting anything.

// forexTolerance is the acceptable rounding error, in minor units, between
// a declared forex amount converted at the declared rate and the booked
// amount.
const forexTolerance = 1

// CheckCurrencies verifies that a single transaction is currency-consistent:
// every unit is booked in the transaction currency, every forex sub-amount
// carries a rate reconciling within one minor unit, and a transaction on a
// security registered in another currency records the original amount in
// that currency on its gross value unit. A non-empty ownerCurrency
// additionally pins the transaction to the cash or holdings container it
// will land in. Returns nil when the transaction is consistent.
func CheckCurrencies(tx Transaction, ownerCurrency string) error {
	cur := tx.Currency()
	if err := ValidateCurrency(cur); err != nil {
		return fmt.Errorf("transaction has no usable currency: %w", err)
	}
	if ownerCurrency != "" && cur != ownerCurrency {
		return fmt.Errorf("transaction in %s cannot land in a %s container: %w",
			cur, ownerCurrency, &CurrencyMismatchError{Left: ownerCurrency, Right: cur})
	}

	for i, u := range tx.Units() {
		if got := u.Amount().Currency(); got != cur {
			return fmt.Errorf("unit %d (%s) is booked in %s, transaction in %s: %w",
				i, u.Kind(), got, cur, &CurrencyMismatchError{Left: cur, Right: got})
		}
		forex, ok := u.Forex()
		if !ok {
			continue
		}
		if forex.Currency() == cur {
			return fmt.Errorf("unit %d (%s) declares a forex amount in the booking currency %s", i, u.Kind(), cur)
		}
		rate, ok := u.Rate()
		if !ok {
			return fmt.Errorf("unit %d (%s) has a forex amount in %s but no exchange rate", i, u.Kind(), forex.Currency())
		}
		converted, err := rate.Convert(forex)
		if err != nil {
			return fmt.Errorf("unit %d (%s): %w", i, u.Kind(), err)
		}
		if converted.Currency() != cur {
			return fmt.Errorf("unit %d (%s) rate yields %s, transaction in %s: %w",
				i, u.Kind(), converted.Currency(), cur, &CurrencyMismatchError{Left: cur, Right: converted.Currency()})
		}
		if diff := converted.Amount() - u.Amount().Amount(); diff > forexTolerance || diff < -forexTolerance {
			return fmt.Errorf("unit %d (%s): %s at %s yields %s, booked %s, off by more than one minor unit",
				i, u.Kind(), forex, rate.Value(), converted, u.Amount())
		}
	}

	if sec := tx.Security(); sec != nil && sec.Currency() != cur {
		gross, ok := tx.GrossValueUnit()
		if !ok {
			return fmt.Errorf("security %s is registered in %s, transaction booked in %s without a gross value unit",
				sec, sec.Currency(), cur)
		}
		forex, ok := gross.Forex()
		if !ok || forex.Currency() != sec.Currency() {
			return fmt.Errorf("security %s is registered in %s, but the gross value unit does not record the %s amount",
				sec, sec.Currency(), sec.Currency())
		}
	}
	return nil
}

// CheckDecomposition verifies that the transaction total equals its gross
// value adjusted by taxes and fees, in the direction fixed by the
// transaction type. Transactions without a gross value unit are trivially
// consistent.
func CheckDecomposition(tx Transaction) error {
	gross, ok := tx.GrossValueUnit()
	if !ok {
		return nil
	}
	total, err := Recompose(gross.Amount(), tx.Units(), tx.CostIncreasing())
	if err != nil {
		return err
	}
	if !total.Equal(tx.Amount()) {
		return fmt.Errorf("total %s does not decompose into gross %s with its taxes and fees (expected %s)",
			tx.Amount(), gross.Amount(), total)
	}
	return nil
}

// AssertImportActions runs the full advisory pass over assembled items, the
// way an import controller would before committing them into a cash account
// denominated in expectedCurrency. It returns every violation found, in
// item order; an empty slice means the items are safe to commit.
func AssertImportActions(items []Item, expectedCurrency string) []error {
	var violations []error
	announced := map[*Security]bool{}

	report := func(it Item, err error) {
		if err != nil {
			violations = append(violations, fmt.Errorf("%s: %w", it.Source(), err))
		}
	}

	checkLeg := func(it Item, tx Transaction, owner string) {
		if tx.Date().IsZero() {
			report(it, fmt.Errorf("transaction has no date"))
		}
		if tx.Source() == "" {
			violations = append(violations, fmt.Errorf("transaction has no source document"))
		}
		report(it, CheckCurrencies(tx, owner))
		report(it, CheckDecomposition(tx))
	}

	for _, it := range items {
		switch v := it.(type) {
		case *SecurityItem:
			if announced[v.Security] {
				report(it, fmt.Errorf("security %s announced more than once", v.Security))
			}
			announced[v.Security] = true

		case *TransactionItem:
			checkLeg(it, v.Transaction, expectedCurrency)

		case *PortfolioTransactionItem:
			tx := v.Transaction
			checkLeg(it, tx, "")
			if tx.Security() == nil {
				report(it, fmt.Errorf("holdings entry without a security"))
			}
			if !tx.Shares().IsPositive() {
				report(it, fmt.Errorf("holdings entry with non-positive shares"))
			}

		case *BuySellEntryItem:
			ptx, atx := v.Entry.PortfolioTx(), v.Entry.AccountTx()
			checkLeg(it, ptx, "")
			checkLeg(it, atx, expectedCurrency)

			if ptx.CrossEntry() != atx || atx.CrossEntry() != ptx {
				report(it, fmt.Errorf("buy/sell cross-link is not symmetric"))
			}
			if ptx.Date() != atx.Date() {
				report(it, fmt.Errorf("buy/sell legs disagree on date: %s vs %s", ptx.Date(), atx.Date()))
			}
			if !ptx.Shares().Equal(atx.Shares()) {
				report(it, fmt.Errorf("buy/sell legs disagree on shares: %s vs %s", ptx.Shares(), atx.Shares()))
			}
			if ptx.Security() != atx.Security() {
				report(it, fmt.Errorf("buy/sell legs disagree on security"))
			}
			if !ptx.Amount().Equal(atx.Amount()) {
				report(it, fmt.Errorf("buy/sell legs disagree on amount: %s vs %s", ptx.Amount(), atx.Amount()))
			}
			if ptx.Security() == nil {
				report(it, fmt.Errorf("buy/sell entry without a security"))
			}
			if !ptx.Shares().IsPositive() {
				report(it, fmt.Errorf("buy/sell entry with non-positive shares"))
			}
		}
	}
	return violations
}
