// Package brokers holds the institution templates shipped with the engine.
// Each template is plain data built on the scanning framework; institutions
// not covered here register their own template the same way.
package brokers

import (
	"strings"

	"github.com/etnz/statement"
	"github.com/shopspring/decimal"
)

// Swissquote returns the template for Swissquote transaction advices.
// Orders are booked in the account currency; dividends may be announced
// in the instrument currency with the exchange rate printed on the advice.
func Swissquote() *statement.Template {
	return &statement.Template{
		Institution: "Swissquote",
		Identifiers: []string{"Swissquote Bank SA"},
		Types: []*statement.DocumentType{
			statement.NewDocumentType(`Avis d'opération`).
				Block(swissquoteOrder("Achat", statement.PortfolioBuy)).
				Block(swissquoteOrder("Vente", statement.PortfolioSell)),
			statement.NewDocumentType(`Avis de dividende`).
				Block(swissquoteDividend()),
		},
	}
}

const (
	isinPattern   = `[A-Z]{2}[A-Z0-9]{9}[0-9]`
	numberPattern = `[0-9.,']+`
)

// swissquoteOrder parses one buy or sell advice into a linked buy/sell
// entry.
func swissquoteOrder(keyword string, typ statement.PortfolioTransactionType) *statement.Block {
	return statement.NewBlock("Ordre: " + keyword).Set(
		statement.NewBuilder(func() *statement.BuySellEntry {
			e, err := statement.NewBuySellEntry(typ)
			if err != nil {
				panic(err)
			}
			return e
		}).
			Section("shares", "name", "isin").
			Match(`(?P<shares>`+numberPattern+`) (?P<name>.+) ISIN: (?P<isin>`+isinPattern+`)`).
			Assign(func(e *statement.BuySellEntry, v statement.Values) {
				e.SetShares(v.Shares("shares"))
				e.SetCandidate(&statement.SecurityCandidate{
					ID:   statement.SecurityID{ISIN: v.Text("isin")},
					Name: strings.TrimSpace(v.Text("name")),
				})
			}).
			Section("currency", "gross").
			Match(`Montant brut (?P<currency>[A-Z]{3}) (?P<gross>` + numberPattern + `)`).
			Assign(func(e *statement.BuySellEntry, v statement.Values) {
				gross := v.Amount("gross", v.Currency("currency"))
				e.AddUnit(statement.NewUnit(statement.GrossValue, gross))
			}).
			Section("currency", "fee").Optional().
			Match(`Commission (?P<currency>[A-Z]{3}) (?P<fee>` + numberPattern + `)`).
			Assign(func(e *statement.BuySellEntry, v statement.Values) {
				if fee := v.Amount("fee", v.Currency("currency")); !fee.IsZero() {
					e.AddUnit(statement.NewUnit(statement.Fee, fee))
				}
			}).
			Section("currency", "tax").Optional().MultipleTimes().
			Match(`Taxes (?P<currency>[A-Z]{3}) (?P<tax>` + numberPattern + `)`).
			Assign(func(e *statement.BuySellEntry, v statement.Values) {
				if tax := v.Amount("tax", v.Currency("currency")); !tax.IsZero() {
					e.AddUnit(statement.NewUnit(statement.Tax, tax))
				}
			}).
			Section("currency", "total").
			Match(`Montant net au (?:débit|crédit) (?P<currency>[A-Z]{3}) (?P<total>` + numberPattern + `)`).
			Assign(func(e *statement.BuySellEntry, v statement.Values) {
				e.SetAmount(v.Amount("total", v.Currency("currency")))
			}).
			Section("date").
			Match(`Date de valeur (?P<date>\d{2}\.\d{2}\.\d{4})`).
			Assign(func(e *statement.BuySellEntry, v statement.Values) {
				e.SetDate(v.Date("date"))
			}).
			Section("ref").Optional().
			Match(`Référence: (?P<ref>.+)`).
			Assign(func(e *statement.BuySellEntry, v statement.Values) {
				e.AppendNote(strings.TrimSpace(v.Text("ref")))
			}).
			Conclude(func(e *statement.BuySellEntry) {
				// The advice never prints the instrument currency; orders are
				// booked in it.
				if c := e.PortfolioTx().Candidate(); c != nil && c.Currency == "" {
					c.Currency = e.PortfolioTx().Currency()
				}
			}).
			Wrap(func(e *statement.BuySellEntry) (statement.Item, error) {
				return &statement.BuySellEntryItem{Entry: e}, nil
			}))
}

// dividendAdvice accumulates the fields of one dividend advice until the
// wrapping step can decide whether the gross amount needs a forex unit.
type dividendAdvice struct {
	tx      *statement.AccountTransaction
	gross   statement.Money
	taxes   []statement.Money
	rate    decimal.Decimal
	hasRate bool
}

func swissquoteDividend() *statement.Block {
	return statement.NewBlock("Dividende").Set(
		statement.NewBuilder(func() *dividendAdvice {
			return &dividendAdvice{tx: statement.NewAccountTransaction(statement.AccountDividends)}
		}).
			Section("name", "isin").
			Match(`(?P<name>.+) ISIN: (?P<isin>`+isinPattern+`)`).
			Assign(func(d *dividendAdvice, v statement.Values) {
				d.tx.SetCandidate(&statement.SecurityCandidate{
					ID:   statement.SecurityID{ISIN: v.Text("isin")},
					Name: strings.TrimSpace(v.Text("name")),
				})
			}).
			Section("currency", "gross").
			Match(`Montant brut (?P<currency>[A-Z]{3}) (?P<gross>` + numberPattern + `)`).
			Assign(func(d *dividendAdvice, v statement.Values) {
				d.gross = v.Amount("gross", v.Currency("currency"))
			}).
			Section("currency", "tax").Optional().MultipleTimes().
			Match(`Impôt anticipé (?P<currency>[A-Z]{3}) (?P<tax>` + numberPattern + `)`).
			Assign(func(d *dividendAdvice, v statement.Values) {
				if tax := v.Amount("tax", v.Currency("currency")); !tax.IsZero() {
					d.taxes = append(d.taxes, tax)
				}
			}).
			Section("base", "quote", "rate").Optional().
			Match(`Taux de change (?P<base>[A-Z]{3})/(?P<quote>[A-Z]{3}) (?P<rate>` + numberPattern + `)`).
			Assign(func(d *dividendAdvice, v statement.Values) {
				d.rate = v.Rate("rate")
				d.hasRate = true
			}).
			Section("currency", "total").
			Match(`Montant net au crédit (?P<currency>[A-Z]{3}) (?P<total>` + numberPattern + `)`).
			Assign(func(d *dividendAdvice, v statement.Values) {
				d.tx.SetAmount(v.Amount("total", v.Currency("currency")))
			}).
			Section("date").
			Match(`Date de valeur (?P<date>\d{2}\.\d{2}\.\d{4})`).
			Assign(func(d *dividendAdvice, v statement.Values) {
				d.tx.SetDate(v.Date("date"))
			}).
			Wrap(func(d *dividendAdvice) (statement.Item, error) {
				if d.tx.Amount().IsZero() {
					return statement.NewSkippedItem("zero amount dividend advice"), nil
				}
				booking := d.tx.Currency()
				if c := d.tx.Candidate(); c != nil && c.Currency == "" {
					// The instrument trades in its gross amount currency.
					c.Currency = d.gross.Currency()
				}
				add := func(kind statement.UnitKind, m statement.Money) error {
					if m.Currency() == booking {
						d.tx.AddUnit(statement.NewUnit(kind, m))
						return nil
					}
					if !d.hasRate {
						return &statement.CurrencyMismatchError{Left: booking, Right: m.Currency()}
					}
					rate := statement.NewExchangeRate(d.rate, m.Currency(), booking, d.tx.Date())
					booked, err := rate.Convert(m)
					if err != nil {
						return err
					}
					u, err := statement.NewForexUnit(kind, booked, m, rate)
					if err != nil {
						return err
					}
					d.tx.AddUnit(u)
					return nil
				}
				if err := add(statement.GrossValue, d.gross); err != nil {
					return nil, err
				}
				for _, t := range d.taxes {
					if err := add(statement.Tax, t); err != nil {
						return nil, err
					}
				}
				return &statement.TransactionItem{Transaction: d.tx}, nil
			}))
}
