package brokers

import (
	"regexp"

	"github.com/etnz/statement"
)

// comdirect statements list one booking per line, amounts in German
// notation, the account currency printed once in the header. Debits carry a
// trailing minus.

var comdirectCurrency = regexp.MustCompile(`Kontowährung: (?P<currency>[A-Z]{3})`)

// Comdirect returns the template for comdirect account statements.
func Comdirect() *statement.Template {
	return &statement.Template{
		Institution: "comdirect",
		Identifiers: []string{"comdirect bank AG"},
		Types: []*statement.DocumentType{
			statement.NewDocumentType(`Kontoauszug`).
				Context(func(ctx statement.DocumentContext, lines []string) {
					for _, line := range lines {
						if m := comdirectCurrency.FindStringSubmatch(line); m != nil {
							ctx["currency"] = m[1]
							return
						}
					}
				}).
				Block(comdirectBooking()),
		},
	}
}

// bookingLine is one statement line; skip carries the reason when the line
// is recognized but deliberately not imported.
type bookingLine struct {
	tx   *statement.AccountTransaction
	skip string
}

func comdirectBooking() *statement.Block {
	const datePattern = `\d{2}\.\d{2}\.\d{4}`

	// booking builds the assignment shape all booking kinds share: credits
	// print the plain amount, debits a trailing minus.
	booking := func(typ statement.AccountTransactionType) func(*bookingLine, statement.Values) {
		return func(b *bookingLine, v statement.Values) {
			b.tx = statement.NewAccountTransaction(typ)
			b.tx.SetDate(v.Date("date"))
			b.tx.SetAmount(v.Amount("amount", v.Currency("currency")))
		}
	}

	return statement.NewBlock(datePattern + ` .*`).MaxSize(1).Set(
		statement.NewBuilder(func() *bookingLine { return &bookingLine{} }).
			OneOf(
				func(s *statement.Section[*bookingLine]) *statement.Builder[*bookingLine] {
					return s.Attributes("date", "amount").DocumentContext("currency").
						Match(`(?P<date>` + datePattern + `) Gutschrift (?P<amount>[0-9.,]+)`).
						Assign(booking(statement.AccountDeposit))
				},
				func(s *statement.Section[*bookingLine]) *statement.Builder[*bookingLine] {
					return s.Attributes("date", "amount").DocumentContext("currency").
						Match(`(?P<date>` + datePattern + `) Lastschrift (?P<amount>[0-9.,]+)-`).
						Assign(booking(statement.AccountRemoval))
				},
				func(s *statement.Section[*bookingLine]) *statement.Builder[*bookingLine] {
					return s.Attributes("date", "amount").DocumentContext("currency").
						Match(`(?P<date>` + datePattern + `) Kontoabschluss Zinsen (?P<amount>[0-9.,]+)`).
						Assign(booking(statement.AccountInterest))
				},
				func(s *statement.Section[*bookingLine]) *statement.Builder[*bookingLine] {
					return s.Attributes("date", "amount").DocumentContext("currency").
						Match(`(?P<date>` + datePattern + `) Entgelte (?P<amount>[0-9.,]+)-`).
						Assign(booking(statement.AccountFees))
				},
				func(s *statement.Section[*bookingLine]) *statement.Builder[*bookingLine] {
					return s.Attributes("date", "amount").DocumentContext("currency").
						Match(`(?P<date>` + datePattern + `) Steuern (?P<amount>[0-9.,]+)-`).
						Assign(booking(statement.AccountTaxes))
				},
				func(s *statement.Section[*bookingLine]) *statement.Builder[*bookingLine] {
					return s.Attributes("date", "amount").
						Match(`(?P<date>` + datePattern + `) Vorabpauschale (?P<amount>[0-9.,]+)`).
						Assign(func(b *bookingLine, v statement.Values) {
							b.skip = "Vorabpauschale " + v.Text("amount")
						})
				},
			).
			Wrap(func(b *bookingLine) (statement.Item, error) {
				if b.skip != "" {
					return statement.NewSkippedItem(b.skip), nil
				}
				return &statement.TransactionItem{Transaction: b.tx}, nil
			}))
}
