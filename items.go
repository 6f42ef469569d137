package statement

import "fmt"

// Item is one unit of extraction output: a newly discovered security, a cash
// transaction, a linked buy/sell pair, or a failure/skip marker. Items are
// transient; they are handed to an external import controller that decides
// persistence.
type Item interface {
	// Source names the document the item originated from.
	Source() string

	item()
}

// SecurityItem announces a security that was not present in the caller's
// registry. It is emitted before any transaction item referencing it, and
// suppressed entirely when the resolver matched an existing instrument.
type SecurityItem struct {
	Security *Security
	source   string
}

func (i *SecurityItem) Source() string { return i.source }
func (i *SecurityItem) item()          {}

func (i *SecurityItem) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("item", "security")
	w.EmbedFrom(i.Security)
	w.Optional("source", i.source)
	return w.MarshalJSON()
}

// TransactionItem wraps a standalone cash-ledger entry.
type TransactionItem struct {
	Transaction *AccountTransaction
}

func (i *TransactionItem) Source() string { return i.Transaction.Source() }
func (i *TransactionItem) item()          {}

func (i *TransactionItem) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("item", "transaction")
	w.EmbedFrom(i.Transaction)
	return w.MarshalJSON()
}

// PortfolioTransactionItem wraps a holdings-only entry, a delivery without a
// cash leg.
type PortfolioTransactionItem struct {
	Transaction *PortfolioTransaction
}

func (i *PortfolioTransactionItem) Source() string { return i.Transaction.Source() }
func (i *PortfolioTransactionItem) item()          {}

func (i *PortfolioTransactionItem) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("item", "portfolio-transaction")
	w.EmbedFrom(i.Transaction)
	return w.MarshalJSON()
}

// BuySellEntryItem wraps a linked buy/sell event.
type BuySellEntryItem struct {
	Entry *BuySellEntry
}

func (i *BuySellEntryItem) Source() string { return i.Entry.PortfolioTx().Source() }
func (i *BuySellEntryItem) item()          {}

func (i *BuySellEntryItem) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("item", "buy-sell")
	w.EmbedFrom(i.Entry)
	return w.MarshalJSON()
}

// FailureItem records a block that was classified but could not be fully
// extracted, keeping the raw excerpt for manual completion.
type FailureItem struct {
	Excerpt string
	Err     error
	source  string
}

func (i *FailureItem) Source() string { return i.source }
func (i *FailureItem) item()          {}

func (i *FailureItem) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("item", "failure")
	w.Append("error", i.Err.Error())
	w.Append("excerpt", i.Excerpt)
	w.Optional("source", i.source)
	return w.MarshalJSON()
}

// SkippedItem records a block that was recognized and deliberately ignored,
// with the reason (a zero-amount advance tax line, for example).
type SkippedItem struct {
	Reason string
	source string
}

// NewSkippedItem returns a skip marker with the given reason. The engine
// stamps the source document.
func NewSkippedItem(reason string) *SkippedItem {
	return &SkippedItem{Reason: reason}
}

func (i *SkippedItem) Source() string { return i.source }
func (i *SkippedItem) item()          {}

func (i *SkippedItem) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("item", "skipped")
	w.Append("reason", i.Reason)
	w.Optional("source", i.source)
	return w.MarshalJSON()
}

// ExtractionResult is the outcome of extracting an ordered sequence of
// documents: the items in emission order, and the unrecoverable errors that
// could not be attached to any item.
type ExtractionResult struct {
	Items  []Item
	Errors []error
}

// Securities returns the new securities announced by the result, in order.
func (r *ExtractionResult) Securities() []*Security {
	var out []*Security
	for _, it := range r.Items {
		if si, ok := it.(*SecurityItem); ok {
			out = append(out, si.Security)
		}
	}
	return out
}

func (r *ExtractionResult) String() string {
	return fmt.Sprintf("%d items, %d errors", len(r.Items), len(r.Errors))
}
