package statement

import (
	"errors"
	"fmt"
)

// AccountTransactionType identifies a cash-ledger entry.
type AccountTransactionType string

const (
	AccountDeposit        AccountTransactionType = "deposit"
	AccountRemoval        AccountTransactionType = "removal"
	AccountInterest       AccountTransactionType = "interest"
	AccountInterestCharge AccountTransactionType = "interest-charge"
	AccountDividends      AccountTransactionType = "dividends"
	AccountTaxes          AccountTransactionType = "taxes"
	AccountTaxRefund      AccountTransactionType = "tax-refund"
	AccountFees           AccountTransactionType = "fees"
	AccountFeesRefund     AccountTransactionType = "fees-refund"
	AccountBuy            AccountTransactionType = "buy"
	AccountSell           AccountTransactionType = "sell"
	AccountTransferIn     AccountTransactionType = "transfer-in"
	AccountTransferOut    AccountTransactionType = "transfer-out"
)

// CostIncreasing reports the sign convention of the type: cost-increasing
// entries add taxes and fees on top of the gross value to form the total,
// all others deduct them. The convention is fixed per type, never inferred
// from the amounts.
func (t AccountTransactionType) CostIncreasing() bool {
	switch t {
	case AccountBuy, AccountRemoval, AccountTaxes, AccountFees, AccountInterestCharge, AccountTransferOut:
		return true
	}
	return false
}

// PortfolioTransactionType identifies a holdings-ledger entry.
type PortfolioTransactionType string

const (
	PortfolioBuy              PortfolioTransactionType = "buy"
	PortfolioSell             PortfolioTransactionType = "sell"
	PortfolioTransferIn       PortfolioTransactionType = "transfer-in"
	PortfolioTransferOut      PortfolioTransactionType = "transfer-out"
	PortfolioDeliveryInbound  PortfolioTransactionType = "delivery-inbound"
	PortfolioDeliveryOutbound PortfolioTransactionType = "delivery-outbound"
)

// CostIncreasing reports the sign convention, see AccountTransactionType.
func (t PortfolioTransactionType) CostIncreasing() bool {
	switch t {
	case PortfolioBuy, PortfolioTransferIn, PortfolioDeliveryInbound:
		return true
	}
	return false
}

// noteSeparator joins multiple free-text note fragments captured from
// different sections of one block.
const noteSeparator = " | "

// SecurityCandidate is the instrument identity as observed on the statement,
// before resolution against the registry.
type SecurityCandidate struct {
	ID       SecurityID
	Name     string
	Currency string
}

// Transaction is the view shared by cash-ledger and holdings-ledger
// entries. The engine and the validator work against it; the two concrete
// types behind it are *AccountTransaction and *PortfolioTransaction.
type Transaction interface {
	Date() Date
	Shares() Quantity
	Amount() Money
	Currency() string
	Units() []Unit
	GrossValueUnit() (Unit, bool)
	Security() *Security
	Candidate() *SecurityCandidate
	Note() string
	Source() string

	// CostIncreasing reports whether the entry's type moves value into the
	// position (a buy, a fee) rather than out of it.
	CostIncreasing() bool

	SetDate(Date)
	SetShares(Quantity)
	SetAmount(Money)
	SetSecurity(*Security)
	SetCandidate(*SecurityCandidate)
	SetSource(string)
	AddUnit(Unit)
	AppendNote(string)
	setUnits([]Unit)
}

// transaction carries the fields shared by cash-ledger and holdings-ledger
// entries. Templates populate it through the setters during block assembly;
// once the engine has emitted the surrounding item it is treated as
// immutable, except for the one-time cross-entry back-reference.
type transaction struct {
	date      Date
	candidate *SecurityCandidate
	security  *Security
	shares    Quantity
	amount    Money
	units     []Unit
	note      string
	source    string
}

func (t *transaction) Date() Date       { return t.date }
func (t *transaction) Shares() Quantity { return t.shares }
func (t *transaction) Amount() Money    { return t.amount }
func (t *transaction) Currency() string { return t.amount.Currency() }
func (t *transaction) Note() string     { return t.note }
func (t *transaction) Source() string   { return t.source }

// Security returns the resolved instrument, nil for pure cash transactions
// or before resolution.
func (t *transaction) Security() *Security { return t.security }

// Candidate returns the unresolved instrument identity captured from the
// statement, nil for pure cash transactions.
func (t *transaction) Candidate() *SecurityCandidate { return t.candidate }

// Units returns the ordered sub-amounts of the transaction total.
func (t *transaction) Units() []Unit { return t.units }

// GrossValueUnit returns the first gross-value unit, if any.
func (t *transaction) GrossValueUnit() (Unit, bool) {
	for _, u := range t.units {
		if u.Kind() == GrossValue {
			return u, true
		}
	}
	return Unit{}, false
}

func (t *transaction) SetDate(d Date)                      { t.date = d }
func (t *transaction) SetShares(q Quantity)                { t.shares = q }
func (t *transaction) SetAmount(m Money)                   { t.amount = m }
func (t *transaction) SetSecurity(s *Security)             { t.security = s }
func (t *transaction) SetCandidate(c *SecurityCandidate)   { t.candidate = c }
func (t *transaction) SetSource(source string)             { t.source = source }
func (t *transaction) AddUnit(u Unit)                      { t.units = append(t.units, u) }
func (t *transaction) setUnits(units []Unit)               { t.units = units }

// AppendNote adds a free-text fragment to the note, joining multiple
// fragments with a fixed separator.
func (t *transaction) AppendNote(fragment string) {
	if fragment == "" {
		return
	}
	if t.note == "" {
		t.note = fragment
		return
	}
	t.note += noteSeparator + fragment
}

// AccountTransaction is a cash-ledger entry.
type AccountTransaction struct {
	transaction
	typ   AccountTransactionType
	entry *BuySellEntry
}

// NewAccountTransaction returns an empty cash-ledger entry of the given type.
func NewAccountTransaction(typ AccountTransactionType) *AccountTransaction {
	return &AccountTransaction{typ: typ}
}

// Type returns the economic type of the entry.
func (t *AccountTransaction) Type() AccountTransactionType { return t.typ }

// CostIncreasing reports whether the entry debits the cash account.
func (t *AccountTransaction) CostIncreasing() bool { return t.typ.CostIncreasing() }

// CrossEntry returns the linked security-side leg, nil when the transaction
// is not part of a buy/sell event.
func (t *AccountTransaction) CrossEntry() *PortfolioTransaction {
	if t.entry == nil {
		return nil
	}
	return t.entry.portfolio
}

func (t *AccountTransaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("type", string(t.typ))
	w.Append("date", t.date)
	if t.security != nil {
		w.Append("security", t.security)
	}
	if !t.shares.IsZero() {
		w.Append("shares", t.shares)
	}
	w.EmbedFrom(t.amount)
	if len(t.units) > 0 {
		w.Append("units", t.units)
	}
	w.Optional("note", t.note)
	w.Optional("source", t.source)
	return w.MarshalJSON()
}

// PortfolioTransaction is a holdings-ledger entry.
type PortfolioTransaction struct {
	transaction
	typ   PortfolioTransactionType
	entry *BuySellEntry
}

// NewPortfolioTransaction returns an empty holdings-ledger entry of the given type.
func NewPortfolioTransaction(typ PortfolioTransactionType) *PortfolioTransaction {
	return &PortfolioTransaction{typ: typ}
}

// Type returns the economic type of the entry.
func (t *PortfolioTransaction) Type() PortfolioTransactionType { return t.typ }

// CostIncreasing reports whether the entry adds shares to the position.
func (t *PortfolioTransaction) CostIncreasing() bool { return t.typ.CostIncreasing() }

// CrossEntry returns the linked cash-side leg, nil when the transaction is
// not part of a buy/sell event.
func (t *PortfolioTransaction) CrossEntry() *AccountTransaction {
	if t.entry == nil {
		return nil
	}
	return t.entry.account
}

func (t *PortfolioTransaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("type", string(t.typ))
	w.Append("date", t.date)
	if t.security != nil {
		w.Append("security", t.security)
	}
	if !t.shares.IsZero() {
		w.Append("shares", t.shares)
	}
	w.EmbedFrom(t.amount)
	if len(t.units) > 0 {
		w.Append("units", t.units)
	}
	w.Optional("note", t.note)
	w.Optional("source", t.source)
	return w.MarshalJSON()
}

// BuySellEntry pairs the security-side and cash-side legs of one buy or sell
// economic event. The two legs always agree on date, shares, security and
// amount; the pairing is purely structural and never searches across blocks
// or documents for a counterpart.
type BuySellEntry struct {
	portfolio *PortfolioTransaction
	account   *AccountTransaction
}

// NewBuySellEntry returns an entry with both legs allocated for the given
// direction. Templates populate the legs through the entry's setters so they
// cannot drift apart during assembly.
func NewBuySellEntry(typ PortfolioTransactionType) (*BuySellEntry, error) {
	var accTyp AccountTransactionType
	switch typ {
	case PortfolioBuy:
		accTyp = AccountBuy
	case PortfolioSell:
		accTyp = AccountSell
	default:
		return nil, fmt.Errorf("buy/sell entry cannot be of type %q", typ)
	}
	e := &BuySellEntry{
		portfolio: NewPortfolioTransaction(typ),
		account:   NewAccountTransaction(accTyp),
	}
	e.portfolio.entry = e
	e.account.entry = e
	return e, nil
}

// PortfolioTx returns the security-side leg.
func (e *BuySellEntry) PortfolioTx() *PortfolioTransaction { return e.portfolio }

// AccountTx returns the cash-side leg.
func (e *BuySellEntry) AccountTx() *AccountTransaction { return e.account }

func (e *BuySellEntry) SetDate(d Date) {
	e.portfolio.SetDate(d)
	e.account.SetDate(d)
}

func (e *BuySellEntry) SetShares(q Quantity) {
	e.portfolio.SetShares(q)
	e.account.SetShares(q)
}

func (e *BuySellEntry) SetAmount(m Money) {
	e.portfolio.SetAmount(m)
	e.account.SetAmount(m)
}

func (e *BuySellEntry) SetCandidate(c *SecurityCandidate) {
	e.portfolio.SetCandidate(c)
	e.account.SetCandidate(c)
}

func (e *BuySellEntry) SetSecurity(s *Security) {
	e.portfolio.SetSecurity(s)
	e.account.SetSecurity(s)
}

func (e *BuySellEntry) SetSource(source string) {
	e.portfolio.SetSource(source)
	e.account.SetSource(source)
}

func (e *BuySellEntry) AppendNote(fragment string) {
	e.portfolio.AppendNote(fragment)
	e.account.AppendNote(fragment)
}

// AddUnit records a sub-amount on the security-side leg, where gross value,
// taxes and fees of a buy/sell event are kept.
func (e *BuySellEntry) AddUnit(u Unit) { e.portfolio.AddUnit(u) }

func (e *BuySellEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("portfolio", e.portfolio)
	w.Append("account", e.account)
	return w.MarshalJSON()
}

// Link pairs a security-side and a cash-side leg extracted from the same
// block into a BuySellEntry and sets the symmetric cross-link. Both legs
// must agree on date, shares, security and amount, be of opposite economic
// direction, and not be linked already; the link is set exactly once.
func Link(ptx *PortfolioTransaction, atx *AccountTransaction) (*BuySellEntry, error) {
	if ptx == nil || atx == nil {
		return nil, errors.New("link: both legs are required")
	}
	if ptx.entry != nil || atx.entry != nil {
		return nil, errors.New("link: leg is already part of a buy/sell entry")
	}
	switch {
	case ptx.typ == PortfolioBuy && atx.typ == AccountBuy:
	case ptx.typ == PortfolioSell && atx.typ == AccountSell:
	default:
		return nil, fmt.Errorf("link: types %q and %q do not form a buy/sell event", ptx.typ, atx.typ)
	}
	if ptx.date != atx.date {
		return nil, fmt.Errorf("link: legs disagree on date: %s != %s", ptx.date, atx.date)
	}
	if !ptx.shares.Equal(atx.shares) {
		return nil, fmt.Errorf("link: legs disagree on shares: %s != %s", ptx.shares, atx.shares)
	}
	if ptx.security != atx.security {
		return nil, errors.New("link: legs disagree on security")
	}
	if !ptx.amount.Equal(atx.amount) {
		return nil, fmt.Errorf("link: legs disagree on amount: %s != %s", ptx.amount, atx.amount)
	}
	e := &BuySellEntry{portfolio: ptx, account: atx}
	ptx.entry = e
	atx.entry = e
	return e, nil
}
