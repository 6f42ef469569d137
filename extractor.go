package statement

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Template bundles the document types one institution issues. A document
// belongs to the template when its text contains one of the identifiers
// (the bank's name as printed on its statements).
type Template struct {
	Institution string
	Identifiers []string
	Types       []*DocumentType
}

// Matches reports whether the document text belongs to this institution.
func (t *Template) Matches(text string) bool {
	for _, id := range t.Identifiers {
		if strings.Contains(text, id) {
			return true
		}
	}
	return false
}

// Templates is the registry of known institution templates.
type Templates struct {
	templates []*Template
}

// NewTemplates returns a registry holding the given templates.
func NewTemplates(templates ...*Template) *Templates {
	return &Templates{templates: templates}
}

// Register adds a template to the registry.
func (ts *Templates) Register(t *Template) { ts.templates = append(ts.templates, t) }

// All returns the registered templates in registration order.
func (ts *Templates) All() []*Template { return ts.templates }

// Detect returns the first registered template claiming the document text,
// or nil when no institution is recognized.
func (ts *Templates) Detect(text string) *Template {
	for _, t := range ts.templates {
		if t.Matches(text) {
			return t
		}
	}
	return nil
}

// Engine runs the registered templates over a batch of documents and
// assembles the scan output into import-ready items.
type Engine struct {
	templates *Templates
}

// NewEngine returns an engine using the given template registry.
func NewEngine(templates *Templates) *Engine {
	return &Engine{templates: templates}
}

// Extract scans the documents in order and returns the assembled items.
// Securities already present in existing are matched, never re-announced;
// instruments discovered in this run are announced once, on first sight,
// before any item referencing them. A failing block costs exactly that
// block: scanning and assembly continue with the rest.
func (e *Engine) Extract(docs []Document, existing *Securities) *ExtractionResult {
	out := &ExtractionResult{}
	resolver := NewResolver(existing)

	for _, doc := range docs {
		t := e.templates.Detect(doc.Text)
		if t == nil {
			out.Errors = append(out.Errors, fmt.Errorf("%s: no template recognizes this document", doc.Filename))
			continue
		}

		matched := false
		for _, dt := range t.Types {
			if !dt.Matches(doc.Text) {
				continue
			}
			matched = true

			raw := &ExtractionResult{}
			dt.parse(doc, raw)
			out.Errors = append(out.Errors, raw.Errors...)
			assemble(doc.Filename, raw.Items, resolver, out)
		}
		if !matched {
			out.Errors = append(out.Errors, fmt.Errorf("%s: %s template recognizes the institution but no document type matches", doc.Filename, t.Institution))
		}
	}
	return out
}

// assemble turns the raw items of one document into final ones: security
// candidates are resolved against the registry, newly minted instruments are
// announced ahead of their first use, amounts are re-expressed in the
// registered security currency when the statement was booked in another one,
// and every item is stamped with its source document.
func assemble(filename string, raw []Item, resolver *Resolver, out *ExtractionResult) {
	for _, it := range raw {
		switch v := it.(type) {
		case *FailureItem, *SkippedItem:
			stampSource(it, filename)
			out.Items = append(out.Items, it)

		case *TransactionItem:
			if err := assembleLeg(filename, v.Transaction, resolver, out); err != nil {
				fail(v.Transaction, err, filename, out)
				continue
			}
			out.Items = append(out.Items, v)

		case *PortfolioTransactionItem:
			if err := assembleLeg(filename, v.Transaction, resolver, out); err != nil {
				fail(v.Transaction, err, filename, out)
				continue
			}
			out.Items = append(out.Items, v)

		case *BuySellEntryItem:
			// Both legs share candidate, amount and units; resolving the
			// portfolio leg and copying over keeps them in lockstep.
			ptx := v.Entry.PortfolioTx()
			if err := assembleLeg(filename, ptx, resolver, out); err != nil {
				fail(ptx, err, filename, out)
				continue
			}
			atx := v.Entry.AccountTx()
			atx.SetSecurity(ptx.Security())
			atx.SetAmount(ptx.Amount())
			atx.SetSource(filename)
			out.Items = append(out.Items, v)

		default:
			stampSource(it, filename)
			out.Items = append(out.Items, it)
		}
	}
}

// assembleLeg resolves and normalizes one transaction in place.
func assembleLeg(filename string, tx Transaction, resolver *Resolver, out *ExtractionResult) error {
	if c := tx.Candidate(); c != nil && tx.Security() == nil {
		res := resolver.Resolve(c.ID, c.Name, c.Currency)
		tx.SetSecurity(res.Security)
		if res.Created {
			out.Items = append(out.Items, &SecurityItem{Security: res.Security, source: filename})
		}
		if res.RecomputeIn != "" && res.RecomputeIn != tx.Currency() {
			if err := recompute(tx, res.RecomputeIn); err != nil {
				return err
			}
		}
	}
	tx.SetSource(filename)
	if err := CheckCurrencies(tx, ""); err != nil {
		return err
	}
	return CheckDecomposition(tx)
}

// recompute re-expresses a transaction booked in a foreign currency in the
// security's registered currency. The exchange rate comes from the gross
// value unit, whose forex side must already carry the registered currency;
// without it the conversion is not penny-exact and the transaction fails.
func recompute(tx Transaction, currency string) error {
	gross, ok := tx.GrossValueUnit()
	if !ok {
		return fmt.Errorf("booked in %s but the security is registered in %s, and no gross value unit carries a rate: %w",
			tx.Currency(), currency, &CurrencyMismatchError{Left: currency, Right: tx.Currency()})
	}
	forex, fok := gross.Forex()
	rate, rok := gross.Rate()
	if !fok || !rok || forex.Currency() != currency {
		return fmt.Errorf("booked in %s but the security is registered in %s, and the gross value forex is not in %s: %w",
			tx.Currency(), currency, currency, &CurrencyMismatchError{Left: currency, Right: tx.Currency()})
	}

	// rate converts the registered currency into the booking one; its
	// inverse takes every booked amount back.
	inv := rate.Inverse()

	units := make([]Unit, 0, len(tx.Units()))
	for _, u := range tx.Units() {
		var amount Money
		if f, fk := u.Forex(); fk && f.Currency() == currency {
			// The statement already quotes this unit in the registered
			// currency; the booked side becomes the forex sub-amount.
			amount = f
		} else {
			converted, err := inv.Convert(u.Amount())
			if err != nil {
				return err
			}
			amount = converted
		}
		nu, err := NewForexUnit(u.Kind(), amount, u.Amount(), inv)
		if err != nil {
			return err
		}
		units = append(units, nu)
	}

	// The total is re-derived from the converted units rather than converted
	// on its own, so that the transaction still decomposes after rounding.
	newGross := units[0]
	for _, u := range units {
		if u.Kind() == GrossValue {
			newGross = u
			break
		}
	}
	total, err := Recompose(newGross.Amount(), units, tx.CostIncreasing())
	if err != nil {
		return err
	}

	tx.SetAmount(total)
	tx.setUnits(units)
	return nil
}

// fail records an assembly error as one failure item carrying the
// transaction state recovered so far.
func fail(tx Transaction, err error, filename string, out *ExtractionResult) {
	excerpt := ""
	if b, merr := json.Marshal(tx); merr == nil {
		excerpt = string(b)
	}
	out.Errors = append(out.Errors, fmt.Errorf("%s: %w", filename, err))
	out.Items = append(out.Items, &FailureItem{Excerpt: excerpt, Err: err, source: filename})
}

func stampSource(it Item, filename string) {
	switch v := it.(type) {
	case *FailureItem:
		if v.source == "" {
			v.source = filename
		}
	case *SkippedItem:
		if v.source == "" {
			v.source = filename
		}
	case *SecurityItem:
		if v.source == "" {
			v.source = filename
		}
	}
}
