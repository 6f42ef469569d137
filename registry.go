package statement

// Securities holds a set of securities indexed by their identifiers.
// The extraction engine treats the caller-supplied instance as a read-only
// snapshot; newly minted securities are returned as items, never inserted
// into the caller's registry.
type Securities struct {
	securities []*Security
	byISIN     map[string]*Security
	byWKN      map[string]*Security
	byTicker   map[string]*Security // keyed by normalized ticker root
}

// NewSecurities returns a registry holding the given securities.
func NewSecurities(securities ...*Security) *Securities {
	s := &Securities{
		byISIN:   make(map[string]*Security),
		byWKN:    make(map[string]*Security),
		byTicker: make(map[string]*Security),
	}
	for _, sec := range securities {
		s.Add(sec)
	}
	return s
}

// Add indexes a security under every identifier it carries. The first
// security registered under an identifier wins; later duplicates do not
// displace it.
func (s *Securities) Add(sec *Security) {
	s.securities = append(s.securities, sec)
	if isin := sec.ISIN(); isin != "" {
		if _, ok := s.byISIN[isin]; !ok {
			s.byISIN[isin] = sec
		}
	}
	if wkn := sec.WKN(); wkn != "" {
		if _, ok := s.byWKN[wkn]; !ok {
			s.byWKN[wkn] = sec
		}
	}
	if ticker := sec.Ticker(); ticker != "" {
		root := tickerRoot(ticker)
		if _, ok := s.byTicker[root]; !ok {
			s.byTicker[root] = sec
		}
	}
}

// Len returns the number of securities held.
func (s *Securities) Len() int { return len(s.securities) }

// All returns the securities in insertion order.
func (s *Securities) All() []*Security { return s.securities }

// find looks a candidate identity up in priority order ISIN, WKN, then
// normalized ticker root. The first identifier that matches wins; lower
// priority identifiers are not consulted afterwards, so an ambiguous
// multi-field candidate resolves deterministically.
func (s *Securities) find(id SecurityID) *Security {
	if id.ISIN != "" {
		if sec, ok := s.byISIN[id.ISIN]; ok {
			return sec
		}
	}
	if id.WKN != "" {
		if sec, ok := s.byWKN[id.WKN]; ok {
			return sec
		}
	}
	if id.Ticker != "" {
		if sec, ok := s.byTicker[tickerRoot(id.Ticker)]; ok {
			return sec
		}
	}
	return nil
}

// Resolution is the outcome of resolving a candidate identity.
type Resolution struct {
	// Security is the matched or newly minted instrument.
	Security *Security
	// Created is true when no existing security matched and a new one was
	// minted from the candidate.
	Created bool
	// RecomputeIn carries the registered currency when the matched
	// security's currency differs from the one observed on the statement.
	// The caller must re-express the transaction's monetary fields in that
	// currency, recording the observed amounts as forex sub-amounts.
	RecomputeIn string
}

// Resolver deduplicates instruments against the caller's registry and within
// one extraction run. Resolution never fails: absence of a match is the
// trigger for creation, not an error.
type Resolver struct {
	existing *Securities
	minted   *Securities
}

// NewResolver returns a resolver reading from the given registry snapshot.
// A nil registry is treated as empty.
func NewResolver(existing *Securities) *Resolver {
	if existing == nil {
		existing = NewSecurities()
	}
	return &Resolver{existing: existing, minted: NewSecurities()}
}

// Resolve matches the candidate against the run's minted securities first,
// then the pre-existing registry, and mints a new security when neither
// holds a match. Identifier matching is case-sensitive on ISIN and WKN and
// case-insensitive on the normalized ticker root.
func (r *Resolver) Resolve(id SecurityID, name, currency string) Resolution {
	sec := r.minted.find(id)
	if sec == nil {
		sec = r.existing.find(id)
	}
	if sec == nil {
		sec = NewSecurity(id, name, currency)
		r.minted.Add(sec)
		return Resolution{Security: sec, Created: true}
	}
	res := Resolution{Security: sec}
	if currency != "" && sec.Currency() != currency {
		res.RecomputeIn = sec.Currency()
	}
	return res
}

// Minted returns the securities created during this run, in creation order.
func (r *Resolver) Minted() []*Security { return r.minted.All() }
