package statement

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/PaesslerAG/jsonpath"
)

// SecuritySearchProvider resolves a free-text query (a bare ticker, an ISIN,
// an instrument name) into canonical instrument candidates. Templates for
// statements that print only a ticker use it to recover name and identity.
// It is injected as a strategy, so tests swap in a canned one.
type SecuritySearchProvider interface {
	Search(ctx context.Context, query string) ([]SecurityCandidate, error)
}

const eodhdAPIKeyEnv = "EODHD_API_KEY"

var eodhdAPIFlag = flag.String("eodhd-api-key", "", "EODHD API key to use for searching securities on EODHD.com.\n If missing it will read the environment variable \""+eodhdAPIKeyEnv+"\". You can get one at https://eodhd.com/")

func eodhdAPIKey() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *eodhdAPIFlag == "" {
		*eodhdAPIFlag = os.Getenv(eodhdAPIKeyEnv)
	}
	return *eodhdAPIFlag
}

// JSONSearchProvider implements SecuritySearchProvider over any JSON search
// endpoint, picking the candidate fields out of the response with jsonpath
// expressions.
type JSONSearchProvider struct {
	// URL is the endpoint address with one %s verb for the escaped query.
	URL string
	// List selects the array of result objects in the response.
	List string
	// ISIN, Ticker, Name and Currency select the fields of one result
	// object. Empty paths leave the field blank.
	ISIN, Ticker, Name, Currency string

	c *http.Client
}

// NewEODHDSearch returns a provider backed by the EODHD search API. The API
// key comes from the -eodhd-api-key flag or the environment.
func NewEODHDSearch() (*JSONSearchProvider, error) {
	key := eodhdAPIKey()
	if key == "" {
		return nil, fmt.Errorf("missing EODHD API key: set -eodhd-api-key or %s", eodhdAPIKeyEnv)
	}
	return &JSONSearchProvider{
		URL:      "https://eodhd.com/api/search/%s?api_token=" + url.QueryEscape(key) + "&fmt=json",
		List:     "$",
		ISIN:     "$.ISIN",
		Ticker:   "$.Code",
		Name:     "$.Name",
		Currency: "$.Currency",
	}, nil
}

// Search queries the endpoint and returns one candidate per result object.
func (p *JSONSearchProvider) Search(ctx context.Context, query string) ([]SecurityCandidate, error) {
	addr := fmt.Sprintf(p.URL, url.PathEscape(query))
	var jobj any
	if err := jwget(ctx, p.client(), addr, &jobj); err != nil {
		return nil, fmt.Errorf("error searching %q: %w", query, err)
	}

	jlist, err := jsonpath.Get(p.List, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing search results for %q: %q %w", query, p.List, err)
	}
	results, ok := jlist.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing search results for %q: %q is not a list", query, p.List)
	}

	var candidates []SecurityCandidate
	for _, r := range results {
		c := SecurityCandidate{
			ID: SecurityID{
				ISIN:   jstring(r, p.ISIN),
				Ticker: jstring(r, p.Ticker),
			},
			Name:     jstring(r, p.Name),
			Currency: jstring(r, p.Currency),
		}
		if c.ID.IsEmpty() && c.Name == "" {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (p *JSONSearchProvider) client() *http.Client {
	if p.c == nil {
		p.c = daily()
	}
	return p.c
}

// jstring extracts a string at the given jsonpath, "" when absent or not a
// string.
func jstring(jobj any, path string) string {
	if path == "" {
		return ""
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return ""
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	s, _ := jval.(string)
	return s
}
