package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/statement"
	"github.com/google/subcommands"
)

// searchSecurityCmd implements the "search" command.
type searchSecurityCmd struct {
	llm bool
}

func (*searchSecurityCmd) Name() string     { return "search" }
func (*searchSecurityCmd) Synopsis() string { return "searches for a security by ticker, ISIN or name" }
func (*searchSecurityCmd) Usage() string {
	return `stx search [-llm] <search term>

  Resolves a search term into instrument candidates and prints
  ready-to-paste registry lines for the results.

  Requires the EODHD_API_KEY environment variable (or -eodhd-api-key),
  unless -llm is set.
`
}

func (c *searchSecurityCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.llm, "llm", false, "Resolve with a generative model instead of the EODHD search API")
}

func (c *searchSecurityCmd) provider(ctx context.Context) (statement.SecuritySearchProvider, error) {
	if c.llm {
		return statement.NewLLMSearch(ctx)
	}
	return statement.NewEODHDSearch()
}

func (c *searchSecurityCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a search term is required.")
		return subcommands.ExitUsageError
	}
	searchTerm := strings.Join(f.Args(), " ")

	provider, err := c.provider(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	candidates, err := provider.Search(ctx, searchTerm)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error searching securities:", err)
		return subcommands.ExitFailure
	}
	if len(candidates) == 0 {
		fmt.Printf("No results found for '%s'.\n", searchTerm)
		return subcommands.ExitSuccess
	}

	fmt.Printf("Found %d results for '%s':\n\n", len(candidates), searchTerm)
	for _, cand := range candidates {
		fmt.Printf("➡️   Name     : %s\n", cand.Name)
		fmt.Printf("    Identity : %s\n", cand.ID)
		fmt.Printf("    Currency : %s\n", cand.Currency)

		sec := statement.NewSecurity(cand.ID, cand.Name, cand.Currency)
		line, err := registryLine(sec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "    Error formatting %s: %v\n\n", cand.Name, err)
			continue
		}
		fmt.Printf("    %s\n\n", line)
	}
	return subcommands.ExitSuccess
}

// registryLine renders one security the way the registry file stores it.
func registryLine(sec *statement.Security) (string, error) {
	b, err := sec.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
