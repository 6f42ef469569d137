package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// extractCmd implements the "extract" command.
type extractCmd struct {
	jsonOut  bool
	currency string
}

func (*extractCmd) Name() string     { return "extract" }
func (*extractCmd) Synopsis() string { return "extracts transactions from statement text files" }
func (*extractCmd) Usage() string {
	return `stx extract [-json] [-currency EUR] <statement.txt> ...

  Scans the given text-extracted statements with the shipped institution
  templates and prints the extracted securities, transactions and failures.
  Documents are processed in the given order, so a security discovered in an
  earlier file is reused by later ones.
`
}

func (c *extractCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.jsonOut, "json", false, "Print items as JSON lines instead of a report")
	f.StringVar(&c.currency, "currency", "", "Validate items against a cash account in this currency")
}

func (c *extractCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one statement file is required.")
		return subcommands.ExitUsageError
	}

	docs, err := ReadDocuments(f.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	existing, err := LoadSecurities()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading securities registry:", err)
		return subcommands.ExitFailure
	}

	result := engine().Extract(docs, existing)
	violations := statementViolations(result, c.currency)

	if c.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		for _, it := range result.Items {
			if err := enc.Encode(it); err != nil {
				fmt.Fprintln(os.Stderr, "Error encoding item:", err)
				return subcommands.ExitFailure
			}
		}
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, "error:", e)
		}
		for _, v := range violations {
			fmt.Fprintln(os.Stderr, "violation:", v)
		}
	} else {
		md := Report(result, violations)
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		out, err := r.Render(md)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error rendering report:", err)
			return subcommands.ExitFailure
		}
		fmt.Print(out)
	}

	if len(result.Errors) > 0 || len(violations) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
