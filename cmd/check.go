package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// checkCmd implements the "check" command.
type checkCmd struct {
	currency string
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validates statements without printing the extraction" }
func (*checkCmd) Usage() string {
	return `stx check [-currency EUR] <statement.txt> ...

  Runs the extraction and reports only the errors and invariant violations.
  Exits with a failure status when any is found, so it is usable in scripts
  before an actual import.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Validate items against a cash account in this currency")
}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, "error:", e)
	}
	for _, v := range violations {
		fmt.Fprintln(os.Stderr, "violation:", v)
	}
	if len(result.Errors) > 0 || len(violations) > 0 {
		return subcommands.ExitFailure
	}
	fmt.Printf("OK: %s\n", result)
	return subcommands.ExitSuccess
}
