package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/statement/brokers"
	"github.com/google/subcommands"
)

// templatesCmd implements the "templates" command.
type templatesCmd struct{}

func (*templatesCmd) Name() string     { return "templates" }
func (*templatesCmd) Synopsis() string { return "lists the shipped institution templates" }
func (*templatesCmd) Usage() string {
	return `stx templates

  Lists the institutions whose statements this tool can read.
`
}

func (*templatesCmd) SetFlags(_ *flag.FlagSet) {}

func (*templatesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	for _, t := range brokers.All().All() {
		fmt.Printf("%-20s identified by %q\n", t.Institution, t.Identifiers)
	}
	return subcommands.ExitSuccess
}
