// Package cmd implements the CLI application to extract transactions from
// bank and broker statements.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/etnz/statement"
	"github.com/etnz/statement/brokers"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package calls Register() to declare them, and Execute() on the
// user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&extractCmd{}, "statements")
	c.Register(&checkCmd{}, "statements")
	c.Register(&templatesCmd{}, "statements")

	c.Register(&searchSecurityCmd{}, "securities")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var securitiesFile = flag.String("securities-file", "securities.jsonl", "Path to the securities registry file (JSONL format)")

// LoadSecurities reads the registry the extraction deduplicates against.
func LoadSecurities() (*statement.Securities, error) {
	f, err := os.Open(*securitiesFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, securities registry does not exist, starting from an empty one")
		return statement.NewSecurities(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return statement.DecodeSecurities(*securitiesFile, f)
}

// ReadDocuments loads the statement text files named on the command line, in
// the given order.
func ReadDocuments(filenames []string) ([]statement.Document, error) {
	var docs []statement.Document
	for _, name := range filenames {
		text, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("cannot read statement %q: %w", name, err)
		}
		docs = append(docs, statement.Document{Filename: name, Text: string(text)})
	}
	return docs, nil
}

// engine returns the extraction engine with all shipped templates.
func engine() *statement.Engine {
	return statement.NewEngine(brokers.All())
}
