package cmd

import (
	"fmt"
	"strings"

	"github.com/etnz/statement"
)

// statementViolations runs the advisory validation pass the way the commit
// step would.
func statementViolations(result *statement.ExtractionResult, currency string) []error {
	return statement.AssertImportActions(result.Items, currency)
}

// Report renders an extraction result as markdown, one section per item
// category, failures and violations last.
func Report(result *statement.ExtractionResult, violations []error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Extraction Report\n\n")
	fmt.Fprintf(&b, "%s\n\n", result)

	if secs := result.Securities(); len(secs) > 0 {
		fmt.Fprintf(&b, "## New Securities\n\n")
		for _, s := range secs {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		fmt.Fprintln(&b)
	}

	var txs, skips, failures []string
	for _, it := range result.Items {
		switch v := it.(type) {
		case *statement.TransactionItem:
			tx := v.Transaction
			txs = append(txs, fmt.Sprintf("| %s | %s | %s | %s |", tx.Date(), tx.Type(), describeSecurity(tx), tx.Amount()))
		case *statement.PortfolioTransactionItem:
			tx := v.Transaction
			txs = append(txs, fmt.Sprintf("| %s | %s | %s | %s |", tx.Date(), tx.Type(), describeSecurity(tx), tx.Shares()))
		case *statement.BuySellEntryItem:
			tx := v.Entry.PortfolioTx()
			txs = append(txs, fmt.Sprintf("| %s | %s | %s | %s |", tx.Date(), tx.Type(), describeSecurity(tx), tx.Amount()))
		case *statement.SkippedItem:
			skips = append(skips, fmt.Sprintf("- %s (%s)", v.Reason, v.Source()))
		case *statement.FailureItem:
			failures = append(failures, fmt.Sprintf("- %s: %v", v.Source(), v.Err))
		}
	}

	if len(txs) > 0 {
		fmt.Fprintf(&b, "## Transactions\n\n")
		fmt.Fprintf(&b, "| Date | Type | Security | Amount |\n")
		fmt.Fprintf(&b, "|------|------|----------|--------|\n")
		for _, row := range txs {
			fmt.Fprintln(&b, row)
		}
		fmt.Fprintln(&b)
	}
	if len(skips) > 0 {
		fmt.Fprintf(&b, "## Skipped\n\n%s\n\n", strings.Join(skips, "\n"))
	}
	if len(failures) > 0 {
		fmt.Fprintf(&b, "## Failures\n\n%s\n\n", strings.Join(failures, "\n"))
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, "## Errors\n\n")
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "- %v\n", e)
		}
		fmt.Fprintln(&b)
	}
	if len(violations) > 0 {
		fmt.Fprintf(&b, "## Violations\n\n")
		for _, v := range violations {
			fmt.Fprintf(&b, "- %v\n", v)
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}

func describeSecurity(tx statement.Transaction) string {
	if s := tx.Security(); s != nil {
		return s.Name()
	}
	return "-"
}
