// Package statement turns raw, institution-specific statement text (already
// extracted from a PDF or similar source) into a canonical, currency-consistent
// set of securities and transactions ready to be merged into a portfolio.
//
// The package is organized as a small pipeline:
//
//   - a scanning framework (DocumentType, Block, Section) that institution
//     templates instantiate to segment text into transaction blocks and
//     capture typed fields,
//   - a security resolver that deduplicates instruments against an existing
//     registry and within one extraction run,
//   - a money kernel with exact minor-unit arithmetic and foreign-exchange
//     sub-amounts,
//   - an import validator that re-derives the bookkeeping invariants before
//     anything is committed.
//
// A parse failure in one block never aborts the rest of the document: failures
// are accumulated in the ExtractionResult, alongside the successfully
// extracted items.
package statement
