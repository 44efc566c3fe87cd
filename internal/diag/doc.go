// Package diag defines the diagnostic model produced while reading definition
// files.
//
// The lexer and the parser never return errors directly: they report
// Diagnostic records through a Reporter. The loader collects them in a Bag and
// turns a bag with errors into a single ParseError for the file, so the rest
// of the pipeline only ever sees typed Go errors.
//
// Package diag performs no formatting beyond the one-line Diagnostic.Format
// helper; rendering belongs to the CLI.
package diag
