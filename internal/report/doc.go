// Package report provides attribution document generation and output.
//
// This package contains writers for different output formats:
//   - MarkdownWriter: The THIRD_PARTY_NOTICES document, grouped by license
//   - JSONWriter: Structured output with package URLs for tool integration
//   - DiffWriter: Human-readable comparison of two saved runs
//
// Writers read a model.Classification only through its sorted accessors.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably by the CLI.
package report
