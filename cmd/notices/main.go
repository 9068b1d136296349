// Package main provides the entry point for the notices CLI.
//
// notices turns an nlf license scan of a Node.js project into a
// third-party attribution document grouped by license.
//
// Usage:
//
//	notices                       # run nlf and print Markdown
//	notices licenses.txt -o THIRD_PARTY_NOTICES.md
//	notices compare my-app
//
// See --help for all available options.
package main

// main is the entry point for notices.
func main() {
	Execute()
}
