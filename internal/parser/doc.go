// Package parser extracts package and license information from nlf-style
// license reports.
//
// A recognized line looks like:
//
//	lodash@4.17.21 [license(s): MIT]
//	@scope/pkg@1.0.0 [license(s): MIT, Apache-2.0]
//
// Lines that do not match this shape (headers, blank lines, warnings from
// npm) are skipped without error.
package parser
