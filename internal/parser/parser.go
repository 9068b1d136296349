package parser

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nao1215/notices/internal/model"
)

// space is the Unicode whitespace class. RE2's \s is ASCII only, so the
// class adds \v, the information separators, NEL and the Z categories.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

// linePattern matches a single report line.
// The package name may contain '@' and '/' for scoped npm packages; the
// greedy name group backtracks so that the last '@' separates the version.
var linePattern = regexp.MustCompile(
	`^` + space + `*` +
		`(?P<pkg>[@A-Za-z0-9._\-/]+)` +
		`@` +
		`(?P<ver>[0-9A-Za-z.\-+~^_]+)` +
		space + `+\[license\(s\):` + space + `*` +
		`(?P<lic>.+?)` +
		space + `*\]` + space + `*$`,
)

var (
	pkgIndex = linePattern.SubexpIndex("pkg")
	verIndex = linePattern.SubexpIndex("ver")
	licIndex = linePattern.SubexpIndex("lic")
)

// Parse returns one entry per recognized line of text, in input order.
// Entries may have an empty license list when the bracket held only
// separators; classification drops those.
func Parse(text string) []model.Entry {
	var entries []model.Entry
	for line := range Lines(text) {
		entry, ok := ParseLine(line)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// Lines yields the lines of text without their terminators.
// Besides "\n", "\r\n" and a lone "\r", the vertical tab, form feed,
// the file, group and record separators, NEL, U+2028 and U+2029 end a line.
// A trailing terminator does not start an extra empty line.
func Lines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for text != "" {
			end := strings.IndexFunc(text, isLineBreak)
			if end < 0 {
				yield(text)
				return
			}
			if !yield(text[:end]) {
				return
			}
			if strings.HasPrefix(text[end:], "\r\n") {
				text = text[end+2:]
				continue
			}
			_, size := utf8.DecodeRuneInString(text[end:])
			text = text[end+size:]
		}
	}
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// isSpace reports whether r is whitespace, including the information
// separators U+001C to U+001F that unicode.IsSpace leaves out.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}

// ParseLine parses a single report line.
// It returns false if the line does not match the expected format.
func ParseLine(line string) (model.Entry, bool) {
	m := linePattern.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
	if m == nil {
		return model.Entry{}, false
	}

	return model.Entry{
		Package:  model.NewPackageRef(m[pkgIndex], m[verIndex]),
		Licenses: SplitLicenses(m[licIndex]),
	}, true
}

// SplitLicenses splits the comma-separated license text of a report line.
// Each token is normalized with NormalizeLicense and empty tokens are
// discarded.
func SplitLicenses(text string) []string {
	var licenses []string
	for token := range strings.SplitSeq(text, ",") {
		license := NormalizeLicense(token)
		if license == "" {
			continue
		}
		licenses = append(licenses, license)
	}
	return licenses
}

// NormalizeLicense trims a license string and collapses internal whitespace
// runs to a single space.
func NormalizeLicense(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}
