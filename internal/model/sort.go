package model

import (
	"cmp"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CompareFold orders two strings case-insensitively.
// Strings are compared by their Unicode lower-case form first; strings that
// only differ in case are then ordered by their raw bytes so the result is
// always deterministic.
func CompareFold(a, b string) int {
	lower := cases.Lower(language.Und)
	return compareFolded(lower.String(a), a, lower.String(b), b)
}

func compareFolded(foldedA, a, foldedB, b string) int {
	if c := cmp.Compare(foldedA, foldedB); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// SortFold sorts strings in place in CompareFold order.
// Each string is lower-cased once, not once per comparison.
func SortFold[S ~[]E, E ~string](s S) {
	type keyed struct {
		folded string
		value  E
	}

	lower := cases.Lower(language.Und)
	keys := make([]keyed, len(s))
	for i, v := range s {
		keys[i] = keyed{folded: lower.String(string(v)), value: v}
	}

	slices.SortFunc(keys, func(a, b keyed) int {
		return compareFolded(a.folded, string(a.value), b.folded, string(b.value))
	})

	for i, k := range keys {
		s[i] = k.value
	}
}
