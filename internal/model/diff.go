package model

import (
	"maps"
	"slices"
)

// PackageLicenses pairs a package with the licenses it declares.
type PackageLicenses struct {
	Package  PackageRef `json:"package"`
	Licenses []string   `json:"licenses"`
}

// LicenseChange describes a package whose declared licenses changed.
type LicenseChange struct {
	Package PackageRef `json:"package"`
	Before  []string   `json:"before"`
	After   []string   `json:"after"`
}

// Diff lists the differences between two classifications.
type Diff struct {
	// Added contains packages present only in the newer classification.
	Added []PackageLicenses `json:"added"`

	// Removed contains packages present only in the older classification.
	Removed []PackageLicenses `json:"removed"`

	// Changed contains packages present in both with different licenses.
	Changed []LicenseChange `json:"changed"`
}

// IsEmpty reports whether the two classifications were equivalent.
func (d Diff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Compare returns the differences between an older and a newer
// classification. Packages are identified by their full "name@version"
// reference, so a version bump shows up as one removal and one addition.
// All lists are sorted case-insensitively by package.
func Compare(older, newer *Classification) Diff {
	before := older.byPackage()
	after := newer.byPackage()

	var d Diff
	for _, pkg := range sortedRefs(after) {
		prev, ok := before[pkg]
		if !ok {
			d.Added = append(d.Added, PackageLicenses{Package: pkg, Licenses: after[pkg]})
			continue
		}
		if !slices.Equal(prev, after[pkg]) {
			d.Changed = append(d.Changed, LicenseChange{Package: pkg, Before: prev, After: after[pkg]})
		}
	}
	for _, pkg := range sortedRefs(before) {
		if _, ok := after[pkg]; !ok {
			d.Removed = append(d.Removed, PackageLicenses{Package: pkg, Licenses: before[pkg]})
		}
	}
	return d
}

// byPackage inverts the classification into package -> licenses.
// A package listed under several single licenses gets them in sorted order,
// followed by its multi-license alternatives if it has any.
func (c *Classification) byPackage() map[PackageRef][]string {
	out := make(map[PackageRef][]string)
	for _, license := range c.Licenses() {
		for pkg := range c.single[license] {
			out[pkg] = append(out[pkg], license)
		}
	}
	for pkg, licenses := range c.multi {
		out[pkg] = append(out[pkg], licenses...)
	}
	return out
}

func sortedRefs(m map[PackageRef][]string) []PackageRef {
	refs := slices.Collect(maps.Keys(m))
	SortFold(refs)
	return refs
}
