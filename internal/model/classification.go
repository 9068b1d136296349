package model

import (
	"encoding/json"
	"maps"
	"slices"
)

// Classification partitions packages by how many licenses they declare.
//
// A package with exactly one license is stored in the single-license
// grouping under that license. A package with two or more licenses is stored
// in the multi-license grouping with its licenses in report order.
//
// The single-license side has set semantics. Accessors return sorted
// slices.
type Classification struct {
	// single maps a license string to the set of packages using it.
	single map[string]map[PackageRef]struct{}

	// multi maps a package to its ordered license alternatives.
	multi map[PackageRef][]string
}

// Summary holds the package counts shown in the report summary table.
type Summary struct {
	// SingleLicenseCount is the total number of packages across all
	// single-license groups.
	SingleLicenseCount int `json:"single_license_packages"`

	// MultiLicenseCount is the number of multi-license (OR) packages.
	MultiLicenseCount int `json:"multi_license_packages"`
}

// NewClassification returns an empty Classification.
func NewClassification() *Classification {
	return &Classification{
		single: make(map[string]map[PackageRef]struct{}),
		multi:  make(map[PackageRef][]string),
	}
}

// Classify groups parsed entries into single-license and multi-license
// packages.
//
// Entries without licenses are dropped. When the same package appears more
// than once, single-license additions are idempotent and multi-license
// entries are overwritten by the later occurrence.
func Classify(entries []Entry) *Classification {
	c := NewClassification()
	for _, e := range entries {
		c.Add(e)
	}
	return c
}

// Add classifies a single entry.
func (c *Classification) Add(e Entry) {
	switch len(e.Licenses) {
	case 0:
		return
	case 1:
		license := e.Licenses[0]
		pkgs, ok := c.single[license]
		if !ok {
			pkgs = make(map[PackageRef]struct{})
			c.single[license] = pkgs
		}
		pkgs[e.Package] = struct{}{}
	default:
		c.multi[e.Package] = slices.Clone(e.Licenses)
	}
}

// Licenses returns the distinct single-license keys sorted case-insensitively.
func (c *Classification) Licenses() []string {
	licenses := slices.Collect(maps.Keys(c.single))
	SortFold(licenses)
	return licenses
}

// PackagesFor returns the packages licensed solely under license,
// sorted case-insensitively. It returns nil for unknown licenses.
func (c *Classification) PackagesFor(license string) []PackageRef {
	pkgs, ok := c.single[license]
	if !ok {
		return nil
	}
	refs := slices.Collect(maps.Keys(pkgs))
	SortFold(refs)
	return refs
}

// MultiLicensePackages returns the multi-license packages sorted
// case-insensitively.
func (c *Classification) MultiLicensePackages() []PackageRef {
	refs := slices.Collect(maps.Keys(c.multi))
	SortFold(refs)
	return refs
}

// LicensesOf returns the ordered license alternatives of a multi-license
// package, or nil if the package is not multi-licensed.
func (c *Classification) LicensesOf(pkg PackageRef) []string {
	licenses, ok := c.multi[pkg]
	if !ok {
		return nil
	}
	return slices.Clone(licenses)
}

// HasMultiLicense reports whether any multi-license package was classified.
func (c *Classification) HasMultiLicense() bool {
	return len(c.multi) > 0
}

// Summary returns the package counts for the report summary.
func (c *Classification) Summary() Summary {
	var single int
	for _, pkgs := range c.single {
		single += len(pkgs)
	}
	return Summary{
		SingleLicenseCount: single,
		MultiLicenseCount:  len(c.multi),
	}
}

// classificationJSON is the serialized form of a Classification.
// Package lists are sorted so that the encoding is stable.
type classificationJSON struct {
	SingleLicense map[string][]PackageRef `json:"single_license"`
	MultiLicense  map[PackageRef][]string `json:"multi_license"`
}

// MarshalJSON implements json.Marshaler.
func (c *Classification) MarshalJSON() ([]byte, error) {
	out := classificationJSON{
		SingleLicense: make(map[string][]PackageRef, len(c.single)),
		MultiLicense:  c.multi,
	}
	for _, license := range c.Licenses() {
		out.SingleLicense[license] = c.PackagesFor(license)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Classification) UnmarshalJSON(data []byte) error {
	var in classificationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*c = *NewClassification()
	for license, pkgs := range in.SingleLicense {
		for _, pkg := range pkgs {
			c.Add(Entry{Package: pkg, Licenses: []string{license}})
		}
	}
	for pkg, licenses := range in.MultiLicense {
		if len(licenses) > 1 {
			c.multi[pkg] = slices.Clone(licenses)
		}
	}
	return nil
}
