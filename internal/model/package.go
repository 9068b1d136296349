package model

import "strings"

// PackageRef identifies a package as "name@version".
// It is treated as an opaque string: no semantic version parsing is done,
// and ordering and identity always use the full string.
type PackageRef string

// NewPackageRef joins a package name and version into a PackageRef.
func NewPackageRef(name, version string) PackageRef {
	return PackageRef(name + "@" + version)
}

// String returns the raw "name@version" form.
func (p PackageRef) String() string {
	return string(p)
}

// Split returns the name and version parts of the reference.
// The split happens at the last '@' that is not the first character, so
// scoped npm names such as "@scope/pkg@1.0.0" keep their leading '@'.
// If there is no version separator, the whole reference is returned as name.
func (p PackageRef) Split() (name, version string) {
	s := string(p)
	i := strings.LastIndex(s, "@")
	if i <= 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

// Entry is a single package line recognized in a scan report.
type Entry struct {
	// Package is the "name@version" reference.
	Package PackageRef `json:"package"`

	// Licenses is the ordered list of normalized license strings.
	// The order is the one listed in the report because it may reflect
	// the author's preference.
	Licenses []string `json:"licenses"`
}
