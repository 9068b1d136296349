package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestClassify tests grouping of parsed entries.
func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("single license goes to license bucket", func(t *testing.T) {
		t.Parallel()

		c := Classify([]Entry{
			{Package: "lodash@4.17.21", Licenses: []string{"MIT"}},
			{Package: "react@18.2.0", Licenses: []string{"MIT"}},
			{Package: "tslib@2.6.2", Licenses: []string{"0BSD"}},
		})

		if diff := cmp.Diff([]string{"0BSD", "MIT"}, c.Licenses()); diff != "" {
			t.Errorf("licenses mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]PackageRef{"lodash@4.17.21", "react@18.2.0"}, c.PackagesFor("MIT")); diff != "" {
			t.Errorf("MIT packages mismatch (-want +got):\n%s", diff)
		}
		if c.HasMultiLicense() {
			t.Error("expected no multi-license packages")
		}
	})

	t.Run("multiple licenses keep report order", func(t *testing.T) {
		t.Parallel()

		c := Classify([]Entry{
			{Package: "@scope/pkg@1.0.0", Licenses: []string{"MIT", "Apache-2.0"}},
		})

		if diff := cmp.Diff([]string{"MIT", "Apache-2.0"}, c.LicensesOf("@scope/pkg@1.0.0")); diff != "" {
			t.Errorf("license order mismatch (-want +got):\n%s", diff)
		}
		if len(c.Licenses()) != 0 {
			t.Errorf("expected no single-license groups, got %v", c.Licenses())
		}
	})

	t.Run("entry without licenses is dropped", func(t *testing.T) {
		t.Parallel()

		c := Classify([]Entry{{Package: "empty@1.0.0", Licenses: nil}})

		if got := c.Summary(); got != (Summary{}) {
			t.Errorf("expected empty summary, got %+v", got)
		}
	})

	t.Run("duplicate single-license lines are idempotent", func(t *testing.T) {
		t.Parallel()

		c := Classify([]Entry{
			{Package: "a@1.0.0", Licenses: []string{"MIT"}},
			{Package: "a@1.0.0", Licenses: []string{"MIT"}},
		})

		if got := c.Summary().SingleLicenseCount; got != 1 {
			t.Errorf("expected 1 single-license package, got %d", got)
		}
	})

	t.Run("duplicate multi-license lines use last write", func(t *testing.T) {
		t.Parallel()

		c := Classify([]Entry{
			{Package: "a@1.0.0", Licenses: []string{"MIT", "ISC"}},
			{Package: "a@1.0.0", Licenses: []string{"BSD-2-Clause", "GPL-2.0"}},
		})

		if diff := cmp.Diff([]string{"BSD-2-Clause", "GPL-2.0"}, c.LicensesOf("a@1.0.0")); diff != "" {
			t.Errorf("licenses mismatch (-want +got):\n%s", diff)
		}
		if got := c.Summary().MultiLicenseCount; got != 1 {
			t.Errorf("expected 1 multi-license package, got %d", got)
		}
	})

	t.Run("classification does not alias entry slices", func(t *testing.T) {
		t.Parallel()

		licenses := []string{"MIT", "ISC"}
		c := Classify([]Entry{{Package: "a@1.0.0", Licenses: licenses}})
		licenses[0] = "changed"

		if got := c.LicensesOf("a@1.0.0")[0]; got != "MIT" {
			t.Errorf("expected MIT, got %q", got)
		}
	})
}

// TestClassificationSorting tests case-insensitive ordering of accessors.
func TestClassificationSorting(t *testing.T) {
	t.Parallel()

	c := Classify([]Entry{
		{Package: "Zeta@1.0.0", Licenses: []string{"mit"}},
		{Package: "alpha@1.0.0", Licenses: []string{"MIT"}},
		{Package: "beta@1.0.0", Licenses: []string{"Apache-2.0"}},
		{Package: "Beta@1.0.0", Licenses: []string{"Apache-2.0"}},
		{Package: "yargs@17.0.0", Licenses: []string{"MIT", "ISC"}},
		{Package: "Angular@1.0.0", Licenses: []string{"MIT", "ISC"}},
	})

	if diff := cmp.Diff([]string{"Apache-2.0", "MIT", "mit"}, c.Licenses()); diff != "" {
		t.Errorf("licenses mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]PackageRef{"Beta@1.0.0", "beta@1.0.0"}, c.PackagesFor("Apache-2.0")); diff != "" {
		t.Errorf("packages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]PackageRef{"Angular@1.0.0", "yargs@17.0.0"}, c.MultiLicensePackages()); diff != "" {
		t.Errorf("multi-license packages mismatch (-want +got):\n%s", diff)
	}
}

// TestClassificationSummary tests the summary counts.
func TestClassificationSummary(t *testing.T) {
	t.Parallel()

	c := Classify([]Entry{
		{Package: "a@1.0.0", Licenses: []string{"MIT"}},
		{Package: "b@1.0.0", Licenses: []string{"MIT"}},
		{Package: "c@1.0.0", Licenses: []string{"ISC"}},
		{Package: "d@1.0.0", Licenses: []string{"MIT", "Apache-2.0"}},
	})

	want := Summary{SingleLicenseCount: 3, MultiLicenseCount: 1}
	if got := c.Summary(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

// TestClassificationJSON tests that a classification survives serialization.
func TestClassificationJSON(t *testing.T) {
	t.Parallel()

	original := Classify([]Entry{
		{Package: "a@1.0.0", Licenses: []string{"MIT"}},
		{Package: "b@2.0.0", Licenses: []string{"ISC"}},
		{Package: "c@3.0.0", Licenses: []string{"MIT", "Apache-2.0"}},
	})

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored := NewClassification()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := Compare(original, restored); !diff.IsEmpty() {
		t.Errorf("expected no differences, got %+v", diff)
	}
	if diff := cmp.Diff(original.Summary(), restored.Summary()); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}
