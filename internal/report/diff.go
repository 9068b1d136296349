package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/nao1215/notices/internal/model"
)

// DiffSide identifies one of the two runs in a comparison.
type DiffSide struct {
	// Label describes the run, e.g. "#3 (2025-01-02 15:04:05)".
	Label string `json:"label"`

	// Summary holds the run's package counts.
	Summary model.Summary `json:"summary"`
}

// Comparison is the result of comparing two runs of a project.
type Comparison struct {
	Project string     `json:"project"`
	Older   DiffSide   `json:"older"`
	Newer   DiffSide   `json:"newer"`
	Diff    model.Diff `json:"diff"`
}

// DiffWriter outputs comparisons as text for terminal display.
// Added, removed and changed lines are colored when color is enabled.
type DiffWriter struct {
	baseWriter

	added   *color.Color
	removed *color.Color
	changed *color.Color
}

// DiffWriterOption configures a DiffWriter.
type DiffWriterOption func(*DiffWriter)

// WithColor enables or disables ANSI colors regardless of the terminal.
func WithColor(enabled bool) DiffWriterOption {
	return func(w *DiffWriter) {
		for _, c := range []*color.Color{w.added, w.removed, w.changed} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// NewDiffWriter creates a DiffWriter that outputs to the given writer.
// Colors are disabled unless WithColor(true) is given.
func NewDiffWriter(output io.Writer, opts ...DiffWriterOption) *DiffWriter {
	w := &DiffWriter{
		baseWriter: newBaseWriter(output),
		added:      color.New(color.FgGreen),
		removed:    color.New(color.FgRed),
		changed:    color.New(color.FgYellow),
	}

	WithColor(false)(w)
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the comparison in human-readable format.
func (w *DiffWriter) Write(c *Comparison) (int, error) {
	var sb strings.Builder

	project := c.Project
	if project == "" {
		project = "(unnamed project)"
	}
	fmt.Fprintf(&sb, "License changes for %s\n", project)
	fmt.Fprintf(&sb, "  older: %s  single=%d multi=%d\n", c.Older.Label, c.Older.Summary.SingleLicenseCount, c.Older.Summary.MultiLicenseCount)
	fmt.Fprintf(&sb, "  newer: %s  single=%d multi=%d\n", c.Newer.Label, c.Newer.Summary.SingleLicenseCount, c.Newer.Summary.MultiLicenseCount)
	sb.WriteString("\n")

	if c.Diff.IsEmpty() {
		sb.WriteString("No license changes.\n")
		return io.WriteString(w.output, sb.String())
	}

	if len(c.Diff.Added) > 0 {
		fmt.Fprintf(&sb, "Added (%d):\n", len(c.Diff.Added))
		for _, p := range c.Diff.Added {
			sb.WriteString(w.added.Sprintf("  + %s  %s", p.Package, formatLicenses(p.Licenses)) + "\n")
		}
		sb.WriteString("\n")
	}

	if len(c.Diff.Removed) > 0 {
		fmt.Fprintf(&sb, "Removed (%d):\n", len(c.Diff.Removed))
		for _, p := range c.Diff.Removed {
			sb.WriteString(w.removed.Sprintf("  - %s  %s", p.Package, formatLicenses(p.Licenses)) + "\n")
		}
		sb.WriteString("\n")
	}

	if len(c.Diff.Changed) > 0 {
		fmt.Fprintf(&sb, "Changed (%d):\n", len(c.Diff.Changed))
		for _, ch := range c.Diff.Changed {
			sb.WriteString(w.changed.Sprintf("  ~ %s  %s -> %s", ch.Package, formatLicenses(ch.Before), formatLicenses(ch.After)) + "\n")
		}
		sb.WriteString("\n")
	}

	return io.WriteString(w.output, finalize(sb.String()))
}

// WriteComparison outputs a comparison in JSON format.
func (w *JSONWriter) WriteComparison(c *Comparison) (int, error) {
	return w.writeJSON(c)
}

// formatLicenses joins license alternatives with " OR ".
func formatLicenses(licenses []string) string {
	if len(licenses) == 0 {
		return "(none)"
	}
	return strings.Join(licenses, " OR ")
}
