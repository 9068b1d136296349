package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/notices/internal/model"
)

const (
	// titleBase is the document title without a project name.
	titleBase = "Third-Party Notices"

	introText = "This project includes open source software packages. " +
		"The following attributions are organized by license. " +
		"Packages with multiple licenses are noted explicitly."

	multiLicenseText = "The following packages are dual- or multi-licensed. " +
		"This project relies on these packages under one of the listed licenses, " +
		"as permitted by their terms."
)

// Section headings and summary labels. The summary labels are also used to
// read counts back out of a rendered document.
const (
	headingSummary      = "License Summary"
	headingSingle       = "Single-License Packages"
	headingMulti        = "Multi-License Packages (OR)"
	labelSingleLicense  = "Single-license packages"
	labelMultiLicense   = "Multi-license (OR) packages"
	summaryTableHeader  = "| Category | Count |"
	summaryTableDivider = "|---|---:|"
)

// MarkdownWriter outputs the attribution document in Markdown format.
//
// The summary table is written line by line; its divider is fixed.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the document in Markdown format.
func (w *MarkdownWriter) Write(doc *Document) (int, error) {
	return io.WriteString(w.output, RenderMarkdown(doc))
}

// RenderMarkdown returns the Markdown attribution document.
// The result always ends with exactly one newline, and rendering the same
// document twice yields identical bytes.
func RenderMarkdown(doc *Document) string {
	c := doc.Classification
	if c == nil {
		c = model.NewClassification()
	}

	md := markdown.NewMarkdown(io.Discard)

	writeHeader(md, doc.Project)
	writeSummary(md, c.Summary())
	writeSingleLicense(md, c)
	writeMultiLicense(md, c)

	return finalize(md.String())
}

// Title returns the document title for a project name.
func Title(project string) string {
	if project == "" {
		return titleBase
	}
	return titleBase + " for " + project
}

// writeHeader writes the title and introduction.
func writeHeader(md *markdown.Markdown, project string) {
	md.H1(Title(project))
	md.PlainText("")
	md.PlainText(introText)
	md.PlainText("")
}

// writeSummary writes the package count table.
func writeSummary(md *markdown.Markdown, s model.Summary) {
	md.H2(headingSummary)
	md.PlainText("")
	md.PlainText(summaryTableHeader)
	md.PlainText(summaryTableDivider)
	md.PlainTextf("| %s | %d |", labelSingleLicense, s.SingleLicenseCount)
	md.PlainTextf("| %s | %d |", labelMultiLicense, s.MultiLicenseCount)
	md.PlainText("")
}

// writeSingleLicense writes one subsection per license.
func writeSingleLicense(md *markdown.Markdown, c *model.Classification) {
	md.H2(headingSingle)
	md.PlainText("")

	for _, license := range c.Licenses() {
		pkgs := c.PackagesFor(license)
		items := make([]string, len(pkgs))
		for i, pkg := range pkgs {
			items[i] = escape(pkg.String())
		}

		md.H3(escape(license))
		md.PlainText("")
		md.BulletList(items...)
		md.PlainText("")
	}
}

// writeMultiLicense writes the disjunctive license list.
// The section is omitted when there are no multi-license packages.
func writeMultiLicense(md *markdown.Markdown, c *model.Classification) {
	if !c.HasMultiLicense() {
		return
	}

	md.H2(headingMulti)
	md.PlainText("")
	md.PlainText(multiLicenseText)
	md.PlainText("")

	separator := " " + markdown.Bold("OR") + " "
	pkgs := c.MultiLicensePackages()
	items := make([]string, len(pkgs))
	for i, pkg := range pkgs {
		licenses := c.LicensesOf(pkg)
		escaped := make([]string, len(licenses))
		for j, license := range licenses {
			escaped[j] = escape(license)
		}
		items[i] = markdown.Bold(escape(pkg.String())) + ": " + strings.Join(escaped, separator)
	}
	md.BulletList(items...)
	md.PlainText("")
}
