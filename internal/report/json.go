package report

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/package-url/packageurl-go"

	"github.com/nao1215/notices/internal/model"
)

// JSONWriter outputs the attribution data in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// purlType is the package URL type, e.g. "npm".
	purlType string

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithPURLType sets the package URL type used for every package.
func WithPURLType(purlType string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.purlType = purlType
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		purlType:   packageurl.TypeNPM,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONPackage describes one package in JSON output.
type JSONPackage struct {
	// Ref is the opaque "name@version" reference from the report.
	Ref string `json:"ref"`

	// Name is the package name, including any npm scope.
	Name string `json:"name"`

	// Version is the package version.
	Version string `json:"version"`

	// PURL is the package URL derived from name and version.
	PURL string `json:"purl"`

	// Licenses lists the alternatives of a multi-license package.
	Licenses []string `json:"licenses,omitempty"`
}

// JSONLicenseGroup lists the packages under a single license.
type JSONLicenseGroup struct {
	License  string        `json:"license"`
	Packages []JSONPackage `json:"packages"`
}

// JSONDocument is the top-level JSON output.
type JSONDocument struct {
	Title         string             `json:"title"`
	Project       string             `json:"project,omitempty"`
	Summary       model.Summary      `json:"summary"`
	SingleLicense []JSONLicenseGroup `json:"single_license"`
	MultiLicense  []JSONPackage      `json:"multi_license"`
}

// Write outputs the document in JSON format.
func (w *JSONWriter) Write(doc *Document) (int, error) {
	return w.writeJSON(w.NewJSONDocument(doc))
}

// NewJSONDocument converts a Document into its JSON representation.
// Groups and packages use the same ordering as the Markdown output.
func (w *JSONWriter) NewJSONDocument(doc *Document) *JSONDocument {
	c := doc.Classification
	if c == nil {
		c = model.NewClassification()
	}

	out := &JSONDocument{
		Title:         Title(doc.Project),
		Project:       doc.Project,
		Summary:       c.Summary(),
		SingleLicense: []JSONLicenseGroup{},
		MultiLicense:  []JSONPackage{},
	}

	for _, license := range c.Licenses() {
		group := JSONLicenseGroup{License: license}
		for _, pkg := range c.PackagesFor(license) {
			group.Packages = append(group.Packages, w.newPackage(pkg, nil))
		}
		out.SingleLicense = append(out.SingleLicense, group)
	}

	for _, pkg := range c.MultiLicensePackages() {
		out.MultiLicense = append(out.MultiLicense, w.newPackage(pkg, c.LicensesOf(pkg)))
	}

	return out
}

// newPackage builds the JSON form of a package reference.
func (w *JSONWriter) newPackage(ref model.PackageRef, licenses []string) JSONPackage {
	name, version := ref.Split()
	return JSONPackage{
		Ref:      ref.String(),
		Name:     name,
		Version:  version,
		PURL:     PackageURL(w.purlType, name, version),
		Licenses: licenses,
	}
}

// PackageURL returns the package URL for a package name and version.
// A leading path such as an npm scope becomes the purl namespace.
func PackageURL(purlType, name, version string) string {
	namespace := ""
	if i := strings.LastIndex(name, "/"); i >= 0 {
		namespace, name = name[:i], name[i+1:]
	}
	return packageurl.NewPackageURL(purlType, namespace, name, version, nil, "").ToString()
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
