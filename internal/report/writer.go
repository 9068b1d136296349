package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/notices/internal/model"
)

// Document is everything a writer needs to render an attribution document.
type Document struct {
	// Project is the optional project name shown in the title.
	Project string

	// Classification holds the grouped packages.
	Classification *model.Classification
}

// Writer defines the interface for document output.
type Writer interface {
	// Write renders the document to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(doc *Document) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// htmlEscaper replaces the characters that would let license or package
// text open HTML tags when the Markdown is embedded in a page.
var htmlEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// escape returns s with '<' and '>' replaced by their HTML entities.
func escape(s string) string {
	return htmlEscaper.Replace(s)
}

// finalize trims trailing whitespace and terminates the text with exactly
// one newline.
func finalize(s string) string {
	return strings.TrimRight(s, " \t\r\n") + "\n"
}

// WriteOutput writes data to path, or to stdout when path is empty.
// Parent directories are created as needed and an existing file is
// overwritten.
func WriteOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Notices are meant to be committed and published, so they are world-readable.
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // public document
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
