// Package source obtains the text of an nlf license report, either from a
// file or by running the scanner.
package source

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Scanner produces a raw report by running an external tool.
type Scanner interface {
	Run(ctx context.Context) ([]byte, error)
}

// ReadFile reads a report file as text.
// Invalid UTF-8 sequences are replaced with U+FFFD. A leading byte order
// mark selects UTF-8 or UTF-16 decoding, which covers reports redirected to
// a file by Windows PowerShell.
func ReadFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return "", err
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads r to the end and returns its content as valid UTF-8.
func Decode(r io.Reader) (string, error) {
	data, err := io.ReadAll(transform.NewReader(r, newDecoder()))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeBytes is like Decode for an in-memory report.
func DecodeBytes(data []byte) string {
	out, _, err := transform.Bytes(newDecoder(), data)
	if err != nil {
		// The decoder substitutes invalid input instead of failing.
		return string(data)
	}
	return string(out)
}

// newDecoder returns a lossy UTF-8 decoder that honors byte order marks.
func newDecoder() transform.Transformer {
	return unicode.BOMOverride(unicode.UTF8.NewDecoder())
}

// Acquire returns the report text from path when it is set, and from the
// scanner otherwise.
func Acquire(ctx context.Context, path string, scanner Scanner) (string, error) {
	if path != "" {
		return ReadFile(path)
	}

	if scanner == nil {
		return "", fmt.Errorf("no input file and no scanner configured")
	}
	out, err := scanner.Run(ctx)
	if err != nil {
		return "", err
	}
	return DecodeBytes(out), nil
}
