package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nao1215/notices/internal/model"
)

// newComparison builds a comparison between two report texts.
func newComparison(older, newer string) *Comparison {
	o := newDocument("", older).Classification
	n := newDocument("", newer).Classification
	return &Comparison{
		Project: "demo",
		Older:   DiffSide{Label: "#1", Summary: o.Summary()},
		Newer:   DiffSide{Label: "#2", Summary: n.Summary()},
		Diff:    model.Compare(o, n),
	}
}

// TestDiffWriter tests the text comparison output.
func TestDiffWriter(t *testing.T) {
	t.Parallel()

	t.Run("lists added removed and changed packages", func(t *testing.T) {
		t.Parallel()

		c := newComparison(
			"a@1 [license(s): MIT]\nb@1 [license(s): ISC]\nc@1 [license(s): MIT]",
			"a@1 [license(s): MIT]\nd@1 [license(s): BSD-3-Clause]\nc@1 [license(s): MIT, GPL-2.0]",
		)

		var buf bytes.Buffer
		if _, err := NewDiffWriter(&buf).Write(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"License changes for demo",
			"Added (1):",
			"+ d@1  BSD-3-Clause",
			"Removed (1):",
			"- b@1  ISC",
			"Changed (1):",
			"~ c@1  MIT -> MIT OR GPL-2.0",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output:\n%s", want, output)
			}
		}
		if !strings.HasSuffix(output, "GPL-2.0\n") {
			t.Errorf("expected single trailing newline, got %q", output)
		}
	})

	t.Run("reports no changes", func(t *testing.T) {
		t.Parallel()

		c := newComparison("a@1 [license(s): MIT]", "a@1 [license(s): MIT]")

		var buf bytes.Buffer
		if _, err := NewDiffWriter(&buf).Write(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No license changes.") {
			t.Errorf("expected no-change message, got:\n%s", buf.String())
		}
	})
}

// TestJSONWriterWriteComparison tests the JSON comparison output.
func TestJSONWriterWriteComparison(t *testing.T) {
	t.Parallel()

	c := newComparison("a@1 [license(s): MIT]", "b@1 [license(s): MIT]")

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf).WriteComparison(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got Comparison
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got.Diff.Added) != 1 || got.Diff.Added[0].Package != "b@1" {
		t.Errorf("unexpected added %+v", got.Diff.Added)
	}
	if len(got.Diff.Removed) != 1 || got.Diff.Removed[0].Package != "a@1" {
		t.Errorf("unexpected removed %+v", got.Diff.Removed)
	}
}

// TestDiffWriterColor tests ANSI coloring of change lines.
func TestDiffWriterColor(t *testing.T) {
	t.Parallel()

	c := newComparison("a@1 [license(s): MIT]", "b@1 [license(s): MIT]")

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewDiffWriter(&buf, WithColor(true)).Write(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\x1b[32m  + b@1  MIT\x1b[0m") {
			t.Errorf("expected green added line, got %q", buf.String())
		}
		if !strings.Contains(buf.String(), "\x1b[31m  - a@1  MIT\x1b[0m") {
			t.Errorf("expected red removed line, got %q", buf.String())
		}
	})

	t.Run("disabled by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewDiffWriter(&buf).Write(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "\x1b[") {
			t.Errorf("expected no escape sequences, got %q", buf.String())
		}
	})
}
