// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, &fakeErr{name}
			}
			return []byte(s), nil
		},
	}
}

type fakeErr struct{ name string }

func (e *fakeErr) Error() string { return "not found: " + e.name }

func render(t *testing.T, r *Renderer, d Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	return buf.String()
}

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lisp": "(add 1 (sub 2 3))",
	})

	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Code:     "unknown-form",
		Message:  "unknown operator sub in form: (sub 0x2 0x3)",
		Spans: []Span{
			{File: "test.lisp", Line: 1, Col: 9, EndCol: 11, Label: "not an operator"},
		},
	})

	assert.Equal(t, ""+
		"error[unknown-form]: unknown operator sub in form: (sub 0x2 0x3)\n"+
		"  --> test.lisp:1:9\n"+
		"   |\n"+
		" 1 |  (add 1 (sub 2 3))\n"+
		"   |          ^^^ not an operator\n"+
		"   |\n", got)
}

func TestRenderNoteWithSpan(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lisp": "(add 1)\n(add 1 2)",
	})

	got := render(t, r, Diagnostic{
		Severity: SeverityNote,
		Message:  "add with a single argument",
		Spans: []Span{
			{File: "test.lisp", Line: 1, Col: 1, EndCol: 7},
		},
	})
	assert.Equal(t, ""+
		"note: add with a single argument\n"+
		"  --> test.lisp:1:1\n"+
		"   |\n"+
		" 1 |  (add 1)\n"+
		"   |  ^^^^^^^\n"+
		"   |\n", got)
}

func TestRenderTabs(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lisp": "\t(add 1 foo)",
	})

	got := render(t, r, Diagnostic{
		Message: "expected fixnum but got symbol: foo",
		Spans:   []Span{{File: "test.lisp", Line: 1, Col: 9}},
	})
	assert.Contains(t, got, " 1 |      (add 1 foo)\n")
	assert.Contains(t, got, "   |             ^^^\n")
}

func TestRenderLineOutOfRange(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lisp": "(add 1 2)",
	})

	got := render(t, r, Diagnostic{
		Message: "boom",
		Spans:   []Span{{File: "test.lisp", Line: 4, Col: 1}},
	})
	assert.Equal(t, "error: boom\n  --> test.lisp:4:1\n   |\n", got)
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)

	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "some error",
		Spans: []Span{
			{File: "<stdin>", Line: 5, Col: 3},
		},
	})
	assert.Contains(t, got, "error: some error")
	assert.Contains(t, got, "--> <stdin>:5:3")
	// Should have a gutter but no source line
	assert.Contains(t, got, "|")
	assert.NotContains(t, got, "^")
}

func TestRenderNotes(t *testing.T) {
	r := testRenderer(nil)

	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Code:     "type-error",
		Message:  "expected fixnum but got symbol: foo",
		Notes:    []string{"while evaluating (add 0x1 foo)"},
	})
	assert.Contains(t, got, "error[type-error]: expected fixnum but got symbol: foo\n")
	assert.Contains(t, got, "   = note: while evaluating (add 0x1 foo)\n")
}

func TestRenderWrappedNotes(t *testing.T) {
	r := testRenderer(nil)
	r.Width = 30

	got := render(t, r, Diagnostic{
		Severity: SeverityNote,
		Message:  "wrapped",
		Notes:    []string{"one two three four five six seven"},
	})
	assert.Equal(t, ""+
		"note: wrapped\n"+
		"   = note: one two three four\n"+
		"           five six seven\n", got)
}

func TestRenderAutoDetectEndCol(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lisp": "(add 1 foo)",
	})

	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "expected fixnum but got symbol: foo",
		Spans: []Span{
			{File: "test.lisp", Line: 1, Col: 8}, // EndCol=0 → auto-detect
		},
	})
	// "foo" starts at col 8 and is 3 chars
	assert.Contains(t, got, "       ^^^\n")
	assert.NotContains(t, got, "^^^^")
}

func TestRenderNoSpans(t *testing.T) {
	r := testRenderer(nil)

	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Code:     "io-error",
		Message:  "i/o failure: file not found",
	})
	assert.Equal(t, "error[io-error]: i/o failure: file not found\n", got)
}

func TestRenderAlwaysColor(t *testing.T) {
	r := testRenderer(nil)
	r.Color = ColorAlways

	got := render(t, r, Diagnostic{Severity: SeverityError, Message: "boom"})
	assert.Contains(t, got, "\033[1;31m")
	assert.Contains(t, got, "\033[0m")
}
