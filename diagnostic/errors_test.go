// Copyright © 2024 The ELPS authors

package diagnostic_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/luthersystems/elvm/diagnostic"
	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromReadError(t *testing.T) {
	r := parser.NewReader()
	src := "(add 1 2)\n  (add 3"
	_, err := r.ReadForms("test.lisp", src)
	require.Error(t, err)

	d := diagnostic.FromError(err, nil)
	assert.Equal(t, diagnostic.SeverityError, d.Severity)
	assert.Equal(t, diagnostic.ReadErrorCode, d.Code)
	assert.Equal(t, "unterminated or invalid list starting: (add 3", d.Message)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, diagnostic.Span{File: "test.lisp", Line: 2, Col: 3, Label: "expression starts here"}, d.Spans[0])
	assert.Empty(t, d.Notes)

	renderer := &diagnostic.Renderer{
		Color: diagnostic.ColorNever,
		SourceReader: func(string) ([]byte, error) {
			return []byte(src), nil
		},
	}
	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, d))
	assert.Contains(t, buf.String(), "error[read-error]: unterminated or invalid list starting: (add 3\n")
	assert.Contains(t, buf.String(), "--> test.lisp:2:3\n")
	assert.Contains(t, buf.String(), "^ expression starts here")
}

func TestFromEvalError(t *testing.T) {
	in := lisp.NewInterner()
	foo := lisp.Sym(in.Intern("foo"))
	form := lisp.ListOf(lisp.Sym(in.Intern("add")), lisp.Fix(1), foo)
	err := &lisp.TypeError{Want: lisp.LFixnum, Got: lisp.LSymbol, Value: foo}

	d := diagnostic.FromError(err, form)
	assert.Equal(t, lisp.CondTypeError, d.Code)
	assert.Equal(t, "expected fixnum but got symbol: foo", d.Message)
	assert.Empty(t, d.Spans)
	assert.Equal(t, []string{"while evaluating (add 0x1 foo)"}, d.Notes)
}

func TestFromPlainError(t *testing.T) {
	d := diagnostic.FromError(errors.New("boom"), nil)
	assert.Equal(t, lisp.CondError, d.Code)
	assert.Equal(t, "boom", d.Message)
}

func TestParseColorMode(t *testing.T) {
	assert.Equal(t, diagnostic.ColorAlways, diagnostic.ParseColorMode("always"))
	assert.Equal(t, diagnostic.ColorNever, diagnostic.ParseColorMode("never"))
	assert.Equal(t, diagnostic.ColorAuto, diagnostic.ParseColorMode("auto"))
	assert.Equal(t, diagnostic.ColorAuto, diagnostic.ParseColorMode("bogus"))
	assert.False(t, diagnostic.IsTerminal(nil))
}
