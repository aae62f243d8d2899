// Copyright © 2018 The ELPS authors

package parser_test

import (
	"io"
	"strings"
	"testing"

	"github.com/luthersystems/elvm/elpstest"
	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLiterals(t *testing.T) {
	in := lisp.NewInterner()
	r := parser.NewReader(parser.WithInterner(in))
	tests := []struct {
		input string
		want  *lisp.Value
	}{
		{"0x1a", lisp.Fix(26)},
		{"0xFF", lisp.Fix(255)},
		{"0xffffffff", lisp.Fix(-1)},
		{"-5", lisp.Fix(-5)},
		{"+5", lisp.Fix(5)},
		{"42", lisp.Fix(42)},
		{"007", lisp.Fix(7)},
		{"-2147483648", lisp.Fix(-2147483648)},
		{"2147483648", lisp.Fix(-2147483648)},
		{"foo", lisp.Sym(in.Intern("foo"))},
		{"Foo", lisp.Sym(in.Intern("Foo"))},
		{"12ab", lisp.Sym(in.Intern("12ab"))},
		{"0x", lisp.Sym(in.Intern("0x"))},
		{"()", lisp.ListOf()},
		{"  \t\n( )  ", lisp.ListOf()},
	}
	for _, test := range tests {
		v, rest, err := r.Read(test.input)
		if assert.NoError(t, err, "input %q", test.input) {
			assert.True(t, test.want.Equal(v), "input %q: want %v got %v", test.input, test.want, v)
			assert.Equal(t, "", rest, "input %q", test.input)
		}
	}
}

func TestReadInternsSymbols(t *testing.T) {
	in := lisp.NewInterner()
	r := parser.NewReader(parser.WithInterner(in))
	a, _, err := r.Read("foo")
	require.NoError(t, err)
	b, _, err := r.Read("(foo)")
	require.NoError(t, err)
	assert.True(t, a.Symbol == b.Cells[0].Symbol)
	assert.True(t, a.Symbol == in.Intern("foo"))
}

func TestReadDefaultInterner(t *testing.T) {
	v, _, err := parser.NewReader().Read("defaultsym")
	require.NoError(t, err)
	assert.True(t, v.Symbol == lisp.Intern("defaultsym"))
}

func TestReadRemainder(t *testing.T) {
	r := parser.NewReader()
	v, rest, err := r.Read("(add 1 2) rest")
	require.NoError(t, err)
	assert.Equal(t, "(add 0x1 0x2)", v.String())
	assert.Equal(t, "rest", rest)

	v, rest, err = r.Read(rest)
	require.NoError(t, err)
	assert.Equal(t, "rest", v.String())
	assert.Equal(t, "", rest)

	_, _, err = r.Read(rest)
	assert.Equal(t, io.EOF, err)
}

func TestReadNested(t *testing.T) {
	r := parser.NewReader()
	v, rest, err := r.Read("(add 1 (add 0x10 (x)) ())\n")
	require.NoError(t, err)
	assert.Equal(t, "", rest)
	require.Equal(t, lisp.LList, v.Type)
	require.Equal(t, 4, v.Len())
	assert.Equal(t, "(add 0x1 (add 0x10 (x)) ())", v.String())
	assert.Equal(t, 0, v.Cells[3].Len())
	assert.Equal(t, lisp.LList, v.Cells[3].Type, "() is an empty list, not nil")
}

func TestReadErrors(t *testing.T) {
	r := parser.NewReader()
	tests := []struct {
		input string
		msg   string
	}{
		{"(add 1", "1:1: unterminated or invalid list starting: (add 1"},
		{")", "1:1: unexpected ')'"},
		{"  #foo", "1:3: unexpected source text starting: #foo"},
		{"(add 1 -)", "1:1: unterminated or invalid list starting: (add 1 -)"},
		{"\n  \"str\"", "2:3: unexpected source text starting: \"str\""},
	}
	for _, test := range tests {
		v, rest, err := r.Read(test.input)
		assert.Nil(t, v, "input %q", test.input)
		assert.Equal(t, test.input, rest)
		var rerr *parser.ReadError
		if assert.ErrorAs(t, err, &rerr, "input %q", test.input) {
			assert.Equal(t, test.msg, rerr.Error())
		}
	}
}

func TestReadForms(t *testing.T) {
	r := parser.NewReader()
	src := "(add 1 2)\n  foo 0x3"
	forms, err := r.ReadForms("test", src)
	require.NoError(t, err)
	require.Len(t, forms, 3)
	assert.Equal(t, "(add 1 2)", src[forms[0].Start:forms[0].End])
	assert.Equal(t, "foo", src[forms[1].Start:forms[1].End])
	assert.Equal(t, "0x3", src[forms[2].Start:forms[2].End])

	forms, err = r.ReadForms("test", "1 2\n(3")
	assert.Len(t, forms, 2, "forms preceding an error are returned")
	assert.EqualError(t, err, "test:2:1: unterminated or invalid list starting: (3")

	forms, err = r.ReadForms("test", "   ")
	assert.NoError(t, err)
	assert.Empty(t, forms)
}

func TestReadAll(t *testing.T) {
	r := parser.NewReader()
	vals, err := r.ReadAll("test", strings.NewReader("(add 1 2) 3 x"))
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.Equal(t, "0x3", vals[1].String())
}

func TestReadNestedFailure(t *testing.T) {
	r := parser.NewReader()
	for _, input := range []string{"(add 1 (2 #))", "((add 1 2) #)", "(add (add (add 1 )"} {
		v, rest, err := r.Read(input)
		assert.Nil(t, v, "input %q", input)
		assert.Equal(t, input, rest)
		var rerr *parser.ReadError
		assert.ErrorAs(t, err, &rerr, "input %q", input)
	}
}

func TestReadAfterFailure(t *testing.T) {
	r := parser.NewReader()
	_, _, err := r.Read("(add 1")
	require.Error(t, err)

	v, rest, err := r.Read("(add 1 2) rest")
	require.NoError(t, err)
	assert.Equal(t, "(add 0x1 0x2)", v.String())
	assert.Equal(t, "rest", rest)

	_, _, err = r.Read(")")
	require.Error(t, err)

	forms, err := r.ReadForms("test", "5 foo ()")
	require.NoError(t, err)
	require.Len(t, forms, 3)
	assert.Equal(t, lisp.Fix(5), forms[0].Value)
	assert.Equal(t, "foo", forms[1].Value.String())
	assert.Equal(t, lisp.LList, forms[2].Value.Type)
	assert.Equal(t, 0, forms[2].Value.Len())
}

func BenchmarkReadAll(b *testing.B) {
	elpstest.BenchmarkParse("testdata/sums.lisp", func() *parser.Reader {
		return parser.NewReader(parser.WithInterner(lisp.NewInterner()))
	})(b)
}
