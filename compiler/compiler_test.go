// Copyright © 2024 The ELPS authors

package compiler_test

import (
	"testing"

	"github.com/luthersystems/elvm/compiler"
	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompiler(t *testing.T) (*parser.Reader, *compiler.Compiler) {
	t.Helper()
	in := lisp.NewInterner()
	return parser.NewReader(parser.WithInterner(in)), compiler.New(compiler.WithInterner(in))
}

func read(t *testing.T, r *parser.Reader, src string) *lisp.Value {
	t.Helper()
	v, rest, err := r.Read(src)
	require.NoError(t, err)
	require.Empty(t, rest)
	return v
}

func TestCompile(t *testing.T) {
	r, c := newCompiler(t)
	tests := []struct {
		name    string
		src     string
		listing string
		depth   int
	}{
		{"fixnum literal", "7", "   0  literal 0x7\n", 1},
		{"symbol literal", "foo", "   0  literal foo\n", 1},
		{"single argument", "(add 5)", "   0  literal 0x5\n", 1},
		{"two arguments", "(add 3 4)", "   0  literal 0x3\n   1  literal 0x4\n   2  fixnum-add\n", 2},
		{"left fold", "(add 1 2 3)",
			"   0  literal 0x1\n   1  literal 0x2\n   2  fixnum-add\n   3  literal 0x3\n   4  fixnum-add\n", 2},
		{"nested", "(add 1 (add 1 1))",
			"   0  literal 0x1\n   1  literal 0x1\n   2  literal 0x1\n   3  fixnum-add\n   4  fixnum-add\n", 3},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fn, err := c.Compile(read(t, r, test.src))
			require.NoError(t, err)
			assert.Equal(t, test.listing, fn.String())
			assert.Equal(t, 1, fn.StackEffect())
			assert.Equal(t, test.depth, fn.MaxDepth())
		})
	}
}

func TestCompileLiteralIsVerbatim(t *testing.T) {
	r, c := newCompiler(t)
	v := read(t, r, "foo")
	fn, err := c.Compile(v)
	require.NoError(t, err)
	require.Equal(t, 1, fn.Len())
	assert.Equal(t, compiler.OpLiteral, fn.At(0).Op)
	assert.Same(t, v, fn.At(0).Literal)
}

func TestCompileBody(t *testing.T) {
	r, c := newCompiler(t)
	fn, err := c.Compile(read(t, r, "(add 1 2)"), read(t, r, "9"))
	require.NoError(t, err)
	assert.Equal(t, 1, fn.StackEffect())
	ops := make([]compiler.Op, fn.Len())
	for i, inst := range fn.Instructions() {
		ops[i] = inst.Op
	}
	assert.Equal(t, []compiler.Op{
		compiler.OpLiteral, compiler.OpLiteral, compiler.OpFixnumAdd,
		compiler.OpDiscard,
		compiler.OpLiteral,
	}, ops)

	_, err = c.Compile()
	assert.ErrorIs(t, err, compiler.ErrEmptyBody)
}

func TestCompileErrors(t *testing.T) {
	r, c := newCompiler(t)

	_, err := c.Compile(read(t, r, "(unknown 1 2)"))
	var uerr *lisp.UnknownFormError
	if assert.ErrorAs(t, err, &uerr) {
		assert.Equal(t, "(unknown 0x1 0x2)", uerr.Form.String())
	}

	_, err = c.Compile(read(t, r, "(add 1 (nope))"))
	if assert.ErrorAs(t, err, &uerr) {
		assert.Equal(t, "(nope)", uerr.Form.String(), "the innermost offending form is reported")
	}

	_, err = c.Compile(read(t, r, "(1 2)"))
	var terr *lisp.TypeError
	if assert.ErrorAs(t, err, &terr) {
		assert.Equal(t, lisp.LFixnum, terr.Got)
		assert.Equal(t, "(0x1 0x2)", terr.Form.String())
	}

	_, err = c.Compile(read(t, r, "((add) 2)"))
	assert.ErrorAs(t, err, &terr)

	_, err = c.Compile(read(t, r, "()"))
	if assert.ErrorAs(t, err, &terr) {
		assert.Equal(t, lisp.LList, terr.Got)
		assert.Equal(t, "expected symbol but got list: ()", err.Error())
	}

	_, err = c.Compile(read(t, r, "(add)"))
	var aerr *lisp.ArityError
	if assert.ErrorAs(t, err, &aerr) {
		assert.Equal(t, 1, aerr.Min)
		assert.Equal(t, lisp.CondArity, lisp.Condition(err))
	}
}

func TestCompileTopLevelDeclaration(t *testing.T) {
	r, c := newCompiler(t)
	decl := read(t, r, "(declare (x 1))")
	assert.True(t, c.IsDeclaration(decl))
	fn, err := c.CompileTopLevel(decl)
	assert.NoError(t, err)
	assert.Nil(t, fn)

	// Declarations are only recognized at the top level.
	_, err = c.Compile(decl)
	var uerr *lisp.UnknownFormError
	assert.ErrorAs(t, err, &uerr)

	fn, err = c.CompileTopLevel(read(t, r, "(add 2 2)"))
	require.NoError(t, err)
	assert.Equal(t, 3, fn.Len())
}

func TestCompilerInternerMismatch(t *testing.T) {
	// Forms read with a different interner do not name the compiler's
	// operators.
	r := parser.NewReader(parser.WithInterner(lisp.NewInterner()))
	c := compiler.New(compiler.WithInterner(lisp.NewInterner()))
	_, err := c.Compile(read(t, r, "(add 1 2)"))
	var uerr *lisp.UnknownFormError
	assert.ErrorAs(t, err, &uerr)
}

func TestCompileDefaultInterner(t *testing.T) {
	v, _, err := parser.NewReader().Read("(add 1 2)")
	require.NoError(t, err)
	fn, err := compiler.Compile(v)
	require.NoError(t, err)
	assert.Equal(t, 3, fn.Len())
}

func TestNewFunction(t *testing.T) {
	body := []compiler.Instruction{compiler.Literal(lisp.Fix(1)), compiler.Literal(lisp.Fix(2)), compiler.FixnumAdd()}
	fn := compiler.NewFunction(body...)
	body[0] = compiler.Discard()
	assert.Equal(t, compiler.OpLiteral, fn.At(0).Op, "NewFunction copies its input")
	insts := fn.Instructions()
	insts[2] = compiler.Discard()
	assert.Equal(t, compiler.OpFixnumAdd, fn.At(2).Op, "Instructions returns a copy")
	assert.Equal(t, "invalid-op", compiler.Op(200).String())
	assert.Equal(t, []string{"add", "declare"}, compiler.Operators())
}
