// Copyright © 2024 The ELPS authors

// Package compiler translates lisp forms into instruction sequences for the
// stack machine in package vm.
package compiler

import (
	"errors"

	"github.com/luthersystems/elvm/lisp"
)

// ErrEmptyBody is returned when Compile is given no forms.
var ErrEmptyBody = errors.New("compiler: empty function body")

// Operator names recognized by the compiler.
const (
	// AddOperator names the variadic fixnum addition form.
	AddOperator = "add"
	// DeclareOperator names the top-level declaration form.  Declarations
	// are accepted but currently compile to nothing.
	DeclareOperator = "declare"
)

// Operators returns the names of all operators the compiler recognizes.
func Operators() []string {
	return []string{AddOperator, DeclareOperator}
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithInterner makes the Compiler resolve operator symbols in in.  It must
// be the interner used to read the forms being compiled.
func WithInterner(in *lisp.Interner) Option {
	return func(c *Compiler) {
		c.interner = in
	}
}

// Compiler compiles forms.  A Compiler holds no mutable state and may be used
// concurrently.
type Compiler struct {
	interner *lisp.Interner
	symAdd   lisp.Symbol
	symDecl  lisp.Symbol
}

// New returns a new Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	if c.interner == nil {
		c.interner = lisp.DefaultInterner()
	}
	c.symAdd = c.interner.Intern(AddOperator)
	c.symDecl = c.interner.Intern(DeclareOperator)
	return c
}

// Interner returns the Interner used to resolve operator symbols.
func (c *Compiler) Interner() *lisp.Interner {
	return c.interner
}

// IsDeclaration returns true if form is a top-level declaration.
func (c *Compiler) IsDeclaration(form *lisp.Value) bool {
	return form.Type == lisp.LList &&
		form.Len() > 0 &&
		form.Cells[0].Type == lisp.LSymbol &&
		form.Cells[0].Symbol == c.symDecl
}

// CompileTopLevel compiles a form read at the top level.  Declarations
// produce no code: CompileTopLevel returns a nil Function and a nil error
// for them.
func (c *Compiler) CompileTopLevel(form *lisp.Value) (*Function, error) {
	if c.IsDeclaration(form) {
		return nil, nil
	}
	return c.Compile(form)
}

// Compile compiles forms into a single function body.  The body is the
// concatenation of the code for each form, with the value of every form but
// the last discarded, so the function returns the value of the last form.
func (c *Compiler) Compile(forms ...*lisp.Value) (*Function, error) {
	if len(forms) == 0 {
		return nil, ErrEmptyBody
	}
	var body []Instruction
	var err error
	for i, form := range forms {
		if i > 0 {
			body = append(body, Discard())
		}
		body, err = c.compileForm(body, form)
		if err != nil {
			return nil, err
		}
	}
	return &Function{body: body}, nil
}

func (c *Compiler) compileForm(body []Instruction, form *lisp.Value) ([]Instruction, error) {
	if form.Type != lisp.LList {
		return append(body, Literal(form)), nil
	}
	if form.Len() == 0 {
		return nil, &lisp.TypeError{Want: lisp.LSymbol, Got: lisp.LList, Value: form}
	}
	head := form.Cells[0]
	if head.Type != lisp.LSymbol {
		return nil, &lisp.TypeError{Want: lisp.LSymbol, Got: head.Type, Value: head, Form: form}
	}
	switch head.Symbol {
	case c.symAdd:
		return c.compileAdd(body, form)
	default:
		return nil, &lisp.UnknownFormError{Form: form}
	}
}

// compileAdd folds the arguments of form left to right.  Each argument after
// the first is followed by an add instruction so the operand stack never
// holds more than two pending values at this level.
func (c *Compiler) compileAdd(body []Instruction, form *lisp.Value) ([]Instruction, error) {
	args := form.Cells[1:]
	if len(args) == 0 {
		return nil, &lisp.ArityError{Form: form, Op: c.symAdd, Min: 1, Got: 0}
	}
	var err error
	for i, arg := range args {
		body, err = c.compileForm(body, arg)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			body = append(body, FixnumAdd())
		}
	}
	return body, nil
}

// Compile compiles forms using a Compiler bound to the default interner.
func Compile(forms ...*lisp.Value) (*Function, error) {
	return New().Compile(forms...)
}
