// Copyright © 2018 The ELPS authors

/*
Package parser reads lisp expressions.

	expr    := <ws>* ( <list> | <hex> | <decimal> | <symbol> ) <ws>*
	list    := '(' <expr>* ')'
	hex     := /0x[0-9a-fA-F]+/
	decimal := /[+-]?[0-9]+/
	symbol  := /[0-9A-Za-z]+/

A number must end at an alphanumeric boundary; otherwise the whole run is
read as a symbol.  Symbols are interned.
*/
package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/parser/token"
	parsec "github.com/prataprc/goparsec"
)

// ReadError is returned when text does not contain a valid expression.  It
// is distinct from the evaluation errors defined in package lisp.
type ReadError struct {
	Source *token.Location
	Msg    string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Msg)
}

// Form is an expression read from a source stream along with the byte
// offsets it spans.
type Form struct {
	Value *lisp.Value
	Start int // offset of the first byte of the expression
	End   int // offset following the last byte of the expression
}

// Option configures a Reader.
type Option func(*Reader)

// WithInterner makes a Reader intern symbols in in instead of the
// process-wide default interner.
func WithInterner(in *lisp.Interner) Option {
	return func(r *Reader) {
		r.interner = in
	}
}

// Reader parses text into lisp values.  A Reader may be used concurrently.
type Reader struct {
	interner *lisp.Interner
	expr     parsec.Parser
}

// NewReader returns a new Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		opt(r)
	}
	if r.interner == nil {
		r.interner = lisp.DefaultInterner()
	}
	r.expr = r.newParsecParser()
	return r
}

// Interner returns the Interner used for symbols.
func (r *Reader) Interner() *lisp.Interner {
	return r.interner
}

// Read parses one expression from the beginning of input and returns it along
// with the unconsumed remainder of input.  Whitespace surrounding the
// expression is consumed.  If input contains only whitespace Read returns
// io.EOF.  Any other failure is a *ReadError and no value is returned.
func (r *Reader) Read(input string) (*lisp.Value, string, error) {
	form, next, err := r.readAt("", input, 0)
	if err != nil {
		return nil, input, err
	}
	return form.Value, input[next:], nil
}

// ReadForms parses every expression in input.  Name is used to label the
// locations of errors.
func (r *Reader) ReadForms(name string, input string) ([]Form, error) {
	var forms []Form
	pos := 0
	for {
		form, next, err := r.readAt(name, input, pos)
		if err == io.EOF {
			return forms, nil
		}
		if err != nil {
			return forms, err
		}
		forms = append(forms, form)
		pos = next
	}
}

// ReadAll reads the entire stream src and parses every expression in it.
func (r *Reader) ReadAll(name string, src io.Reader) ([]*lisp.Value, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, &lisp.IOError{Err: err}
	}
	forms, err := r.ReadForms(name, string(b))
	if err != nil {
		return nil, err
	}
	vals := make([]*lisp.Value, len(forms))
	for i := range forms {
		vals[i] = forms[i].Value
	}
	return vals, nil
}

// readAt parses the expression beginning at byte offset pos of input.  The
// returned offset is where the following expression would begin.
func (r *Reader) readAt(name string, input string, pos int) (Form, int, error) {
	text := []byte(input[pos:])
	s := parsec.NewScanner(text)
	_, s = s.SkipWS()
	start := s.GetCursor()
	if s.Endof() {
		return Form{}, len(input), io.EOF
	}
	node, s := r.expr(s)
	v, ok := node.(*lisp.Value)
	if !ok {
		return Form{}, pos, &ReadError{
			Source: token.Locate(name, input, pos+start),
			Msg:    describeFailure(input[pos+start:]),
		}
	}
	end := s.GetCursor()
	_, s = s.SkipWS()
	form := Form{
		Value: v,
		Start: pos + start,
		End:   pos + end,
	}
	return form, pos + s.GetCursor(), nil
}

func describeFailure(rest string) string {
	switch {
	case strings.HasPrefix(rest, ")"):
		return "unexpected ')'"
	case strings.HasPrefix(rest, "("):
		return fmt.Sprintf("unterminated or invalid list starting: %s", excerpt(rest))
	default:
		return fmt.Sprintf("unexpected source text starting: %s", excerpt(rest))
	}
}

func excerpt(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 15 {
		s = s[:15] + "..."
	}
	return s
}

func (r *Reader) newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	hex := parsec.Token(`0x[0-9a-fA-F]+\b`, "HEX")
	decimal := parsec.Token(`[+-]?[0-9]+\b`, "DECIMAL")
	symbol := parsec.Token(`[0-9A-Za-z]+`, "SYMBOL")

	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	list := parsec.And(listNode, openP, exprList, closeP)
	expr = parsec.OrdChoice(firstNode,
		list,
		parsec.And(hexNode, hex),
		parsec.And(decimalNode, decimal),
		parsec.And(r.symbolNode, symbol), // symbol comes last because it swallows numbers
	)
	return expr
}

// firstNode unwraps the single alternative matched by an OrdChoice.
func firstNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if len(nodes) != 1 {
		return nil
	}
	return nodes[0]
}

// listNode builds a list from the elements between '(' and ')'.  An element
// that is not a value fails the whole list rather than being dropped.
func listNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	items, ok := nodes[1].([]parsec.ParsecNode)
	if !ok {
		return nil
	}
	cells := make(lisp.List, len(items))
	for i, item := range items {
		v, ok := item.(*lisp.Value)
		if !ok {
			return nil
		}
		cells[i] = v
	}
	return lisp.ListOf(cells...)
}

func hexNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	text := nodes[0].(*parsec.Terminal).GetValue()
	return lisp.Fix(accumulate(text[2:], 16))
}

func decimalNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	text := nodes[0].(*parsec.Terminal).GetValue()
	negative := false
	switch text[0] {
	case '-':
		negative = true
		text = text[1:]
	case '+':
		text = text[1:]
	}
	x := accumulate(text, 10)
	if negative {
		x = x.Mul(-1)
	}
	return lisp.Fix(x)
}

func (r *Reader) symbolNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	name := nodes[0].(*parsec.Terminal).GetValue()
	return lisp.Sym(r.interner.Intern(name))
}

// accumulate converts digits, most significant first, using wrapping
// Fixnum arithmetic.  The digits have already been validated by the token
// pattern.
func accumulate(digits string, base lisp.Fixnum) lisp.Fixnum {
	var x lisp.Fixnum
	for _, c := range digits {
		x = x.Mul(base).Add(digitValue(c))
	}
	return x
}

func digitValue(c rune) lisp.Fixnum {
	switch {
	case '0' <= c && c <= '9':
		return lisp.FixnumFromRune(c - '0')
	case 'a' <= c && c <= 'f':
		return lisp.FixnumFromRune(c-'a') + 0xa
	case 'A' <= c && c <= 'F':
		return lisp.FixnumFromRune(c-'A') + 0xa
	default:
		panic(fmt.Sprintf("invalid digit %q", c))
	}
}
