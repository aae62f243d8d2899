// Copyright © 2024 The ELPS authors

package compiler

import (
	"bytes"
	"fmt"

	"github.com/luthersystems/elvm/lisp"
)

// Op is a stack machine operation.
type Op uint8

// Op constants.
const (
	// OpLiteral pushes a copy of Instruction.Literal.
	OpLiteral Op = iota
	// OpFixnumAdd pops two fixnums and pushes their sum.
	OpFixnumAdd
	// OpDiscard pops and drops the top value.  It separates the forms of a
	// multi-form body so that only the last form's value remains.
	OpDiscard
	numOps
)

var opStrings = [numOps]string{
	OpLiteral:   "literal",
	OpFixnumAdd: "fixnum-add",
	OpDiscard:   "discard",
}

func (op Op) String() string {
	if op >= numOps {
		return "invalid-op"
	}
	return opStrings[op]
}

// Instruction is a single operation along with its operand.
type Instruction struct {
	Op Op
	// Literal is the value pushed by an OpLiteral instruction.
	Literal *lisp.Value
}

// Literal returns an OpLiteral instruction pushing v.
func Literal(v *lisp.Value) Instruction {
	return Instruction{Op: OpLiteral, Literal: v}
}

// FixnumAdd returns an OpFixnumAdd instruction.
func FixnumAdd() Instruction {
	return Instruction{Op: OpFixnumAdd}
}

// Discard returns an OpDiscard instruction.
func Discard() Instruction {
	return Instruction{Op: OpDiscard}
}

func (inst Instruction) String() string {
	if inst.Op == OpLiteral {
		return fmt.Sprintf("%v %v", inst.Op, inst.Literal)
	}
	return inst.Op.String()
}

// stackEffect is the change in operand stack height caused by inst.
func (inst Instruction) stackEffect() int {
	switch inst.Op {
	case OpLiteral:
		return 1
	case OpFixnumAdd, OpDiscard:
		return -1
	default:
		return 0
	}
}

// Function is a compiled, immutable sequence of instructions.  A Function
// may be invoked any number of times.
type Function struct {
	body []Instruction
}

// NewFunction returns a Function executing body.  The body is copied.
func NewFunction(body ...Instruction) *Function {
	cp := make([]Instruction, len(body))
	copy(cp, body)
	return &Function{body: cp}
}

// Len returns the number of instructions in fn.
func (fn *Function) Len() int {
	return len(fn.body)
}

// At returns the instruction at index i.
func (fn *Function) At(i int) Instruction {
	return fn.body[i]
}

// Instructions returns a copy of the instructions in fn.
func (fn *Function) Instructions() []Instruction {
	cp := make([]Instruction, len(fn.body))
	copy(cp, fn.body)
	return cp
}

// StackEffect returns the net change in operand stack height caused by
// executing fn to completion.  Functions produced by the compiler always
// have a stack effect of 1.
func (fn *Function) StackEffect() int {
	n := 0
	for _, inst := range fn.body {
		n += inst.stackEffect()
	}
	return n
}

// MaxDepth returns the greatest operand stack height, relative to the height
// at invocation, reached while executing fn.
func (fn *Function) MaxDepth() int {
	n, depth := 0, 0
	for _, inst := range fn.body {
		n += inst.stackEffect()
		if n > depth {
			depth = n
		}
	}
	return depth
}

// String returns a disassembly listing of fn, one instruction per line.
func (fn *Function) String() string {
	var buf bytes.Buffer
	for i, inst := range fn.body {
		fmt.Fprintf(&buf, "%4d  %v\n", i, inst)
	}
	return buf.String()
}
