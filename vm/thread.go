// Copyright © 2024 The ELPS authors

// Package vm executes compiled functions on an operand stack.
package vm

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/luthersystems/elvm/compiler"
	"github.com/luthersystems/elvm/lisp"
)

// DefaultStackCapacity is the initial capacity of a Thread's operand stack.
const DefaultStackCapacity = 64

// Thread is an execution context owning an operand stack.  A Thread is not
// safe for concurrent use; separate goroutines should use separate Threads.
type Thread struct {
	stack    []*lisp.Value
	base     int // values below base belong to the caller of Invoke
	capacity int
	compiler *compiler.Compiler
	profiler Profiler
	trace    io.Writer
	logger   *log.Logger
}

// New returns a new Thread.
func New(opts ...Option) *Thread {
	t := &Thread{capacity: DefaultStackCapacity}
	for _, opt := range opts {
		opt(t)
	}
	t.stack = make([]*lisp.Value, 0, t.capacity)
	if t.compiler == nil {
		t.compiler = compiler.New()
	}
	if t.profiler == nil {
		t.profiler = noProfiler{}
	}
	if t.logger == nil {
		t.logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return t
}

// Compiler returns the Compiler used by Eval.
func (t *Thread) Compiler() *compiler.Compiler {
	return t.compiler
}

// Height returns the number of values on the operand stack.
func (t *Thread) Height() int {
	return len(t.stack)
}

// Invoke executes fn and returns its result.
//
// A successful invocation leaves the operand stack exactly as it found it;
// the function's single result is popped and returned.  A function which
// does not grow the stack by exactly one value indicates a compiler defect
// and causes a panic.  If an instruction fails the stack is restored to its
// height before the call and the error is returned.  Instructions cannot pop
// values that were on the stack before the call; attempting to do so is a
// stack underflow.
func (t *Thread) Invoke(fn *compiler.Function) (*lisp.Value, error) {
	height := len(t.stack)
	base := t.base
	t.base = height
	defer func() { t.base = base }()
	err := t.executeFunctionBody(fn)
	if err != nil {
		t.unwind(height)
		return nil, err
	}
	if len(t.stack) != height+1 {
		t.logger.Panicf("vm: inconsistent stack: height %d after invoke, expected %d", len(t.stack), height+1)
	}
	return t.pop()
}

// Eval evaluates v.  Lists are compiled and invoked; all other values
// evaluate to themselves without touching the operand stack.  Top-level
// declarations evaluate to nil.
func (t *Thread) Eval(v *lisp.Value) (*lisp.Value, error) {
	if v.Type != lisp.LList {
		return v, nil
	}
	defer t.profiler.Start(v)()
	fn, err := t.compiler.CompileTopLevel(v)
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return lisp.Nil(), nil
	}
	return t.Invoke(fn)
}

func (t *Thread) executeFunctionBody(fn *compiler.Function) error {
	for i := 0; i < fn.Len(); i++ {
		inst := fn.At(i)
		if t.trace != nil {
			fmt.Fprintf(t.trace, "%4d  %-24v height=%d\n", i, inst, len(t.stack)) //nolint:errcheck // best-effort trace
		}
		err := t.operate(inst)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Thread) operate(inst compiler.Instruction) error {
	switch inst.Op {
	case compiler.OpLiteral:
		t.push(inst.Literal.Copy())
		return nil
	case compiler.OpFixnumAdd:
		return t.fixnumAdd()
	case compiler.OpDiscard:
		_, err := t.pop()
		return err
	default:
		return fmt.Errorf("vm: invalid instruction: %v", inst.Op)
	}
}

func (t *Thread) push(v *lisp.Value) {
	t.stack = append(t.stack, v)
}

func (t *Thread) pop() (*lisp.Value, error) {
	n := len(t.stack)
	if n <= t.base {
		return nil, &lisp.StackUnderflowError{}
	}
	v := t.stack[n-1]
	t.stack[n-1] = nil
	t.stack = t.stack[:n-1]
	return v, nil
}

func (t *Thread) popFixnum() (lisp.Fixnum, error) {
	v, err := t.pop()
	if err != nil {
		return 0, err
	}
	return v.AsFixnum()
}

func (t *Thread) fixnumAdd() error {
	first, err := t.popFixnum()
	if err != nil {
		return err
	}
	second, err := t.popFixnum()
	if err != nil {
		return err
	}
	t.push(lisp.Fix(second.Add(first)))
	return nil
}

// unwind truncates the operand stack to height.
func (t *Thread) unwind(height int) {
	for i := height; i < len(t.stack); i++ {
		t.stack[i] = nil
	}
	t.stack = t.stack[:height]
}
