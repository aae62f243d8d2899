// Copyright © 2018 The ELPS authors

package lisp

import (
	"errors"
	"fmt"
)

// Condition names used to classify errors when they are reported.
const (
	CondError          = "error"
	CondIO             = "io-error"
	CondUnknownForm    = "unknown-form"
	CondStackUnderflow = "stack-underflow"
	CondTypeError      = "type-error"
	CondArity          = "arity-error"
	CondDivideByZero   = "divide-by-zero"
)

// Conditioner is implemented by errors which carry a condition name.
type Conditioner interface {
	error
	Condition() string
}

// Condition returns the condition name of the first error in err's chain
// which implements Conditioner.  Errors without a condition are classified
// as CondError.
func Condition(err error) string {
	var c Conditioner
	if errors.As(err, &c) {
		return c.Condition()
	}
	return CondError
}

// IOError wraps a failure of the input or output stream.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("i/o failure: %v", e.Err)
}

func (e *IOError) Unwrap() error     { return e.Err }
func (e *IOError) Condition() string { return CondIO }

// UnknownFormError is returned by the compiler when a list is headed by a
// symbol that does not name a known operator.
type UnknownFormError struct {
	Form *Value
}

func (e *UnknownFormError) Error() string {
	if e.Form.Len() > 0 {
		return fmt.Sprintf("unknown operator %v in form: %v", e.Form.Cells[0], e.Form)
	}
	return fmt.Sprintf("unknown form: %v", e.Form)
}

func (e *UnknownFormError) Condition() string { return CondUnknownForm }

// StackUnderflowError is returned when an instruction pops an empty operand
// stack.
type StackUnderflowError struct{}

func (e *StackUnderflowError) Error() string {
	return "operand stack underflow"
}

func (e *StackUnderflowError) Condition() string { return CondStackUnderflow }

// TypeError is returned when a value's type does not match the type
// required by an instruction, a conversion or a compiler rule.
type TypeError struct {
	Want  Type
	Got   Type
	Value *Value
	// Form is the enclosing form when the error was detected by the
	// compiler.  It is nil for runtime errors.
	Form *Value
}

func (e *TypeError) Error() string {
	msg := fmt.Sprintf("expected %v but got %v", e.Want, e.Got)
	if e.Value != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Value)
	}
	if e.Form != nil {
		msg = fmt.Sprintf("%s in form %v", msg, e.Form)
	}
	return msg
}

func (e *TypeError) Condition() string { return CondTypeError }

// ArityError is returned by the compiler when an operator receives too few
// arguments.
type ArityError struct {
	Form *Value
	Op   Symbol
	Min  int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%v: expected at least %d argument(s) but got %d: %v", e.Op, e.Min, e.Got, e.Form)
}

func (e *ArityError) Condition() string { return CondArity }

// DivideByZeroError is returned by Fixnum.Div.
type DivideByZeroError struct {
	Dividend Fixnum
}

func (e *DivideByZeroError) Error() string {
	return fmt.Sprintf("division by zero: %v / 0x0", e.Dividend)
}

func (e *DivideByZeroError) Condition() string { return CondDivideByZero }
