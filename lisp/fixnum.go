// Copyright © 2024 The ELPS authors

package lisp

import (
	"strconv"
)

// Fixnum is a fixed-width signed integer.  Arithmetic on Fixnum values wraps
// using two's complement, as native int32 arithmetic does.
type Fixnum int32

// FixnumFromRune returns the code point of c as a Fixnum.
func FixnumFromRune(c rune) Fixnum {
	return Fixnum(c)
}

// Add returns x + y.
func (x Fixnum) Add(y Fixnum) Fixnum { return x + y }

// Sub returns x - y.
func (x Fixnum) Sub(y Fixnum) Fixnum { return x - y }

// Mul returns x * y.
func (x Fixnum) Mul(y Fixnum) Fixnum { return x * y }

// Div returns x / y truncated toward zero.  Division by zero returns a
// *DivideByZeroError instead of panicking.
func (x Fixnum) Div(y Fixnum) (Fixnum, error) {
	if y == 0 {
		return 0, &DivideByZeroError{Dividend: x}
	}
	return x / y, nil
}

// Cmp returns -1, 0, or 1 depending on whether x is less than, equal to, or
// greater than y.
func (x Fixnum) Cmp(y Fixnum) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// String renders x as a lowercase, 0x-prefixed hexadecimal number.  Negative
// values carry a leading minus sign (e.g. -0x5).
func (x Fixnum) String() string {
	if x < 0 {
		// Widen first so that the most negative value does not overflow.
		return "-0x" + strconv.FormatInt(-int64(x), 16)
	}
	return "0x" + strconv.FormatInt(int64(x), 16)
}
