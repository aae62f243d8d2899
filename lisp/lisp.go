// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
)

// Type is the type of a Value.
type Type uint8

// Possible Type values
const (
	// LInvalid (0) is not a valid lisp type.  Constructors never produce it.
	LInvalid Type = iota
	// LNil is the absent value.  The reader never produces nil; it is the
	// result of forms which compile to nothing.
	LNil
	// LSymbol values store an interned name in Value.Symbol.
	LSymbol
	// LList values store their elements in Value.Cells.
	LList
	// LFixnum values store a 32-bit integer in Value.Fixnum.
	LFixnum
	// LTypeMax is not a real type but represents a value numerically greater
	// than all valid Type values.
	LTypeMax
)

var typeStrings = []string{
	LInvalid: "INVALID",
	LNil:     "nil",
	LSymbol:  "symbol",
	LList:    "list",
	LFixnum:  "fixnum",
}

func (t Type) String() string {
	if t >= Type(len(typeStrings)) {
		return typeStrings[LInvalid]
	}
	return typeStrings[t]
}

// Value is a lisp value.  Exactly one of the payload fields is meaningful,
// selected by Type.
type Value struct {
	// Cells holds the elements of an LList value.
	Cells List

	// Symbol is used by LSymbol values.
	Symbol Symbol

	// Fixnum is used by LFixnum values.
	Fixnum Fixnum

	// Type is the variant of the value.
	Type Type
}

var singletonNil = &Value{Type: LNil}

// Nil returns the nil value.
//
// The returned value is a shared singleton -- callers MUST NOT mutate it.
func Nil() *Value {
	return singletonNil
}

// Sym returns a Value representing the symbol s.
func Sym(s Symbol) *Value {
	return &Value{
		Type:   LSymbol,
		Symbol: s,
	}
}

// Fix returns a Value representing the number x.
func Fix(x Fixnum) *Value {
	return &Value{
		Type:   LFixnum,
		Fixnum: x,
	}
}

// ListOf returns a list Value containing cells.  Provided cells are used as
// backing storage for the returned list and are not copied.
func ListOf(cells ...*Value) *Value {
	if cells == nil {
		cells = List{}
	}
	return &Value{
		Type:  LList,
		Cells: cells,
	}
}

// IsNil returns true if v is the nil value.
func (v *Value) IsNil() bool {
	return v == nil || v.Type == LNil
}

// Len returns the number of elements in an LList value and zero for any
// other value.
func (v *Value) Len() int {
	if v.Type != LList {
		return 0
	}
	return len(v.Cells)
}

// AsFixnum returns the number stored in v.  If v is not an LFixnum a
// *TypeError is returned.
func (v *Value) AsFixnum() (Fixnum, error) {
	if v.Type != LFixnum {
		return 0, &TypeError{Want: LFixnum, Got: v.Type, Value: v}
	}
	return v.Fixnum, nil
}

// AsSymbol returns the symbol stored in v.  If v is not an LSymbol a
// *TypeError is returned.
func (v *Value) AsSymbol() (Symbol, error) {
	if v.Type != LSymbol {
		return Symbol{}, &TypeError{Want: LSymbol, Got: v.Type, Value: v}
	}
	return v.Symbol, nil
}

// AsList returns the elements of v.  If v is not an LList a *TypeError is
// returned.
func (v *Value) AsList() (List, error) {
	if v.Type != LList {
		return nil, &TypeError{Want: LList, Got: v.Type, Value: v}
	}
	return v.Cells, nil
}

// Equal returns true if v and other are logically equal.  Symbols compare by
// identity, lists compare element-wise.
func (v *Value) Equal(other *Value) bool {
	if v == other {
		return true
	}
	if v == nil || other == nil {
		return v.IsNil() && other.IsNil()
	}
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case LNil:
		return true
	case LSymbol:
		return v.Symbol == other.Symbol
	case LFixnum:
		return v.Fixnum == other.Fixnum
	case LList:
		return v.Cells.Equal(other.Cells)
	}
	return false
}

// Copy returns a shallow copy of v.  The copy of a list gets its own backing
// slice but shares the element values with v.
func (v *Value) Copy() *Value {
	if v == nil || v == singletonNil {
		return v
	}
	cp := &Value{}
	*cp = *v
	if v.Type == LList {
		cp.Cells = v.Cells.Copy()
	}
	return cp
}

// DeepCopy returns a copy of v which shares no list storage with v at any
// depth.
func (v *Value) DeepCopy() *Value {
	if v == nil || v == singletonNil {
		return v
	}
	cp := &Value{}
	*cp = *v
	if v.Type == LList {
		cells := make(List, len(v.Cells))
		for i := range cells {
			cells[i] = v.Cells[i].DeepCopy()
		}
		cp.Cells = cells
	}
	return cp
}

func (v *Value) String() string {
	if v == nil {
		return "nil"
	}
	switch v.Type {
	case LNil:
		return "nil"
	case LSymbol:
		return v.Symbol.Name()
	case LFixnum:
		return v.Fixnum.String()
	case LList:
		return v.Cells.String()
	default:
		return "#<" + v.Type.String() + ">"
	}
}

func exprString(cells List, left string, right string) string {
	if len(cells) == 0 {
		return left + right
	}
	var buf bytes.Buffer
	buf.WriteString(left)
	for i, c := range cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(c.String())
	}
	buf.WriteString(right)
	return buf.String()
}
