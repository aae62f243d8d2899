// Copyright © 2024 The ELPS authors

package lisp

// List is an ordered sequence of values.
type List []*Value

// Len returns the number of elements in l.
func (l List) Len() int {
	return len(l)
}

// At returns the element at index i.  At panics if i is out of range.
func (l List) At(i int) *Value {
	return l[i]
}

// Equal returns true if l and other have the same length and pairwise equal
// elements.
func (l List) Equal(other List) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if !l[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Copy returns a List with its own backing storage holding the same element
// values as l.
func (l List) Copy() List {
	cp := make(List, len(l))
	copy(cp, l)
	return cp
}

func (l List) String() string {
	return exprString(l, "(", ")")
}
