// Copyright © 2024 The ELPS authors

package lisp

import (
	"sort"
	"sync"
)

// Symbol is an interned name.  Symbols are small comparable handles, an index
// into the append-only table of the Interner that produced them, so two
// symbols are the same name exactly when they are ==.
type Symbol struct {
	in *Interner
	id uint32
}

// Name returns the string content of the symbol.  The zero Symbol has an
// empty name.
func (s Symbol) Name() string {
	if s.in == nil {
		return ""
	}
	return s.in.Name(s)
}

func (s Symbol) String() string {
	return s.Name()
}

// IsZero reports whether s was produced by an Interner.
func (s Symbol) IsZero() bool {
	return s.in == nil
}

// Interner maps names to canonical symbols.  An Interner is safe for
// concurrent use by multiple goroutines.  Symbols are never removed.
type Interner struct {
	mu    sync.RWMutex
	ids   map[string]uint32
	names []string
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{
		ids: make(map[string]uint32),
	}
}

// Intern returns the canonical symbol for name, creating it if necessary.
func (in *Interner) Intern(name string) Symbol {
	if sym, ok := in.Lookup(name); ok {
		return sym
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	// Another goroutine may have inserted name between the read and write
	// locks.
	if id, ok := in.ids[name]; ok {
		return Symbol{in: in, id: id}
	}
	id := uint32(len(in.names)) //nolint:gosec // table size is bounded by memory
	in.names = append(in.names, name)
	in.ids[name] = id
	return Symbol{in: in, id: id}
}

// Lookup returns the symbol for name if it has already been interned.
func (in *Interner) Lookup(name string) (Symbol, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	id, ok := in.ids[name]
	if !ok {
		return Symbol{}, false
	}
	return Symbol{in: in, id: id}, true
}

// Name returns the name of sym.  Name panics if sym was produced by a
// different Interner.
func (in *Interner) Name(sym Symbol) string {
	if sym.in != in {
		panic("lisp: symbol belongs to a different interner")
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.names[sym.id]
}

// Len returns the number of interned symbols.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.names)
}

// Names returns a sorted snapshot of all interned names.
func (in *Interner) Names() []string {
	in.mu.RLock()
	names := make([]string, len(in.names))
	copy(names, in.names)
	in.mu.RUnlock()
	sort.Strings(names)
	return names
}

var (
	defaultInterner     *Interner
	defaultInternerOnce sync.Once
)

// DefaultInterner returns the process-wide Interner.  It is created on first
// use.
func DefaultInterner() *Interner {
	defaultInternerOnce.Do(func() {
		defaultInterner = NewInterner()
	})
	return defaultInterner
}

// Intern interns name in the process-wide Interner.
func Intern(name string) Symbol {
	return DefaultInterner().Intern(name)
}
