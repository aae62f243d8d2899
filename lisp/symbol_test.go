// Copyright © 2024 The ELPS authors

package lisp_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/luthersystems/elvm/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternIdentity(t *testing.T) {
	in := lisp.NewInterner()
	for _, name := range []string{"foo", "add", "x", "", "averyveryverylongsymbolname"} {
		a := in.Intern(name)
		b := in.Intern(name)
		assert.True(t, a == b, "intern(%q) should be identity-equal", name)
		assert.Equal(t, name, a.Name())
	}
	assert.False(t, in.Intern("foo") == in.Intern("bar"))
	assert.Equal(t, 6, in.Len())
}

func TestInternAcrossInterners(t *testing.T) {
	a := lisp.NewInterner().Intern("foo")
	b := lisp.NewInterner().Intern("foo")
	assert.False(t, a == b, "symbols from different interners are distinct")
	assert.Equal(t, a.Name(), b.Name())
}

func TestInternerLookup(t *testing.T) {
	in := lisp.NewInterner()
	_, ok := in.Lookup("missing")
	assert.False(t, ok)
	sym := in.Intern("present")
	got, ok := in.Lookup("present")
	require.True(t, ok)
	assert.True(t, got == sym)
	assert.Equal(t, []string{"present"}, in.Names())
}

func TestDefaultInterner(t *testing.T) {
	assert.Same(t, lisp.DefaultInterner(), lisp.DefaultInterner())
	assert.True(t, lisp.Intern("default") == lisp.DefaultInterner().Intern("default"))
}

func TestZeroSymbol(t *testing.T) {
	var sym lisp.Symbol
	assert.True(t, sym.IsZero())
	assert.Equal(t, "", sym.Name())
	assert.False(t, lisp.Intern("x").IsZero())
}

func TestInternConcurrent(t *testing.T) {
	in := lisp.NewInterner()
	const workers = 16
	const names = 64
	results := make([][]lisp.Symbol, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			syms := make([]lisp.Symbol, names)
			for i := 0; i < names; i++ {
				syms[i] = in.Intern(fmt.Sprintf("sym%d", i))
			}
			results[w] = syms
		}(w)
	}
	wg.Wait()
	assert.Equal(t, names, in.Len())
	for w := 1; w < workers; w++ {
		for i := 0; i < names; i++ {
			assert.True(t, results[0][i] == results[w][i], "sym%d interned twice", i)
		}
	}
}
