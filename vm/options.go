// Copyright © 2024 The ELPS authors

package vm

import (
	"io"
	"log"

	"github.com/luthersystems/elvm/compiler"
)

// Option configures a Thread.
type Option func(*Thread)

// WithCompiler makes a Thread compile forms with c.  The compiler must share
// an interner with the reader producing the forms.
func WithCompiler(c *compiler.Compiler) Option {
	return func(t *Thread) {
		t.compiler = c
	}
}

// WithProfiler attaches p to a Thread.  The profiler is notified each time a
// form is evaluated.
func WithProfiler(p Profiler) Option {
	return func(t *Thread) {
		t.profiler = p
	}
}

// WithStackCapacity sets the initial capacity of the operand stack.  The
// stack grows beyond n as needed.
func WithStackCapacity(n int) Option {
	return func(t *Thread) {
		if n > 0 {
			t.capacity = n
		}
	}
}

// WithTrace returns an Option that makes a Thread write each instruction it
// executes, along with the operand stack height, to w.
func WithTrace(w io.Writer) Option {
	return func(t *Thread) {
		t.trace = w
	}
}

// WithLogger makes a Thread report internal defects to logger instead of a
// logger writing to os.Stderr.
func WithLogger(logger *log.Logger) Option {
	return func(t *Thread) {
		t.logger = logger
	}
}
