// Copyright © 2024 The ELPS authors

package vm

import "github.com/luthersystems/elvm/lisp"

// Profiler observes evaluation.  Implementations live in package
// vm/x/profiler.
type Profiler interface {
	// IsEnabled reports whether the profiler is recording.
	IsEnabled() bool
	// Enable starts recording.
	Enable() error
	// Complete ends the profiling session and flushes any pending output.
	Complete() error
	// Start marks the beginning of the evaluation of form and returns a
	// function marking its end.
	Start(form *lisp.Value) func()
}

type noProfiler struct{}

func (noProfiler) IsEnabled() bool               { return false }
func (noProfiler) Enable() error                 { return nil }
func (noProfiler) Complete() error               { return nil }
func (noProfiler) Start(form *lisp.Value) func() { return func() {} }
