package profiler

import "github.com/luthersystems/elvm/lisp"

// SkipFilter returns true for forms which should not be traced.
type SkipFilter func(form *lisp.Value) bool

// defaultSkipFilter skips everything that is not an operator application.
// Such values evaluate to themselves and never reach the engine.
func defaultSkipFilter(form *lisp.Value) bool {
	return operatorName(form) == ""
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithOperatorFilter restricts tracing to forms headed by one of the named
// operators.
func WithOperatorFilter(names ...string) Option {
	keep := make(map[string]bool, len(names))
	for _, name := range names {
		keep[name] = true
	}
	return WithSkipFilter(func(form *lisp.Value) bool {
		return !keep[operatorName(form)]
	})
}
