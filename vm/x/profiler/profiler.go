// Package profiler contains vm.Profiler implementations which report the
// evaluation of top-level forms to tracing and profiling backends.
package profiler

import (
	"fmt"

	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/vm"
)

// profiler is a minimal vm.Profiler
type profiler struct {
	enabled     bool
	skipFilter  SkipFilter
	formLabeler FormLabeler
}

var _ vm.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	return nil
}

func (p *profiler) Start(form *lisp.Value) func() {
	return func() {}
}

// operatorName returns the name of the symbol heading form, or the empty
// string if form is not an operator application.
func operatorName(form *lisp.Value) string {
	if form.Type != lisp.LList || form.Len() == 0 {
		return ""
	}
	head := form.Cells[0]
	if head.Type != lisp.LSymbol {
		return ""
	}
	return head.Symbol.Name()
}

// prettyLabel returns a pretty label and the operator name for form. If
// there is no pretty label, then the pretty label is the operator name.
func (p *profiler) prettyLabel(form *lisp.Value) (string, string) {
	op := operatorName(form)
	if op == "" {
		return "", ""
	}
	label := op
	if p.formLabeler != nil {
		label = sanitizeLabel(p.formLabeler(form))
	}
	if label == "" {
		label = op
	}
	return label, op
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(form *lisp.Value) bool {
	return !p.enabled || defaultSkipFilter(form) || p.skipFilter != nil && p.skipFilter(form)
}
