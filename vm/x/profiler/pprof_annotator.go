package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/vm"
)

// This profiler type appends tags to pprof output if pprof is enabled.  It
// does not start pprof; the caller decides whether and where to profile.
// pprof samples at a fixed 100Hz so only long running forms show up.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ vm.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler labeling the current goroutine with
// the operator of the form being evaluated.
func NewPprofAnnotator(parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

// Context returns the labeled context of the form currently being
// evaluated.
func (p *pprofAnnotator) Context() context.Context {
	return p.currentContext
}

func (p *pprofAnnotator) Start(form *lisp.Value) func() {
	if p.skipTrace(form) {
		return func() {}
	}
	oldContext := p.currentContext
	label, _ := p.prettyLabel(form)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("form", label))
	// apply the selected labels to the current goroutine
	pprof.SetGoroutineLabels(p.currentContext)

	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}
