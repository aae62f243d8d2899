package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/vm"
	"go.opencensus.io/trace"
)

var _ vm.Profiler = &ocAnnotator{}

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       []context.Context
}

// NewOpenCensusAnnotator returns a profiler that records an OpenCensus span
// for each top-level form evaluated.
func NewOpenCensusAnnotator(parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

// EnableWithContext enables the profiler, parenting spans on ctx.
func (p *ocAnnotator) EnableWithContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("set a context to use this function")
	}
	p.currentContext = ctx
	return p.profiler.Enable()
}

func (p *ocAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func (p *ocAnnotator) Start(form *lisp.Value) func() {
	if p.skipTrace(form) {
		return func() {}
	}
	label, op := p.prettyLabel(form)
	p.contexts = append(p.contexts, p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, label)
	return func() {
		p.currentSpan.Annotate([]trace.Attribute{
			trace.StringAttribute("operator", op),
			trace.StringAttribute("form", form.String()),
			trace.Int64Attribute("arity", int64(form.Len()-1)),
		}, "form")
		p.currentSpan.End()
		// And pop the current context back
		n := len(p.contexts) - 1
		p.currentContext = p.contexts[n]
		p.contexts = p.contexts[:n]
		p.currentSpan = trace.FromContext(p.currentContext)
	}
}
