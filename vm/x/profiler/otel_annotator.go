package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/vm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// ContextOpenTelemetryTracerKey looks up a parent tracer name from a context key.
	ContextOpenTelemetryTracerKey = "otelParentTracer"

	// DefaultTracerName is used when the parent context names no tracer.
	DefaultTracerName = "elvm"
)

// Span attribute keys
const (
	FormKey  = attribute.Key("elvm.form")
	ArityKey = attribute.Key("elvm.arity")
)

var _ vm.Profiler = &otelAnnotator{}

type otelAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    trace.Span
}

// NewOpenTelemetryAnnotator returns a profiler that starts a span, as a
// child of parentContext, for each top-level form evaluated.
func NewOpenTelemetryAnnotator(parentContext context.Context, opts ...Option) *otelAnnotator {
	p := &otelAnnotator{
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opentelemetry")
	}
	return p.profiler.Enable()
}

func (p *otelAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		tracerName = DefaultTracerName
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (p *otelAnnotator) Start(form *lisp.Value) func() {
	if p.skipTrace(form) {
		return func() {}
	}
	oldContext := p.currentContext
	label, op := p.prettyLabel(form)
	p.currentContext, p.currentSpan = contextTracer(p.currentContext).Start(p.currentContext, label)
	p.currentSpan.SetAttributes(
		semconv.CodeNamespace(DefaultTracerName),
		semconv.CodeFunction(op),
		FormKey.String(form.String()),
		ArityKey.Int(form.Len()-1),
	)
	return func() {
		p.currentSpan.End()
		// And pop the current context back
		p.currentContext = oldContext
		p.currentSpan = nil
	}
}
