// Package tracing emits OpenTelemetry spans for patch passes and server
// requests.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// Default tracer name.
const defaultTracerName = "vtree"

// PatchSpanName is the name of the span covering one patch pass.
const PatchSpanName = "vtree.patch"

// Config configures the tracer.
type Config struct {
	// TracerName is the name of the tracer (default: "vtree").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider.
	TracerProvider trace.TracerProvider

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// Option configures the tracer.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(c *Config) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Tracer starts spans for one application.
type Tracer struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

// New creates a Tracer.
//
// The global provider is used unless WithTracerProvider is given. Configure
// it in main() before starting the server:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func New(opts ...Option) *Tracer {
	config := Config{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracer{
		tracer: tp.Tracer(config.TracerName),
		attrs:  config.Attributes,
	}
}

// Start starts a span with the configured attributes plus attrs.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, len(t.attrs)+len(attrs))
	all = append(all, t.attrs...)
	all = append(all, attrs...)
	return t.tracer.Start(ctx, name, trace.WithAttributes(all...))
}

// End records err, if any, on span and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// PatchTracer traces the passes of one Patcher. It is not safe for
// concurrent use, like the Patcher itself.
type PatchTracer struct {
	tracer *Tracer
	parent context.Context
	span   trace.Span

	created int
	updated int
	removed int
}

// NewPatchTracer returns a PatchTracer whose spans are children of
// context.Background until SetContext is called.
func (t *Tracer) NewPatchTracer() *PatchTracer {
	return &PatchTracer{tracer: t, parent: context.Background()}
}

// SetContext sets the parent context of the next patch spans.
func (p *PatchTracer) SetContext(ctx context.Context) {
	p.parent = ctx
}

// Module returns the vdom module driving the spans.
func (p *PatchTracer) Module() vdom.Module {
	return vdom.Module{
		Name: "tracing",
		Pre: func() {
			p.created, p.updated, p.removed = 0, 0, 0
			_, p.span = p.tracer.Start(p.parent, PatchSpanName)
		},
		Create: func(_, _ *vdom.VNode) {
			p.created++
		},
		Update: func(_, _ *vdom.VNode) {
			p.updated++
		},
		Remove: func(_ *vdom.VNode, rm *vdom.Removal) {
			p.removed++
			rm.Done()
		},
		Post: func() {
			if p.span == nil {
				return
			}
			p.span.SetAttributes(
				attribute.Int("vtree.created", p.created),
				attribute.Int("vtree.updated", p.updated),
				attribute.Int("vtree.removed", p.removed),
			)
			End(p.span, nil)
			p.span = nil
		},
	}
}
