package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/reconcile"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

// Default tracer name for patchwork renderers.
const defaultTracerName = "patchwork"

// SpanName is the name of the span opened for each render cycle.
const SpanName = "patchwork.render"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "patchwork").
	TracerName string

	// TracerProvider supplies the tracer. Default: the global provider.
	TracerProvider trace.TracerProvider

	// IncludeContainer records the container's description as an attribute.
	// Enabled by default.
	IncludeContainer bool

	// AttributeExtractor adds custom attributes for each cycle.
	AttributeExtractor func(ctx context.Context, tree *vdom.VNode) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeContainer enables/disables the container attribute.
func WithIncludeContainer(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeContainer = include
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ctx context.Context, tree *vdom.VNode) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:       defaultTracerName,
		IncludeContainer: true,
	}
}

// OpenTelemetry creates middleware that traces every render cycle.
//
// Each cycle gets a span named "patchwork.render" carrying the root tag and,
// when the cycle ends, its Stats. Errors are recorded on the span and set
// its status. The span's context is passed down the chain, so inner
// middleware can add to it with trace.SpanFromContext.
//
// The tracer comes from the global OpenTelemetry tracer provider unless
// WithTracerProvider is given:
//
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) reconcile.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return func(next reconcile.RenderFunc) reconcile.RenderFunc {
		return func(ctx context.Context, tree *vdom.VNode, container live.Node) (reconcile.Stats, error) {
			attrs := []attribute.KeyValue{
				attribute.String("patchwork.root", rootName(tree)),
			}
			if config.IncludeContainer {
				attrs = append(attrs, attribute.String("patchwork.container", fmt.Sprint(container)))
			}
			if config.AttributeExtractor != nil {
				attrs = append(attrs, config.AttributeExtractor(ctx, tree)...)
			}

			spanCtx, span := tracer.Start(ctx, SpanName,
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			st, err := next(spanCtx, tree, container)

			span.SetAttributes(
				attribute.Int("patchwork.mounted", st.Mounted),
				attribute.Int("patchwork.unmounted", st.Unmounted),
				attribute.Int("patchwork.replaced", st.Replaced),
				attribute.Int("patchwork.moved", st.Moved),
				attribute.Int("patchwork.mutations", st.Mutations()),
			)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			return st, err
		}
	}
}

func rootName(tree *vdom.VNode) string {
	switch {
	case !tree.Valid():
		return "(nil)"
	case tree.IsText():
		return "#text"
	default:
		return tree.Tag
	}
}
