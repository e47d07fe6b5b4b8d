package traceregistry

import "context"

type contextKey struct{}

// ContextWithSpan makes span the current span of the returned context.
func ContextWithSpan(ctx context.Context, span *Span) context.Context {
	return context.WithValue(ctx, contextKey{}, span)
}

// SpanFromContext returns the span current in ctx, if any. An event
// that fires with a context carrying no span is outside all spans.
func SpanFromContext(ctx context.Context) (*Span, bool) {
	span, ok := ctx.Value(contextKey{}).(*Span)
	return span, ok
}
