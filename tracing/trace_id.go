package tracing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/mediasniff/meta"
)

// StartingTraceID returns the trace ID of the span in ctx. Without a valid span,
// for example when tracing is disabled, it generates a "man-<uuid>" id so logs can
// still be correlated.
func StartingTraceID(ctx context.Context) string {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID()
	if traceID.IsValid() {
		return traceID.String()
	}
	return fmt.Sprintf("man-%s", uuid.New().String())
}

// WithTraceID stores StartingTraceID in ctx under meta.TraceID unless one is already set.
func WithTraceID(ctx context.Context) context.Context {
	if meta.Find(ctx, meta.TraceID) != "" {
		return ctx
	}
	return meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{meta.TraceID: StartingTraceID(ctx)})
}
