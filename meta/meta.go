// Package meta provides functionality for carrying call metadata through context.
package meta

import "context"

// ContextKey is a type for keys used in context values for metadata.
type ContextKey string

const (
	// TraceID represents a unique identifier for tracing a call across components.
	TraceID ContextKey = "trace_id"

	// Operation names the storage or detection operation in progress.
	Operation ContextKey = "operation"

	// Bucket is the bucket of the object being processed.
	Bucket ContextKey = "bucket"

	// ObjectKey is the key of the object being processed.
	ObjectKey ContextKey = "object_key"

	// ServiceName identifies the name of current running service.
	ServiceName ContextKey = "service_name"

	// ServiceVersion indicates the version of the service.
	ServiceVersion ContextKey = "service_version"
)

//nolint:gochecknoglobals // fixed extraction order.
var knownKeys = []ContextKey{TraceID, Operation, Bucket, ObjectKey, ServiceName, ServiceVersion}

// InjectMetaToContext adds metadata from the provided map to the context.
// It only adds values that are not empty strings and returns a new context
// with the added values.
func InjectMetaToContext(ctx context.Context, data map[ContextKey]string) context.Context {
	for k, v := range data {
		if v != "" {
			ctx = context.WithValue(ctx, k, v) //nolint:fatcontext // allow due to finite number of keys
		}
	}
	return ctx
}

// WithObject records the bucket and key of the object a call works on.
func WithObject(ctx context.Context, bucket, key string) context.Context {
	return InjectMetaToContext(ctx, map[ContextKey]string{Bucket: bucket, ObjectKey: key})
}

// ExtractMetaFromContext extracts all metadata from the provided context.
// Only non-empty string values of the predefined keys are included.
func ExtractMetaFromContext(ctx context.Context) map[ContextKey]string {
	data := make(map[ContextKey]string)
	for _, k := range knownKeys {
		if v, ok := ctx.Value(k).(string); ok && v != "" {
			data[k] = v
		}
	}
	return data
}

// Find returns the string stored under key, or "".
func Find(ctx context.Context, key ContextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}
