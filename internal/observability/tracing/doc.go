// Package tracing provides OpenTelemetry span helpers.
//
// GetTracer returns the package's tracer from the global otel provider, and
// WrapJobHandler wraps a job handler so each run is recorded as a span.
//
// The package installs no tracer provider or exporter of its own; spans go
// to whatever provider is registered globally with otel, and no HTTP or
// database calls are traced.
package tracing
