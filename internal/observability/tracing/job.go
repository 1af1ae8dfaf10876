package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"colette/internal/job"
)

// WrapJobHandler starts a span named "job.<type>" around h, recording the
// job ID and type as span attributes and marking the span as errored when h
// returns an error. It has the same job.Handler shape as the handler it
// wraps, so it composes with withJobTimeout in cmd/worker/main.go in either
// order.
func WrapJobHandler(h job.Handler) job.Handler {
	return func(ctx context.Context, j *job.Job) error {
		ctx, span := tracer.Start(ctx, "job."+j.Type,
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				attribute.String("job.type", j.Type),
				attribute.String("job.id", j.ID),
			),
		)
		defer span.End()

		err := h(ctx, j)
		if err != nil {
			span.SetAttributes(attribute.Bool("error", true))
			span.RecordError(err)
		}
		return err
	}
}
