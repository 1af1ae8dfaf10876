package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"colette/internal/job"
)

func TestWrapJobHandler_CreatesSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(sdktrace.NewTracerProvider())
	tracer = otel.Tracer("colette")

	called := false
	handler := WrapJobHandler(func(ctx context.Context, j *job.Job) error {
		called = true
		return nil
	})

	j := &job.Job{ID: "1", Type: job.TypeScrapeFeed}
	if err := handler(context.Background(), j); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected wrapped handler to run")
	}

	_ = tp.ForceFlush(context.Background())
	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "job.scrape_feed" {
		t.Errorf("expected span name 'job.scrape_feed', got %q", spans[0].Name)
	}

	foundType, foundID := false, false
	for _, attr := range spans[0].Attributes {
		switch attr.Key {
		case "job.type":
			foundType = true
			if attr.Value.AsString() != job.TypeScrapeFeed {
				t.Errorf("expected job.type=%s, got %s", job.TypeScrapeFeed, attr.Value.AsString())
			}
		case "job.id":
			foundID = true
			if attr.Value.AsString() != "1" {
				t.Errorf("expected job.id=1, got %s", attr.Value.AsString())
			}
		}
	}
	if !foundType || !foundID {
		t.Error("expected job.type and job.id attributes on span")
	}
}

func TestWrapJobHandler_MarksErrorSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(sdktrace.NewTracerProvider())
	tracer = otel.Tracer("colette")

	wantErr := errors.New("scrape failed")
	handler := WrapJobHandler(func(ctx context.Context, j *job.Job) error {
		return wantErr
	})

	j := &job.Job{ID: "2", Type: job.TypeScrapeBookmark}
	if err := handler(context.Background(), j); !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}

	_ = tp.ForceFlush(context.Background())
	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	foundError := false
	for _, attr := range spans[0].Attributes {
		if attr.Key == "error" && attr.Value.AsBool() {
			foundError = true
		}
	}
	if !foundError {
		t.Error("expected error attribute on span")
	}
}

func TestWrapJobHandler_NoErrorAttributeOnSuccess(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(sdktrace.NewTracerProvider())
	tracer = otel.Tracer("colette")

	handler := WrapJobHandler(func(ctx context.Context, j *job.Job) error {
		return nil
	})

	j := &job.Job{ID: "3", Type: job.TypeImportFeeds}
	if err := handler(context.Background(), j); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_ = tp.ForceFlush(context.Background())
	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	for _, attr := range spans[0].Attributes {
		if attr.Key == "error" {
			t.Error("unexpected error attribute for a successful job")
		}
	}
}
