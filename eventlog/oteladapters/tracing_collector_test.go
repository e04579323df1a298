package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/commercekit/commerce-core-go/config"
	"github.com/commercekit/commerce-core-go/eventlog/oteladapters"
)

func Test_NewTracingCollector_Construction(t *testing.T) {
	tracer, _ := givenTracer(t)

	collector := oteladapters.NewTracingCollector(tracer)

	assert.NotNil(t, collector, "NewTracingCollector should return non-nil collector")
}

func Test_TracingCollector_StartSpan(t *testing.T) {
	// arrange
	tracer, exporter := givenTracer(t)
	collector := oteladapters.NewTracingCollector(tracer)

	attrs := map[string]string{
		"db.table":             "commerce_events",
		"eventlog.consistency": "strong",
	}

	// act
	ctx, spanCtx := collector.StartSpan(context.Background(), "eventlog.query", attrs)
	collector.FinishSpan(spanCtx, "ok", map[string]string{"eventlog.entry_count": "5"})

	// assert
	assert.NotNil(t, ctx, "Context should not be nil")
	assert.NotNil(t, spanCtx, "SpanContext should not be nil")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	span := spans[0]
	assert.Equal(t, "eventlog.query", span.Name, "Span name should match")
	assertSpanHasAttribute(t, span, "db.table", "commerce_events")
	assertSpanHasAttribute(t, span, "eventlog.consistency", "strong")
	assertSpanHasAttribute(t, span, "eventlog.entry_count", "5")
	assert.Equal(t, codes.Ok, span.Status.Code, "Span should have OK status")
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	// arrange
	tracer, exporter := givenTracer(t)
	collector := oteladapters.NewTracingCollector(tracer)

	testCases := []struct {
		status              string
		expectedCode        codes.Code
		expectedDescription string
	}{
		{"ok", codes.Ok, ""},
		{"success", codes.Ok, ""},
		{"completed", codes.Ok, ""},
		{"error", codes.Error, "Operation failed"},
		{"failed", codes.Error, "Operation failed"},
		{"failure", codes.Error, "Operation failed"},
		{"cancelled", codes.Error, "Operation cancelled"},
		{"canceled", codes.Error, "Operation cancelled"},
		{"timeout", codes.Error, "Operation timed out"},
		{"conflict", codes.Error, "Concurrency conflict"},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			exporter.Reset()

			// act
			_, spanCtx := collector.StartSpan(context.Background(), "test", nil)
			collector.FinishSpan(spanCtx, tc.status, nil)

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1, "Expected exactly one span")

			span := spans[0]
			assert.Equal(t, tc.expectedCode, span.Status.Code, "Status code should match")
			assert.Equal(t, tc.expectedDescription, span.Status.Description, "Status description should match")
		})
	}
}

func Test_TracingCollector_UnknownStatus(t *testing.T) {
	// arrange
	tracer, exporter := givenTracer(t)
	collector := oteladapters.NewTracingCollector(tracer)

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "test", nil)
	collector.FinishSpan(spanCtx, "unknown_status", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	// Unknown status strings become an attribute, not a span status.
	assertSpanHasAttribute(t, spans[0], "status", "unknown_status")
}

func Test_TracingCollector_EmptyAttributes(t *testing.T) {
	// arrange
	tracer, exporter := givenTracer(t)
	collector := oteladapters.NewTracingCollector(tracer)

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "test-empty", map[string]string{})
	collector.FinishSpan(spanCtx, "ok", map[string]string{})

	_, spanCtx2 := collector.StartSpan(context.Background(), "test-nil", nil)
	collector.FinishSpan(spanCtx2, "ok", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2, "Expected exactly two spans")

	for _, span := range spans {
		assert.Equal(t, codes.Ok, span.Status.Code, "Spans should complete successfully")
	}
}

func Test_TracingCollector_ContextPropagation(t *testing.T) {
	// arrange
	tracer, exporter := givenTracer(t)
	collector := oteladapters.NewTracingCollector(tracer)

	parentCtx, parentSpan := tracer.Start(context.Background(), "parent-operation")
	defer parentSpan.End()

	// act
	childCtx, childSpanCtx := collector.StartSpan(parentCtx, "child-operation", nil)
	collector.FinishSpan(childSpanCtx, "ok", nil)

	// assert
	assert.NotEqual(t, parentCtx, childCtx, "Child context should be different from parent")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span from collector")

	childSpan := spans[0]
	assert.Equal(t, "child-operation", childSpan.Name, "Child span name should match")
	assert.Equal(t, parentSpan.SpanContext().SpanID(), childSpan.Parent.SpanID(), "Child should have correct parent")
}

func Test_TracingCollector_InvalidSpanContext(t *testing.T) {
	// arrange
	tracer, exporter := givenTracer(t)
	collector := oteladapters.NewTracingCollector(tracer)

	invalidSpanCtx := &plainSpanContext{}

	// act + assert
	assert.NotPanics(t, func() {
		collector.FinishSpan(invalidSpanCtx, "ok", map[string]string{"test": "value"})
	}, "FinishSpan should not panic with a foreign SpanContext")

	spans := exporter.GetSpans()
	assert.Len(t, spans, 0, "No spans should be recorded for a foreign SpanContext")
}

func Test_OTelSpanContext_Methods(t *testing.T) {
	// arrange
	tracer, exporter := givenTracer(t)
	collector := oteladapters.NewTracingCollector(tracer)

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "test-span", nil)
	spanCtx.AddAttribute("test_key", "test_value")
	spanCtx.SetStatus("success")
	collector.FinishSpan(spanCtx, "completed", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	span := spans[0]
	assert.Equal(t, "test-span", span.Name, "Span name should match")
	assert.Equal(t, codes.Ok, span.Status.Code, "Span should have OK status")
	assertSpanHasAttribute(t, span, "test_key", "test_value")
}

// plainSpanContext implements eventlog.SpanContext but is not an *OTelSpanContext.
type plainSpanContext struct{}

func (m *plainSpanContext) SetStatus(_ string)       {}
func (m *plainSpanContext) AddAttribute(_, _ string) {}

func givenTracer(t *testing.T) (trace.Tracer, *tracetest.InMemoryExporter) {
	t.Helper()

	cfg := config.NewTestObservabilityConfig()
	t.Cleanup(func() {
		assert.NoError(t, cfg.Shutdown(context.Background()))
	})

	return cfg.TracerProvider.Tracer("commerce-eventlog"), cfg.SpanExporter
}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, expectedValue string) {
	t.Helper()

	found := false
	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) && attr.Value.AsString() == expectedValue {
			found = true
			break
		}
	}
	assert.True(t, found, "Span should have attribute %s=%s", key, expectedValue)
}
