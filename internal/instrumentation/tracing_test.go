package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("find_key_moments").
		WithOperation("meeting_data").
		WithBotID("bot-1").
		WithSearchTier("speaker").
		WithReadOnly(true).
		Build()

	if len(attrs) != 5 {
		t.Fatalf("expected 5 attributes, got %d", len(attrs))
	}

	got := make(map[string]interface{})
	for _, a := range attrs {
		got[string(a.Key)] = a.Value.AsInterface()
	}
	if got[SpanAttrTool] != "find_key_moments" {
		t.Errorf("unexpected tool %v", got[SpanAttrTool])
	}
	if got[SpanAttrBotID] != "bot-1" {
		t.Errorf("unexpected bot id %v", got[SpanAttrBotID])
	}
	if got[SpanAttrReadOnly] != true {
		t.Errorf("expected read_only true, got %v", got[SpanAttrReadOnly])
	}
}

func TestSpanAttributeBuilder_SkipsEmptyBotID(t *testing.T) {
	attrs := NewSpanAttributeBuilder().WithTool("list_bots_with_metadata").WithBotID("").Build()
	if len(attrs) != 1 {
		t.Errorf("expected 1 attribute, got %d", len(attrs))
	}
}

func TestStartAPISpan(t *testing.T) {
	recorder := withRecorder(t)

	ctx, span := StartAPISpan(context.Background(), "meeting_data")
	if GetTraceID(ctx) == "" || GetSpanID(ctx) == "" {
		t.Error("expected a valid span context")
	}
	SetSpanError(span, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != "meetingbaas.meeting_data" {
		t.Errorf("unexpected span name %q", ended[0].Name())
	}
	if ended[0].SpanKind() != trace.SpanKindClient {
		t.Errorf("expected client span, got %v", ended[0].SpanKind())
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", ended[0].Status().Code)
	}
}

func TestStartToolSpan(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartToolSpan(context.Background(), "intelligent_search")
	SetSpanSuccess(span)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 || ended[0].Name() != "tool.intelligent_search" {
		t.Fatalf("unexpected spans %v", ended)
	}
	if ended[0].SpanKind() != trace.SpanKindServer {
		t.Errorf("expected server span, got %v", ended[0].SpanKind())
	}
}

func TestSetSpanError_Nil(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartSpan(context.Background(), "noop")
	SetSpanError(span, nil)
	span.End()

	if code := recorder.Ended()[0].Status().Code; code != codes.Unset {
		t.Errorf("expected unset status, got %v", code)
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("expected empty trace id, got %q", id)
	}
	if id := GetSpanID(context.Background()); id != "" {
		t.Errorf("expected empty span id, got %q", id)
	}
}
