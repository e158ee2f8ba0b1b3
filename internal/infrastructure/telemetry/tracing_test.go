package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/fulfillment/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[string(a.Key)] = a.Value
	}
	return m
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)
	orderID := uuid.New()

	_, span := telemetry.StartServiceSpan(context.Background(), "fulfillment", "ship",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrPackageCount, 2),
		telemetry.WithSpanKind(trace.SpanKindServer),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "fulfillment.ship", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
	assert.Equal(t, telemetry.TracerName, spans[0].InstrumentationScope().Name)

	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, orderID.String(), attrs[telemetry.SpanAttrOrderID].AsString())
	assert.Equal(t, int64(2), attrs[telemetry.SpanAttrPackageCount].AsInt64())
}

func TestRecordErrorAndSetOK(t *testing.T) {
	sr := setupTestTracer(t)
	ctx := context.Background()

	_, failed := telemetry.StartSpan(ctx, "fulfillment.deliver")
	telemetry.RecordError(failed, errors.New("version conflict"))
	failed.End()

	_, ok := telemetry.StartSpan(ctx, "fulfillment.pack")
	telemetry.SetOK(ok)
	ok.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "version conflict", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
	assert.Equal(t, codes.Ok, spans[1].Status().Code)

	// nil inputs are ignored
	telemetry.RecordError(nil, errors.New("x"))
	telemetry.RecordError(failed, nil)
	telemetry.SetOK(nil)
}

func TestSetAttributesAndAddEvent(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "fulfillment.deliver")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrWorkflowState, "delivered",
		42, "non-string key is skipped",
		telemetry.SpanAttrRejectedQty, 3.5,
		"dangling",
	)
	telemetry.AddEvent(span, "return_synthesized", telemetry.SpanAttrReturnOrderID, uuid.Nil)
	span.End()

	s := sr.Ended()[0]
	attrs := attrMap(s.Attributes())
	assert.Len(t, attrs, 2)
	assert.Equal(t, "delivered", attrs[telemetry.SpanAttrWorkflowState].AsString())
	assert.InDelta(t, 3.5, attrs[telemetry.SpanAttrRejectedQty].AsFloat64(), 0.0001)

	require.Len(t, s.Events(), 1)
	event := s.Events()[0]
	assert.Equal(t, "return_synthesized", event.Name)
	assert.Equal(t, uuid.Nil.String(), attrMap(event.Attributes)[telemetry.SpanAttrReturnOrderID].AsString())
}

func TestTraceAndSpanIDs(t *testing.T) {
	setupTestTracer(t)

	assert.Empty(t, telemetry.GetTraceID(context.Background()))
	assert.Empty(t, telemetry.GetSpanID(context.Background()))

	ctx, span := telemetry.StartSpan(context.Background(), "x")
	defer span.End()
	assert.Equal(t, span.SpanContext().TraceID().String(), telemetry.GetTraceID(ctx))
	assert.Equal(t, span.SpanContext().SpanID().String(), telemetry.GetSpanID(ctx))
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{ServiceName: "erp-fulfillment"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	tp.EnableSpanProfiles()
	assert.False(t, tp.IsSpanProfilesEnabled())
	assert.NoError(t, tp.Shutdown(context.Background()))
}
