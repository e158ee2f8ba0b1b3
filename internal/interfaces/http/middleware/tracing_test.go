package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/fulfillment/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func setupTestTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })
	return tp, sr
}

func tracedRouter(tp *sdktrace.TracerProvider, status int) *gin.Engine {
	router := gin.New()
	router.Use(logger.GinMiddleware(zap.NewNop()))
	router.Use(Tracing("fulfillment-test", otelgin.WithTracerProvider(tp)))
	router.Use(TenantMiddleware(DefaultTenantConfig(true)))
	router.Use(SpanEnricher())
	router.GET("/api/v1/fulfillment/orders/:id", func(c *gin.Context) { c.Status(status) })
	return router
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_EnrichesSpan(t *testing.T) {
	tp, sr := setupTestTracer(t)
	tenantID := uuid.NewString()
	userID := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fulfillment/orders/"+uuid.NewString(), nil)
	req.Header.Set(TenantHeaderKey, tenantID)
	req.Header.Set(UserHeaderKey, userID)
	req.Header.Set(logger.RequestIDHeader, "req-42")
	tracedRouter(tp, http.StatusOK).ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /api/v1/fulfillment/orders/:id", span.Name())

	got, ok := spanAttr(span, "tenant_id")
	require.True(t, ok)
	assert.Equal(t, tenantID, got.AsString())
	got, ok = spanAttr(span, "user_id")
	require.True(t, ok)
	assert.Equal(t, userID, got.AsString())
	got, ok = spanAttr(span, "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-42", got.AsString())
	assert.NotEqual(t, codes.Error, span.Status().Code)
}

func TestTracing_MarksClientErrors(t *testing.T) {
	tp, sr := setupTestTracer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fulfillment/orders/x", nil)
	req.Header.Set(TenantHeaderKey, uuid.NewString())
	tracedRouter(tp, http.StatusConflict).ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, http.StatusText(http.StatusConflict), spans[0].Status().Description)
}

func TestSpanEnricher_WithoutSpan(t *testing.T) {
	router := gin.New()
	router.Use(SpanEnricher())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
