package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type ctxKey string

func TestProfiling_PreservesContext(t *testing.T) {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(TenantIDKey, uuid.NewString())
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxKey("k"), "v"))
		c.Next()
	})
	router.Use(Profiling("/health"))

	var value any
	router.POST("/api/v1/fulfillment/orders/:id/picks", func(c *gin.Context) {
		value = c.Request.Context().Value(ctxKey("k"))
		c.Status(http.StatusCreated)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/fulfillment/orders/1/picks", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "v", value)
}

func TestProfiling_SkipPath(t *testing.T) {
	router := gin.New()
	router.Use(Profiling("/health"))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestControllerFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/api/v1/fulfillment/orders/:id", "fulfillment"},
		{"/api/v2/admin/jobs", "admin"},
		{"/health", "health"},
		{"/api/v1/:id", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.want, controllerFromRoute(tt.route))
		})
	}
}

func TestIsVersionSegment(t *testing.T) {
	assert.True(t, isVersionSegment("v1"))
	assert.True(t, isVersionSegment("V12"))
	assert.False(t, isVersionSegment("v"))
	assert.False(t, isVersionSegment("vx"))
	assert.False(t, isVersionSegment("orders"))
}
