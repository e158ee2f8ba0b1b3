package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.mounts)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Register(RegistrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/fulfillment/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	}))
	r.Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fulfillment/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterMiddlewareScopedToAPI(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	})
	r.Register(RegistrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/admin/jobs", func(c *gin.Context) { c.Status(http.StatusOK) })
	}))
	r.Setup()

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/api/v1/admin/jobs", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouterRegistrationOrder(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v3"))

	var order []string
	for _, name := range []string{"fulfillment", "outbox", "jobs"} {
		r.Register(RegistrarFunc(func(rg *gin.RouterGroup) {
			order = append(order, name)
			assert.Equal(t, "/api/v3", rg.BasePath())
		}))
	}
	r.Setup()

	assert.Equal(t, []string{"fulfillment", "outbox", "jobs"}, order)
}

func TestRouterMount(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Mount("/system", RegistrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/info", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("scope")) })
	}), func(c *gin.Context) { c.Set("scope", "system") })
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/info", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "system", w.Body.String())
}
