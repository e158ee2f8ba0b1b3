package handler

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/erp/fulfillment/docs"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag/v2"
)

var ginParam = regexp.MustCompile(`:(\w+)`)

func TestSwaggerDocCoversRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	rg := engine.Group("")
	NewFulfillmentHandler(nil, nil).RegisterRoutes(rg)
	NewOutboxHandler(nil).RegisterRoutes(rg)
	NewJobHandler(nil).RegisterRoutes(rg)
	rg.GET("/system/info", NewSystemHandler("svc", "test", nil).GetSystemInfo)

	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var spec struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &spec))
	assert.Equal(t, "/api/v1", spec.BasePath)

	for _, route := range engine.Routes() {
		path := ginParam.ReplaceAllString(route.Path, "{$1}")
		methods, ok := spec.Paths[path]
		if !assert.True(t, ok, "undocumented path %s", path) {
			continue
		}
		_, ok = methods[strings.ToLower(route.Method)]
		assert.True(t, ok, "undocumented %s %s", route.Method, path)
	}
}
