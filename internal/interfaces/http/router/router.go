package router

import (
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts a handler's routes on a group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RegistrarFunc lets a closure act as a RouteRegistrar
type RegistrarFunc func(rg *gin.RouterGroup)

func (f RegistrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

type mount struct {
	prefix     string
	middleware []gin.HandlerFunc
	registrar  RouteRegistrar
}

// Router collects registrars and mounts them under /api/<version>. Routes
// added directly on the engine (health, metrics) skip the API middleware.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	mounts     []mount
}

type RouterOption func(*Router)

// WithAPIVersion replaces the default "v1" path segment
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.apiVersion = version }
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use appends middleware that wraps every API route
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register mounts registrar at the API root
func (r *Router) Register(registrar RouteRegistrar) *Router {
	return r.Mount("", registrar)
}

// Mount places registrar under prefix, with extra middleware that runs after
// the API-wide chain
func (r *Router) Mount(prefix string, registrar RouteRegistrar, middleware ...gin.HandlerFunc) *Router {
	r.mounts = append(r.mounts, mount{prefix: prefix, middleware: middleware, registrar: registrar})
	return r
}

// Setup applies every mount in registration order
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath(), r.middleware...)
	for _, m := range r.mounts {
		rg := api
		if m.prefix != "" || len(m.middleware) > 0 {
			rg = api.Group(m.prefix, m.middleware...)
		}
		m.registrar.RegisterRoutes(rg)
	}
}

// BasePath is the API prefix, e.g. /api/v1
func (r *Router) BasePath() string {
	return path.Join("/api", r.apiVersion)
}
