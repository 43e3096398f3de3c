package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts a set of routes under the API base path.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

type pathLister interface {
	Paths(base string) []string
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// BasePath is the versioned API prefix, e.g. /api/v1
func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Setup mounts every registrar on the engine and returns the resulting
// "METHOD /path" table for registrars that can list their routes.
func (r *Router) Setup() []string {
	base := r.BasePath()
	api := r.engine.Group(base)
	var table []string
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
		if l, ok := registrar.(pathLister); ok {
			table = append(table, l.Paths(base)...)
		}
	}
	return table
}

// DomainGroup collects the read-only routes of one resource. Routes added
// with GET are also served for HEAD.
type DomainGroup struct {
	name       string
	prefix     string
	routes     []route
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type route struct {
	path     string
	noHead   bool
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a route for GET and HEAD
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{path: path, handlers: handlers})
	return dg
}

// GETOnly registers a route without a HEAD variant
func (dg *DomainGroup) GETOnly(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{path: path, noHead: true, handlers: handlers})
	return dg
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	for _, rt := range dg.routes {
		group.GET(rt.path, rt.handlers...)
		if !rt.noHead {
			group.HEAD(rt.path, rt.handlers...)
		}
	}

	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Paths lists the full paths of the group's routes relative to base.
func (dg *DomainGroup) Paths(base string) []string {
	prefix := path.Join(base, dg.prefix)
	var out []string
	for _, rt := range dg.routes {
		out = append(out, http.MethodGet+" "+path.Join(prefix, rt.path))
	}
	for _, subgroup := range dg.subgroups {
		out = append(out, subgroup.Paths(prefix)...)
	}
	return out
}
