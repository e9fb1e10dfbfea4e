package relay

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// RouteInfo describes a single registered route for introspection.
type RouteInfo struct {
	Method  string
	Pattern string
}

// Router owns a routing tree and dispatches requests to the endpoints
// registered in it. Routers are endpoints themselves, so they nest under
// other routers and compose with middleware like any handler.
//
// All registration methods panic on malformed or conflicting patterns:
// route-table errors are fatal at startup, never deferred to dispatch time.
// Once serving starts the router is immutable and safe for concurrent use.
type Router struct {
	tree        *node
	middlewares []Middleware
	routes      []RouteInfo
	strictSlash bool
	logger      *slog.Logger

	chainOnce sync.Once
	chained   Endpoint

	bridgeOnce sync.Once
	bridge     http.Handler
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithStrictTrailingSlash stops "/a/" from resolving to the route registered
// at "/a". Patterns are normalized at registration, so under this option a
// trailing-slash path matches only a catch-all route and otherwise yields a
// not-found. The default is lenient: both forms resolve to the same route.
func WithStrictTrailingSlash() RouterOption {
	return func(r *Router) { r.strictSlash = true }
}

// WithRouterLogger sets the logger used by the router's HTTP bridge.
func WithRouterLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRouter creates an empty router.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		tree:   &node{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// At registers an endpoint at the given pattern. The endpoint is usually a
// *RouteMethod built with Get/Post/..., but any endpoint works. Returns the
// router for chaining.
func (r *Router) At(pattern string, ep Endpoint) *Router {
	if ep == nil {
		panic(fmt.Errorf("%w: at %q", ErrNilEndpoint, pattern))
	}
	nd := r.terminal(pattern)
	if nd.ep != nil {
		panic(fmt.Errorf("%w: %q already registered", ErrRouteConflict, pattern))
	}
	nd.ep = ep
	nd.pattern = pattern

	if rm, ok := ep.(*RouteMethod); ok {
		for _, method := range rm.Allowed() {
			r.routes = append(r.routes, RouteInfo{Method: method, Pattern: pattern})
		}
	} else {
		r.routes = append(r.routes, RouteInfo{Method: "*", Pattern: pattern})
	}
	return r
}

// Get registers a handler for GET requests, merging into any method table
// already present at the pattern.
func (r *Router) Get(pattern string, ep Endpoint) *Router {
	return r.handle(http.MethodGet, pattern, ep)
}

// Post registers a handler for POST requests.
func (r *Router) Post(pattern string, ep Endpoint) *Router {
	return r.handle(http.MethodPost, pattern, ep)
}

// Put registers a handler for PUT requests.
func (r *Router) Put(pattern string, ep Endpoint) *Router {
	return r.handle(http.MethodPut, pattern, ep)
}

// Patch registers a handler for PATCH requests.
func (r *Router) Patch(pattern string, ep Endpoint) *Router {
	return r.handle(http.MethodPatch, pattern, ep)
}

// Delete registers a handler for DELETE requests.
func (r *Router) Delete(pattern string, ep Endpoint) *Router {
	return r.handle(http.MethodDelete, pattern, ep)
}

// Head registers a handler for HEAD requests.
func (r *Router) Head(pattern string, ep Endpoint) *Router {
	return r.handle(http.MethodHead, pattern, ep)
}

// Options registers a handler for OPTIONS requests.
func (r *Router) Options(pattern string, ep Endpoint) *Router {
	return r.handle(http.MethodOptions, pattern, ep)
}

// handle merges a single method registration into the pattern's method table.
func (r *Router) handle(method, pattern string, ep Endpoint) *Router {
	nd := r.terminal(pattern)

	var rm *RouteMethod
	switch existing := nd.ep.(type) {
	case nil:
		rm = NewRouteMethod()
		nd.ep = rm
		nd.pattern = pattern
	case *RouteMethod:
		rm = existing
	default:
		panic(fmt.Errorf("%w: %q holds a non-method endpoint", ErrRouteConflict, pattern))
	}

	if err := rm.Add(method, ep); err != nil {
		panic(fmt.Errorf("%s %q: %w", method, pattern, err))
	}
	r.routes = append(r.routes, RouteInfo{Method: method, Pattern: pattern})
	return r
}

// Nest mounts another endpoint (typically a fully-built sub-router) under a
// literal prefix. The prefix is stripped from the routing path before the
// sub-endpoint runs, so sub-routers stay path-agnostic and testable in
// isolation. Nesting is a hard boundary: a path that matches the prefix but
// nothing inside yields the sub-endpoint's own 404, never a fallthrough to
// sibling routes.
func (r *Router) Nest(prefix string, ep Endpoint) *Router {
	if ep == nil {
		panic(fmt.Errorf("%w: nest %q", ErrNilEndpoint, prefix))
	}
	segments, err := parsePattern(prefix)
	if err != nil {
		panic(err)
	}
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.kind != segLiteral {
			panic(fmt.Errorf("%w: %q", ErrInvalidNestPattern, prefix))
		}
		parts = append(parts, seg.value)
	}

	normalized := ""
	if len(parts) > 0 {
		normalized = "/" + strings.Join(parts, "/")
	}
	nested := &nestEndpoint{prefix: normalized, inner: ep}

	rootPattern := normalized
	if rootPattern == "" {
		rootPattern = "/"
	}
	r.At(rootPattern, nested)
	r.At(normalized+"/*", nested)
	return r
}

// Use appends middleware wrapping the router's entire dispatch, including
// the not-found path. The first middleware registered runs outermost.
func (r *Router) Use(middlewares ...Middleware) *Router {
	for _, mw := range middlewares {
		if mw == nil {
			panic("relay: nil middleware passed to Use")
		}
	}
	r.middlewares = append(r.middlewares, middlewares...)
	return r
}

// Routes returns all registered routes.
func (r *Router) Routes() []RouteInfo {
	out := make([]RouteInfo, len(r.routes))
	copy(out, r.routes)
	return out
}

// Call implements Endpoint. The middleware chain is folded once, on first
// dispatch; the router is immutable from then on.
func (r *Router) Call(req *Request) (*Response, error) {
	r.chainOnce.Do(func() {
		ep := Endpoint(EndpointFunc(r.dispatch))
		if len(r.middlewares) > 0 {
			ep = chain(r.middlewares, ep)
		}
		r.chained = ep
	})
	return r.chained.Call(req)
}

// dispatch resolves the request path against the tree and invokes the
// matched endpoint. Lookup itself is synchronous and lock-free; extracted
// params are written into the request's extensions before the endpoint runs.
func (r *Router) dispatch(req *Request) (*Response, error) {
	segments := splitPath(req.Path(), r.strictSlash)

	var ps routeParams
	nd := r.tree.findRoute(segments, &ps)
	if nd == nil {
		return nil, NotFoundError{}
	}

	req.setParams(ps.keys, ps.values)
	return nd.ep.Call(req)
}

// ServeHTTP implements http.Handler via the default HTTP bridge.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.bridgeOnce.Do(func() {
		r.bridge = Handler(r, WithLogger(r.logger))
	})
	r.bridge.ServeHTTP(w, req)
}

// terminal parses the pattern and returns the tree node it terminates at,
// panicking on malformed patterns or param conflicts.
func (r *Router) terminal(pattern string) *node {
	segments, err := parsePattern(pattern)
	if err != nil {
		panic(err)
	}
	nd, err := r.tree.insert(segments, pattern)
	if err != nil {
		panic(err)
	}
	return nd
}

// nestEndpoint delegates to an inner endpoint with the mount prefix stripped
// from the routing path.
type nestEndpoint struct {
	prefix string
	inner  Endpoint
}

func (n *nestEndpoint) Call(req *Request) (*Response, error) {
	path := strings.TrimPrefix(req.Path(), n.prefix)
	if path == "" {
		path = "/"
	} else if path[0] != '/' {
		path = "/" + path
	}
	return n.inner.Call(req.withPath(path))
}
