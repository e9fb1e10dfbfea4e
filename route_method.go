package relay

import (
	"fmt"
	"net/http"
	"sort"
)

// knownMethods is the set of HTTP methods a RouteMethod accepts.
var knownMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodConnect: {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

// RouteMethod maps HTTP methods to endpoints under a single path. Endpoints
// are type-erased behind the Endpoint interface, so heterogeneous handlers
// coexist in one table.
//
// Dispatch resolves the exact method first. A HEAD request with no explicit
// HEAD entry reuses the GET endpoint; the HTTP bridge drops the body when it
// writes the response. Anything else falls back to the configured fallback
// endpoint, which defaults to returning MethodNotAllowedError carrying the
// registered methods.
type RouteMethod struct {
	methods  map[string]Endpoint
	fallback Endpoint
}

// NewRouteMethod creates an empty method table.
func NewRouteMethod() *RouteMethod {
	return &RouteMethod{methods: make(map[string]Endpoint)}
}

// Add registers an endpoint for the given method. Registering the same
// method twice is a conflict; routing must fail fast rather than silently
// shadow a handler.
func (rm *RouteMethod) Add(method string, ep Endpoint) error {
	if ep == nil {
		return fmt.Errorf("%w: method %s", ErrNilEndpoint, method)
	}
	if _, ok := knownMethods[method]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	if _, dup := rm.methods[method]; dup {
		return fmt.Errorf("%w: method %s registered twice", ErrRouteConflict, method)
	}
	rm.methods[method] = ep
	return nil
}

// mustAdd backs the chainable builders; registration errors are fatal.
func (rm *RouteMethod) mustAdd(method string, ep Endpoint) *RouteMethod {
	if err := rm.Add(method, ep); err != nil {
		panic(err)
	}
	return rm
}

// Get sets the endpoint for GET requests.
func (rm *RouteMethod) Get(ep Endpoint) *RouteMethod { return rm.mustAdd(http.MethodGet, ep) }

// Post sets the endpoint for POST requests.
func (rm *RouteMethod) Post(ep Endpoint) *RouteMethod { return rm.mustAdd(http.MethodPost, ep) }

// Put sets the endpoint for PUT requests.
func (rm *RouteMethod) Put(ep Endpoint) *RouteMethod { return rm.mustAdd(http.MethodPut, ep) }

// Patch sets the endpoint for PATCH requests.
func (rm *RouteMethod) Patch(ep Endpoint) *RouteMethod { return rm.mustAdd(http.MethodPatch, ep) }

// Delete sets the endpoint for DELETE requests.
func (rm *RouteMethod) Delete(ep Endpoint) *RouteMethod { return rm.mustAdd(http.MethodDelete, ep) }

// Head sets the endpoint for HEAD requests.
func (rm *RouteMethod) Head(ep Endpoint) *RouteMethod { return rm.mustAdd(http.MethodHead, ep) }

// Options sets the endpoint for OPTIONS requests.
func (rm *RouteMethod) Options(ep Endpoint) *RouteMethod { return rm.mustAdd(http.MethodOptions, ep) }

// Connect sets the endpoint for CONNECT requests.
func (rm *RouteMethod) Connect(ep Endpoint) *RouteMethod { return rm.mustAdd(http.MethodConnect, ep) }

// Trace sets the endpoint for TRACE requests.
func (rm *RouteMethod) Trace(ep Endpoint) *RouteMethod { return rm.mustAdd(http.MethodTrace, ep) }

// WithFallback sets the endpoint invoked when the request method has no
// explicit entry, replacing the default 405 behavior.
func (rm *RouteMethod) WithFallback(ep Endpoint) *RouteMethod {
	rm.fallback = ep
	return rm
}

// Allowed returns the registered methods in sorted order.
func (rm *RouteMethod) Allowed() []string {
	allowed := make([]string, 0, len(rm.methods))
	for method := range rm.methods {
		allowed = append(allowed, method)
	}
	sort.Strings(allowed)
	return allowed
}

// Call implements Endpoint.
func (rm *RouteMethod) Call(req *Request) (*Response, error) {
	if ep := rm.methods[req.Method()]; ep != nil {
		return ep.Call(req)
	}
	if req.Method() == http.MethodHead {
		if ep := rm.methods[http.MethodGet]; ep != nil {
			return ep.Call(req)
		}
	}
	if rm.fallback != nil {
		return rm.fallback.Call(req)
	}
	return nil, MethodNotAllowedError{Allowed: rm.Allowed()}
}

// Get creates a method table with ep registered for GET, ready for further
// chaining: relay.Get(h).Post(h2).
func Get(ep Endpoint) *RouteMethod { return NewRouteMethod().Get(ep) }

// Post creates a method table with ep registered for POST.
func Post(ep Endpoint) *RouteMethod { return NewRouteMethod().Post(ep) }

// Put creates a method table with ep registered for PUT.
func Put(ep Endpoint) *RouteMethod { return NewRouteMethod().Put(ep) }

// Patch creates a method table with ep registered for PATCH.
func Patch(ep Endpoint) *RouteMethod { return NewRouteMethod().Patch(ep) }

// Delete creates a method table with ep registered for DELETE.
func Delete(ep Endpoint) *RouteMethod { return NewRouteMethod().Delete(ep) }

// Head creates a method table with ep registered for HEAD.
func Head(ep Endpoint) *RouteMethod { return NewRouteMethod().Head(ep) }

// Options creates a method table with ep registered for OPTIONS.
func Options(ep Endpoint) *RouteMethod { return NewRouteMethod().Options(ep) }
