package relay

// Middleware transforms one endpoint into another, layering cross-cutting
// behavior before, after, or around the inner call. Middleware hold at most
// shared read-mostly configuration; per-request state travels through the
// request's extensions side-table.
type Middleware interface {
	Transform(next Endpoint) Endpoint
}

// MiddlewareFunc adapts an ordinary function to the Middleware interface.
type MiddlewareFunc func(next Endpoint) Endpoint

// Transform implements Middleware.
func (f MiddlewareFunc) Transform(next Endpoint) Endpoint {
	return f(next)
}

// With applies middleware to an endpoint in onion order: the last middleware
// listed becomes the outermost layer. With(ep, m1, m2) therefore runs m2's
// pre-logic first, then m1's, then the endpoint, then m1's post-logic, then
// m2's.
func With(ep Endpoint, middlewares ...Middleware) Endpoint {
	for _, mw := range middlewares {
		ep = mw.Transform(ep)
	}
	return ep
}

// WithIf applies the middleware only when enable is true; otherwise the
// endpoint is returned unchanged.
func WithIf(enable bool, ep Endpoint, mw Middleware) Endpoint {
	if !enable {
		return ep
	}
	return mw.Transform(ep)
}

// chain builds a single endpoint from a middleware stack so that the first
// middleware in the slice runs first on the way in and last on the way out.
func chain(middlewares []Middleware, ep Endpoint) Endpoint {
	for i := len(middlewares) - 1; i >= 0; i-- {
		ep = middlewares[i].Transform(ep)
	}
	return ep
}
