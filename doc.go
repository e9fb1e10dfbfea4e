// Package relay provides an HTTP request router and an endpoint/middleware
// composition model for building web services in Go.
//
// The core contract is [Endpoint]: anything that can turn a [Request] into a
// [Response] or an error. Handlers are endpoints, and middleware are
// transforms from one endpoint to another. Routing is a segment tree that
// matches literal, parameter (":name") and catch-all ("*name") path segments
// with deterministic precedence: literal over parameter over catch-all.
//
// A minimal application:
//
//	hello := relay.EndpointFunc(func(req *relay.Request) (*relay.Response, error) {
//		return relay.String("hello: " + req.Param("name")), nil
//	})
//
//	router := relay.NewRouter().
//		At("/hello/:name", relay.Get(hello))
//
//	http.ListenAndServe(":8080", relay.Handler(router))
//
// Middleware compose with the onion model: the last middleware applied via
// [With] is the outermost layer, so its pre-logic runs first and its
// post-logic runs last. Errors returned by handlers or middleware propagate
// through the chain and are recoverable with [CatchError] or [CatchAllError];
// anything still unhandled at the HTTP bridge is converted into a response,
// so a well-formed request always receives one.
package relay
