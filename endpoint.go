package relay

// Endpoint is the uniform request-handling contract: anything that can turn
// a Request into a Response or an error. Handlers are endpoints, routers are
// endpoints, and every middleware wraps one endpoint to produce another.
//
// Endpoints are created at registration time, are immutable afterwards, and
// are invoked concurrently for the life of the process. Implementations that
// hold shared mutable state must synchronize it themselves.
type Endpoint interface {
	Call(req *Request) (*Response, error)
}

// EndpointFunc adapts an ordinary function to the Endpoint interface.
type EndpointFunc func(req *Request) (*Response, error)

// Call implements Endpoint.
func (f EndpointFunc) Call(req *Request) (*Response, error) {
	return f(req)
}
