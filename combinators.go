package relay

import "errors"

// Before runs f before the endpoint. On error the inner endpoint is never
// called and the error short-circuits out; on success the (possibly
// transformed) request is passed through.
func Before(ep Endpoint, f func(req *Request) (*Request, error)) Endpoint {
	return EndpointFunc(func(req *Request) (*Response, error) {
		req2, err := f(req)
		if err != nil {
			return nil, err
		}
		return ep.Call(req2)
	})
}

// After runs f on the endpoint's response. It runs for every produced
// response regardless of status; only errors bypass it, since those never
// yield a response to transform.
func After(ep Endpoint, f func(req *Request, resp *Response) (*Response, error)) Endpoint {
	return EndpointFunc(func(req *Request) (*Response, error) {
		resp, err := ep.Call(req)
		if err != nil {
			return nil, err
		}
		return f(req, resp)
	})
}

// Around gives f both the request and the inner endpoint, so it can act on
// both sides of the call: time it, rewrite the request, replace the
// response, or skip the call entirely. It is the most general combinator;
// tracing, metrics, and panic recovery are all expressed through it.
func Around(ep Endpoint, f func(next Endpoint, req *Request) (*Response, error)) Endpoint {
	return EndpointFunc(func(req *Request) (*Response, error) {
		return f(ep, req)
	})
}

// MapResponse transforms successful responses, leaving errors untouched.
func MapResponse(ep Endpoint, f func(resp *Response) *Response) Endpoint {
	return EndpointFunc(func(req *Request) (*Response, error) {
		resp, err := ep.Call(req)
		if err != nil {
			return nil, err
		}
		return f(resp), nil
	})
}

// MapErr transforms errors, leaving successful responses untouched.
func MapErr(ep Endpoint, f func(err error) error) Endpoint {
	return EndpointFunc(func(req *Request) (*Response, error) {
		resp, err := ep.Call(req)
		if err != nil {
			return nil, f(err)
		}
		return resp, nil
	})
}

// AndThen calls f with the successful response; errors from the inner
// endpoint pass through unchanged.
func AndThen(ep Endpoint, f func(resp *Response) (*Response, error)) Endpoint {
	return EndpointFunc(func(req *Request) (*Response, error) {
		resp, err := ep.Call(req)
		if err != nil {
			return nil, err
		}
		return f(resp)
	})
}

// CatchError intercepts errors matching the concrete type E (via errors.As)
// and converts them to a response; errors of any other type propagate
// unchanged. This supports precise, opt-in recovery, such as replacing the
// default 404 for NotFoundError without swallowing handler errors.
func CatchError[E error](ep Endpoint, f func(req *Request, err E) (*Response, error)) Endpoint {
	return EndpointFunc(func(req *Request) (*Response, error) {
		resp, err := ep.Call(req)
		if err != nil {
			var target E
			if errors.As(err, &target) {
				return f(req, target)
			}
			return nil, err
		}
		return resp, nil
	})
}

// CatchAllError intercepts every error and converts it to a response. It is
// the last-resort boundary; a nil f falls back to ErrorResponse.
func CatchAllError(ep Endpoint, f func(req *Request, err error) (*Response, error)) Endpoint {
	return EndpointFunc(func(req *Request) (*Response, error) {
		resp, err := ep.Call(req)
		if err != nil {
			if f == nil {
				return ErrorResponse(err), nil
			}
			return f(req, err)
		}
		return resp, nil
	})
}

// InspectErr observes errors matching the concrete type E without consuming
// them.
func InspectErr[E error](ep Endpoint, f func(err E)) Endpoint {
	return EndpointFunc(func(req *Request) (*Response, error) {
		resp, err := ep.Call(req)
		if err != nil {
			var target E
			if errors.As(err, &target) {
				f(target)
			}
		}
		return resp, err
	})
}

// InspectAllErr observes every error without consuming it.
func InspectAllErr(ep Endpoint, f func(err error)) Endpoint {
	return EndpointFunc(func(req *Request) (*Response, error) {
		resp, err := ep.Call(req)
		if err != nil {
			f(err)
		}
		return resp, err
	})
}
