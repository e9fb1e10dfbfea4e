package middleware

import (
	"github.com/google/uuid"

	"github.com/relaykit/relay"
)

// requestIDKey is the extensions key the request ID is stored under.
type requestIDKey struct{}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(req *relay.Request) bool
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// HeaderName specifies the header name for the request ID (default: "X-Request-ID")
	HeaderName string
	// UseExisting determines whether to use an existing request ID from the incoming request
	UseExisting bool
}

// RequestID creates a request ID middleware with default configuration.
// It generates a new UUID for each request and exposes it both in the
// request's extensions and on the response headers.
func RequestID() relay.Middleware {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig creates a request ID middleware with custom
// configuration. The ID is available to inner layers via RequestIDFrom and
// is stamped onto the outgoing response for tracing.
func RequestIDWithConfig(cfg RequestIDConfig) relay.Middleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}

	return relay.MiddlewareFunc(func(next relay.Endpoint) relay.Endpoint {
		return relay.Around(next, func(next relay.Endpoint, req *relay.Request) (*relay.Response, error) {
			if cfg.Skip != nil && cfg.Skip(req) {
				return next.Call(req)
			}

			var requestID string
			if cfg.UseExisting {
				requestID = req.Header().Get(cfg.HeaderName)
			}
			if requestID == "" {
				requestID = cfg.Generator()
			}

			req.SetValue(requestIDKey{}, requestID)

			resp, err := next.Call(req)
			if resp != nil {
				resp.Header.Set(cfg.HeaderName, requestID)
			}
			return resp, err
		})
	})
}

// RequestIDFrom retrieves the request ID from the request's extensions.
func RequestIDFrom(req *relay.Request) (string, bool) {
	id, ok := req.Value(requestIDKey{}).(string)
	return id, ok
}
