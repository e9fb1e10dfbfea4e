package middleware

import (
	"context"
	"time"

	"github.com/relaykit/relay"
)

// TimeoutConfig configures the timeout middleware.
type TimeoutConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(req *relay.Request) bool
	// Timeout is the per-request budget for the wrapped endpoint
	Timeout time.Duration
}

// Timeout bounds how long the wrapped endpoint may take. When the budget is
// exceeded the request's context is canceled and a 504 error is returned; an
// endpoint that ignores cancellation keeps running in the background but its
// eventual result is discarded. The wrapped endpoint runs against its own
// request copy, so extension values it stores are not visible to outer
// layers; put value-injecting middleware inside the timeout.
func Timeout(d time.Duration) relay.Middleware {
	return TimeoutWithConfig(TimeoutConfig{Timeout: d})
}

// TimeoutWithConfig creates a timeout middleware with custom configuration.
func TimeoutWithConfig(cfg TimeoutConfig) relay.Middleware {
	return relay.MiddlewareFunc(func(next relay.Endpoint) relay.Endpoint {
		if cfg.Timeout <= 0 {
			return next
		}

		return relay.Around(next, func(next relay.Endpoint, req *relay.Request) (*relay.Response, error) {
			if cfg.Skip != nil && cfg.Skip(req) {
				return next.Call(req)
			}

			ctx, cancel := context.WithTimeout(req.Context(), cfg.Timeout)
			defer cancel()

			type result struct {
				resp *relay.Response
				err  error
			}
			done := make(chan result, 1)
			// The inner call gets its own request copy: on timeout it keeps
			// running detached, and sharing the caller's extensions table
			// would race with the outer chain.
			inner := req.Clone(ctx)
			go func() {
				resp, err := next.Call(inner)
				done <- result{resp: resp, err: err}
			}()

			select {
			case res := <-done:
				return res.resp, res.err
			case <-ctx.Done():
				return nil, relay.ErrGatewayTimeout.WithMessage("request timed out")
			}
		})
	})
}
