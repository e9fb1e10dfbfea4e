package middleware

import (
	"runtime/debug"

	"github.com/relaykit/relay"
)

// CatchPanicConfig configures the panic recovery middleware.
type CatchPanicConfig struct {
	// Handler converts the recovered panic into a response. When nil the
	// panic continues through the chain as a *relay.PanicError, which the
	// dispatch boundary maps to a 500.
	Handler func(req *relay.Request, err *relay.PanicError) (*relay.Response, error)
}

// CatchPanic recovers panics raised by the wrapped endpoint and converts
// them into *relay.PanicError values, preserving the guarantee that a
// response is always produced instead of a panic unwinding past the
// dispatch boundary.
func CatchPanic() relay.Middleware {
	return CatchPanicWithConfig(CatchPanicConfig{})
}

// CatchPanicWithConfig creates a panic recovery middleware with custom
// conversion behavior.
func CatchPanicWithConfig(cfg CatchPanicConfig) relay.Middleware {
	return relay.MiddlewareFunc(func(next relay.Endpoint) relay.Endpoint {
		return relay.Around(next, func(next relay.Endpoint, req *relay.Request) (resp *relay.Response, err error) {
			defer func() {
				if p := recover(); p != nil {
					panicErr := &relay.PanicError{Value: p, Stack: debug.Stack()}
					if cfg.Handler != nil {
						resp, err = cfg.Handler(req, panicErr)
						return
					}
					resp, err = nil, panicErr
				}
			}()
			return next.Call(req)
		})
	})
}
