package middleware

import (
	"github.com/relaykit/relay"
)

// dataKey keys injected values by their Go type, one key type per T.
type dataKey[T any] struct{}

// AddData injects a shared value into every request's extensions side-table
// before the inner endpoint runs. The value is shared across requests and
// must be safe for concurrent reads; retrieve it with Data.
func AddData[T any](value T) relay.Middleware {
	return relay.MiddlewareFunc(func(next relay.Endpoint) relay.Endpoint {
		return relay.Before(next, func(req *relay.Request) (*relay.Request, error) {
			req.SetValue(dataKey[T]{}, value)
			return req, nil
		})
	})
}

// Data retrieves a value injected by AddData for type T.
func Data[T any](req *relay.Request) (T, bool) {
	value, ok := req.Value(dataKey[T]{}).(T)
	return value, ok
}
