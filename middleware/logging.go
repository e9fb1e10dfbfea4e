package middleware

import (
	"log/slog"
	"time"

	"github.com/relaykit/relay"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(req *relay.Request) bool
	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger
	// Level for successful request logging (default: slog.LevelInfo);
	// requests that end in an error are always logged at Error level
	Level slog.Level
	// SlowRequestThreshold logs requests slower than this at Warn level
	// (0 disables the check)
	SlowRequestThreshold time.Duration
}

// Logging creates a request logging middleware writing to slog.Default().
func Logging() relay.Middleware {
	return LoggingWithConfig(LoggingConfig{})
}

// LoggingWithConfig creates a request logging middleware with custom
// configuration. It records method, path, status, and duration for every
// request passing through it, including those that end in an error.
func LoggingWithConfig(cfg LoggingConfig) relay.Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return relay.MiddlewareFunc(func(next relay.Endpoint) relay.Endpoint {
		return relay.Around(next, func(next relay.Endpoint, req *relay.Request) (*relay.Response, error) {
			if cfg.Skip != nil && cfg.Skip(req) {
				return next.Call(req)
			}

			start := time.Now()
			resp, err := next.Call(req)
			duration := time.Since(start)

			attrs := []any{
				"method", req.Method(),
				"path", req.Path(),
				"duration", duration,
			}
			if id, ok := RequestIDFrom(req); ok {
				attrs = append(attrs, "request_id", id)
			}

			ctx := req.Context()
			switch {
			case err != nil:
				cfg.Logger.ErrorContext(ctx, "request failed", append(attrs, "error", err)...)
			case cfg.SlowRequestThreshold > 0 && duration > cfg.SlowRequestThreshold:
				cfg.Logger.WarnContext(ctx, "slow request", append(attrs, "status", resp.StatusCode)...)
			default:
				cfg.Logger.Log(ctx, cfg.Level, "request completed", append(attrs, "status", resp.StatusCode)...)
			}

			return resp, err
		})
	})
}
