// Package middleware provides stock middleware for the relay endpoint chain:
// shared-data injection, panic recovery, request IDs, structured request
// logging, response headers, and per-request timeouts.
//
// Every middleware is an ordinary [relay.Middleware], so it composes with
// handlers and routers through relay.With or Router.Use:
//
//	router := relay.NewRouter().
//		At("/users/:id", relay.Get(getUser)).
//		Use(middleware.RequestID(), middleware.Logging())
//
// Middleware that accept configuration follow the WithConfig convention: a
// zero-config constructor with sensible defaults, plus a ...WithConfig
// variant taking a config struct with an optional Skip predicate.
package middleware
