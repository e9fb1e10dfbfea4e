package relay

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Params holds URL parameters extracted by the router, keyed by the name
// used in the route pattern.
type Params map[string]string

// Get returns the value captured for name, or "" if the pattern did not
// capture it.
func (p Params) Get(name string) string {
	if p == nil {
		return ""
	}
	return p[name]
}

// paramsKey is the well-known extensions key path parameters live under.
type paramsKey struct{}

// Request is the routing view of an inbound HTTP request. It carries the
// transport request, the routing path (which nested routers strip their
// prefix from), and an extensions side-table used to pass typed values down
// the middleware chain.
//
// A Request is handled by a single task at a time; the extensions table is
// not synchronized.
type Request struct {
	raw  *http.Request
	path string
	ext  map[any]any
}

// NewRequest wraps an *http.Request for dispatch. The routing path is taken
// from RawPath when present to preserve URL encoding.
func NewRequest(r *http.Request) *Request {
	path := r.URL.Path
	if r.URL.RawPath != "" {
		path = r.URL.RawPath
	}
	if path == "" {
		path = "/"
	}
	return &Request{raw: r, path: path, ext: make(map[any]any)}
}

// Raw returns the underlying *http.Request.
func (r *Request) Raw() *http.Request { return r.raw }

// Method returns the HTTP method of the request.
func (r *Request) Method() string { return r.raw.Method }

// Path returns the routing path. Inside a nested router this is the request
// path with the mount prefix already stripped.
func (r *Request) Path() string { return r.path }

// Header returns the request headers.
func (r *Request) Header() http.Header { return r.raw.Header }

// Body returns the as-yet-unconsumed request body.
func (r *Request) Body() io.ReadCloser { return r.raw.Body }

// Context returns the request's context.
func (r *Request) Context() context.Context { return r.raw.Context() }

// WithContext returns a shallow copy of the request whose transport request
// carries ctx. The extensions table is shared with the original.
func (r *Request) WithContext(ctx context.Context) *Request {
	r2 := *r
	r2.raw = r.raw.WithContext(ctx)
	return &r2
}

// Clone returns a copy of the request carrying ctx, with its own extensions
// table seeded from the original. Use it whenever a request escapes to
// another goroutine: the extensions table is not synchronized, so the
// original and the copy must not be handled concurrently through the same
// table.
func (r *Request) Clone(ctx context.Context) *Request {
	r2 := *r
	r2.raw = r.raw.Clone(ctx)
	r2.ext = make(map[any]any, len(r.ext))
	for k, v := range r.ext {
		r2.ext[k] = v
	}
	return &r2
}

// withPath returns a shallow copy of the request with a rewritten routing
// path. Used by nested routers; the extensions table is shared so values set
// by outer middleware remain visible.
func (r *Request) withPath(path string) *Request {
	r2 := *r
	r2.path = path
	return &r2
}

// SetValue stores a value in the request's extensions side-table. Use an
// unexported key type to avoid collisions, as with context values.
func (r *Request) SetValue(key, value any) {
	r.ext[key] = value
}

// Value returns the extension stored under key, or nil.
func (r *Request) Value(key any) any {
	return r.ext[key]
}

// Param returns the value of the URL parameter captured under name.
func (r *Request) Param(name string) string {
	return PathParams(r).Get(name)
}

// PathParams returns all URL parameters extracted by the router for this
// request. The router writes them before the middleware chain runs, so every
// layer, including the innermost handler, sees the same map.
func PathParams(r *Request) Params {
	if p, ok := r.ext[paramsKey{}].(Params); ok {
		return p
	}
	return nil
}

// setParams merges captured parameters into the request, keeping those
// extracted by outer routers. Matching runs against the raw path so encoded
// separators cannot split segments, but handlers receive decoded values, so
// captures are unescaped here.
func (r *Request) setParams(keys, values []string) {
	if len(keys) == 0 {
		return
	}
	existing, _ := r.ext[paramsKey{}].(Params)
	merged := make(Params, len(existing)+len(keys))
	for k, v := range existing {
		merged[k] = v
	}
	for i, k := range keys {
		if i >= len(values) {
			continue
		}
		v := values[i]
		if decoded, err := url.PathUnescape(v); err == nil {
			v = decoded
		}
		merged[k] = v
	}
	r.ext[paramsKey{}] = merged
}
