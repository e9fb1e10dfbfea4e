package relay_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaykit/relay"
)

func newTestRequest(t *testing.T, method, path string) *relay.Request {
	t.Helper()
	return relay.NewRequest(httptest.NewRequest(method, path, nil))
}

func failingEndpoint(err error) relay.Endpoint {
	return relay.EndpointFunc(func(*relay.Request) (*relay.Response, error) {
		return nil, err
	})
}

func TestBefore(t *testing.T) {
	t.Parallel()

	t.Run("transforms request before the call", func(t *testing.T) {
		t.Parallel()

		ep := relay.EndpointFunc(func(req *relay.Request) (*relay.Response, error) {
			return relay.String(req.Header().Get("X-Stamp")), nil
		})
		stamped := relay.Before(ep, func(req *relay.Request) (*relay.Request, error) {
			req.Header().Set("X-Stamp", "present")
			return req, nil
		})

		resp, err := stamped.Call(newTestRequest(t, http.MethodGet, "/"))
		require.NoError(t, err)
		assert.Equal(t, "present", string(resp.Body))
	})

	t.Run("error short-circuits the inner endpoint", func(t *testing.T) {
		t.Parallel()

		called := false
		ep := relay.EndpointFunc(func(*relay.Request) (*relay.Response, error) {
			called = true
			return relay.String("unreachable"), nil
		})
		guarded := relay.Before(ep, func(*relay.Request) (*relay.Request, error) {
			return nil, relay.ErrUnauthorized
		})

		_, err := guarded.Call(newTestRequest(t, http.MethodGet, "/"))
		assert.ErrorIs(t, err, relay.ErrUnauthorized)
		assert.False(t, called)
	})
}

func TestAfter(t *testing.T) {
	t.Parallel()

	t.Run("transforms successful responses", func(t *testing.T) {
		t.Parallel()

		ep := relay.After(textEndpoint("body"), func(_ *relay.Request, resp *relay.Response) (*relay.Response, error) {
			return resp.WithHeader("X-Seen", "yes"), nil
		})

		resp, err := ep.Call(newTestRequest(t, http.MethodGet, "/"))
		require.NoError(t, err)
		assert.Equal(t, "yes", resp.Header.Get("X-Seen"))
	})

	t.Run("skipped on error", func(t *testing.T) {
		t.Parallel()

		ran := false
		ep := relay.After(failingEndpoint(relay.ErrBadRequest), func(_ *relay.Request, resp *relay.Response) (*relay.Response, error) {
			ran = true
			return resp, nil
		})

		_, err := ep.Call(newTestRequest(t, http.MethodGet, "/"))
		assert.ErrorIs(t, err, relay.ErrBadRequest)
		assert.False(t, ran)
	})
}

func TestAround(t *testing.T) {
	t.Parallel()

	t.Run("wraps both sides of the call", func(t *testing.T) {
		t.Parallel()

		var order []string
		ep := relay.Around(
			relay.EndpointFunc(func(*relay.Request) (*relay.Response, error) {
				order = append(order, "inner")
				return relay.String("ok"), nil
			}),
			func(next relay.Endpoint, req *relay.Request) (*relay.Response, error) {
				order = append(order, "pre")
				resp, err := next.Call(req)
				order = append(order, "post")
				return resp, err
			},
		)

		_, err := ep.Call(newTestRequest(t, http.MethodGet, "/"))
		require.NoError(t, err)
		assert.Equal(t, []string{"pre", "inner", "post"}, order)
	})

	t.Run("can skip the inner endpoint", func(t *testing.T) {
		t.Parallel()

		called := false
		ep := relay.Around(
			relay.EndpointFunc(func(*relay.Request) (*relay.Response, error) {
				called = true
				return relay.String("inner"), nil
			}),
			func(_ relay.Endpoint, _ *relay.Request) (*relay.Response, error) {
				return relay.String("short"), nil
			},
		)

		resp, err := ep.Call(newTestRequest(t, http.MethodGet, "/"))
		require.NoError(t, err)
		assert.Equal(t, "short", string(resp.Body))
		assert.False(t, called)
	})
}

func TestMapResponseAndMapErr(t *testing.T) {
	t.Parallel()

	mapped := relay.MapResponse(textEndpoint("ok"), func(resp *relay.Response) *relay.Response {
		return resp.WithStatus(http.StatusCreated)
	})
	resp, err := mapped.Call(newTestRequest(t, http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	sentinel := errors.New("original")
	remapped := relay.MapErr(failingEndpoint(sentinel), func(err error) error {
		return relay.ErrInternalServerError.WithMessage(err.Error())
	})
	_, err = remapped.Call(newTestRequest(t, http.MethodGet, "/"))
	require.Error(t, err)
	assert.ErrorIs(t, err, relay.ErrInternalServerError)
	assert.NotErrorIs(t, err, sentinel)
}

func TestAndThen(t *testing.T) {
	t.Parallel()

	ep := relay.AndThen(textEndpoint("ok"), func(resp *relay.Response) (*relay.Response, error) {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, relay.ErrInternalServerError
		}
		return resp.WithHeader("X-Checked", "yes"), nil
	})

	resp, err := ep.Call(newTestRequest(t, http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Equal(t, "yes", resp.Header.Get("X-Checked"))

	failing := relay.AndThen(failingEndpoint(relay.ErrBadRequest), func(resp *relay.Response) (*relay.Response, error) {
		return resp, nil
	})
	_, err = failing.Call(newTestRequest(t, http.MethodGet, "/"))
	assert.ErrorIs(t, err, relay.ErrBadRequest)
}

func TestCatchError(t *testing.T) {
	t.Parallel()

	t.Run("catches matching type", func(t *testing.T) {
		t.Parallel()

		ep := relay.CatchError(failingEndpoint(relay.NotFoundError{}), func(_ *relay.Request, _ relay.NotFoundError) (*relay.Response, error) {
			return relay.String("custom 404").WithStatus(http.StatusNotFound), nil
		})

		resp, err := ep.Call(newTestRequest(t, http.MethodGet, "/"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "custom 404", string(resp.Body))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		t.Parallel()

		ep := relay.CatchError(failingEndpoint(relay.ErrForbidden), func(_ *relay.Request, _ relay.NotFoundError) (*relay.Response, error) {
			return relay.String("custom 404"), nil
		})

		_, err := ep.Call(newTestRequest(t, http.MethodGet, "/"))
		assert.ErrorIs(t, err, relay.ErrForbidden)
	})
}

func TestCatchAllError(t *testing.T) {
	t.Parallel()

	ep := relay.CatchAllError(failingEndpoint(relay.ErrForbidden), func(_ *relay.Request, err error) (*relay.Response, error) {
		return relay.String(err.Error()).WithStatus(http.StatusForbidden), nil
	})
	resp, err := ep.Call(newTestRequest(t, http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// nil handler falls back to the default error rendering
	fallback := relay.CatchAllError(failingEndpoint(relay.NotFoundError{}), nil)
	resp, err = fallback.Call(newTestRequest(t, http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInspectErr(t *testing.T) {
	t.Parallel()

	var seen []error

	ep := relay.InspectErr(failingEndpoint(relay.NotFoundError{}), func(err relay.NotFoundError) {
		seen = append(seen, err)
	})
	_, err := ep.Call(newTestRequest(t, http.MethodGet, "/"))
	require.Error(t, err)
	assert.Len(t, seen, 1, "matching error is observed but not consumed")

	ep = relay.InspectErr(failingEndpoint(relay.ErrForbidden), func(err relay.NotFoundError) {
		seen = append(seen, err)
	})
	_, err = ep.Call(newTestRequest(t, http.MethodGet, "/"))
	assert.ErrorIs(t, err, relay.ErrForbidden)
	assert.Len(t, seen, 1, "non-matching error is not observed")

	var all []error
	ep = relay.InspectAllErr(failingEndpoint(relay.ErrForbidden), func(err error) {
		all = append(all, err)
	})
	_, err = ep.Call(newTestRequest(t, http.MethodGet, "/"))
	assert.ErrorIs(t, err, relay.ErrForbidden)
	assert.Len(t, all, 1)
}

func TestWithOrdering(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) relay.Middleware {
		return relay.MiddlewareFunc(func(next relay.Endpoint) relay.Endpoint {
			return relay.EndpointFunc(func(req *relay.Request) (*relay.Response, error) {
				order = append(order, name+":in")
				resp, err := next.Call(req)
				order = append(order, name+":out")
				return resp, err
			})
		})
	}

	ep := relay.With(textEndpoint("ok"), tag("first"), tag("second"))
	_, err := ep.Call(newTestRequest(t, http.MethodGet, "/"))
	require.NoError(t, err)

	// the last middleware applied is the outermost
	assert.Equal(t, []string{"second:in", "first:in", "first:out", "second:out"}, order)
}

func TestWithIf(t *testing.T) {
	t.Parallel()

	mw := relay.MiddlewareFunc(func(next relay.Endpoint) relay.Endpoint {
		return relay.EndpointFunc(func(req *relay.Request) (*relay.Response, error) {
			return relay.String("wrapped"), nil
		})
	})

	resp, err := relay.WithIf(true, textEndpoint("plain"), mw).Call(newTestRequest(t, http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Equal(t, "wrapped", string(resp.Body))

	resp, err = relay.WithIf(false, textEndpoint("plain"), mw).Call(newTestRequest(t, http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Equal(t, "plain", string(resp.Body))
}
