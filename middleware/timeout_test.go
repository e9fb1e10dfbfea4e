package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaykit/relay"
	"github.com/relaykit/relay/middleware"
)

func TestTimeoutFastEndpointUnaffected(t *testing.T) {
	t.Parallel()

	ep := relay.With(okEndpoint(), middleware.Timeout(time.Second))

	resp, err := ep.Call(newRequest(t, http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp.Body))
}

func TestTimeoutSlowEndpointFails(t *testing.T) {
	t.Parallel()

	slow := relay.EndpointFunc(func(req *relay.Request) (*relay.Response, error) {
		select {
		case <-time.After(5 * time.Second):
			return relay.String("too late"), nil
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	})
	ep := relay.With(slow, middleware.Timeout(20*time.Millisecond))

	_, err := ep.Call(newRequest(t, http.MethodGet, "/"))
	assert.ErrorIs(t, err, relay.ErrGatewayTimeout)
}

func TestTimeoutCancelsRequestContext(t *testing.T) {
	t.Parallel()

	canceled := make(chan struct{})
	slow := relay.EndpointFunc(func(req *relay.Request) (*relay.Response, error) {
		<-req.Context().Done()
		close(canceled)
		return nil, req.Context().Err()
	})
	ep := relay.With(slow, middleware.Timeout(10*time.Millisecond))

	_, err := ep.Call(newRequest(t, http.MethodGet, "/"))
	assert.ErrorIs(t, err, relay.ErrGatewayTimeout)

	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("inner endpoint never observed cancellation")
	}
}

func TestTimeoutDetachedEndpointHasOwnExtensions(t *testing.T) {
	t.Parallel()

	type detachedKey struct{}

	wrote := make(chan struct{})
	stubborn := relay.EndpointFunc(func(req *relay.Request) (*relay.Response, error) {
		<-req.Context().Done()
		// keeps going after the deadline; these writes must land on the
		// detached copy, not the caller's request
		for i := 0; i < 100; i++ {
			req.SetValue(detachedKey{}, "detached")
		}
		close(wrote)
		return nil, req.Context().Err()
	})
	ep := relay.With(stubborn, middleware.Timeout(10*time.Millisecond))

	req := newRequest(t, http.MethodGet, "/")
	_, err := ep.Call(req)
	assert.ErrorIs(t, err, relay.ErrGatewayTimeout)

	// read the caller's table while the detached endpoint is still writing
	for i := 0; i < 100; i++ {
		assert.Nil(t, req.Value(detachedKey{}))
	}

	select {
	case <-wrote:
	case <-time.After(time.Second):
		t.Fatal("detached endpoint never finished")
	}
	assert.Nil(t, req.Value(detachedKey{}), "detached writes stay on the copy")
}

func TestTimeoutZeroDisables(t *testing.T) {
	t.Parallel()

	ep := relay.With(okEndpoint(), middleware.Timeout(0))
	resp, err := ep.Call(newRequest(t, http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp.Body))
}

func TestTimeoutSkip(t *testing.T) {
	t.Parallel()

	slow := relay.EndpointFunc(func(req *relay.Request) (*relay.Response, error) {
		time.Sleep(50 * time.Millisecond)
		return relay.String("done"), nil
	})
	ep := relay.With(slow, middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 10 * time.Millisecond,
		Skip:    func(req *relay.Request) bool { return req.Path() == "/batch" },
	}))

	resp, err := ep.Call(newRequest(t, http.MethodGet, "/batch"))
	require.NoError(t, err)
	assert.Equal(t, "done", string(resp.Body))
}
