package relay

import (
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
)

// ErrorHandler converts an error that escaped the endpoint chain into the
// response the client will see. Returning nil falls back to ErrorResponse.
type ErrorHandler func(req *Request, err error) *Response

// HandlerOption configures the HTTP bridge.
type HandlerOption func(*httpBridge)

// WithErrorHandler replaces the default error-to-response conversion.
func WithErrorHandler(h ErrorHandler) HandlerOption {
	return func(b *httpBridge) {
		if h != nil {
			b.errorHandler = h
		}
	}
}

// WithLogger sets the logger used for panics that occur after the response
// has already been partially written and can no longer be reported to the
// client.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(b *httpBridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Handler bridges an Endpoint to net/http. It is the dispatch boundary: it
// builds the Request, renders the Response, converts any error that was not
// recovered in the chain, and catches panics, so a well-formed request is
// always answered.
func Handler(ep Endpoint, opts ...HandlerOption) http.Handler {
	b := &httpBridge{
		ep:           ep,
		errorHandler: func(_ *Request, err error) *Response { return ErrorResponse(err) },
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type httpBridge struct {
	ep           Endpoint
	errorHandler ErrorHandler
	logger       *slog.Logger
}

func (b *httpBridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)
	req := NewRequest(r)

	// The chain may carry its own CatchPanic middleware; this recover is the
	// outermost guarantee for panics above or between middleware layers.
	defer func() {
		if p := recover(); p != nil {
			panicErr := &PanicError{Value: p, Stack: debug.Stack()}
			if ww.Written() {
				// Too late for an error response; record it and move on.
				b.logger.Error("panic after response written",
					"value", panicErr.Value,
					"stack", string(panicErr.Stack),
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
				)
				return
			}
			b.render(ww, r, b.convert(req, panicErr))
		}
	}()

	resp, err := b.ep.Call(req)
	if err != nil {
		resp = b.convert(req, err)
	}
	if resp == nil {
		resp = b.convert(req, ErrNilResponse)
	}
	b.render(ww, r, resp)
}

// convert turns an escaped error into a response, falling back to the
// default mapping if the configured handler declines.
func (b *httpBridge) convert(req *Request, err error) *Response {
	if resp := b.errorHandler(req, err); resp != nil {
		return resp
	}
	return ErrorResponse(err)
}

// render writes the response. HEAD responses keep their headers but lose
// the body, per the method-table contract that resolution and body
// suppression are separate concerns.
func (b *httpBridge) render(w *responseWriter, r *http.Request, resp *Response) {
	if w.Written() {
		return
	}

	header := w.Header()
	for key, values := range resp.Header {
		header[key] = values
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	body := resp.Body
	switch {
	case r.Method == http.MethodHead:
		if len(body) > 0 && header.Get("Content-Length") == "" {
			header.Set("Content-Length", strconv.Itoa(len(body)))
		}
		body = nil
	case status == http.StatusNoContent || status == http.StatusNotModified:
		body = nil
	}

	w.WriteHeader(status)
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			b.logger.Error("write response body",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
			)
		}
	}
}
