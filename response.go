package relay

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the concrete result of handling a request: a status code,
// headers, and a body. Middleware transform responses by value, so the body
// is held as bytes; streaming transports are bridged outside this core.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewResponse creates an empty 200 response.
func NewResponse() *Response {
	return &Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
	}
}

// WithStatus sets the status code and returns the response for chaining.
func (r *Response) WithStatus(status int) *Response {
	r.StatusCode = status
	return r
}

// WithHeader sets a header and returns the response for chaining.
func (r *Response) WithHeader(key, value string) *Response {
	r.Header.Set(key, value)
	return r
}

// String creates a text/plain response with 200 OK status.
func String(content string) *Response {
	resp := NewResponse()
	resp.Header.Set("Content-Type", "text/plain; charset=utf-8")
	resp.Body = []byte(content)
	return resp
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) *Response {
	resp := NewResponse()
	resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	resp.Body = []byte(content)
	return resp
}

// Bytes creates a response with custom content type and 200 OK status.
func Bytes(content []byte, contentType string) *Response {
	resp := NewResponse()
	resp.Header.Set("Content-Type", contentType)
	resp.Body = content
	return resp
}

// JSON creates an application/json response with 200 OK status. Encoding
// happens eagerly so the error surfaces through the endpoint contract.
func JSON(v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json response: %w", err)
	}
	resp := NewResponse()
	resp.Header.Set("Content-Type", "application/json; charset=utf-8")
	resp.Body = body
	return resp, nil
}

// Status creates an empty response with the specified status code.
func Status(code int) *Response {
	return NewResponse().WithStatus(code)
}

// NoContent creates a 204 No Content response.
func NoContent() *Response {
	return Status(http.StatusNoContent)
}

// Redirect creates a redirect response to the given location.
func Redirect(location string, status int) *Response {
	return NewResponse().WithStatus(status).WithHeader("Location", location)
}
