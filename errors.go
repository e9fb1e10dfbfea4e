package relay

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error represents a structured error response that implements the error interface.
type Error struct {
	Status  int            `json:"-"`                 // HTTP status code (not in JSON)
	Code    string         `json:"code"`              // Machine-readable error code
	Message string         `json:"message"`           // Human-readable message
	Details map[string]any `json:"details,omitempty"` // Optional context
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// WithMessage returns a copy of the error with a custom message.
func (e Error) WithMessage(message string) Error {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e Error) WithDetails(details map[string]any) Error {
	e.Details = details
	return e
}

// Is matches errors by code, so copies customized via WithMessage or
// WithDetails still satisfy errors.Is against the predefined sentinel.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && e.Code == t.Code
}

// Predefined HTTP errors using http.StatusText for default messages.
var (
	ErrBadRequest          = Error{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: http.StatusText(http.StatusBadRequest)}
	ErrUnauthorized        = Error{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: http.StatusText(http.StatusUnauthorized)}
	ErrForbidden           = Error{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: http.StatusText(http.StatusForbidden)}
	ErrConflict            = Error{Status: http.StatusConflict, Code: "CONFLICT", Message: http.StatusText(http.StatusConflict)}
	ErrUnprocessableEntity = Error{Status: http.StatusUnprocessableEntity, Code: "UNPROCESSABLE_ENTITY", Message: http.StatusText(http.StatusUnprocessableEntity)}
	ErrTooManyRequests     = Error{Status: http.StatusTooManyRequests, Code: "TOO_MANY_REQUESTS", Message: http.StatusText(http.StatusTooManyRequests)}
	ErrInternalServerError = Error{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: http.StatusText(http.StatusInternalServerError)}
	ErrNotImplemented      = Error{Status: http.StatusNotImplemented, Code: "NOT_IMPLEMENTED", Message: http.StatusText(http.StatusNotImplemented)}
	ErrServiceUnavailable  = Error{Status: http.StatusServiceUnavailable, Code: "SERVICE_UNAVAILABLE", Message: http.StatusText(http.StatusServiceUnavailable)}
	ErrGatewayTimeout      = Error{Status: http.StatusGatewayTimeout, Code: "GATEWAY_TIMEOUT", Message: http.StatusText(http.StatusGatewayTimeout)}
)

// Route registration errors. These are raised synchronously while the route
// table is being built and are fatal: the application must not start serving
// with a malformed or ambiguous route table.
var (
	ErrInvalidPattern     = errors.New("routing pattern must begin with '/'")
	ErrMisplacedWildcard  = errors.New("catch-all '*' must be the last segment of a route")
	ErrDuplicateName      = errors.New("routing pattern contains duplicate param name")
	ErrRouteConflict      = errors.New("conflicting route registration")
	ErrInvalidMethod      = errors.New("invalid http method")
	ErrNilEndpoint        = errors.New("endpoint cannot be nil")
	ErrNilResponse        = errors.New("endpoint returned nil response")
	ErrInvalidNestPattern = errors.New("nest prefix must contain only literal segments")
)

// NotFoundError is returned by the router when no route matches the request
// path. It is a normal dispatch outcome, not an exception: recover it with
// CatchError to customize the 404 response.
type NotFoundError struct{}

func (NotFoundError) Error() string { return "route not found" }

// MethodNotAllowedError is returned when a path matched but carries no
// endpoint for the request method. Allowed lists the methods that are
// registered for the path, in sorted order.
type MethodNotAllowedError struct {
	Allowed []string
}

func (e MethodNotAllowedError) Error() string {
	if len(e.Allowed) == 0 {
		return "method not allowed"
	}
	return "method not allowed, allowed: " + strings.Join(e.Allowed, ", ")
}

// PanicError wraps a recovered panic so it can travel through the endpoint
// error contract instead of unwinding past the dispatch boundary.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorResponse converts an error into the default plain-text response for
// it. It is the last-resort mapping used by the HTTP bridge and by
// CatchAllError when no custom handler is supplied:
//
//   - NotFoundError -> 404
//   - MethodNotAllowedError -> 405 with an Allow header
//   - Error -> its status and message
//   - anything else -> 500
func ErrorResponse(err error) *Response {
	var notFound NotFoundError
	if errors.As(err, &notFound) {
		return String("404 Not Found").WithStatus(http.StatusNotFound)
	}

	var notAllowed MethodNotAllowedError
	if errors.As(err, &notAllowed) {
		resp := String("405 Method Not Allowed").WithStatus(http.StatusMethodNotAllowed)
		if len(notAllowed.Allowed) > 0 {
			// Allow header per RFC 7231
			resp.Header.Set("Allow", strings.Join(notAllowed.Allowed, ", "))
		}
		return resp
	}

	var appErr Error
	if errors.As(err, &appErr) {
		status := appErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return String(appErr.Message).WithStatus(status)
	}

	return String("500 Internal Server Error").WithStatus(http.StatusInternalServerError)
}
