package middleware

import (
	"github.com/relaykit/relay"
)

type headerAction uint8

const (
	headerOverride headerAction = iota
	headerAppend
)

type headerOp struct {
	action headerAction
	key    string
	value  string
}

// SetHeader stamps headers onto every response produced by the wrapped
// endpoint. Build it fluently:
//
//	mw := middleware.NewSetHeader().
//		Overriding("Server", "relay").
//		Appending("Vary", "Accept-Encoding")
type SetHeader struct {
	ops []headerOp
}

// NewSetHeader creates an empty SetHeader middleware.
func NewSetHeader() *SetHeader {
	return &SetHeader{}
}

// Overriding sets the header, replacing any value the handler produced.
func (s *SetHeader) Overriding(key, value string) *SetHeader {
	s.ops = append(s.ops, headerOp{action: headerOverride, key: key, value: value})
	return s
}

// Appending adds the value to the header, keeping handler-produced values.
func (s *SetHeader) Appending(key, value string) *SetHeader {
	s.ops = append(s.ops, headerOp{action: headerAppend, key: key, value: value})
	return s
}

// Transform implements relay.Middleware.
func (s *SetHeader) Transform(next relay.Endpoint) relay.Endpoint {
	return relay.After(next, func(_ *relay.Request, resp *relay.Response) (*relay.Response, error) {
		for _, op := range s.ops {
			switch op.action {
			case headerOverride:
				resp.Header.Set(op.key, op.value)
			case headerAppend:
				resp.Header.Add(op.key, op.value)
			}
		}
		return resp, nil
	})
}
