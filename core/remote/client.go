package remote

import (
	"context"
	"errors"
	"fmt"

	"messenger-core/core/codec"
)

// ErrClientClosed is returned for calls pending on, or issued to, a closed client.
var ErrClientClosed = errors.New("remote client closed")

// Request is one remote call.
type Request struct {
	// Token correlates the response with this request. Chosen by the caller,
	// unique among the caller's outstanding requests.
	Token  string
	Method string
	Params any
}

// Response is the successful reply to a Request.
type Response struct {
	Token  string
	Result codec.RawMessage
}

// Decode unmarshals the result into v.
func (r *Response) Decode(v any) error {
	if len(r.Result) == 0 {
		return errors.New("empty result")
	}
	return codec.Unmarshal(r.Result, v)
}

// NewResponse encodes result into a Response for token.
func NewResponse(token string, result any) (*Response, error) {
	data, err := codec.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &Response{Token: token, Result: data}, nil
}

// Push is a frame the server sends without a request, such as an update.
type Push struct {
	Method  string
	Payload codec.RawMessage
}

// Decode unmarshals the payload into v.
func (p Push) Decode(v any) error {
	if len(p.Payload) == 0 {
		return errors.New("empty payload")
	}
	return codec.Unmarshal(p.Payload, v)
}

// Error is an error reported by the server.
type Error struct {
	Code    int    `cbor:"code"`
	Message string `cbor:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// StatusCode returns the server error code.
func (e *Error) StatusCode() int {
	return e.Code
}

// Client sends requests to the remote service.
type Client interface {
	// Send performs the call and blocks until its completion arrives, the
	// context ends or the client closes.
	Send(ctx context.Context, req Request) (*Response, error)
}
