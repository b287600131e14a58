package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindPermission
	KindTransport
	KindProtocol
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission"
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// Error is the caller-visible failure of a manager operation.
type Error struct {
	Kind Kind
	// Code is the HTTP status for local errors and the server code for
	// transport errors.
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrPermission = &Error{Kind: KindPermission}
	ErrTransport  = &Error{Kind: KindTransport}
	ErrProtocol   = &Error{Kind: KindProtocol}
)

// Validation reports malformed caller input.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing referenced entity.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Code: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// Permission reports a failed capability check.
func Permission(format string, args ...any) error {
	return &Error{Kind: KindPermission, Code: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}

// Coded is implemented by transport errors that carry a server code.
type Coded interface {
	error
	StatusCode() int
}

// Transport wraps a failure returned by the remote collaborator. The original
// error stays reachable through errors.As and its message is kept as is.
func Transport(err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) && existing.Kind == KindTransport {
		return err
	}
	code := http.StatusBadGateway
	var coded Coded
	if errors.As(err, &coded) {
		code = coded.StatusCode()
	}
	return &Error{Kind: KindTransport, Code: code, Message: err.Error(), Err: err}
}

// Protocol reports a response that did not match the expected shape. The
// caller only sees a generic message; the detail is for the logs.
func Protocol(detail string) error {
	return &Error{
		Kind:    KindProtocol,
		Code:    http.StatusInternalServerError,
		Message: "invalid result received",
		Err:     errors.New(detail),
	}
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HTTPStatus maps err to the status code the HTTP surface answers with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindPermission:
		return http.StatusForbidden
	case KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
