// Package errors carries a code with every failure the api can surface
// import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failure for transports
type ErrorCode uint8

// Codes the dashboard api can answer with
const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable
	ErrorCodeTooManyRequests
	ErrorCodeUnauthorized
	ErrorCodeValidation
	ErrorCodeNotFound
	ErrorCodeMethodNotAllowed
	ErrorCodeDB
)

var statusByCode = map[ErrorCode]int{
	ErrorCodeUnavailable:      http.StatusServiceUnavailable,
	ErrorCodeTooManyRequests:  http.StatusTooManyRequests,
	ErrorCodeUnauthorized:     http.StatusUnauthorized,
	ErrorCodeValidation:       http.StatusBadRequest,
	ErrorCodeNotFound:         http.StatusNotFound,
	ErrorCodeMethodNotAllowed: http.StatusMethodNotAllowed,
}

var nameByCode = map[ErrorCode]string{
	ErrorCodeUnknown:          "unknown",
	ErrorCodePanic:            "panic",
	ErrorCodeUnavailable:      "unavailable",
	ErrorCodeTooManyRequests:  "too_many_requests",
	ErrorCodeUnauthorized:     "unauthorized",
	ErrorCodeValidation:       "validation",
	ErrorCodeNotFound:         "not_found",
	ErrorCodeMethodNotAllowed: "method_not_allowed",
	ErrorCodeDB:               "db",
}

// String names the code for logs and metric labels
func (c ErrorCode) String() string {
	if s, ok := nameByCode[c]; ok {
		return s
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

// Status is the http status for the code; anything unmapped is a 500
func (c ErrorCode) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// internalMsg is what clients see for errors that never went through this package
const internalMsg = "internal error"

// Error is a coded failure
// msg is safe to show a client, cause is for logs only
type Error struct {
	code  ErrorCode
	msg   string
	field string
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

// Unwrap returns the cause
func (e *Error) Unwrap() error { return e.cause }

// Code returns the classification
func (e *Error) Code() ErrorCode { return e.code }

// Message returns the client facing text without the cause
func (e *Error) Message() string { return e.msg }

// Field names the offending input, if any
func (e *Error) Field() string { return e.field }

// New returns a coded error
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with formatting
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap attaches code and a client message to cause
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

// WithField returns a copy of err naming field; foreign errors pass through
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.field = field
	return &c
}

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf returns the code of err, Unknown when it carries none
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps any error to a status, nil is 200
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return CodeOf(err).Status()
}

// Public is the message a client may see for err
// causes never leak; uncoded errors become a generic text
func Public(err error) string {
	if e, ok := As(err); ok {
		return e.msg
	}
	return internalMsg
}
