package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the error type that crosses the service/HTTP boundary.
// Message, when set, replaces Err's text in responses. Details is client-safe extra text.
type Error struct {
	Status  int
	Code    string
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// WithMessage returns a copy of e that reports msg and exposes Err's text as details.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	if cp.Err != nil && cp.Details == "" {
		cp.Details = cp.Err.Error()
	}
	return &cp
}

func NotFound(code, msg string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Message: msg}
}

func BadRequest(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

func Forbidden(code, msg string) *Error {
	return &Error{Status: http.StatusForbidden, Code: code, Message: msg}
}

// Internal hides err from the message; it is still reachable through Unwrap for logging.
func Internal(code string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: code, Message: "internal error", Err: err}
}

// StatusOf reports the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}
