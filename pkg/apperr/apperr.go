// Package apperr carries an HTTP status alongside an error so that lower
// layers can decide how a failure is reported to the client without
// importing net/http handlers.
//
//	return "", apperr.NotFound("Supplier with ID "+id+" not found", ErrSupplierNotFound)
//
// Controllers turn any error into a response with StatusOf and MessageOf.
package apperr

import (
	"errors"
	"net/http"
)

// Error is a client-facing failure.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func BadRequest(message string, err error) *Error {
	return New(http.StatusBadRequest, message, err)
}

func NotFound(message string, err error) *Error {
	return New(http.StatusNotFound, message, err)
}

func Conflict(message string, err error) *Error {
	return New(http.StatusConflict, message, err)
}

// StatusOf returns the HTTP status for err: the status of the first *Error in
// its chain, 500 otherwise, 200 for nil.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-safe message for err. Errors without an
// *Error in their chain are reported generically so store details never
// leak to clients.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return http.StatusText(http.StatusInternalServerError)
}
