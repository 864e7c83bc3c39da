package books

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Match them with errors.Is; every failed request made by
// Client matches exactly one.
var (
	ErrNetwork    = errors.New("network error")
	ErrServer     = errors.New("server error")
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

// APIError describes a failed call against the books API.
type APIError struct {
	Op         string // e.g. "create book"
	StatusCode int    // zero for network errors
	Message    string // backend supplied message, may be empty
	Err        error  // underlying transport or decode error, may be nil

	kind error
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind())
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func decodeError(op string, status int, err error) *APIError {
	return &APIError{Op: op, StatusCode: status, Err: fmt.Errorf("decode response: %w", err), kind: ErrServer}
}

// Kind returns the error kind of e. Errors built outside this package
// carry no kind and are classified from their status code.
func (e *APIError) Kind() error {
	switch {
	case e == nil:
		return nil
	case e.kind != nil:
		return e.kind
	case e.StatusCode == 0:
		return ErrNetwork
	default:
		return classifyStatus(e.StatusCode)
	}
}

// Is reports whether target is the error kind of e.
func (e *APIError) Is(target error) bool {
	return e != nil && target == e.Kind()
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Message returns the backend supplied message carried by err, or "" when
// there is none.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func networkError(op string, err error) *APIError {
	return &APIError{Op: op, Err: err, kind: ErrNetwork}
}

func statusError(op string, status int, message string) *APIError {
	return &APIError{Op: op, StatusCode: status, Message: message, kind: classifyStatus(status)}
}

func classifyStatus(status int) error {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrServer
	}
}
