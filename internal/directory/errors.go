package directory

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates the directory has no such record.
	ErrNotFound = errors.New("directory: not found")
	// ErrDuplicate indicates a conflicting record, e.g. a reused employee code.
	ErrDuplicate = errors.New("directory: duplicate entry")
	// ErrValidation indicates the directory rejected the payload.
	ErrValidation = errors.New("directory: validation failed")
	// ErrUnauthorized indicates the console token was rejected.
	ErrUnauthorized = errors.New("directory: unauthorized")
	// ErrForbidden indicates the token lacks access to the resource.
	ErrForbidden = errors.New("directory: forbidden")
	// ErrUnavailable covers transport failures and 5xx responses.
	ErrUnavailable = errors.New("directory: unavailable")
)

// APIError carries the error payload returned by the directory.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("directory %d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("directory %d: %s", e.Status, msg)
}

// Unwrap exposes the sentinel matching the status code.
func (e *APIError) Unwrap() error {
	return kindForStatus(e.Status)
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrDuplicate
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrValidation
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	default:
		return ErrUnavailable
	}
}
