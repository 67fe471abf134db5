package shared

import (
	"context"
	"errors"

	"github.com/odyssey-erp/owner-console/internal/directory"
)

var (
	// ErrSessionMissing is returned when a request carries no session.
	ErrSessionMissing = errors.New("session missing")
	// ErrCSRFTokenMissing occurs when the CSRF token is absent.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when the CSRF tokens differ.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserSafeMessage turns err into text that can be shown on a page.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *directory.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.Status < 500 {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "The directory took too long to respond, please try again"
	case errors.Is(err, directory.ErrNotFound):
		return "The requested record was not found"
	case errors.Is(err, directory.ErrDuplicate):
		return "A record with the same code already exists"
	case errors.Is(err, directory.ErrValidation):
		return "The directory rejected the submitted data"
	case errors.Is(err, directory.ErrUnauthorized), errors.Is(err, directory.ErrForbidden):
		return "The console is not allowed to perform this action"
	case errors.Is(err, directory.ErrUnavailable):
		return "The directory service is unavailable, please try again later"
	}
	return "Something went wrong, please try again"
}
