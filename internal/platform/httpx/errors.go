package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/odyssey-erp/owner-console/internal/directory"
)

// RespondError maps directory failures to problem responses.
func RespondError(w http.ResponseWriter, err error) {
	detail := ""
	var apiErr *directory.APIError
	if errors.As(err, &apiErr) && apiErr.Status < 500 {
		detail = apiErr.Message
	}
	switch {
	case errors.Is(err, directory.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", detail)
	case errors.Is(err, directory.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", detail)
	case errors.Is(err, directory.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", detail)
	case errors.Is(err, directory.ErrForbidden), errors.Is(err, directory.ErrUnauthorized):
		Problem(w, http.StatusForbidden, "Forbidden", detail)
	case errors.Is(err, directory.ErrUnavailable):
		Problem(w, http.StatusBadGateway, "Directory Unavailable", "")
	case errors.Is(err, context.DeadlineExceeded):
		Problem(w, http.StatusGatewayTimeout, "Directory Timeout", "")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
