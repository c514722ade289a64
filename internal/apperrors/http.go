package apperrors

import (
	"errors"
	"net/http"
)

// HTTPStatus maps an error kind to the status the transport layer
// should answer with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidContent):
		return http.StatusBadRequest
	case errors.Is(err, ErrThreadCorrupt):
		return http.StatusInternalServerError
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
