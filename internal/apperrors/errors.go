package apperrors

import "errors"

// Sentinel errors for the messaging core. Callers wrap them with
// fmt.Errorf("%w: ...") and match with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidContent   = errors.New("invalid content")
	ErrThreadCorrupt    = errors.New("thread corrupt")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Kind returns a machine-readable label for the error, or "internal"
// when it matches none of the sentinels.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrInvalidContent):
		return "invalid_content"
	case errors.Is(err, ErrThreadCorrupt):
		return "thread_corrupt"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "internal"
	}
}
