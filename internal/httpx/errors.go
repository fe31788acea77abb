package httpx

import (
	"net/http"

	"github.com/sundayezeilo/pagecounts/internal/errx"
)

// ErrorKindToStatus maps errx.Kind to HTTP status codes. Only the
// non-legacy endpoints use this; the counter endpoints answer 200
// regardless (see WriteOKError).
func ErrorKindToStatus(kind errx.Kind) int {
	switch kind {
	case errx.NotFound:
		return http.StatusNotFound
	case errx.Invalid:
		return http.StatusBadRequest
	case errx.Unauthorized:
		return http.StatusUnauthorized
	case errx.Unavailable:
		return http.StatusServiceUnavailable
	case errx.Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
