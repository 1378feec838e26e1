package httpx

import (
	"net/http"

	"github.com/sundayezeilo/shortlinks/internal/errx"
)

// ErrorKindToStatus maps errx.Kind to HTTP status codes.
// Handlers can use this as a helper when mapping their own errors.
func ErrorKindToStatus(kind errx.Kind) int {
	switch kind {
	case errx.NotFound:
		return http.StatusNotFound
	case errx.Conflict:
		return http.StatusConflict
	case errx.Invalid:
		return http.StatusBadRequest
	case errx.Unauthorized:
		return http.StatusUnauthorized
	case errx.Forbidden:
		return http.StatusForbidden
	case errx.Unavailable:
		return http.StatusServiceUnavailable
	case errx.Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorKindToCode maps errx.Kind to error codes for JSON responses.
// Handlers can use this as a helper when mapping their own errors.
func ErrorKindToCode(kind errx.Kind) string {
	switch kind {
	case errx.NotFound:
		return "not_found"
	case errx.Conflict:
		return "conflict"
	case errx.Invalid:
		return "invalid_input"
	case errx.Unauthorized:
		return "unauthorized"
	case errx.Forbidden:
		return "forbidden"
	case errx.Unavailable:
		return "unavailable"
	case errx.Internal:
		return "internal_error"
	default:
		return "internal_error"
	}
}

// Messages overrides the client-facing message per error kind.
type Messages map[errx.Kind]string

// WriteKindError writes err as a JSON error response derived from its kind.
// Invalid and Conflict errors expose their root cause, which callers create
// with client-safe text. Every other kind uses msgs or the HTTP status text so
// storage details never reach the response body.
func WriteKindError(w http.ResponseWriter, err error, msgs Messages) {
	kind := errx.KindOf(err)
	status := ErrorKindToStatus(kind)

	msg, ok := msgs[kind]
	if !ok {
		switch kind {
		case errx.Invalid, errx.Conflict:
			msg = errx.Cause(err)
		default:
			msg = http.StatusText(status)
		}
	}

	WriteError(w, status, ErrorKindToCode(kind), msg, nil)
}
