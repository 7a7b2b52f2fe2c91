package download

import (
	"errors"
	"net/http"
)

// Error kinds for the download path. Upstream failures are wrapped with one
// of these so the handler has a single translation point from error kind to
// response code.
var (
	// ErrInvalidRequest marks a client-caused validation failure.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthenticated marks a presented-but-unverifiable credential.
	ErrUnauthenticated = errors.New("invalid credentials")

	// ErrNotAuthorizedOrMissing covers both an absent artifact and one the
	// caller may not see. The two are deliberately indistinguishable so the
	// identifier space cannot be probed through authorization behavior.
	ErrNotAuthorizedOrMissing = errors.New("file not found or not authorized")

	// ErrQueryFailure marks a metadata index failure.
	ErrQueryFailure = errors.New("index query failed")

	// ErrStorageFailure marks an object storage failure.
	ErrStorageFailure = errors.New("object storage request failed")

	// ErrLocalIO marks a local filesystem failure.
	ErrLocalIO = errors.New("local artifact read failed")
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotAuthorizedOrMissing):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage returns the response body for err. Client-caused failures
// carry their message; server-side failures are reported generically, with
// the cause kept to the logs.
func clientMessage(err error) string {
	if statusFor(err) < http.StatusInternalServerError {
		return err.Error()
	}
	return "internal server error"
}
