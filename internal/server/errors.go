package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/course-advisor/internal/transcript"
	"github.com/jonathan/course-advisor/internal/types"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *types.ValidationError
		malformed  *types.MalformedInputError
		notFound   *types.NotFoundError
		tooLarge   *http.MaxBytesError
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &validation), errors.As(err, &malformed):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, transcript.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, transcript.ErrTooLarge), errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, types.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the client-facing text for err. Server-side failures
// are not described beyond their status.
func errorMessage(err error, status int) string {
	switch status {
	case http.StatusServiceUnavailable:
		return types.ErrUnavailable.Error()
	case http.StatusInternalServerError:
		return "internal server error"
	default:
		return err.Error()
	}
}
