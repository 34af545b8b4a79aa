package catalog

import (
	"errors"
	"net/http"

	"github.com/ayush/favorites-api/internal/logging"
	"github.com/ayush/favorites-api/internal/respond"
)

// APIError is an application error carrying its HTTP status and client message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func notFound(msg string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: msg}
}

// alreadyExists keeps the documented 400 for duplicate favorites.
func alreadyExists(msg string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: msg}
}

// writeError serializes err as {"message": ...}. Anything that is not an
// APIError is logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		respond.Message(w, apiErr.Status, apiErr.Message)
		return
	}
	logging.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg("unhandled error")
	respond.Message(w, http.StatusInternalServerError, "Internal server error")
}
