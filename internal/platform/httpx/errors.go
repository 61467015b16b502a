package httpx

import (
	"errors"
	"net/http"

	"github.com/pharmapulse/pharmapulse/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrValidation):
		problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrNotReady):
		problem(w, http.StatusConflict, "Not Ready", err.Error())
	case errors.Is(err, shared.ErrForbidden):
		problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, shared.ErrUnauthorized), errors.Is(err, shared.ErrInvalidCredentials):
		problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
