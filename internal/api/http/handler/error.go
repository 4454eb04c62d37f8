package handler

import (
	"errors"
	"net/http"

	"github.com/smartblink/smartblink-server/internal/apierrors"
	"github.com/smartblink/smartblink-server/internal/model"
)

// handleError maps service errors to HTTP responses. Typed API errors carry
// their own status and code; everything else collapses to a generic 500 so
// internals never leak to clients.
func handleError(w http.ResponseWriter, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.HTTPStatus, apiErr.Code, apiErr.Message)
		return
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, apierrors.CodeNotFound, "record not found")
	case errors.Is(err, model.ErrTokenInvalid),
		errors.Is(err, model.ErrTokenRevoked),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenMismatch):
		writeError(w, http.StatusUnauthorized, apierrors.CodeUnauthenticated, "invalid refresh token")
	case errors.Is(err, model.ErrDeviceUnreachable):
		writeError(w, http.StatusBadGateway, apierrors.CodeDeviceFailure, "device did not respond")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
