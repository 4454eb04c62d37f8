package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/smartblink/smartblink-server/internal/apierrors"
)

func writeAPIError(w http.ResponseWriter, apiErr *apierrors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   apiErr.Code,
		"message": apiErr.Message,
	})
}
