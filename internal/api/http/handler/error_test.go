package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartblink/smartblink-server/internal/apierrors"
	"github.com/smartblink/smartblink-server/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "api error keeps its status", err: apierrors.NewErrEmailInUse("u@example.com"), wantStatus: http.StatusConflict},
		{name: "wrapped api error", err: fmt.Errorf("signin: %w", apierrors.NewErrWrongCredentials()), wantStatus: http.StatusUnauthorized},
		{name: "not found", err: fmt.Errorf("get profile: %w", model.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "token invalid", err: fmt.Errorf("%w: failed to parse refresh token", model.ErrTokenInvalid), wantStatus: http.StatusUnauthorized},
		{name: "token revoked", err: model.ErrTokenRevoked, wantStatus: http.StatusUnauthorized},
		{name: "token expired", err: model.ErrTokenExpired, wantStatus: http.StatusUnauthorized},
		{name: "token mismatch", err: model.ErrTokenMismatch, wantStatus: http.StatusUnauthorized},
		{name: "device unreachable", err: fmt.Errorf("toggle: %w", model.ErrDeviceUnreachable), wantStatus: http.StatusBadGateway},
		{name: "unknown error hides internals", err: fmt.Errorf("pq: connection reset"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			handleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			if tt.name == "unknown error hides internals" {
				assert.NotContains(t, rec.Body.String(), "pq:")
			}
		})
	}
}
