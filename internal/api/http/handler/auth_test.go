package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartblink/smartblink-server/internal/apierrors"
	"github.com/smartblink/smartblink-server/internal/model"
	"github.com/smartblink/smartblink-server/internal/service"
	"github.com/smartblink/smartblink-server/internal/testutil"
)

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) SignUp(ctx context.Context, email, password string) (service.SessionTokens, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(service.SessionTokens), args.Error(1)
}

func (m *authServiceMock) SignIn(ctx context.Context, email, password string) (service.SessionTokens, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(service.SessionTokens), args.Error(1)
}

func (m *authServiceMock) SignOut(ctx context.Context, refreshToken string) {
	m.Called(ctx, refreshToken)
}

type refreshServiceMock struct {
	mock.Mock
}

func (m *refreshServiceMock) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func TestAuth_SignUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		svcTokens  service.SessionTokens
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			body:       `{"email":"u@example.com","password":"Abc12!"}`,
			svcTokens:  service.SessionTokens{AccessToken: "a", RefreshToken: "r"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed body",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid email",
			body:       `{"email":"bad","password":"Abc12!"}`,
			svcErr:     apierrors.NewErrInvalidEmail("bad"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "email already in use",
			body:       `{"email":"u@example.com","password":"Abc12!"}`,
			svcErr:     apierrors.NewErrEmailInUse("u@example.com"),
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			authSvc := &authServiceMock{}
			if tt.name != "malformed body" {
				authSvc.On("SignUp", mock.Anything, mock.Anything, mock.Anything).
					Return(tt.svcTokens, tt.svcErr).Once()
			}

			h := NewAuth(authSvc, &refreshServiceMock{}, testutil.MakeNoopLogger())

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.SignUp(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var resp map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "a", resp["access_token"])
				assert.Equal(t, "r", resp["refresh_token"])
			}
		})
	}
}

func TestAuth_SignIn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "account not found", svcErr: apierrors.NewErrAccountNotFound("u@example.com"), wantStatus: http.StatusNotFound},
		{name: "wrong credentials", svcErr: apierrors.NewErrWrongCredentials(), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			authSvc := &authServiceMock{}
			authSvc.On("SignIn", mock.Anything, "u@example.com", "Abc12!").
				Return(service.SessionTokens{AccessToken: "a", RefreshToken: "r"}, tt.svcErr).Once()

			h := NewAuth(authSvc, &refreshServiceMock{}, testutil.MakeNoopLogger())

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signin",
				strings.NewReader(`{"email":"u@example.com","password":"Abc12!"}`))
			rec := httptest.NewRecorder()

			h.SignIn(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAuth_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		tokenSvc := &refreshServiceMock{}
		tokenSvc.On("Refresh", mock.Anything, "old-refresh").
			Return("new-access", "new-refresh", nil).Once()

		h := NewAuth(&authServiceMock{}, tokenSvc, testutil.MakeNoopLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh",
			strings.NewReader(`{"refresh_token":"old-refresh"}`))
		rec := httptest.NewRecorder()

		h.Refresh(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "new-access", resp["access_token"])
		assert.Equal(t, "new-refresh", resp["refresh_token"])
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		h := NewAuth(&authServiceMock{}, &refreshServiceMock{}, testutil.MakeNoopLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		h.Refresh(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		t.Parallel()

		tokenSvc := &refreshServiceMock{}
		tokenSvc.On("Refresh", mock.Anything, "revoked").
			Return("", "", model.ErrTokenRevoked).Once()

		h := NewAuth(&authServiceMock{}, tokenSvc, testutil.MakeNoopLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh",
			strings.NewReader(`{"refresh_token":"revoked"}`))
		rec := httptest.NewRecorder()

		h.Refresh(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuth_SignOut(t *testing.T) {
	t.Parallel()

	t.Run("with token", func(t *testing.T) {
		t.Parallel()

		authSvc := &authServiceMock{}
		authSvc.On("SignOut", mock.Anything, "refresh").Once()

		h := NewAuth(authSvc, &refreshServiceMock{}, testutil.MakeNoopLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/signout",
			strings.NewReader(`{"refresh_token":"refresh"}`))
		rec := httptest.NewRecorder()

		h.SignOut(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		authSvc.AssertExpectations(t)
	})

	t.Run("without token still succeeds", func(t *testing.T) {
		t.Parallel()

		authSvc := &authServiceMock{}
		h := NewAuth(authSvc, &refreshServiceMock{}, testutil.MakeNoopLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		h.SignOut(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		authSvc.AssertNotCalled(t, "SignOut", mock.Anything, mock.Anything)
	})
}
