package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/smartblink/smartblink-server/internal/apierrors"
	"github.com/smartblink/smartblink-server/internal/logger"
	"github.com/smartblink/smartblink-server/internal/service"
)

// AuthService defines account registration and login operations.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (service.SessionTokens, error)
	SignIn(ctx context.Context, email, password string) (service.SessionTokens, error)
	SignOut(ctx context.Context, refreshToken string)
}

// TokenService defines token refresh operations.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (accessToken string, newRefreshToken string, err error)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService  AuthService
	tokenService TokenService
	logger       *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenService TokenService, logger *logger.Logger) *Auth {
	return &Auth{
		authService:  authService,
		tokenService: tokenService,
		logger:       logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SignUp registers a new account.
func (h *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apierrors.CodeInvalidArgument, "invalid request body")
		return
	}

	h.logger.Debug("Auth handler: processing signup request",
		"email", req.Email)

	tokens, err := h.authService.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: signup failed",
			"email", req.Email,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Auth handler: signup completed",
		"email", req.Email)

	writeJSON(w, http.StatusOK, tokensResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// SignIn authenticates an existing account.
func (h *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apierrors.CodeInvalidArgument, "invalid request body")
		return
	}

	h.logger.Debug("Auth handler: processing signin request",
		"email", req.Email)

	tokens, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: signin failed",
			"email", req.Email,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Auth handler: signin completed",
		"email", req.Email)

	writeJSON(w, http.StatusOK, tokensResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Refresh exchanges a refresh token for a rotated token pair.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, apierrors.CodeInvalidArgument, "refresh token is required")
		return
	}

	access, refresh, err := h.tokenService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Error("Auth handler: token refresh failed",
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Auth handler: token refresh successful")

	writeJSON(w, http.StatusOK, tokensResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// SignOut revokes the presented refresh token. Always answers 204.
func (h *Auth) SignOut(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
		h.authService.SignOut(r.Context(), req.RefreshToken)
	}

	w.WriteHeader(http.StatusNoContent)
}
