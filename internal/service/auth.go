package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartblink/smartblink-server/internal/apierrors"
	"github.com/smartblink/smartblink-server/internal/logger"
	"github.com/smartblink/smartblink-server/internal/model"
	"github.com/smartblink/smartblink-server/internal/validate"
)

// Auth implements the session gateway: signup, signin and signout against
// the account and profile stores.
type Auth struct {
	userStore    model.UserStore
	profileStore model.ProfileStore
	tokenService *TokenService
	logger       *logger.Logger
	bcryptCost   int
}

func NewAuth(
	userStore model.UserStore,
	profileStore model.ProfileStore,
	refreshTokenStore model.RefreshTokenStore,
	logger *logger.Logger,
	tokenManager model.TokenManager,
	bcryptCost int,
) *Auth {
	return &Auth{
		userStore:    userStore,
		profileStore: profileStore,
		tokenService: NewTokenService(tokenManager, refreshTokenStore, logger),
		logger:       logger,
		bcryptCost:   bcryptCost,
	}
}

// SessionTokens is the token pair handed to a signed-in client.
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
}

// SignUp validates the credentials locally, creates the account and its
// initial profile record, and issues a session.
func (a *Auth) SignUp(ctx context.Context, email, password string) (SessionTokens, error) {
	a.logger.Debug("Auth service: starting signup",
		"email", email)

	if !validate.Email(email) {
		return SessionTokens{}, apierrors.NewErrInvalidEmail(email)
	}
	if !validate.Password(password) {
		return SessionTokens{}, apierrors.NewErrWeakPassword()
	}

	existingUser, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return SessionTokens{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if existingUser.ID != uuid.Nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return SessionTokens{}, apierrors.NewErrEmailInUse(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return SessionTokens{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	user, err = a.userStore.Create(ctx, user)
	if err != nil {
		// A concurrent signup can win the insert between the existence
		// check and here; the unique constraint reports it.
		if errors.Is(err, model.ErrAlreadyExists) {
			a.logger.Info("Auth service: user already exists",
				"email", email)
			return SessionTokens{}, apierrors.NewErrEmailInUse(email)
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return SessionTokens{}, fmt.Errorf("failed to create user: %w", err)
	}

	// Initial profile record carries only the email and creation time;
	// every other field arrives through later saves.
	if _, err := a.profileStore.Upsert(ctx, user.ID, model.ProfileUpdate{Email: &user.Email}); err != nil {
		a.logger.Error("Auth service: failed to create profile record",
			"email", email,
			"user_id", user.ID,
			"error", err.Error())
		return SessionTokens{}, fmt.Errorf("failed to create profile record: %w", err)
	}

	access, refresh, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return SessionTokens{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: signup completed",
		"email", email,
		"user_id", user.ID)

	return SessionTokens{AccessToken: access, RefreshToken: refresh}, nil
}

// SignIn checks that a profile record with the email exists before touching
// credentials. An account whose profile record is missing is refused even
// with valid credentials; this guards against orphaned accounts.
func (a *Auth) SignIn(ctx context.Context, email, password string) (SessionTokens, error) {
	a.logger.Debug("Auth service: starting signin",
		"email", email)

	if !validate.Email(email) {
		return SessionTokens{}, apierrors.NewErrInvalidEmail(email)
	}

	if _, err := a.profileStore.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: no profile record for email",
				"email", email)
			return SessionTokens{}, apierrors.NewErrAccountNotFound(email)
		}
		return SessionTokens{}, fmt.Errorf("failed to get profile by email: %w", err)
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return SessionTokens{}, apierrors.NewErrAccountNotFound(email)
	}
	if err != nil {
		return SessionTokens{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Auth service: wrong password",
			"email", email)
		return SessionTokens{}, apierrors.NewErrWrongCredentials()
	}

	access, refresh, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return SessionTokens{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: signin completed",
		"email", email,
		"user_id", user.ID)

	return SessionTokens{AccessToken: access, RefreshToken: refresh}, nil
}

// SignOut revokes the presented refresh token. Revocation failures are
// logged only; sign-out always succeeds from the client's point of view.
func (a *Auth) SignOut(ctx context.Context, refreshToken string) {
	if err := a.tokenService.RevokeByToken(ctx, refreshToken); err != nil {
		a.logger.Info("Auth service: failed to revoke refresh token on signout",
			"error", err.Error())
	}
}
