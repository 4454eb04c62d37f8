package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/smartblink/smartblink-server/internal/apierrors"
	"github.com/smartblink/smartblink-server/internal/logger"
	"github.com/smartblink/smartblink-server/internal/model"
)

// ProfileService defines business operations on the profile record.
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (model.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.Profile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, reader io.Reader) error
	DownloadAvatar(ctx context.Context, userID uuid.UUID) (io.ReadCloser, error)
	DeleteAvatar(ctx context.Context, userID uuid.UUID) error
}

// Profile handles HTTP endpoints for the profile record.
type Profile struct {
	profileService ProfileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewProfile creates a new Profile handler.
func NewProfile(profileService ProfileService, contextManager model.ContextManager, logger *logger.Logger) *Profile {
	return &Profile{
		profileService: profileService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Profile) extractUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

type profileResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	DeviceURL string `json:"device_url"`
	Timer     string `json:"timer"`
	Unit      string `json:"unit"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func convertProfile(p model.Profile) profileResponse {
	return profileResponse{
		UserID:    p.UserID.String(),
		Email:     p.Email,
		Username:  p.Username,
		Bio:       p.Bio,
		Phone:     p.Phone,
		Address:   p.Address,
		DeviceURL: p.DeviceURL,
		Timer:     p.Timer,
		Unit:      string(p.Unit),
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

// Get returns the full profile record.
func (h *Profile) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := h.extractUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, apierrors.CodeUnauthenticated, err.Error())
		return
	}

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("Profile handler: get failed",
			"user_id", userID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, convertProfile(profile))
}

type profileUpdateRequest struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

// Update merges the submitted subset of profile fields. Each edit panel
// sends only its own fields.
func (h *Profile) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := h.extractUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, apierrors.CodeUnauthenticated, err.Error())
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apierrors.CodeInvalidArgument, "invalid request body")
		return
	}

	profile, err := h.profileService.Update(r.Context(), userID, model.ProfileUpdate{
		Username: req.Username,
		Bio:      req.Bio,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		h.logger.Error("Profile handler: update failed",
			"user_id", userID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Profile handler: profile updated",
		"user_id", userID)

	writeJSON(w, http.StatusOK, convertProfile(profile))
}

type deviceURLRequest struct {
	DeviceURL string `json:"device_url"`
}

// SetDeviceURL stores the device address, prefixing the scheme if missing.
func (h *Profile) SetDeviceURL(w http.ResponseWriter, r *http.Request) {
	userID, err := h.extractUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, apierrors.CodeUnauthenticated, err.Error())
		return
	}

	var req deviceURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apierrors.CodeInvalidArgument, "invalid request body")
		return
	}

	profile, err := h.profileService.Update(r.Context(), userID, model.ProfileUpdate{
		DeviceURL: &req.DeviceURL,
	})
	if err != nil {
		h.logger.Error("Profile handler: set device url failed",
			"user_id", userID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Profile handler: device url saved",
		"user_id", userID,
		"device_url", profile.DeviceURL)

	writeJSON(w, http.StatusOK, convertProfile(profile))
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetStatus stores the client-asserted device status.
func (h *Profile) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := h.extractUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, apierrors.CodeUnauthenticated, err.Error())
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apierrors.CodeInvalidArgument, "invalid request body")
		return
	}

	status := model.DeviceStatus(req.Status)
	profile, err := h.profileService.Update(r.Context(), userID, model.ProfileUpdate{
		Status: &status,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, convertProfile(profile))
}

type timerRequest struct {
	Timer string `json:"timer"`
	Unit  string `json:"unit"`
}

// SetTimer persists the timer configuration without touching the device.
func (h *Profile) SetTimer(w http.ResponseWriter, r *http.Request) {
	userID, err := h.extractUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, apierrors.CodeUnauthenticated, err.Error())
		return
	}

	var req timerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apierrors.CodeInvalidArgument, "invalid request body")
		return
	}

	unit := model.TimerUnit(req.Unit)
	profile, err := h.profileService.Update(r.Context(), userID, model.ProfileUpdate{
		Timer: &req.Timer,
		Unit:  &unit,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, convertProfile(profile))
}

// UploadAvatar stores the request body as the account's avatar image.
func (h *Profile) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := h.extractUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, apierrors.CodeUnauthenticated, err.Error())
		return
	}

	if err := h.profileService.UploadAvatar(r.Context(), userID, r.Body); err != nil {
		h.logger.Error("Profile handler: avatar upload failed",
			"user_id", userID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DownloadAvatar streams the stored avatar image.
func (h *Profile) DownloadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := h.extractUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, apierrors.CodeUnauthenticated, err.Error())
		return
	}

	reader, err := h.profileService.DownloadAvatar(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("Profile handler: avatar stream failed",
			"user_id", userID,
			"error", err.Error())
	}
}

// DeleteAvatar removes the account's avatar image.
func (h *Profile) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := h.extractUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, apierrors.CodeUnauthenticated, err.Error())
		return
	}

	if err := h.profileService.DeleteAvatar(r.Context(), userID); err != nil {
		h.logger.Error("Profile handler: avatar delete failed",
			"user_id", userID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
