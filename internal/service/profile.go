package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/smartblink/smartblink-server/internal/apierrors"
	"github.com/smartblink/smartblink-server/internal/logger"
	"github.com/smartblink/smartblink-server/internal/model"
)

// Profile implements reads and per-panel partial saves of the profile
// record, plus avatar storage.
type Profile struct {
	profileStore model.ProfileStore
	storage      model.Storage
	logger       *logger.Logger

	// deviceScheme is prepended to device addresses entered without one.
	deviceScheme string
}

func NewProfile(
	profileStore model.ProfileStore,
	storage model.Storage,
	logger *logger.Logger,
	deviceScheme string,
) *Profile {
	return &Profile{
		profileStore: profileStore,
		storage:      storage,
		logger:       logger,
		deviceScheme: deviceScheme,
	}
}

func (s *Profile) Get(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	profile, err := s.profileStore.GetByUserID(ctx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// Update merges the given fields into the profile record, creating it if
// absent. Fields not present in the update keep their stored values; two
// panels saving concurrently cannot clobber each other's fields.
func (s *Profile) Update(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.Profile, error) {
	s.logger.Debug("Profile service: merging profile fields",
		"user_id", userID)

	if update.Unit != nil && *update.Unit != model.TimerUnitSeconds && *update.Unit != model.TimerUnitMinutes {
		return model.Profile{}, apierrors.NewErrInvalidArgument(fmt.Sprintf("unknown timer unit: %s", *update.Unit))
	}
	if update.Status != nil && *update.Status != model.StatusConnected && *update.Status != model.StatusNotConnected {
		return model.Profile{}, apierrors.NewErrInvalidArgument(fmt.Sprintf("unknown status: %s", *update.Status))
	}
	if update.DeviceURL != nil {
		normalized, err := s.normalizeDeviceURL(*update.DeviceURL)
		if err != nil {
			return model.Profile{}, err
		}
		update.DeviceURL = &normalized
	}

	profile, err := s.profileStore.Upsert(ctx, userID, update)
	if err != nil {
		s.logger.Error("Profile service: failed to upsert profile",
			"user_id", userID,
			"error", err.Error())
		return model.Profile{}, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return profile, nil
}

// normalizeDeviceURL prefixes the configured scheme when the entered
// address carries none: "192.168.1.1" becomes "http://192.168.1.1",
// an already-prefixed address is stored unchanged.
func (s *Profile) normalizeDeviceURL(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", apierrors.NewErrInvalidArgument("device address is empty")
	}
	if strings.Contains(addr, "://") {
		return addr, nil
	}
	return s.deviceScheme + addr, nil
}

const avatarKeyPrefix = "avatars/"

// UploadAvatar stores the avatar object and records its key on the profile.
func (s *Profile) UploadAvatar(ctx context.Context, userID uuid.UUID, reader io.Reader) error {
	key := avatarKeyPrefix + userID.String()

	if err := s.storage.Upload(ctx, key, reader); err != nil {
		s.logger.Error("Profile service: failed to upload avatar",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to upload avatar: %w", err)
	}

	if _, err := s.profileStore.Upsert(ctx, userID, model.ProfileUpdate{AvatarKey: &key}); err != nil {
		return fmt.Errorf("failed to record avatar key: %w", err)
	}

	s.logger.Info("Profile service: avatar uploaded",
		"user_id", userID,
		"key", key)

	return nil
}

// DownloadAvatar streams the stored avatar object. A recorded key whose
// object has gone missing from the bucket is treated the same as no avatar.
func (s *Profile) DownloadAvatar(ctx context.Context, userID uuid.UUID) (io.ReadCloser, error) {
	profile, err := s.profileStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile.AvatarKey == "" {
		return nil, model.ErrNotFound
	}

	exists, err := s.storage.Exists(ctx, profile.AvatarKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check avatar object: %w", err)
	}
	if !exists {
		return nil, model.ErrNotFound
	}

	reader, err := s.storage.Download(ctx, profile.AvatarKey)
	if err != nil {
		return nil, fmt.Errorf("failed to download avatar: %w", err)
	}
	return reader, nil
}

// DeleteAvatar removes the stored avatar object and clears its key from
// the profile record.
func (s *Profile) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.profileStore.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	if profile.AvatarKey == "" {
		return model.ErrNotFound
	}

	if err := s.storage.Delete(ctx, profile.AvatarKey); err != nil {
		s.logger.Error("Profile service: failed to delete avatar object",
			"user_id", userID,
			"key", profile.AvatarKey,
			"error", err.Error())
		return fmt.Errorf("failed to delete avatar: %w", err)
	}

	empty := ""
	if _, err := s.profileStore.Upsert(ctx, userID, model.ProfileUpdate{AvatarKey: &empty}); err != nil {
		return fmt.Errorf("failed to clear avatar key: %w", err)
	}

	s.logger.Info("Profile service: avatar deleted",
		"user_id", userID)

	return nil
}
