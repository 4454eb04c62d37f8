package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/smartblink/smartblink-server/internal/apierrors"
	"github.com/smartblink/smartblink-server/internal/logger"
	"github.com/smartblink/smartblink-server/internal/model"
)

// Device orchestrates commands against the account's configured signal
// device. The device base URL is resolved from the profile record on every
// call; nothing is cached between requests.
type Device struct {
	profileStore model.ProfileStore
	commander    model.DeviceCommander
	logger       *logger.Logger
}

func NewDevice(
	profileStore model.ProfileStore,
	commander model.DeviceCommander,
	logger *logger.Logger,
) *Device {
	return &Device{
		profileStore: profileStore,
		commander:    commander,
		logger:       logger,
	}
}

func (s *Device) baseURL(ctx context.Context, userID uuid.UUID) (string, error) {
	profile, err := s.profileStore.GetByUserID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return "", apierrors.NewErrDeviceNotConfigured()
	}
	if err != nil {
		return "", fmt.Errorf("failed to get profile: %w", err)
	}
	if profile.DeviceURL == "" {
		return "", apierrors.NewErrDeviceNotConfigured()
	}
	return profile.DeviceURL, nil
}

// ToggleSignal issues a single toggle command for the given signal kind.
// The stored status field is not touched; status is asserted by the client
// independently of device commands.
func (s *Device) ToggleSignal(ctx context.Context, userID uuid.UUID, kind model.SignalKind) error {
	if !kind.Valid() {
		return apierrors.NewErrInvalidArgument(fmt.Sprintf("unknown signal kind: %s", kind))
	}

	base, err := s.baseURL(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.commander.ToggleSignal(ctx, base, kind); err != nil {
		s.logger.Error("Device service: toggle failed",
			"user_id", userID,
			"kind", kind,
			"error", err.Error())
		if errors.Is(err, model.ErrDeviceUnreachable) {
			return apierrors.NewErrDeviceUnreachable()
		}
		return fmt.Errorf("failed to toggle signal: %w", err)
	}

	s.logger.Info("Device service: signal toggled",
		"user_id", userID,
		"kind", kind)

	return nil
}

// SaveTimer persists the timer configuration and pushes it to the device.
// The two halves run concurrently with no atomicity: the device half is
// best-effort and its failure is only logged, matching the dashboard's
// behavior of reporting success once the save goes through.
func (s *Device) SaveTimer(ctx context.Context, userID uuid.UUID, timer string, unit model.TimerUnit) error {
	if unit != model.TimerUnitSeconds && unit != model.TimerUnitMinutes {
		return apierrors.NewErrInvalidArgument(fmt.Sprintf("unknown timer unit: %s", unit))
	}

	base, baseErr := s.baseURL(ctx, userID)

	var wg sync.WaitGroup
	var saveErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := s.profileStore.Upsert(ctx, userID, model.ProfileUpdate{Timer: &timer, Unit: &unit})
		if err != nil {
			saveErr = fmt.Errorf("failed to save timer: %w", err)
		}
	}()

	if baseErr == nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Duration is passed through as entered; the device does its
			// own interpretation.
			if err := s.commander.SetTimer(ctx, base, timer); err != nil {
				s.logger.Error("Device service: set timer on device failed",
					"user_id", userID,
					"timer", timer,
					"error", err.Error())
			}
		}()
	} else {
		s.logger.Info("Device service: skipping device timer push",
			"user_id", userID,
			"reason", baseErr.Error())
	}

	wg.Wait()

	if saveErr != nil {
		s.logger.Error("Device service: timer save failed",
			"user_id", userID,
			"error", saveErr.Error())
		return saveErr
	}

	s.logger.Info("Device service: timer saved",
		"user_id", userID,
		"timer", timer,
		"unit", unit)

	return nil
}
