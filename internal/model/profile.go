package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TimerUnit is the unit the blink timer duration is expressed in.
type TimerUnit string

const (
	TimerUnitSeconds TimerUnit = "seconds"
	TimerUnitMinutes TimerUnit = "minutes"
)

// DeviceStatus is the client-asserted connection state of the signal device.
// It reflects what the app last claimed, not what the device confirmed.
type DeviceStatus string

const (
	StatusConnected    DeviceStatus = "Connected"
	StatusNotConnected DeviceStatus = "Not Connected"
)

// ProfileStore defines persistence operations for profile records.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	GetByEmail(ctx context.Context, email string) (Profile, error)
	Upsert(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (Profile, error)
}

// Profile is the per-account record holding profile fields and device
// configuration. Keyed by the account id; created at signup and merged
// field-by-field on every save.
type Profile struct {
	UserID    uuid.UUID
	Email     string
	Username  string
	Bio       string
	Phone     string
	Address   string
	DeviceURL string
	Timer     string
	Unit      TimerUnit
	Status    DeviceStatus
	AvatarKey string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileUpdate carries a partial set of profile fields. Nil pointers leave
// the stored value untouched; each save merges only the fields it names.
type ProfileUpdate struct {
	Email     *string
	Username  *string
	Bio       *string
	Phone     *string
	Address   *string
	DeviceURL *string
	Timer     *string
	Unit      *TimerUnit
	Status    *DeviceStatus
	AvatarKey *string
}
