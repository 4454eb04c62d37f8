package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smartblink/smartblink-server/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

type ProfileRepository struct {
	db *Connection
}

func NewProfileRepository(db *Connection) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `user_id, email, username, bio, phone, address, device_url, timer, unit, status, avatar_key, created_at, updated_at`

func scanProfile(row pgx.Row) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.UserID, &p.Email, &p.Username, &p.Bio, &p.Phone, &p.Address,
		&p.DeviceURL, &p.Timer, &p.Unit, &p.Status, &p.AvatarKey,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile by user id: %w", err)
	}

	return profile, nil
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`

	profile, err := scanProfile(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile by email: %w", err)
	}

	return profile, nil
}

// Upsert creates the record if absent and merges the given fields
// otherwise. Merging is per-column last-write-wins: NULL parameters keep
// the stored value, so a save only overwrites the fields it names.
func (r *ProfileRepository) Upsert(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.Profile, error) {
	query := `INSERT INTO profiles (user_id, email, username, bio, phone, address, device_url, timer, unit, status, avatar_key)
			  VALUES ($1,
			          COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''), COALESCE($5, ''), COALESCE($6, ''),
			          COALESCE($7, ''), COALESCE($8, ''), COALESCE($9, 'seconds'), COALESCE($10, 'Not Connected'), COALESCE($11, ''))
			  ON CONFLICT (user_id) DO UPDATE SET
			      email = COALESCE($2, profiles.email),
			      username = COALESCE($3, profiles.username),
			      bio = COALESCE($4, profiles.bio),
			      phone = COALESCE($5, profiles.phone),
			      address = COALESCE($6, profiles.address),
			      device_url = COALESCE($7, profiles.device_url),
			      timer = COALESCE($8, profiles.timer),
			      unit = COALESCE($9, profiles.unit),
			      status = COALESCE($10, profiles.status),
			      avatar_key = COALESCE($11, profiles.avatar_key),
			      updated_at = NOW()
			  RETURNING ` + profileColumns

	profile, err := scanProfile(r.db.QueryRow(ctx, query,
		userID,
		update.Email, update.Username, update.Bio, update.Phone, update.Address,
		update.DeviceURL, update.Timer, update.Unit, update.Status, update.AvatarKey,
	))
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return profile, nil
}
