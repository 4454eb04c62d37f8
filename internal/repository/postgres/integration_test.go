//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/smartblink/smartblink-server/internal/model"
	repo "github.com/smartblink/smartblink-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "smartblink_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/smartblink_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ur := repo.NewUserRepository(conn)
	pr := repo.NewProfileRepository(conn)
	rr := repo.NewRefreshTokenRepository(conn)

	owner := model.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: []byte("bcrypt-hash"),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	t.Run("user_repository", func(t *testing.T) {
		saved, err := ur.Create(ctx, owner)
		require.NoError(t, err)
		require.Equal(t, owner.ID, saved.ID)

		byEmail, err := ur.GetByEmail(ctx, owner.Email)
		require.NoError(t, err)
		require.Equal(t, owner.ID, byEmail.ID)

		byID, err := ur.GetByID(ctx, owner.ID)
		require.NoError(t, err)
		require.Equal(t, owner.Email, byID.Email)

		_, err = ur.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, model.ErrNotFound)

		dup := model.User{
			ID:           uuid.New(),
			Email:        owner.Email,
			PasswordHash: []byte("other-hash"),
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		_, err = ur.Create(ctx, dup)
		require.ErrorIs(t, err, model.ErrAlreadyExists)
	})

	t.Run("profile_repository", func(t *testing.T) {
		email := owner.Email
		created, err := pr.Upsert(ctx, owner.ID, model.ProfileUpdate{Email: &email})
		require.NoError(t, err)
		require.Equal(t, email, created.Email)
		require.Equal(t, model.StatusNotConnected, created.Status)

		// Merging one field keeps everything else.
		username := "rider"
		merged, err := pr.Upsert(ctx, owner.ID, model.ProfileUpdate{Username: &username})
		require.NoError(t, err)
		require.Equal(t, "rider", merged.Username)
		require.Equal(t, email, merged.Email)

		deviceURL := "http://192.168.1.1"
		status := model.StatusConnected
		merged, err = pr.Upsert(ctx, owner.ID, model.ProfileUpdate{DeviceURL: &deviceURL, Status: &status})
		require.NoError(t, err)
		require.Equal(t, "rider", merged.Username)
		require.Equal(t, deviceURL, merged.DeviceURL)
		require.Equal(t, model.StatusConnected, merged.Status)

		// Replaying the same save is idempotent.
		again, err := pr.Upsert(ctx, owner.ID, model.ProfileUpdate{DeviceURL: &deviceURL, Status: &status})
		require.NoError(t, err)
		require.Equal(t, merged.DeviceURL, again.DeviceURL)
		require.Equal(t, merged.Username, again.Username)

		byUser, err := pr.GetByUserID(ctx, owner.ID)
		require.NoError(t, err)
		require.Equal(t, deviceURL, byUser.DeviceURL)

		byEmail, err := pr.GetByEmail(ctx, email)
		require.NoError(t, err)
		require.Equal(t, owner.ID, byEmail.UserID)

		_, err = pr.GetByUserID(ctx, uuid.New())
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("refresh_token_repository", func(t *testing.T) {
		rt := model.RefreshToken{
			ID:        uuid.New(),
			JTI:       uuid.NewString(),
			UserID:    owner.ID,
			TokenHash: []byte("hash"),
			IssuedAt:  time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		}
		require.NoError(t, rr.Create(ctx, rt))

		got, err := rr.GetByJTI(ctx, rt.JTI)
		require.NoError(t, err)
		require.Equal(t, rt.UserID, got.UserID)
		require.Nil(t, got.RevokedAt)

		require.NoError(t, rr.RevokeByJTI(ctx, rt.JTI))

		got, err = rr.GetByJTI(ctx, rt.JTI)
		require.NoError(t, err)
		require.NotNil(t, got.RevokedAt)

		second := model.RefreshToken{
			ID:        uuid.New(),
			JTI:       uuid.NewString(),
			UserID:    owner.ID,
			TokenHash: []byte("hash2"),
			IssuedAt:  time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		}
		require.NoError(t, rr.Create(ctx, second))
		require.NoError(t, rr.RevokeAllByUser(ctx, owner.ID))

		got, err = rr.GetByJTI(ctx, second.JTI)
		require.NoError(t, err)
		require.NotNil(t, got.RevokedAt)

		_, err = rr.GetByJTI(ctx, "missing")
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}
