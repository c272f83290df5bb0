package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"leadcrm/internal/database"
	"leadcrm/internal/pkg/jwt"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	db.Logger = logger.Default.LogMode(logger.Silent)

	svc := NewService(db, jwt.New("test-secret", time.Hour))
	require.NoError(t, svc.Migrate())
	return svc
}

func TestLogin(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.EnsureUser(ctx, "admin@leadcrm.local", "Admin", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	token, u, err := svc.Login(ctx, "admin@leadcrm.local", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, created.ID, u.ID)

	_, _, err = svc.Login(ctx, "admin@leadcrm.local", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@leadcrm.local", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureUser_UpsertsByEmail(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	first, err := svc.EnsureUser(ctx, "admin@leadcrm.local", "Admin", "old-pass")
	require.NoError(t, err)

	second, err := svc.EnsureUser(ctx, "admin@leadcrm.local", "Renamed Admin", "new-pass")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Renamed Admin", second.Name)

	_, _, err = svc.Login(ctx, "admin@leadcrm.local", "old-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "admin@leadcrm.local", "new-pass")
	assert.NoError(t, err)
}
