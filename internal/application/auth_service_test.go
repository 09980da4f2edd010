package application

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newAuthService(users *fakeUserRepo) *AuthService {
	return NewAuthService(users, nil, nil, testLogger(), nil, false)
}

func TestRegisterBootstrap(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	svc := newAuthService(users)

	t.Run("first_registrant_becomes_owner", func(t *testing.T) {
		u, err := svc.Register(ctx, "alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, entity.RoleOwner, u.Role)
		assert.Equal(t, "alice", u.DisplayName)

		stored, err := users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleOwner, stored.Role)
	})

	t.Run("second_registrant_is_trader", func(t *testing.T) {
		u, err := svc.Register(ctx, "bob@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, entity.RoleTrader, u.Role)
	})

	t.Run("duplicate_email_rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice@example.com", "password456")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestRegisterOwnerSlotSurvivesFailedInsert(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	svc := newAuthService(users)

	// A conflicting insert must not claim the marker: the next
	// successful registration still wins the owner slot.
	seedTaken := &entity.User{Email: "taken@example.com", Password: "x", Role: entity.RoleTrader}
	require.NoError(t, users.Create(ctx, seedTaken))

	_, err := svc.Register(ctx, "taken@example.com", "password123")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.False(t, users.bootstrapClaimed)

	u, err := svc.Register(ctx, "late@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOwner, u.Role)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	svc := newAuthService(users)

	registered, err := svc.Register(ctx, "carol@example.com", "s3cretpass")
	require.NoError(t, err)

	t.Run("valid_credentials", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "carol@example.com", "s3cretpass")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "carol@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown_email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody@example.com", "s3cretpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
