package service

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calc-service/internal/domain"
	"calc-service/internal/validation"
)

func TestUserRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, "  alice@x.com ", "alice", "secret")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.True(t, user.Active)
	assert.Empty(t, user.PasswordHash)

	entry := f.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "user registered", entry.Message)
	assert.Equal(t, user.ID, entry.Data["user_id"])
}

func TestUserRegisterRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, "alice@x.com", "alice", "secret")
	require.NoError(t, err)

	_, err = f.users.Register(ctx, "alice@x.com", "other", "secret")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = f.users.Register(ctx, "other@x.com", "alice", "secret")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = f.users.Register(ctx, "", "bob", "secret")
	assert.ErrorIs(t, err, validation.ErrMissingField)
}

func TestUserAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	registered, err := f.users.Register(ctx, "alice@x.com", "alice", "secret")
	require.NoError(t, err)

	tests := []struct {
		name     string
		login    string
		password string
		wantErr  error
	}{
		{name: "by email", login: "alice@x.com", password: "secret"},
		{name: "by username", login: "alice", password: "secret"},
		{name: "wrong password", login: "alice", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "unknown user", login: "ghost", password: "secret", wantErr: ErrInvalidCredentials},
		{name: "empty login", login: " ", password: "secret", wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := f.users.Authenticate(ctx, tt.login, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.ID, user.ID)
			assert.Empty(t, user.PasswordHash)
		})
	}
}

func TestUserAuthenticateInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, "alice@x.com", "alice", "secret")
	require.NoError(t, err)
	require.NoError(t, f.userRepo.SetActive(ctx, user.ID, false))

	_, err = f.users.Authenticate(ctx, "alice", "secret")
	assert.ErrorIs(t, err, ErrInactiveUser)

	// a wrong password never reveals the account state
	_, err = f.users.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, f.userRepo.SetActive(ctx, user.ID, true))
	_, err = f.users.Authenticate(ctx, "alice", "secret")
	assert.NoError(t, err)
}

func TestUserUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, err := f.users.Register(ctx, "alice@x.com", "alice", "secret")
	require.NoError(t, err)
	_, err = f.users.Register(ctx, "bob@x.com", "bob", "secret")
	require.NoError(t, err)

	updated, err := f.users.UpdateProfile(ctx, alice.ID, "", "alicia")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", updated.Email)
	assert.Equal(t, "alicia", updated.Username)
	assert.Empty(t, updated.PasswordHash)

	// re-submitting one's own values is not a conflict
	_, err = f.users.UpdateProfile(ctx, alice.ID, "alice@x.com", "alicia")
	assert.NoError(t, err)

	_, err = f.users.UpdateProfile(ctx, alice.ID, "bob@x.com", "")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = f.users.UpdateProfile(ctx, alice.ID, "", "bob")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = f.users.UpdateProfile(ctx, alice.ID, " ", "")
	assert.ErrorIs(t, err, validation.ErrEmptyUpdate)
}

func TestUserChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, "alice@x.com", "alice", "secret")
	require.NoError(t, err)

	err = f.users.ChangePassword(ctx, user.ID, "wrong-one", "brand-new")
	assert.ErrorIs(t, err, ErrIncorrectPassword)

	err = f.users.ChangePassword(ctx, user.ID, "secret", "secret")
	assert.ErrorIs(t, err, validation.ErrPasswordPolicy)

	err = f.users.ChangePassword(ctx, user.ID, "secret", "short")
	assert.ErrorIs(t, err, validation.ErrPasswordPolicy)

	require.NoError(t, f.users.ChangePassword(ctx, user.ID, "secret", "brand-new"))

	_, err = f.users.Authenticate(ctx, "alice", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.users.Authenticate(ctx, "alice@x.com", "brand-new")
	assert.NoError(t, err)

	err = f.users.ChangePassword(ctx, 999, "secret", "brand-new")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserGetByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, "alice@x.com", "alice", "secret")
	require.NoError(t, err)

	got, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Empty(t, got.PasswordHash)

	_, err = f.users.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSanitizeUserNil(t *testing.T) {
	assert.Nil(t, sanitizeUser(nil))
}
