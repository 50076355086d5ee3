package store_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
)

func TestFetchProfileRefreshesSession(t *testing.T) {
	e := newEnv(t)
	e.loginUser(t)

	user, err := e.auth.FetchProfile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Plain User", user.FullName)
	assert.Equal(t, "user@test.dev", e.session.User().Email)
}

func TestUpdateProfileWithAvatar(t *testing.T) {
	e := newEnv(t)
	e.loginUser(t)

	avatar := bytes.NewReader([]byte("fake-png-bytes"))
	user, err := e.auth.UpdateProfile(context.Background(), models.ProfileInput{
		FullName: "Renamed User",
		Phone:    "0123456789",
		Address:  "12 Riverside Rd",
	}, "me.png", avatar)
	require.NoError(t, err)

	assert.Equal(t, "Renamed User", user.FullName)
	assert.Equal(t, "/uploads/avatars/me.png", user.AvatarPath)

	// The session subject follows the committed profile.
	assert.Equal(t, "Renamed User", e.session.User().FullName)
	assert.Equal(t, "12 Riverside Rd", e.session.User().Address)
}

func TestUpdateProfileKeepsAvatarWhenOmitted(t *testing.T) {
	e := newEnv(t)
	e.loginUser(t)

	_, err := e.auth.UpdateProfile(context.Background(), models.ProfileInput{
		FullName: "Plain User",
	}, "me.png", bytes.NewReader([]byte("img")))
	require.NoError(t, err)

	user, err := e.auth.UpdateProfile(context.Background(), models.ProfileInput{
		FullName: "Plain User",
		Phone:    "0123456789",
	}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/me.png", user.AvatarPath, "omitted avatar keeps the stored one")
}

func TestUpdateProfileValidation(t *testing.T) {
	e := newEnv(t)
	e.loginUser(t)

	_, err := e.auth.UpdateProfile(context.Background(), models.ProfileInput{FullName: "X"}, "", nil)
	require.Error(t, err)
	assert.Empty(t, e.auth.Err(), "validation failures never reach the store error state")
}

func TestChangePassword(t *testing.T) {
	e := newEnv(t)
	e.loginUser(t)

	require.NoError(t, e.auth.ChangePassword(context.Background(), models.ChangePasswordInput{
		OldPassword: "secret123",
		NewPassword: "evenmoresecret",
	}))

	// The old password stops working, the new one logs in.
	e.auth.Logout()
	_, err := e.auth.Login(context.Background(), models.LoginInput{
		Email:    "user@test.dev",
		Password: "secret123",
	})
	require.Error(t, err)

	_, err = e.auth.Login(context.Background(), models.LoginInput{
		Email:    "user@test.dev",
		Password: "evenmoresecret",
	})
	require.NoError(t, err)
}

func TestChangePasswordWrongOld(t *testing.T) {
	e := newEnv(t)
	e.loginUser(t)

	err := e.auth.ChangePassword(context.Background(), models.ChangePasswordInput{
		OldPassword: "not-my-password",
		NewPassword: "evenmoresecret",
	})

	require.Error(t, err)
	assert.Equal(t, "Old password is incorrect", api.Message(err))
	assert.Equal(t, "Old password is incorrect", e.auth.Err())
	assert.True(t, e.session.IsAuthenticated(), "a failed change leaves the session alone")
}
