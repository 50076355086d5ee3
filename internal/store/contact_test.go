package store_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodwatch-client/internal/models"
	"floodwatch-client/internal/store"
)

func TestCreateContactWithAvatar(t *testing.T) {
	e := newEnv(t)
	e.loginUser(t)

	contacts := store.NewContactStore(e.client)
	input := models.ContactInput{
		FullName:    "Rescue Buddy",
		Phone:       "0123456789",
		IsEmergency: true,
	}
	avatar := bytes.NewReader([]byte("fake-png-bytes"))

	require.NoError(t, contacts.CreateContact(context.Background(), input, "buddy.png", avatar))

	got := contacts.Contacts()
	require.Len(t, got, 1)
	assert.Equal(t, "Rescue Buddy", got[0].FullName)
	assert.True(t, got[0].IsEmergency)
	assert.Equal(t, "/uploads/avatars/buddy.png", got[0].AvatarPath)
}

func TestCreateContactWithoutAvatar(t *testing.T) {
	e := newEnv(t)
	e.loginUser(t)

	contacts := store.NewContactStore(e.client)
	input := models.ContactInput{
		FullName:     "Neighbor",
		Phone:        "0987654321",
		Relationship: "neighbor",
	}

	require.NoError(t, contacts.CreateContact(context.Background(), input, "", nil))

	got := contacts.Contacts()
	require.Len(t, got, 1)
	assert.Empty(t, got[0].AvatarPath)
	assert.Equal(t, "neighbor", got[0].Relationship)
}

func TestCreateContactValidation(t *testing.T) {
	e := newEnv(t)
	e.loginUser(t)

	contacts := store.NewContactStore(e.client)
	err := contacts.CreateContact(context.Background(), models.ContactInput{
		FullName: "X",
		Phone:    "123",
	}, "", nil)

	require.Error(t, err)
	assert.Empty(t, contacts.Contacts())
}

func TestUpdateContactKeepsAvatar(t *testing.T) {
	e := newEnv(t)
	e.loginUser(t)

	contacts := store.NewContactStore(e.client)
	require.NoError(t, contacts.CreateContact(context.Background(), models.ContactInput{
		FullName: "Rescue Buddy",
		Phone:    "0123456789",
	}, "buddy.png", bytes.NewReader([]byte("img"))))

	id := contacts.Contacts()[0].ID
	require.NoError(t, contacts.UpdateContact(context.Background(), id, models.ContactInput{
		FullName:    "Rescue Buddy",
		Phone:       "0123456789",
		IsEmergency: true,
	}, "", nil))

	got := contacts.Contacts()
	require.Len(t, got, 1)
	assert.True(t, got[0].IsEmergency)
	assert.Equal(t, "/uploads/avatars/buddy.png", got[0].AvatarPath, "omitted avatar keeps the stored one")
}

func TestDeleteContactRefetchesExactlyOnce(t *testing.T) {
	e := newEnv(t)
	e.loginUser(t)

	contacts := store.NewContactStore(e.client)
	require.NoError(t, contacts.CreateContact(context.Background(), models.ContactInput{
		FullName: "Temporary",
		Phone:    "0123456789",
	}, "", nil))
	id := contacts.Contacts()[0].ID

	base := e.counter.get("/api/v1/contacts")
	require.NoError(t, contacts.DeleteContact(context.Background(), id))

	assert.Equal(t, base+1, e.counter.get("/api/v1/contacts"), "one follow-up fetch per mutation")
	assert.Empty(t, contacts.Contacts())
}

func TestCreateContactRefetchesExactlyOnce(t *testing.T) {
	e := newEnv(t)
	e.loginUser(t)

	contacts := store.NewContactStore(e.client)
	base := e.counter.get("/api/v1/contacts")

	require.NoError(t, contacts.CreateContact(context.Background(), models.ContactInput{
		FullName: "Rescue Buddy",
		Phone:    "0123456789",
	}, "", nil))

	assert.Equal(t, base+1, e.counter.get("/api/v1/contacts"))
}

func TestContactsScopedPerUser(t *testing.T) {
	e := newEnv(t)
	e.loginUser(t)

	contacts := store.NewContactStore(e.client)
	require.NoError(t, contacts.CreateContact(context.Background(), models.ContactInput{
		FullName: "Mine Only",
		Phone:    "0123456789",
	}, "", nil))

	e.auth.Logout()
	e.loginAdmin(t)

	adminContacts := store.NewContactStore(e.client)
	require.NoError(t, adminContacts.FetchContacts(context.Background()))
	assert.Empty(t, adminContacts.Contacts())
}
