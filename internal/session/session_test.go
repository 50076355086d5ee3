package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodwatch-client/internal/models"
)

func testUser() *models.User {
	return &models.User{ID: 7, Email: "a@b.c", FullName: "Test User", Role: models.RoleUser}
}

func TestHydrateMissingFile(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Hydrate())

	assert.True(t, store.Hydrated())
	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.User())
	assert.Empty(t, store.Token())
}

func TestHydrateCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0o600))

	store := NewStore(dir)
	require.NoError(t, store.Hydrate())

	assert.True(t, store.Hydrated())
	assert.False(t, store.IsAuthenticated())
}

func TestSetPersistsAcrossStores(t *testing.T) {
	dir := t.TempDir()

	first := NewStore(dir)
	require.NoError(t, first.Hydrate())
	require.NoError(t, first.Set(testUser(), "token-123"))

	second := NewStore(dir)
	require.NoError(t, second.Hydrate())

	assert.True(t, second.IsAuthenticated())
	assert.Equal(t, "token-123", second.Token())
	require.NotNil(t, second.User())
	assert.Equal(t, 7, second.User().ID)
}

func TestClearRemovesFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Hydrate())
	require.NoError(t, store.Set(testUser(), "token-123"))

	store.Clear()

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	_, err := os.Stat(filepath.Join(dir, "session.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestSetUserKeepsToken(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Hydrate())
	require.NoError(t, store.Set(testUser(), "token-123"))

	updated := testUser()
	updated.FullName = "Renamed"
	require.NoError(t, store.SetUser(updated))

	assert.Equal(t, "token-123", store.Token())
	assert.Equal(t, "Renamed", store.User().FullName)
}

func TestHydrateDropsExpiredToken(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Hydrate())

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	token, err := expired.SignedString([]byte("whatever"))
	require.NoError(t, err)
	require.NoError(t, store.Set(testUser(), token))

	rehydrated := NewStore(dir)
	require.NoError(t, rehydrated.Hydrate())
	assert.False(t, rehydrated.IsAuthenticated())
}

func TestHydrateKeepsOpaqueToken(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Hydrate())
	require.NoError(t, store.Set(testUser(), "opaque-token"))

	rehydrated := NewStore(dir)
	require.NoError(t, rehydrated.Hydrate())
	assert.True(t, rehydrated.IsAuthenticated(), "non-JWT tokens are left for the backend to judge")
}

func TestUserReturnsCopy(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Hydrate())
	require.NoError(t, store.Set(testUser(), "token-123"))

	store.User().FullName = "mutated"
	assert.Equal(t, "Test User", store.User().FullName)
}
