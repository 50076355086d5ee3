package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodwatch-client/internal/models"
	"floodwatch-client/internal/store"
)

func TestFetchLocations(t *testing.T) {
	e := newEnv(t)
	e.seedLocation("Delta")
	e.seedLocation("Basin")

	locations := store.NewLocationStore(e.client)
	require.NoError(t, locations.FetchLocations(context.Background()))
	assert.Len(t, locations.Locations(), 2)
}

func TestSubscribeMakesLocationFollowed(t *testing.T) {
	e := newEnv(t)
	loc := e.seedLocation("Delta")
	e.loginUser(t)

	locations := store.NewLocationStore(e.client)
	assert.False(t, locations.IsSubscribed(loc.ID))

	require.NoError(t, locations.Subscribe(context.Background(), models.SubscribeLocationInput{
		LocationID: loc.ID,
		Priority:   5,
	}))

	assert.True(t, locations.IsSubscribed(loc.ID))
	subs := locations.UserLocations()
	require.Len(t, subs, 1)
	assert.Equal(t, 5, subs[0].Priority)
	require.NotNil(t, subs[0].Location, "re-fetch hydrates the nested location")
	assert.Equal(t, "Delta", subs[0].Location.Name)
}

func TestSubscribeRefetchesExactlyOnce(t *testing.T) {
	e := newEnv(t)
	loc := e.seedLocation("Delta")
	e.loginUser(t)

	locations := store.NewLocationStore(e.client)
	base := e.counter.get("/api/v1/user/locations")

	require.NoError(t, locations.Subscribe(context.Background(), models.SubscribeLocationInput{
		LocationID: loc.ID,
	}))

	// Optimistic patch first, then a single reconciling fetch.
	assert.Equal(t, base+1, e.counter.get("/api/v1/user/locations"))
}

func TestSubscribeTwiceFails(t *testing.T) {
	e := newEnv(t)
	loc := e.seedLocation("Delta")
	e.loginUser(t)

	locations := store.NewLocationStore(e.client)
	input := models.SubscribeLocationInput{LocationID: loc.ID}
	require.NoError(t, locations.Subscribe(context.Background(), input))

	err := locations.Subscribe(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, "Location already followed", locations.Err())
	assert.True(t, locations.IsSubscribed(loc.ID), "existing subscription survives")
}

func TestSubscribeValidation(t *testing.T) {
	e := newEnv(t)
	e.loginUser(t)

	locations := store.NewLocationStore(e.client)
	err := locations.Subscribe(context.Background(), models.SubscribeLocationInput{LocationID: 0})
	require.Error(t, err)
	assert.False(t, locations.IsLoading())
}

func TestUnsubscribeRemovesFollow(t *testing.T) {
	e := newEnv(t)
	loc := e.seedLocation("Delta")
	e.loginUser(t)

	locations := store.NewLocationStore(e.client)
	require.NoError(t, locations.Subscribe(context.Background(), models.SubscribeLocationInput{
		LocationID: loc.ID,
	}))

	subID, followed := locations.SubscribedIDs()[loc.ID]
	require.True(t, followed)

	require.NoError(t, locations.Unsubscribe(context.Background(), subID))
	assert.False(t, locations.IsSubscribed(loc.ID))
	assert.Empty(t, locations.UserLocations())
}

func TestSubscriptionsAreScopedPerUser(t *testing.T) {
	e := newEnv(t)
	loc := e.seedLocation("Delta")

	e.loginUser(t)
	locations := store.NewLocationStore(e.client)
	require.NoError(t, locations.Subscribe(context.Background(), models.SubscribeLocationInput{
		LocationID: loc.ID,
	}))

	// Different account sees an empty subscription list.
	e.auth.Logout()
	e.loginAdmin(t)
	adminLocations := store.NewLocationStore(e.client)
	require.NoError(t, adminLocations.FetchUserLocations(context.Background()))
	assert.Empty(t, adminLocations.UserLocations())
}
