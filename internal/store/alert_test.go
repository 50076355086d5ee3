package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodwatch-client/internal/models"
	"floodwatch-client/internal/store"
)

func TestFetchAlertsListsActiveOnly(t *testing.T) {
	e := newEnv(t)
	loc := e.seedLocation("Delta")
	active := e.seedAlert(loc.ID, models.AlertLevelDanger, true)
	e.seedAlert(loc.ID, models.AlertLevelInfo, false)

	alerts := store.NewAlertStore(e.client)
	require.NoError(t, alerts.FetchAlerts(context.Background(), 20, 0))

	got := alerts.Alerts()
	require.Len(t, got, 1)
	assert.Equal(t, active.ID, got[0].ID)
	require.NotNil(t, got[0].Location)
	assert.Equal(t, "Delta", got[0].Location.Name)
}

func TestFetchAlertByID(t *testing.T) {
	e := newEnv(t)
	loc := e.seedLocation("Delta")
	seeded := e.seedAlert(loc.ID, models.AlertLevelCritical, true)

	alerts := store.NewAlertStore(e.client)
	require.NoError(t, alerts.FetchAlertByID(context.Background(), seeded.ID))

	current := alerts.Current()
	require.NotNil(t, current)
	assert.Equal(t, models.AlertLevelCritical, current.Level)
}

func TestFetchAlertByIDNotFound(t *testing.T) {
	e := newEnv(t)
	alerts := store.NewAlertStore(e.client)

	err := alerts.FetchAlertByID(context.Background(), 9999)
	require.Error(t, err)
	assert.Equal(t, "Alert not found", alerts.Err())
}

func TestFetchAlertsByLocation(t *testing.T) {
	e := newEnv(t)
	delta := e.seedLocation("Delta")
	basin := e.seedLocation("Basin")
	e.seedAlert(delta.ID, models.AlertLevelWarning, true)
	e.seedAlert(basin.ID, models.AlertLevelDanger, true)

	alerts := store.NewAlertStore(e.client)
	require.NoError(t, alerts.FetchAlertsByLocation(context.Background(), delta.ID))

	got := alerts.Alerts()
	require.Len(t, got, 1)
	assert.Equal(t, delta.ID, got[0].LocationID)
}

func TestFetchUserAlertsOnlyFollowedLocations(t *testing.T) {
	e := newEnv(t)
	followed := e.seedLocation("Followed")
	other := e.seedLocation("Other")
	e.seedAlert(followed.ID, models.AlertLevelDanger, true)
	e.seedAlert(other.ID, models.AlertLevelDanger, true)

	e.loginUser(t)

	locations := store.NewLocationStore(e.client)
	require.NoError(t, locations.Subscribe(context.Background(), models.SubscribeLocationInput{
		LocationID: followed.ID,
	}))

	alerts := store.NewAlertStore(e.client)
	require.NoError(t, alerts.FetchUserAlerts(context.Background()))

	got := alerts.Alerts()
	require.Len(t, got, 1)
	assert.Equal(t, followed.ID, got[0].LocationID)
}

func TestFetchAlertsFailureResetsList(t *testing.T) {
	e := newEnv(t)
	loc := e.seedLocation("Delta")
	e.seedAlert(loc.ID, models.AlertLevelDanger, true)

	alerts := store.NewAlertStore(e.client)
	require.NoError(t, alerts.FetchAlerts(context.Background(), 20, 0))
	require.Len(t, alerts.Alerts(), 1)

	// Backend goes away; a failed refresh must not leave stale data behind.
	e.ts.Close()
	err := alerts.FetchAlerts(context.Background(), 20, 0)

	require.Error(t, err)
	assert.Empty(t, alerts.Alerts())
	assert.NotEmpty(t, alerts.Err())
	assert.False(t, alerts.IsLoading())
}
