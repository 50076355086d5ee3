package sos_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
	"floodwatch-client/internal/session"
	"floodwatch-client/internal/sos"
	"floodwatch-client/internal/stubserver"
)

func newBackend(t *testing.T) (*stubserver.Server, *api.Client) {
	t.Helper()
	backend := stubserver.NewServer("test-jwt-secret", "test-key", "test-pusher-secret")
	ts := httptest.NewServer(backend.Router())
	t.Cleanup(ts.Close)

	sess := session.NewStore(t.TempDir())
	require.NoError(t, sess.Hydrate())
	return backend, api.NewClient(ts.URL+"/api/v1", 5*time.Second, sess)
}

func TestSendBroadcastsPosition(t *testing.T) {
	_, client := newBackend(t)
	sender := sos.NewSender(client)

	user := &models.User{FullName: "Drowning Dan", Phone: "0123456789"}
	err := sender.Send(context.Background(), sos.FixedLocator(10.5, 105.1), user, "")
	require.NoError(t, err)

	poller := sos.NewPoller(client, time.Minute)
	require.NoError(t, poller.Refresh(context.Background()))

	requests := poller.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "Drowning Dan", requests[0].UserName)
	assert.Equal(t, models.SOSStatusPending, requests[0].Status)
	assert.Equal(t, "Emergency SOS from Drowning Dan!", requests[0].Message)
	assert.InDelta(t, 10.5, requests[0].Latitude, 0.0001)
}

func TestSendAnonymousWithMessage(t *testing.T) {
	_, client := newBackend(t)
	sender := sos.NewSender(client)

	err := sender.Send(context.Background(), sos.FixedLocator(10.5, 105.1), nil, "Stuck on a roof")
	require.NoError(t, err)

	poller := sos.NewPoller(client, time.Minute)
	require.NoError(t, poller.Refresh(context.Background()))
	require.Len(t, poller.Requests(), 1)
	assert.Equal(t, "Stuck on a roof", poller.Requests()[0].Message)
}

func TestSendWithoutLocator(t *testing.T) {
	_, client := newBackend(t)
	sender := sos.NewSender(client)

	err := sender.Send(context.Background(), nil, nil, "help")
	require.Error(t, err)
}

func TestSendLocatorFailure(t *testing.T) {
	_, client := newBackend(t)
	sender := sos.NewSender(client)

	broken := sos.LocatorFunc(func(context.Context) (float64, float64, error) {
		return 0, 0, errors.New("gps timeout")
	})
	err := sender.Send(context.Background(), broken, nil, "help")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position fix failed")
}

func TestPollerUpdateStatusPatchesInPlace(t *testing.T) {
	backend, client := newBackend(t)
	seeded := backend.SeedSOS(models.SOSRequest{
		UserName: "Dan", Latitude: 10.5, Longitude: 105.1,
	})

	poller := sos.NewPoller(client, time.Minute)
	require.NoError(t, poller.Refresh(context.Background()))
	require.Equal(t, models.SOSStatusPending, poller.Requests()[0].Status)

	require.NoError(t, poller.UpdateStatus(context.Background(), seeded.ID, models.SOSStatusProcessing))
	assert.Equal(t, models.SOSStatusProcessing, poller.Requests()[0].Status, "patched before next poll")

	require.NoError(t, poller.Refresh(context.Background()))
	assert.Equal(t, models.SOSStatusProcessing, poller.Requests()[0].Status, "backend agrees")
}

func TestPollerDeleteRemovesRequest(t *testing.T) {
	backend, client := newBackend(t)
	keep := backend.SeedSOS(models.SOSRequest{UserName: "Keep", Latitude: 1, Longitude: 1})
	drop := backend.SeedSOS(models.SOSRequest{UserName: "Drop", Latitude: 2, Longitude: 2})

	poller := sos.NewPoller(client, time.Minute)
	require.NoError(t, poller.Refresh(context.Background()))
	require.Len(t, poller.Requests(), 2)

	require.NoError(t, poller.Delete(context.Background(), drop.ID))

	requests := poller.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, keep.ID, requests[0].ID)
}

func TestPollerOnUpdateCallback(t *testing.T) {
	backend, client := newBackend(t)
	backend.SeedSOS(models.SOSRequest{UserName: "Dan", Latitude: 1, Longitude: 1})

	poller := sos.NewPoller(client, time.Minute)
	var snapshots [][]models.SOSRequest
	poller.OnUpdate(func(requests []models.SOSRequest) {
		snapshots = append(snapshots, requests)
	})

	require.NoError(t, poller.Refresh(context.Background()))
	require.Len(t, snapshots, 1)
	assert.Len(t, snapshots[0], 1)
}
