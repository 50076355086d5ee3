package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodwatch-client/internal/models"
	"floodwatch-client/internal/store"
)

func seedInbox(e *env) (models.Notification, models.Notification) {
	unread := e.backend.SeedNotification(models.Notification{
		UserID:  e.user.ID,
		Type:    models.NotificationTypeAlert,
		Title:   "Flood warning",
		Message: "Water rising",
	})
	read := e.backend.SeedNotification(models.Notification{
		UserID:  e.user.ID,
		Type:    models.NotificationTypeInfo,
		Title:   "Welcome",
		Message: "Thanks for joining",
		IsRead:  true,
	})
	return unread, read
}

func TestFetchNotificationsCountsUnread(t *testing.T) {
	e := newEnv(t)
	seedInbox(e)
	// Another user's notification must not leak in.
	e.backend.SeedNotification(models.Notification{UserID: e.admin.ID, Title: "other"})

	e.loginUser(t)
	notifications := store.NewNotificationStore(e.client)
	require.NoError(t, notifications.FetchNotifications(context.Background(), 20, 0))

	assert.Len(t, notifications.Notifications(), 2)
	assert.Equal(t, 1, notifications.UnreadCount())
}

func TestMarkAsReadPatchesLocally(t *testing.T) {
	e := newEnv(t)
	unread, _ := seedInbox(e)

	e.loginUser(t)
	notifications := store.NewNotificationStore(e.client)
	require.NoError(t, notifications.FetchNotifications(context.Background(), 20, 0))

	base := e.counter.get("/api/v1/notifications")
	require.NoError(t, notifications.MarkAsRead(context.Background(), unread.ID))
	assert.Equal(t, 0, notifications.UnreadCount())
	for _, n := range notifications.Notifications() {
		assert.True(t, n.IsRead)
	}
	assert.Equal(t, base, e.counter.get("/api/v1/notifications"), "read state patches locally, no re-fetch")

	// Backend agrees on the next full fetch.
	require.NoError(t, notifications.FetchNotifications(context.Background(), 20, 0))
	assert.Equal(t, 0, notifications.UnreadCount())
}

func TestMarkAllAsRead(t *testing.T) {
	e := newEnv(t)
	seedInbox(e)
	e.backend.SeedNotification(models.Notification{
		UserID: e.user.ID,
		Type:   models.NotificationTypeSystem,
		Title:  "Maintenance",
	})

	e.loginUser(t)
	notifications := store.NewNotificationStore(e.client)
	require.NoError(t, notifications.FetchNotifications(context.Background(), 20, 0))
	require.Equal(t, 2, notifications.UnreadCount())

	require.NoError(t, notifications.MarkAllAsRead(context.Background()))
	assert.Equal(t, 0, notifications.UnreadCount())
}

func TestDeleteNotificationAdjustsUnread(t *testing.T) {
	e := newEnv(t)
	unread, read := seedInbox(e)

	e.loginUser(t)
	notifications := store.NewNotificationStore(e.client)
	require.NoError(t, notifications.FetchNotifications(context.Background(), 20, 0))

	require.NoError(t, notifications.DeleteNotification(context.Background(), unread.ID))
	assert.Equal(t, 0, notifications.UnreadCount())

	got := notifications.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, read.ID, got[0].ID)
}

func TestIsAlertRelated(t *testing.T) {
	alertID := 5
	cases := []struct {
		name string
		n    models.Notification
		want bool
	}{
		{"alert type", models.Notification{Type: models.NotificationTypeAlert}, true},
		{"alert id only", models.Notification{Type: models.NotificationTypeInfo, AlertID: &alertID}, true},
		{"plain info", models.Notification{Type: models.NotificationTypeInfo}, false},
		{"system", models.Notification{Type: models.NotificationTypeSystem}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.n.IsAlertRelated())
		})
	}
}
