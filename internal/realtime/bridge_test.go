package realtime_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
	"floodwatch-client/internal/realtime"
	"floodwatch-client/internal/session"
	"floodwatch-client/internal/store"
	"floodwatch-client/internal/stubserver"
)

// fetchCounter wraps the stub router and counts the re-fetches the bridge
// issues in response to pushed events.
type fetchCounter struct {
	next http.Handler

	mu            sync.Mutex
	notifications int
	alerts        int
}

func (f *fetchCounter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		f.mu.Lock()
		switch r.URL.Path {
		case "/api/v1/notifications":
			f.notifications++
		case "/api/v1/alerts":
			f.alerts++
		}
		f.mu.Unlock()
	}
	f.next.ServeHTTP(w, r)
}

func (f *fetchCounter) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notifications, f.alerts
}

type bridgeEnv struct {
	backend       *stubserver.Server
	counter       *fetchCounter
	bridge        *realtime.Bridge
	notifications *store.NotificationStore
	alerts        *store.AlertStore
	user          models.User
}

func newBridgeEnv(t *testing.T) *bridgeEnv {
	t.Helper()

	backend := stubserver.NewServer("test-jwt-secret", "test-key", "test-pusher-secret")
	counter := &fetchCounter{next: backend.Router()}
	ts := httptest.NewServer(counter)
	t.Cleanup(ts.Close)

	sess := session.NewStore(t.TempDir())
	require.NoError(t, sess.Hydrate())
	client := api.NewClient(ts.URL+"/api/v1", 5*time.Second, sess)

	user := backend.SeedUser("user@test.dev", "secret123", "Watcher", models.RoleUser)
	auth := store.NewAuthStore(client, sess)
	_, err := auth.Login(context.Background(), models.LoginInput{
		Email:    "user@test.dev",
		Password: "secret123",
	})
	require.NoError(t, err)

	notifications := store.NewNotificationStore(client)
	alerts := store.NewAlertStore(client)

	wsHost := "ws" + strings.TrimPrefix(ts.URL, "http")
	bridge := realtime.NewBridge("test-key", "", wsHost, client, sess, notifications, alerts)
	t.Cleanup(bridge.Close)

	return &bridgeEnv{
		backend:       backend,
		counter:       counter,
		bridge:        bridge,
		notifications: notifications,
		alerts:        alerts,
		user:          user,
	}
}

func (e *bridgeEnv) connect(t *testing.T) {
	t.Helper()
	require.NoError(t, e.bridge.Connect(context.Background()))
	require.Eventually(t, func() bool {
		return e.bridge.State() == realtime.StateSubscribed
	}, 3*time.Second, 10*time.Millisecond, "subscription ack never arrived")
}

func TestConnectSubscribesPrivateChannel(t *testing.T) {
	e := newBridgeEnv(t)
	e.connect(t)
	assert.Equal(t, "subscribed", e.bridge.State().String())
}

func TestAlertEventTriggersBothRefetches(t *testing.T) {
	e := newBridgeEnv(t)
	e.connect(t)

	baseNotif, baseAlerts := e.counter.counts()

	e.backend.TriggerNotification(e.user.ID, models.Notification{
		Type:    models.NotificationTypeAlert,
		Title:   "Flood warning",
		Message: "Water rising",
	})

	require.Eventually(t, func() bool {
		n, a := e.counter.counts()
		return n == baseNotif+1 && a == baseAlerts+1
	}, 3*time.Second, 10*time.Millisecond)

	// Blind re-fetch, exactly once per event.
	time.Sleep(200 * time.Millisecond)
	n, a := e.counter.counts()
	assert.Equal(t, baseNotif+1, n)
	assert.Equal(t, baseAlerts+1, a)

	got := e.notifications.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, "Flood warning", got[0].Title)
}

func TestInfoEventSkipsAlertRefetch(t *testing.T) {
	e := newBridgeEnv(t)
	e.connect(t)

	baseNotif, baseAlerts := e.counter.counts()

	e.backend.TriggerNotification(e.user.ID, models.Notification{
		Type:    models.NotificationTypeInfo,
		Title:   "Welcome",
		Message: "Thanks for joining",
	})

	require.Eventually(t, func() bool {
		n, _ := e.counter.counts()
		return n == baseNotif+1
	}, 3*time.Second, 10*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	_, a := e.counter.counts()
	assert.Equal(t, baseAlerts, a, "non-alert events leave the alert cache alone")
}

func TestConnectWithoutKeyDisabled(t *testing.T) {
	e := newBridgeEnv(t)
	bridge := realtime.NewBridge("", "", "", nil, nil, e.notifications, e.alerts)

	err := bridge.Connect(context.Background())
	assert.ErrorIs(t, err, realtime.ErrRealtimeDisabled)
}

func TestConnectRequiresAuthentication(t *testing.T) {
	sess := session.NewStore(t.TempDir())
	require.NoError(t, sess.Hydrate())

	bridge := realtime.NewBridge("test-key", "", "ws://127.0.0.1:1", nil, sess, nil, nil)
	err := bridge.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")
}

func TestConnectTwiceRejected(t *testing.T) {
	e := newBridgeEnv(t)
	e.connect(t)

	err := e.bridge.Connect(context.Background())
	require.Error(t, err)
}

func TestCloseResetsState(t *testing.T) {
	e := newBridgeEnv(t)
	e.connect(t)

	e.bridge.Close()
	assert.Equal(t, realtime.StateDisconnected, e.bridge.State())
}
