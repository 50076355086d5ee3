package store_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
	"floodwatch-client/internal/session"
	"floodwatch-client/internal/store"
	"floodwatch-client/internal/stubserver"
)

// requestCounter wraps the stub router and counts GET requests per path, so
// tests can pin exactly how many re-fetches a mutation caused.
type requestCounter struct {
	next http.Handler

	mu   sync.Mutex
	gets map[string]int
}

func (rc *requestCounter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		rc.mu.Lock()
		rc.gets[r.URL.Path]++
		rc.mu.Unlock()
	}
	rc.next.ServeHTTP(w, r)
}

func (rc *requestCounter) get(path string) int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.gets[path]
}

// env runs a full client stack against the in-memory stub backend.
type env struct {
	backend *stubserver.Server
	counter *requestCounter
	ts      *httptest.Server
	session *session.Store
	client  *api.Client
	auth    *store.AuthStore

	user  models.User
	admin models.User
}

func newEnv(t *testing.T) *env {
	t.Helper()

	backend := stubserver.NewServer("test-jwt-secret", "test-key", "test-pusher-secret")
	counter := &requestCounter{next: backend.Router(), gets: make(map[string]int)}
	ts := httptest.NewServer(counter)
	t.Cleanup(ts.Close)

	sess := session.NewStore(t.TempDir())
	require.NoError(t, sess.Hydrate())

	client := api.NewClient(ts.URL+"/api/v1", 5*time.Second, sess)

	return &env{
		backend: backend,
		counter: counter,
		ts:      ts,
		session: sess,
		client:  client,
		auth:    store.NewAuthStore(client, sess),
		user:    backend.SeedUser("user@test.dev", "secret123", "Plain User", models.RoleUser),
		admin:   backend.SeedUser("admin@test.dev", "secret123", "Admin User", models.RoleAdmin),
	}
}

func (e *env) loginUser(t *testing.T) {
	t.Helper()
	route, err := e.auth.Login(context.Background(), models.LoginInput{
		Email:    "user@test.dev",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.Equal(t, store.RouteDashboard, route)
}

func (e *env) loginAdmin(t *testing.T) {
	t.Helper()
	route, err := e.auth.Login(context.Background(), models.LoginInput{
		Email:    "admin@test.dev",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.Equal(t, store.RouteAdmin, route)
}

func (e *env) seedLocation(name string) models.Location {
	return e.backend.SeedLocation(models.Location{
		Name:         name,
		Province:     "Test Province",
		Latitude:     10.5,
		Longitude:    105.1,
		IsMonitoring: true,
	})
}

func (e *env) seedAlert(locationID int, level string, active bool) models.Alert {
	return e.backend.SeedAlert(models.Alert{
		LocationID:  locationID,
		Level:       level,
		Title:       "Water rising at gauge",
		Description: "Level above threshold",
		IsActive:    active,
	})
}
