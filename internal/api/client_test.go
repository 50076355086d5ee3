package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodwatch-client/internal/models"
	"floodwatch-client/internal/session"
)

func newTestSession(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(t.TempDir())
	require.NoError(t, store.Hydrate())
	return store
}

func loggedIn(t *testing.T, store *session.Store) {
	t.Helper()
	user := &models.User{ID: 1, Email: "a@b.c", FullName: "Tester", Role: models.RoleUser}
	require.NoError(t, store.Set(user, "test-token"))
}

func TestBearerAndRequestIDInjected(t *testing.T) {
	var gotAuth, gotRequestID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	defer ts.Close()

	sess := newTestSession(t)
	loggedIn(t, sess)
	client := NewClient(ts.URL, 5*time.Second, sess)

	require.NoError(t, client.Get(context.Background(), "/ping", nil, nil))

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestNoBearerWhenAnonymous(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second, newTestSession(t))
	require.NoError(t, client.Get(context.Background(), "/ping", nil, nil))

	assert.Empty(t, gotAuth)
}

func TestUnauthorizedClearsSessionAndFiresHook(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Invalid token"}`))
	}))
	defer ts.Close()

	sess := newTestSession(t)
	loggedIn(t, sess)
	client := NewClient(ts.URL, 5*time.Second, sess)

	hookFired := false
	client.SetUnauthorizedHook(func() { hookFired = true })

	err := client.Get(context.Background(), "/protected", nil, nil)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, hookFired)
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.Token())
}

func TestEnvelopeErrorMessageSurfaced(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"Invalid email or password"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second, newTestSession(t))

	err := client.Post(context.Background(), "/auth/login", map[string]string{}, nil)

	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", Message(err))
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestEnvelopeSuccessFalseIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// HTTP 200 but success=false still counts as failure.
		w.Write([]byte(`{"success":false,"message":"nope"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second, newTestSession(t))

	err := client.Get(context.Background(), "/x", nil, nil)
	assert.Equal(t, "nope", Message(err))
}

func TestEnvelopeDataDecoded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"message":"ok","data":{"id":3,"name":"Delta","province":"An Giang","latitude":10.5,"longitude":105.1}}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second, newTestSession(t))

	var loc models.Location
	require.NoError(t, client.Get(context.Background(), "/locations/3", nil, &loc))
	assert.Equal(t, 3, loc.ID)
	assert.Equal(t, "Delta", loc.Name)
}

func TestGetPagedDecodesListAndPagination(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"message":"ok","data":{"data":[{"id":1},{"id":2}],"total":42,"limit":2,"offset":0}}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second, newTestSession(t))

	var users []models.User
	page, err := client.GetPaged(context.Background(), "/admin/users", nil, &users)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 42, page.Total)
	assert.Equal(t, 2, page.Limit)
}

func TestGetRawDecodesBareJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"status":"pending"}]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second, newTestSession(t))

	var requests []models.SOSRequest
	require.NoError(t, client.GetRaw(context.Background(), "/sos/", &requests))
	require.Len(t, requests, 1)
	assert.Equal(t, "pending", requests[0].Status)
}

func TestRawErrorCarriesEnvelopeMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"Alert not found"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second, newTestSession(t))

	err := client.GetRaw(context.Background(), "/alerts/999", nil)
	assert.Equal(t, "Alert not found", Message(err))
}
