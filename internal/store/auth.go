package store

import (
	"context"
	"errors"
	"io"
	"sync"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
	"floodwatch-client/internal/session"
	"floodwatch-client/pkg/validate"
)

// Routes the CLI navigates to after login, by role.
const (
	RouteDashboard = "/dashboard"
	RouteAdmin     = "/admin"
	RouteLogin     = "/login"
)

// AuthStore mediates login/register/logout and delegates the persisted
// subject to the session store, which is the single token source of truth.
type AuthStore struct {
	client  *api.Client
	session *session.Store

	mu        sync.RWMutex
	isLoading bool
	err       string
}

func NewAuthStore(client *api.Client, sess *session.Store) *AuthStore {
	return &AuthStore{client: client, session: sess}
}

type loginPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login authenticates and persists the session. It returns the home route
// for the authenticated role: /admin for admins, /dashboard otherwise.
func (s *AuthStore) Login(ctx context.Context, input models.LoginInput) (string, error) {
	if err := validate.Struct(input); err != nil {
		return "", err
	}

	s.begin()

	var payload loginPayload
	if err := s.client.Post(ctx, "/auth/login", input, &payload); err != nil {
		s.fail(err)
		return "", err
	}

	// A success envelope without both parts would persist an authenticated
	// session with a nil subject; refuse it instead.
	if payload.Token == "" || payload.User == nil {
		err := errors.New("login response missing user or token")
		s.fail(err)
		return "", err
	}

	if err := s.session.Set(payload.User, payload.Token); err != nil {
		s.fail(err)
		return "", err
	}

	s.mu.Lock()
	s.isLoading = false
	s.mu.Unlock()

	if payload.User.IsAdmin() {
		return RouteAdmin, nil
	}
	return RouteDashboard, nil
}

// Register creates an account without logging it in.
func (s *AuthStore) Register(ctx context.Context, input models.RegisterInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}

	s.begin()

	if err := s.client.Post(ctx, "/auth/register", input, nil); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

// Logout clears the persisted session. Realtime teardown is the bridge's
// job; callers close it alongside.
func (s *AuthStore) Logout() {
	s.session.Clear()
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// FetchProfile reloads the profile from the backend and refreshes the
// cached session subject with it.
func (s *AuthStore) FetchProfile(ctx context.Context) (*models.User, error) {
	s.begin()

	var user models.User
	if err := s.client.Get(ctx, "/user/profile", nil, &user); err != nil {
		s.fail(err)
		return nil, err
	}

	if err := s.UpdateUser(&user); err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.isLoading = false
	s.mu.Unlock()
	return &user, nil
}

// UpdateProfile sends the editable fields, and optionally a new avatar, as
// one multipart request. Email stays fixed. The session subject is replaced
// with the profile the backend committed.
func (s *AuthStore) UpdateProfile(ctx context.Context, input models.ProfileInput, avatarName string, avatar io.Reader) (*models.User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	s.begin()

	fields := map[string]string{"full_name": input.FullName}
	if input.Phone != "" {
		fields["phone"] = input.Phone
	}
	if input.Address != "" {
		fields["address"] = input.Address
	}

	var user models.User
	if err := s.client.PutMultipart(ctx, "/user/profile", fields, "avatar", avatarName, avatar, &user); err != nil {
		s.fail(err)
		return nil, err
	}

	if err := s.UpdateUser(&user); err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.isLoading = false
	s.mu.Unlock()
	return &user, nil
}

// ChangePassword verifies the old password server-side and replaces it.
// The session and token stay as they are.
func (s *AuthStore) ChangePassword(ctx context.Context, input models.ChangePasswordInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}

	s.begin()

	if err := s.client.Put(ctx, "/user/password", input, nil); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

// UpdateUser replaces the cached session subject after a profile change.
func (s *AuthStore) UpdateUser(user *models.User) error {
	return s.session.SetUser(user)
}

func (s *AuthStore) User() *models.User {
	return s.session.User()
}

func (s *AuthStore) IsAuthenticated() bool {
	return s.session.IsAuthenticated()
}

func (s *AuthStore) IsHydrated() bool {
	return s.session.Hydrated()
}

func (s *AuthStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *AuthStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *AuthStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

func (s *AuthStore) begin() {
	s.mu.Lock()
	s.isLoading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *AuthStore) fail(err error) {
	msg, record := errMessage(err)
	s.mu.Lock()
	if record {
		s.err = msg
	}
	s.isLoading = false
	s.mu.Unlock()
}
