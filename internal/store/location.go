package store

import (
	"context"
	"fmt"
	"sync"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
	"floodwatch-client/pkg/validate"
)

// LocationStore caches monitored locations and the user's subscriptions.
// "Subscribed" is derived at read time from the userLocations cache; there
// is no separate flag, so a stale cache means stale subscription state.
type LocationStore struct {
	client *api.Client

	mu            sync.RWMutex
	locations     []models.Location
	userLocations []models.UserLocation
	current       *models.Location
	isLoading     bool
	err           string
}

func NewLocationStore(client *api.Client) *LocationStore {
	return &LocationStore{client: client}
}

func (s *LocationStore) FetchLocations(ctx context.Context) error {
	s.begin()

	var locations []models.Location
	if err := s.client.Get(ctx, "/locations", nil, &locations); err != nil {
		msg, record := errMessage(err)
		s.mu.Lock()
		if record {
			s.err = msg
		}
		s.locations = nil
		s.isLoading = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.locations = locations
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

func (s *LocationStore) FetchLocationByID(ctx context.Context, id int) error {
	s.begin()

	var location models.Location
	if err := s.client.Get(ctx, fmt.Sprintf("/locations/%d", id), nil, &location); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.current = &location
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

func (s *LocationStore) FetchUserLocations(ctx context.Context) error {
	s.begin()

	var userLocations []models.UserLocation
	if err := s.client.Get(ctx, "/user/locations", nil, &userLocations); err != nil {
		msg, record := errMessage(err)
		s.mu.Lock()
		if record {
			s.err = msg
		}
		s.userLocations = nil
		s.isLoading = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.userLocations = userLocations
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

// Subscribe follows a location. The returned record is spliced into the
// cache immediately for instant feedback, then one reconciling re-fetch
// confirms against the backend.
func (s *LocationStore) Subscribe(ctx context.Context, input models.SubscribeLocationInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}

	s.begin()

	var created models.UserLocation
	if err := s.client.Post(ctx, "/user/locations/subscribe", input, &created); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.userLocations = append(s.userLocations, created)
	s.isLoading = false
	s.mu.Unlock()

	return s.FetchUserLocations(ctx)
}

// Unsubscribe removes a subscription by its UserLocation id, patching the
// cache in place before the reconciling re-fetch.
func (s *LocationStore) Unsubscribe(ctx context.Context, userLocationID int) error {
	s.begin()

	if err := s.client.Delete(ctx, fmt.Sprintf("/user/locations/%d", userLocationID)); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	kept := s.userLocations[:0]
	for _, ul := range s.userLocations {
		if ul.ID != userLocationID {
			kept = append(kept, ul)
		}
	}
	s.userLocations = kept
	s.isLoading = false
	s.mu.Unlock()

	return s.FetchUserLocations(ctx)
}

// IsSubscribed scans the cached subscriptions for the location.
func (s *LocationStore) IsSubscribed(locationID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ul := range s.userLocations {
		if ul.LocationID == locationID {
			return true
		}
	}
	return false
}

// SubscribedIDs returns an index of location id to subscription id,
// maintained from the same cache IsSubscribed scans.
func (s *LocationStore) SubscribedIDs() map[int]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	index := make(map[int]int, len(s.userLocations))
	for _, ul := range s.userLocations {
		index[ul.LocationID] = ul.ID
	}
	return index
}

func (s *LocationStore) Locations() []models.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Location, len(s.locations))
	copy(out, s.locations)
	return out
}

func (s *LocationStore) UserLocations() []models.UserLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UserLocation, len(s.userLocations))
	copy(out, s.userLocations)
	return out
}

func (s *LocationStore) Current() *models.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	l := *s.current
	return &l
}

func (s *LocationStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *LocationStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *LocationStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

func (s *LocationStore) begin() {
	s.mu.Lock()
	s.isLoading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *LocationStore) fail(err error) {
	msg, record := errMessage(err)
	s.mu.Lock()
	if record {
		s.err = msg
	}
	s.isLoading = false
	s.mu.Unlock()
}
