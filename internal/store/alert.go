package store

import (
	"context"
	"fmt"
	"sync"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
)

// AlertStore caches the flood alert collection. The public alert routes
// return bare JSON arrays; the per-user route speaks the envelope.
type AlertStore struct {
	client *api.Client

	mu        sync.RWMutex
	alerts    []models.Alert
	current   *models.Alert
	isLoading bool
	err       string
}

func NewAlertStore(client *api.Client) *AlertStore {
	return &AlertStore{client: client}
}

// FetchAlerts replaces the cached collection wholesale. A failed fetch
// resets the cache to empty rather than preserving stale data.
func (s *AlertStore) FetchAlerts(ctx context.Context, limit, offset int) error {
	s.begin()

	path := fmt.Sprintf("/alerts?limit=%d&offset=%d", limit, offset)
	var alerts []models.Alert
	if err := s.client.GetRaw(ctx, path, &alerts); err != nil {
		s.failList(err)
		return err
	}

	s.mu.Lock()
	s.alerts = alerts
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

func (s *AlertStore) FetchAlertByID(ctx context.Context, id int) error {
	s.begin()

	var alert models.Alert
	if err := s.client.GetRaw(ctx, fmt.Sprintf("/alerts/%d", id), &alert); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.current = &alert
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

func (s *AlertStore) FetchAlertsByLocation(ctx context.Context, locationID int) error {
	s.begin()

	var alerts []models.Alert
	if err := s.client.GetRaw(ctx, fmt.Sprintf("/alerts/location/%d", locationID), &alerts); err != nil {
		s.failList(err)
		return err
	}

	s.mu.Lock()
	s.alerts = alerts
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

// FetchUserAlerts loads the alerts for the locations the user follows.
func (s *AlertStore) FetchUserAlerts(ctx context.Context) error {
	s.begin()

	var alerts []models.Alert
	if err := s.client.Get(ctx, "/user/alerts", nil, &alerts); err != nil {
		s.failList(err)
		return err
	}

	s.mu.Lock()
	s.alerts = alerts
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

func (s *AlertStore) Alerts() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

func (s *AlertStore) Current() *models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	a := *s.current
	return &a
}

func (s *AlertStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *AlertStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *AlertStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

func (s *AlertStore) begin() {
	s.mu.Lock()
	s.isLoading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *AlertStore) fail(err error) {
	msg, record := errMessage(err)
	s.mu.Lock()
	if record {
		s.err = msg
	}
	s.isLoading = false
	s.mu.Unlock()
}

func (s *AlertStore) failList(err error) {
	msg, record := errMessage(err)
	s.mu.Lock()
	if record {
		s.err = msg
	}
	s.alerts = nil
	s.isLoading = false
	s.mu.Unlock()
}
