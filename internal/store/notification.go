package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
)

// NotificationStore caches delivered notifications. Read-state mutations
// patch the slice locally, mirroring the backend's committed result; the
// realtime bridge keeps the list fresh by triggering FetchNotifications.
type NotificationStore struct {
	client *api.Client

	mu            sync.RWMutex
	notifications []models.Notification
	unreadCount   int
	isLoading     bool
	err           string
}

func NewNotificationStore(client *api.Client) *NotificationStore {
	return &NotificationStore{client: client}
}

func (s *NotificationStore) FetchNotifications(ctx context.Context, limit, offset int) error {
	s.begin()

	query := map[string]string{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	}
	var notifications []models.Notification
	if err := s.client.Get(ctx, "/notifications", query, &notifications); err != nil {
		msg, record := errMessage(err)
		s.mu.Lock()
		if record {
			s.err = msg
		}
		s.notifications = nil
		s.unreadCount = 0
		s.isLoading = false
		s.mu.Unlock()
		return err
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}

	s.mu.Lock()
	s.notifications = notifications
	s.unreadCount = unread
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

func (s *NotificationStore) MarkAsRead(ctx context.Context, id int) error {
	if err := s.client.Put(ctx, fmt.Sprintf("/notifications/%d/read", id), nil, nil); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == id && !s.notifications[i].IsRead {
			s.notifications[i].IsRead = true
			if s.unreadCount > 0 {
				s.unreadCount--
			}
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *NotificationStore) MarkAllAsRead(ctx context.Context) error {
	if err := s.client.Post(ctx, "/notifications/mark-all-read", nil, nil); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	for i := range s.notifications {
		s.notifications[i].IsRead = true
	}
	s.unreadCount = 0
	s.mu.Unlock()
	return nil
}

func (s *NotificationStore) DeleteNotification(ctx context.Context, id int) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/notifications/%d", id)); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if n.ID != id {
			kept = append(kept, n)
		} else if !n.IsRead && s.unreadCount > 0 {
			s.unreadCount--
		}
	}
	s.notifications = kept
	s.mu.Unlock()
	return nil
}

func (s *NotificationStore) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

func (s *NotificationStore) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unreadCount
}

func (s *NotificationStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *NotificationStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *NotificationStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

func (s *NotificationStore) begin() {
	s.mu.Lock()
	s.isLoading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *NotificationStore) fail(err error) {
	msg, record := errMessage(err)
	s.mu.Lock()
	if record {
		s.err = msg
	}
	s.isLoading = false
	s.mu.Unlock()
}
