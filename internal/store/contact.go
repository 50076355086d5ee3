package store

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
	"floodwatch-client/pkg/validate"
)

// ContactStore caches the personal emergency contact list. Mutations carry
// the optional avatar in the same multipart request as the form fields and
// are reconciled by one follow-up re-fetch.
type ContactStore struct {
	client *api.Client

	mu        sync.RWMutex
	contacts  []models.Contact
	current   *models.Contact
	isLoading bool
	err       string
}

func NewContactStore(client *api.Client) *ContactStore {
	return &ContactStore{client: client}
}

func (s *ContactStore) FetchContacts(ctx context.Context) error {
	s.begin()

	var contacts []models.Contact
	if err := s.client.Get(ctx, "/contacts", nil, &contacts); err != nil {
		msg, record := errMessage(err)
		s.mu.Lock()
		if record {
			s.err = msg
		}
		s.contacts = nil
		s.isLoading = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.contacts = contacts
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

func (s *ContactStore) FetchContactByID(ctx context.Context, id int) error {
	s.begin()

	var contact models.Contact
	if err := s.client.Get(ctx, fmt.Sprintf("/contacts/%d", id), nil, &contact); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.current = &contact
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

func (s *ContactStore) CreateContact(ctx context.Context, input models.ContactInput, avatarName string, avatar io.Reader) error {
	if err := validate.Struct(input); err != nil {
		return err
	}

	s.begin()

	var created models.Contact
	if err := s.client.PostMultipart(ctx, "/contacts", contactFields(input), "avatar", avatarName, avatar, &created); err != nil {
		s.fail(err)
		return err
	}

	return s.FetchContacts(ctx)
}

func (s *ContactStore) UpdateContact(ctx context.Context, id int, input models.ContactInput, avatarName string, avatar io.Reader) error {
	if err := validate.Struct(input); err != nil {
		return err
	}

	s.begin()

	var updated models.Contact
	if err := s.client.PutMultipart(ctx, fmt.Sprintf("/contacts/%d", id), contactFields(input), "avatar", avatarName, avatar, &updated); err != nil {
		s.fail(err)
		return err
	}

	return s.FetchContacts(ctx)
}

func (s *ContactStore) DeleteContact(ctx context.Context, id int) error {
	s.begin()

	if err := s.client.Delete(ctx, fmt.Sprintf("/contacts/%d", id)); err != nil {
		s.fail(err)
		return err
	}

	return s.FetchContacts(ctx)
}

func contactFields(input models.ContactInput) map[string]string {
	fields := map[string]string{
		"full_name":    input.FullName,
		"phone":        input.Phone,
		"is_emergency": strconv.FormatBool(input.IsEmergency),
	}
	if input.Email != "" {
		fields["email"] = input.Email
	}
	if input.Relationship != "" {
		fields["relationship"] = input.Relationship
	}
	return fields
}

func (s *ContactStore) Contacts() []models.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Contact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

func (s *ContactStore) Current() *models.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

func (s *ContactStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *ContactStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *ContactStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

func (s *ContactStore) begin() {
	s.mu.Lock()
	s.isLoading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *ContactStore) fail(err error) {
	msg, record := errMessage(err)
	s.mu.Lock()
	if record {
		s.err = msg
	}
	s.isLoading = false
	s.mu.Unlock()
}
