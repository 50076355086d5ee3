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

// AdminStore is the aggregate cache behind the admin screens: users,
// alerts, locations and articles, each with its own pagination, plus the
// dashboard statistics. Admin list endpoints return wrapped paginated
// objects, unlike the public routes.
type AdminStore struct {
	client *api.Client

	mu        sync.RWMutex
	users     []models.User
	alerts    []models.Alert
	locations []models.Location
	articles  []models.Article

	usersPage     *models.Pagination
	alertsPage    *models.Pagination
	locationsPage *models.Pagination
	articlesPage  *models.Pagination

	statistics *models.Statistics
	isLoading  bool
	err        string
}

func NewAdminStore(client *api.Client) *AdminStore {
	return &AdminStore{client: client}
}

func pageQuery(limit, offset int) map[string]string {
	return map[string]string{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	}
}

// Users

func (s *AdminStore) FetchUsers(ctx context.Context, limit, offset int) error {
	s.begin()

	var users []models.User
	page, err := s.client.GetPaged(ctx, "/admin/users", pageQuery(limit, offset), &users)
	if err != nil {
		msg, record := errMessage(err)
		s.mu.Lock()
		if record {
			s.err = msg
		}
		s.users = nil
		s.usersPage = nil
		s.isLoading = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.users = users
	s.usersPage = page
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

func (s *AdminStore) ToggleUserStatus(ctx context.Context, id int) error {
	if err := s.client.Put(ctx, fmt.Sprintf("/admin/users/%d/status", id), nil, nil); err != nil {
		s.fail(err)
		return err
	}
	return s.FetchUsers(ctx, defaultLimit, 0)
}

func (s *AdminStore) DeleteUser(ctx context.Context, id int) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/admin/users/%d", id)); err != nil {
		s.fail(err)
		return err
	}
	return s.FetchUsers(ctx, defaultLimit, 0)
}

// Alerts

func (s *AdminStore) FetchAlerts(ctx context.Context, limit, offset int) error {
	s.begin()

	var alerts []models.Alert
	page, err := s.client.GetPaged(ctx, "/admin/alerts", pageQuery(limit, offset), &alerts)
	if err != nil {
		msg, record := errMessage(err)
		s.mu.Lock()
		if record {
			s.err = msg
		}
		s.alerts = nil
		s.alertsPage = nil
		s.isLoading = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.alerts = alerts
	s.alertsPage = page
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

func (s *AdminStore) CreateAlert(ctx context.Context, input models.AlertInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	s.begin()
	if err := s.client.Post(ctx, "/admin/alerts", input, nil); err != nil {
		s.fail(err)
		return err
	}
	return s.FetchAlerts(ctx, defaultLimit, 0)
}

func (s *AdminStore) UpdateAlert(ctx context.Context, id int, input models.AlertInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	s.begin()
	if err := s.client.Put(ctx, fmt.Sprintf("/admin/alerts/%d", id), input, nil); err != nil {
		s.fail(err)
		return err
	}
	return s.FetchAlerts(ctx, defaultLimit, 0)
}

func (s *AdminStore) DeleteAlert(ctx context.Context, id int) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/admin/alerts/%d", id)); err != nil {
		s.fail(err)
		return err
	}
	return s.FetchAlerts(ctx, defaultLimit, 0)
}

// Locations

func (s *AdminStore) FetchLocations(ctx context.Context, limit, offset int) error {
	s.begin()

	var locations []models.Location
	page, err := s.client.GetPaged(ctx, "/admin/locations", pageQuery(limit, offset), &locations)
	if err != nil {
		msg, record := errMessage(err)
		s.mu.Lock()
		if record {
			s.err = msg
		}
		s.locations = nil
		s.locationsPage = nil
		s.isLoading = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.locations = locations
	s.locationsPage = page
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

func (s *AdminStore) CreateLocation(ctx context.Context, input models.LocationInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	s.begin()
	if err := s.client.Post(ctx, "/admin/locations", input, nil); err != nil {
		s.fail(err)
		return err
	}
	return s.FetchLocations(ctx, defaultLimit, 0)
}

func (s *AdminStore) UpdateLocation(ctx context.Context, id int, input models.LocationInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	s.begin()
	if err := s.client.Put(ctx, fmt.Sprintf("/admin/locations/%d", id), input, nil); err != nil {
		s.fail(err)
		return err
	}
	return s.FetchLocations(ctx, defaultLimit, 0)
}

func (s *AdminStore) DeleteLocation(ctx context.Context, id int) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/admin/locations/%d", id)); err != nil {
		s.fail(err)
		return err
	}
	return s.FetchLocations(ctx, defaultLimit, 0)
}

// Articles

func (s *AdminStore) FetchArticles(ctx context.Context, limit, offset int) error {
	s.begin()

	var articles []models.Article
	page, err := s.client.GetPaged(ctx, "/admin/articles", pageQuery(limit, offset), &articles)
	if err != nil {
		msg, record := errMessage(err)
		s.mu.Lock()
		if record {
			s.err = msg
		}
		s.articles = nil
		s.articlesPage = nil
		s.isLoading = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.articles = articles
	s.articlesPage = page
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

// CreateArticle sends the article fields together with an optional
// thumbnail in one multipart request.
func (s *AdminStore) CreateArticle(ctx context.Context, input models.ArticleInput, thumbName string, thumb io.Reader) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	s.begin()
	if err := s.client.PostMultipart(ctx, "/admin/articles", articleFields(input), "thumbnail", thumbName, thumb, nil); err != nil {
		s.fail(err)
		return err
	}
	return s.FetchArticles(ctx, defaultLimit, 0)
}

func (s *AdminStore) UpdateArticle(ctx context.Context, id int, input models.ArticleInput, thumbName string, thumb io.Reader) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	s.begin()
	if err := s.client.PutMultipart(ctx, fmt.Sprintf("/admin/articles/%d", id), articleFields(input), "thumbnail", thumbName, thumb, nil); err != nil {
		s.fail(err)
		return err
	}
	return s.FetchArticles(ctx, defaultLimit, 0)
}

func (s *AdminStore) DeleteArticle(ctx context.Context, id int) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/admin/articles/%d", id)); err != nil {
		s.fail(err)
		return err
	}
	return s.FetchArticles(ctx, defaultLimit, 0)
}

func articleFields(input models.ArticleInput) map[string]string {
	fields := map[string]string{
		"title":        input.Title,
		"content":      input.Content,
		"category":     input.Category,
		"is_published": strconv.FormatBool(input.IsPublished),
	}
	if input.Summary != "" {
		fields["summary"] = input.Summary
	}
	return fields
}

// Statistics

func (s *AdminStore) FetchStatistics(ctx context.Context) error {
	s.begin()

	var stats models.Statistics
	if err := s.client.Get(ctx, "/admin/statistics", nil, &stats); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.statistics = &stats
	s.isLoading = false
	s.mu.Unlock()
	return nil
}

// Snapshots

func (s *AdminStore) Users() ([]models.User, *models.Pagination) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out, copyPage(s.usersPage)
}

func (s *AdminStore) Alerts() ([]models.Alert, *models.Pagination) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out, copyPage(s.alertsPage)
}

func (s *AdminStore) Locations() ([]models.Location, *models.Pagination) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Location, len(s.locations))
	copy(out, s.locations)
	return out, copyPage(s.locationsPage)
}

func (s *AdminStore) Articles() ([]models.Article, *models.Pagination) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Article, len(s.articles))
	copy(out, s.articles)
	return out, copyPage(s.articlesPage)
}

func (s *AdminStore) Statistics() *models.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.statistics == nil {
		return nil
	}
	st := *s.statistics
	return &st
}

func (s *AdminStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *AdminStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *AdminStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

func copyPage(p *models.Pagination) *models.Pagination {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func (s *AdminStore) begin() {
	s.mu.Lock()
	s.isLoading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *AdminStore) fail(err error) {
	msg, record := errMessage(err)
	s.mu.Lock()
	if record {
		s.err = msg
	}
	s.isLoading = false
	s.mu.Unlock()
}
