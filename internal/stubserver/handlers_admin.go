package stubserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"floodwatch-client/internal/models"
)

func pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// paged wraps an admin list in the pagination envelope the dashboard expects.
func paged(c *gin.Context, message string, items interface{}, total, limit, offset int) {
	ok(c, message, gin.H{
		"data":   items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func pageSlice[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// Users

func (s *Server) handleAdminListUsers(c *gin.Context) {
	limit, offset := pageParams(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, id := range sortedIDs(s.users) {
		users = append(users, s.users[id].User)
	}
	paged(c, "Users", pageSlice(users, limit, offset), len(users), limit, offset)
}

func (s *Server) handleAdminToggleUser(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.users[id]
	if !exists {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	record.IsActive = !record.IsActive
	record.UpdatedAt = time.Now()

	ok(c, "User status updated", record.User)
}

func (s *Server) handleAdminDeleteUser(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[id]; !exists {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	delete(s.users, id)

	ok(c, "User deleted", nil)
}

// Alerts

func (s *Server) handleAdminListAlerts(c *gin.Context) {
	limit, offset := pageParams(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	alerts := make([]models.Alert, 0, len(s.alerts))
	for _, id := range sortedIDs(s.alerts) {
		alerts = append(alerts, s.withLocation(s.alerts[id]))
	}
	paged(c, "Alerts", pageSlice(alerts, limit, offset), len(alerts), limit, offset)
}

func (s *Server) handleAdminCreateAlert(c *gin.Context) {
	var input models.AlertInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.locations[input.LocationID]; !exists {
		fail(c, http.StatusNotFound, "Location not found")
		return
	}

	now := time.Now()
	alert := models.Alert{
		ID:                 s.allocID(),
		LocationID:         input.LocationID,
		Level:              input.Level,
		Title:              input.Title,
		Description:        input.Description,
		WaterLevel:         input.WaterLevel,
		Rainfall:           input.Rainfall,
		WindSpeed:          input.WindSpeed,
		Temperature:        input.Temperature,
		Humidity:           input.Humidity,
		Forecast:           input.Forecast,
		SafetyInstructions: input.SafetyInstructions,
		Shelters:           input.Shelters,
		EmergencyContacts:  input.EmergencyContacts,
		IsActive:           input.IsActive,
		CreatedBy:          currentUserID(c),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	s.alerts[alert.ID] = alert

	// Fan out a notification to every follower of the location.
	for _, record := range s.users {
		if !record.IsActive {
			continue
		}
		for _, ul := range s.userLocations {
			if ul.UserID == record.ID && ul.LocationID == alert.LocationID {
				alertID := alert.ID
				n := models.Notification{
					ID:      s.allocID(),
					UserID:  record.ID,
					Type:    models.NotificationTypeAlert,
					Title:   alert.Title,
					Message: alert.Description,
					AlertID: &alertID,
					SentAt:  now,
				}
				s.notifications[n.ID] = n
				break
			}
		}
	}

	created(c, "Alert created", alert)
}

func (s *Server) handleAdminUpdateAlert(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid alert id")
		return
	}

	var input models.AlertInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	alert, exists := s.alerts[id]
	if !exists {
		fail(c, http.StatusNotFound, "Alert not found")
		return
	}

	alert.LocationID = input.LocationID
	alert.Level = input.Level
	alert.Title = input.Title
	alert.Description = input.Description
	alert.WaterLevel = input.WaterLevel
	alert.Rainfall = input.Rainfall
	alert.WindSpeed = input.WindSpeed
	alert.Temperature = input.Temperature
	alert.Humidity = input.Humidity
	alert.Forecast = input.Forecast
	alert.SafetyInstructions = input.SafetyInstructions
	alert.Shelters = input.Shelters
	alert.EmergencyContacts = input.EmergencyContacts
	alert.IsActive = input.IsActive
	alert.UpdatedAt = time.Now()
	s.alerts[id] = alert

	ok(c, "Alert updated", alert)
}

func (s *Server) handleAdminDeleteAlert(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid alert id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.alerts[id]; !exists {
		fail(c, http.StatusNotFound, "Alert not found")
		return
	}
	delete(s.alerts, id)

	ok(c, "Alert deleted", nil)
}

// Locations

func (s *Server) handleAdminListLocations(c *gin.Context) {
	limit, offset := pageParams(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	locations := make([]models.Location, 0, len(s.locations))
	for _, id := range sortedIDs(s.locations) {
		locations = append(locations, s.locations[id])
	}
	paged(c, "Locations", pageSlice(locations, limit, offset), len(locations), limit, offset)
}

func (s *Server) handleAdminCreateLocation(c *gin.Context) {
	var input models.LocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	loc := models.Location{
		ID:           s.allocID(),
		Name:         input.Name,
		Province:     input.Province,
		District:     input.District,
		Ward:         input.Ward,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Description:  input.Description,
		IsMonitoring: input.IsMonitoring,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.locations[loc.ID] = loc

	created(c, "Location created", loc)
}

func (s *Server) handleAdminUpdateLocation(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid location id")
		return
	}

	var input models.LocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loc, exists := s.locations[id]
	if !exists {
		fail(c, http.StatusNotFound, "Location not found")
		return
	}

	loc.Name = input.Name
	loc.Province = input.Province
	loc.District = input.District
	loc.Ward = input.Ward
	loc.Latitude = input.Latitude
	loc.Longitude = input.Longitude
	loc.Description = input.Description
	loc.IsMonitoring = input.IsMonitoring
	loc.UpdatedAt = time.Now()
	s.locations[id] = loc

	ok(c, "Location updated", loc)
}

func (s *Server) handleAdminDeleteLocation(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid location id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.locations[id]; !exists {
		fail(c, http.StatusNotFound, "Location not found")
		return
	}
	delete(s.locations, id)

	ok(c, "Location deleted", nil)
}

// Articles: mutations are multipart so the thumbnail rides along.

func (s *Server) handleAdminListArticles(c *gin.Context) {
	limit, offset := pageParams(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	articles := make([]models.Article, 0, len(s.articles))
	for _, id := range sortedIDs(s.articles) {
		articles = append(articles, s.articles[id])
	}
	paged(c, "Articles", pageSlice(articles, limit, offset), len(articles), limit, offset)
}

func articleFromForm(c *gin.Context) (models.Article, bool) {
	title := c.PostForm("title")
	content := c.PostForm("content")
	if title == "" || content == "" {
		return models.Article{}, false
	}

	isPublished, _ := strconv.ParseBool(c.PostForm("is_published"))
	article := models.Article{
		Title:       title,
		Summary:     c.PostForm("summary"),
		Content:     content,
		Category:    c.PostForm("category"),
		IsPublished: isPublished,
	}

	if file, err := c.FormFile("thumbnail"); err == nil {
		article.ThumbnailPath = "/uploads/articles/" + file.Filename
	}
	return article, true
}

func slugify(title string) string {
	slug := strings.ToLower(title)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	return strings.Trim(slug, "-")
}

func (s *Server) handleAdminCreateArticle(c *gin.Context) {
	article, valid := articleFromForm(c)
	if !valid {
		fail(c, http.StatusBadRequest, "title and content are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	article.ID = s.allocID()
	article.Slug = slugify(article.Title)
	article.AuthorID = currentUserID(c)
	article.CreatedAt = now
	article.UpdatedAt = now
	if article.IsPublished {
		article.PublishedAt = &now
	}
	s.articles[article.ID] = article

	created(c, "Article created", article)
}

func (s *Server) handleAdminUpdateArticle(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid article id")
		return
	}

	update, formValid := articleFromForm(c)
	if !formValid {
		fail(c, http.StatusBadRequest, "title and content are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.articles[id]
	if !exists {
		fail(c, http.StatusNotFound, "Article not found")
		return
	}

	now := time.Now()
	update.ID = existing.ID
	update.Slug = slugify(update.Title)
	update.AuthorID = existing.AuthorID
	update.ViewCount = existing.ViewCount
	update.CreatedAt = existing.CreatedAt
	update.UpdatedAt = now
	update.PublishedAt = existing.PublishedAt
	if update.IsPublished && existing.PublishedAt == nil {
		update.PublishedAt = &now
	}
	if update.ThumbnailPath == "" {
		update.ThumbnailPath = existing.ThumbnailPath
	}
	s.articles[id] = update

	ok(c, "Article updated", update)
}

func (s *Server) handleAdminDeleteArticle(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid article id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.articles[id]; !exists {
		fail(c, http.StatusNotFound, "Article not found")
		return
	}
	delete(s.articles, id)

	ok(c, "Article deleted", nil)
}

// Statistics

func (s *Server) handleAdminStatistics(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ok(c, "Statistics", models.Statistics{
		TotalUsers:     len(s.users),
		TotalAlerts:    len(s.alerts),
		TotalLocations: len(s.locations),
		TotalArticles:  len(s.articles),
	})
}
