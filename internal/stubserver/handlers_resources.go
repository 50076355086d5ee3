package stubserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"floodwatch-client/internal/models"
)

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Alerts. The public alert routes return bare JSON, matching the
// production backend's inconsistency with the enveloped resources.

func (s *Server) handleListAlerts(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alerts := make([]models.Alert, 0, len(s.alerts))
	for _, id := range sortedIDs(s.alerts) {
		a := s.alerts[id]
		if a.IsActive {
			alerts = append(alerts, s.withLocation(a))
		}
	}
	c.JSON(http.StatusOK, alerts)
}

func (s *Server) handleGetAlert(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid alert id")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	alert, exists := s.alerts[id]
	if !exists {
		fail(c, http.StatusNotFound, "Alert not found")
		return
	}
	c.JSON(http.StatusOK, s.withLocation(alert))
}

func (s *Server) handleAlertsByLocation(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid location id")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	alerts := make([]models.Alert, 0)
	for _, aid := range sortedIDs(s.alerts) {
		a := s.alerts[aid]
		if a.LocationID == id && a.IsActive {
			alerts = append(alerts, s.withLocation(a))
		}
	}
	c.JSON(http.StatusOK, alerts)
}

func (s *Server) handleUserAlerts(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	followed := make(map[int]bool)
	for _, ul := range s.userLocations {
		if ul.UserID == userID {
			followed[ul.LocationID] = true
		}
	}

	alerts := make([]models.Alert, 0)
	for _, id := range sortedIDs(s.alerts) {
		a := s.alerts[id]
		if a.IsActive && followed[a.LocationID] {
			alerts = append(alerts, s.withLocation(a))
		}
	}
	ok(c, "User alerts", alerts)
}

func (s *Server) withLocation(a models.Alert) models.Alert {
	if loc, exists := s.locations[a.LocationID]; exists {
		l := loc
		a.Location = &l
	}
	return a
}

// Locations

func (s *Server) handleListLocations(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	locations := make([]models.Location, 0, len(s.locations))
	for _, id := range sortedIDs(s.locations) {
		locations = append(locations, s.locations[id])
	}
	ok(c, "Locations", locations)
}

func (s *Server) handleGetLocation(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid location id")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	location, exists := s.locations[id]
	if !exists {
		fail(c, http.StatusNotFound, "Location not found")
		return
	}
	ok(c, "Location", location)
}

func (s *Server) handleUserLocations(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	userLocations := make([]models.UserLocation, 0)
	for _, id := range sortedIDs(s.userLocations) {
		ul := s.userLocations[id]
		if ul.UserID != userID {
			continue
		}
		if loc, exists := s.locations[ul.LocationID]; exists {
			l := loc
			ul.Location = &l
		}
		userLocations = append(userLocations, ul)
	}
	ok(c, "User locations", userLocations)
}

func (s *Server) handleSubscribeLocation(c *gin.Context) {
	var req models.SubscribeLocationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data")
		return
	}
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.locations[req.LocationID]; !exists {
		fail(c, http.StatusNotFound, "Location not found")
		return
	}
	for _, ul := range s.userLocations {
		if ul.UserID == userID && ul.LocationID == req.LocationID {
			fail(c, http.StatusConflict, "Location already followed")
			return
		}
	}

	ul := models.UserLocation{
		ID:         s.allocID(),
		UserID:     userID,
		LocationID: req.LocationID,
		Priority:   req.Priority,
		Notes:      req.Notes,
		CreatedAt:  time.Now(),
	}
	s.userLocations[ul.ID] = ul

	created(c, "Location followed", ul)
}

func (s *Server) handleUnsubscribeLocation(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid subscription id")
		return
	}
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	ul, exists := s.userLocations[id]
	if !exists || ul.UserID != userID {
		fail(c, http.StatusNotFound, "Subscription not found")
		return
	}
	delete(s.userLocations, id)

	ok(c, "Location unfollowed", nil)
}

// Articles: bare JSON on the public routes, like alerts.

func (s *Server) handleListArticles(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	articles := make([]models.Article, 0, len(s.articles))
	for _, id := range sortedIDs(s.articles) {
		a := s.articles[id]
		if a.IsPublished {
			articles = append(articles, a)
		}
	}
	c.JSON(http.StatusOK, articles)
}

func (s *Server) handleGetArticle(c *gin.Context) {
	slug := c.Param("slug")

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range s.articles {
		if a.Slug == slug && a.IsPublished {
			a.ViewCount++
			s.articles[id] = a
			c.JSON(http.StatusOK, a)
			return
		}
	}
	fail(c, http.StatusNotFound, "Article not found")
}

// Contacts. Mutations accept multipart form data so the avatar can travel
// with the fields.

func (s *Server) handleListContacts(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	contacts := make([]models.Contact, 0)
	for _, id := range sortedIDs(s.contacts) {
		if s.contacts[id].UserID == userID {
			contacts = append(contacts, s.contacts[id])
		}
	}
	ok(c, "Contacts", contacts)
}

func (s *Server) handleGetContact(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid contact id")
		return
	}
	userID := currentUserID(c)

	s.mu.RLock()
	defer s.mu.RUnlock()
	contact, exists := s.contacts[id]
	if !exists || contact.UserID != userID {
		fail(c, http.StatusNotFound, "Contact not found")
		return
	}
	ok(c, "Contact", contact)
}

func contactFromForm(c *gin.Context) (models.Contact, bool) {
	fullName := c.PostForm("full_name")
	phone := c.PostForm("phone")
	if fullName == "" || phone == "" {
		return models.Contact{}, false
	}

	isEmergency, _ := strconv.ParseBool(c.PostForm("is_emergency"))
	contact := models.Contact{
		FullName:     fullName,
		Phone:        phone,
		Email:        c.PostForm("email"),
		Relationship: c.PostForm("relationship"),
		IsEmergency:  isEmergency,
	}

	if file, err := c.FormFile("avatar"); err == nil {
		contact.AvatarPath = "/uploads/avatars/" + file.Filename
	}
	return contact, true
}

func (s *Server) handleCreateContact(c *gin.Context) {
	contact, valid := contactFromForm(c)
	if !valid {
		fail(c, http.StatusBadRequest, "full_name and phone are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	contact.ID = s.allocID()
	contact.UserID = currentUserID(c)
	contact.CreatedAt = now
	contact.UpdatedAt = now
	s.contacts[contact.ID] = contact

	created(c, "Contact created", contact)
}

func (s *Server) handleUpdateContact(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid contact id")
		return
	}
	userID := currentUserID(c)

	update, formValid := contactFromForm(c)
	if !formValid {
		fail(c, http.StatusBadRequest, "full_name and phone are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.contacts[id]
	if !exists || existing.UserID != userID {
		fail(c, http.StatusNotFound, "Contact not found")
		return
	}

	update.ID = existing.ID
	update.UserID = existing.UserID
	update.CreatedAt = existing.CreatedAt
	update.UpdatedAt = time.Now()
	if update.AvatarPath == "" {
		update.AvatarPath = existing.AvatarPath
	}
	s.contacts[id] = update

	ok(c, "Contact updated", update)
}

func (s *Server) handleDeleteContact(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid contact id")
		return
	}
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	contact, exists := s.contacts[id]
	if !exists || contact.UserID != userID {
		fail(c, http.StatusNotFound, "Contact not found")
		return
	}
	delete(s.contacts, id)

	ok(c, "Contact deleted", nil)
}

// Notifications

func (s *Server) handleListNotifications(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	notifications := make([]models.Notification, 0)
	for _, id := range sortedIDs(s.notifications) {
		if s.notifications[id].UserID == userID {
			notifications = append(notifications, s.notifications[id])
		}
	}
	ok(c, "Notifications", notifications)
}

func (s *Server) handleMarkRead(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid notification id")
		return
	}
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.notifications[id]
	if !exists || n.UserID != userID {
		fail(c, http.StatusNotFound, "Notification not found")
		return
	}
	n.IsRead = true
	s.notifications[id] = n

	ok(c, "Notification marked as read", nil)
}

func (s *Server) handleMarkAllRead(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, n := range s.notifications {
		if n.UserID == userID {
			n.IsRead = true
			s.notifications[id] = n
		}
	}
	ok(c, "All notifications marked as read", nil)
}

func (s *Server) handleDeleteNotification(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid notification id")
		return
	}
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.notifications[id]
	if !exists || n.UserID != userID {
		fail(c, http.StatusNotFound, "Notification not found")
		return
	}
	delete(s.notifications, id)

	ok(c, "Notification deleted", nil)
}
