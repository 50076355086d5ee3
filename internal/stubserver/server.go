// Package stubserver is an in-memory emulation of the FloodWatch backend:
// the same envelope, routes and auth scheme, backed by maps instead of a
// database. Integration tests and local development run against it.
package stubserver

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"floodwatch-client/internal/models"
)

type userRecord struct {
	models.User
	passwordHash string
}

type Server struct {
	jwt          *tokenManager
	pusherKey    string
	pusherSecret string

	mu            sync.RWMutex
	users         map[int]*userRecord
	locations     map[int]models.Location
	alerts        map[int]models.Alert
	userLocations map[int]models.UserLocation
	contacts      map[int]models.Contact
	notifications map[int]models.Notification
	articles      map[int]models.Article
	sosRequests   map[int]models.SOSRequest
	nextID        int

	hub *wsHub
}

func NewServer(jwtSecret, pusherKey, pusherSecret string) *Server {
	return &Server{
		jwt:           newTokenManager(jwtSecret, 24*time.Hour),
		pusherKey:     pusherKey,
		pusherSecret:  pusherSecret,
		users:         make(map[int]*userRecord),
		locations:     make(map[int]models.Location),
		alerts:        make(map[int]models.Alert),
		userLocations: make(map[int]models.UserLocation),
		contacts:      make(map[int]models.Contact),
		notifications: make(map[int]models.Notification),
		articles:      make(map[int]models.Article),
		sosRequests:   make(map[int]models.SOSRequest),
		hub:           newWSHub(),
	}
}

// Router builds the gin engine with the backend's route layout.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Pusher-protocol websocket endpoint, must precede the API group
	router.GET("/app/:key", s.handleWebSocket)

	v1 := router.Group("/api/v1")
	{
		// Public routes
		v1.POST("/auth/register", s.handleRegister)
		v1.POST("/auth/login", s.handleLogin)
		v1.GET("/alerts", s.handleListAlerts)
		v1.GET("/alerts/location/:id", s.handleAlertsByLocation)
		v1.GET("/alerts/:id", s.handleGetAlert)
		v1.GET("/locations", s.handleListLocations)
		v1.GET("/locations/:id", s.handleGetLocation)
		v1.GET("/articles", s.handleListArticles)
		v1.GET("/articles/:slug", s.handleGetArticle)

		// SOS surface: bare JSON, no envelope, no auth
		v1.GET("/sos/", s.handleListSOS)
		v1.POST("/sos/", s.handleCreateSOS)
		v1.PUT("/sos/:id", s.handleUpdateSOS)
		v1.DELETE("/sos/:id", s.handleDeleteSOS)

		// Protected routes
		protected := v1.Group("")
		protected.Use(s.authMiddleware())
		{
			protected.POST("/pusher/auth", s.handlePusherAuth)
			protected.GET("/user/profile", s.handleGetProfile)
			protected.PUT("/user/profile", s.handleUpdateProfile)
			protected.PUT("/user/password", s.handleChangePassword)
			protected.GET("/user/alerts", s.handleUserAlerts)
			protected.GET("/user/locations", s.handleUserLocations)
			protected.POST("/user/locations/subscribe", s.handleSubscribeLocation)
			protected.DELETE("/user/locations/:id", s.handleUnsubscribeLocation)
			protected.GET("/contacts", s.handleListContacts)
			protected.GET("/contacts/:id", s.handleGetContact)
			protected.POST("/contacts", s.handleCreateContact)
			protected.PUT("/contacts/:id", s.handleUpdateContact)
			protected.DELETE("/contacts/:id", s.handleDeleteContact)
			protected.GET("/notifications", s.handleListNotifications)
			protected.PUT("/notifications/:id/read", s.handleMarkRead)
			protected.POST("/notifications/mark-all-read", s.handleMarkAllRead)
			protected.DELETE("/notifications/:id", s.handleDeleteNotification)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(s.authMiddleware(), s.requireAdmin())
		{
			admin.GET("/users", s.handleAdminListUsers)
			admin.PUT("/users/:id/status", s.handleAdminToggleUser)
			admin.DELETE("/users/:id", s.handleAdminDeleteUser)
			admin.GET("/alerts", s.handleAdminListAlerts)
			admin.POST("/alerts", s.handleAdminCreateAlert)
			admin.PUT("/alerts/:id", s.handleAdminUpdateAlert)
			admin.DELETE("/alerts/:id", s.handleAdminDeleteAlert)
			admin.GET("/locations", s.handleAdminListLocations)
			admin.POST("/locations", s.handleAdminCreateLocation)
			admin.PUT("/locations/:id", s.handleAdminUpdateLocation)
			admin.DELETE("/locations/:id", s.handleAdminDeleteLocation)
			admin.GET("/articles", s.handleAdminListArticles)
			admin.POST("/articles", s.handleAdminCreateArticle)
			admin.PUT("/articles/:id", s.handleAdminUpdateArticle)
			admin.DELETE("/articles/:id", s.handleAdminDeleteArticle)
			admin.GET("/statistics", s.handleAdminStatistics)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Endpoint not found")
	})

	return router
}

// Envelope helpers

func ok(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func (s *Server) allocID() int {
	s.nextID++
	return s.nextID
}

// Seed helpers used by tests and the dev server.

func (s *Server) SeedUser(email, password, fullName, role string) models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	user := models.User{
		ID:        s.allocID(),
		Email:     email,
		FullName:  fullName,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[user.ID] = &userRecord{User: user, passwordHash: string(hash)}
	return user
}

func (s *Server) SeedLocation(loc models.Location) models.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc.ID = s.allocID()
	loc.CreatedAt = time.Now()
	loc.UpdatedAt = loc.CreatedAt
	s.locations[loc.ID] = loc
	return loc
}

func (s *Server) SeedAlert(alert models.Alert) models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	alert.ID = s.allocID()
	alert.CreatedAt = time.Now()
	alert.UpdatedAt = alert.CreatedAt
	s.alerts[alert.ID] = alert
	return alert
}

func (s *Server) SeedNotification(n models.Notification) models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.allocID()
	if n.SentAt.IsZero() {
		n.SentAt = time.Now()
	}
	s.notifications[n.ID] = n
	return n
}

func (s *Server) SeedArticle(a models.Article) models.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.allocID()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	s.articles[a.ID] = a
	return a
}

func (s *Server) SeedSOS(r models.SOSRequest) models.SOSRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.allocID()
	if r.Status == "" {
		r.Status = models.SOSStatusPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	s.sosRequests[r.ID] = r
	return r
}

// sortedIDs returns the map keys in insertion order (ids are monotonic).
func sortedIDs[T any](m map[int]T) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
