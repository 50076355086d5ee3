package stubserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"floodwatch-client/internal/models"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=100"`
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == req.Email {
			fail(c, http.StatusConflict, "User with this email already exists")
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error hashing password")
		return
	}

	now := time.Now()
	user := models.User{
		ID:        s.allocID(),
		Email:     req.Email,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Address:   req.Address,
		Role:      models.RoleUser,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[user.ID] = &userRecord{User: user, passwordHash: string(hash)}

	created(c, "Registration successful", user)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	s.mu.RLock()
	var record *userRecord
	for _, u := range s.users {
		if u.Email == req.Email {
			record = u
			break
		}
	}
	s.mu.RUnlock()

	if record == nil || bcrypt.CompareHashAndPassword([]byte(record.passwordHash), []byte(req.Password)) != nil {
		fail(c, http.StatusBadRequest, "Invalid email or password")
		return
	}
	if !record.IsActive {
		fail(c, http.StatusForbidden, "Account is deactivated")
		return
	}

	token, err := s.jwt.generate(record.ID, record.Email, record.Role)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error generating token")
		return
	}

	ok(c, "Login successful", gin.H{
		"token": token,
		"user":  record.User,
	})
}

// Profile. Updates arrive as multipart form data so a new avatar can travel
// with the fields; email never changes.

func (s *Server) handleGetProfile(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.users[currentUserID(c)]
	if !exists {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	ok(c, "Profile", record.User)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	fullName := c.PostForm("full_name")
	if fullName == "" {
		fail(c, http.StatusBadRequest, "full_name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.users[currentUserID(c)]
	if !exists {
		fail(c, http.StatusNotFound, "User not found")
		return
	}

	record.FullName = fullName
	if phone := c.PostForm("phone"); phone != "" {
		record.Phone = phone
	}
	if address := c.PostForm("address"); address != "" {
		record.Address = address
	}
	if file, err := c.FormFile("avatar"); err == nil {
		record.AvatarPath = "/uploads/avatars/" + file.Filename
	}
	record.UpdatedAt = time.Now()

	ok(c, "Profile updated", record.User)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=100"`
}

func (s *Server) handleChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.users[currentUserID(c)]
	if !exists {
		fail(c, http.StatusNotFound, "User not found")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(record.passwordHash), []byte(req.OldPassword)) != nil {
		fail(c, http.StatusBadRequest, "Old password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.MinCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Error hashing password")
		return
	}
	record.passwordHash = string(hash)
	record.UpdatedAt = time.Now()

	ok(c, "Password changed", nil)
}
