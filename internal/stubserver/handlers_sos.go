package stubserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"floodwatch-client/internal/models"
)

// The SOS surface speaks bare JSON, mirroring the rescue backend that was
// bolted on separately from the enveloped API.

func (s *Server) handleListSOS(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := make([]models.SOSRequest, 0, len(s.sosRequests))
	for _, id := range sortedIDs(s.sosRequests) {
		requests = append(requests, s.sosRequests[id])
	}
	c.JSON(http.StatusOK, requests)
}

func (s *Server) handleCreateSOS(c *gin.Context) {
	var input models.SOSInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data"})
		return
	}
	if input.Latitude < -90 || input.Latitude > 90 || input.Longitude < -180 || input.Longitude > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req := models.SOSRequest{
		ID:        s.allocID(),
		UserName:  input.UserName,
		Phone:     input.Phone,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Status:    models.SOSStatusPending,
		Message:   input.Message,
		CreatedAt: time.Now(),
	}
	s.sosRequests[req.ID] = req

	c.JSON(http.StatusCreated, req)
}

func (s *Server) handleUpdateSOS(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body struct {
		Status string `json:"status" binding:"required,oneof=pending processing resolved"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req, exists := s.sosRequests[id]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "sos request not found"})
		return
	}
	req.Status = body.Status
	s.sosRequests[id] = req

	c.JSON(http.StatusOK, req)
}

func (s *Server) handleDeleteSOS(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sosRequests[id]; !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "sos request not found"})
		return
	}
	delete(s.sosRequests, id)

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
