package stubserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"floodwatch-client/internal/models"
)

// Minimal pusher protocol 7 server: connection handshake, authenticated
// private-channel subscription and event fan-out. Enough for the realtime
// bridge and its tests; no presence channels, no clusters.

type wsMessage struct {
	Event   string          `json:"event"`
	Channel string          `json:"channel,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) send(msg wsMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

type wsHub struct {
	mu       sync.RWMutex
	channels map[string]map[*wsClient]bool
}

func newWSHub() *wsHub {
	return &wsHub{channels: make(map[string]map[*wsClient]bool)}
}

func (h *wsHub) subscribe(channel string, c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.channels[channel] == nil {
		h.channels[channel] = make(map[*wsClient]bool)
	}
	h.channels[channel][c] = true
}

func (h *wsHub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for channel, clients := range h.channels {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}
}

func (h *wsHub) broadcast(channel string, msg wsMessage) {
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.channels[channel]))
	for c := range h.channels[channel] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.send(msg)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// doubleEncode wraps a payload as a JSON string, the way pusher frames
// event data on the wire.
func doubleEncode(v interface{}) json.RawMessage {
	inner, _ := json.Marshal(v)
	outer, _ := json.Marshal(string(inner))
	return json.RawMessage(outer)
}

// channelSignature computes the private-channel auth token:
// "<key>:<hex hmac-sha256(secret, socket_id:channel_name)>".
func (s *Server) channelSignature(socketID, channel string) string {
	mac := hmac.New(sha256.New, []byte(s.pusherSecret))
	mac.Write([]byte(socketID + ":" + channel))
	return s.pusherKey + ":" + hex.EncodeToString(mac.Sum(nil))
}

func (s *Server) handleWebSocket(c *gin.Context) {
	if c.Param("key") != s.pusherKey {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown app key"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := &wsClient{conn: conn}
	socketID := fmt.Sprintf("%d.%d", rand.Intn(1000000), rand.Intn(1000000))

	client.send(wsMessage{
		Event: "pusher:connection_established",
		Data: doubleEncode(gin.H{
			"socket_id":        socketID,
			"activity_timeout": 120,
		}),
	})

	defer func() {
		s.hub.remove(client)
		conn.Close()
	}()

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Event {
		case "pusher:subscribe":
			var sub struct {
				Channel string `json:"channel"`
				Auth    string `json:"auth"`
			}
			if err := decodeEventData(msg.Data, &sub); err != nil {
				client.send(errorMessage("malformed subscribe data"))
				continue
			}
			if strings.HasPrefix(sub.Channel, "private-") &&
				sub.Auth != s.channelSignature(socketID, sub.Channel) {
				client.send(errorMessage("invalid signature for " + sub.Channel))
				continue
			}
			s.hub.subscribe(sub.Channel, client)
			client.send(wsMessage{
				Event:   "pusher_internal:subscription_succeeded",
				Channel: sub.Channel,
				Data:    doubleEncode(gin.H{}),
			})

		case "pusher:ping":
			client.send(wsMessage{Event: "pusher:pong", Data: doubleEncode(gin.H{})})
		}
	}
}

func errorMessage(reason string) wsMessage {
	return wsMessage{
		Event: "pusher:error",
		Data:  doubleEncode(gin.H{"code": 4009, "message": reason}),
	}
}

func decodeEventData(raw json.RawMessage, v interface{}) error {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return json.Unmarshal([]byte(str), v)
	}
	return json.Unmarshal(raw, v)
}

// handlePusherAuth signs a private-channel subscription for the
// authenticated user. Subscribing to another user's channel is refused.
func (s *Server) handlePusherAuth(c *gin.Context) {
	var req struct {
		SocketID    string `json:"socket_id" binding:"required"`
		ChannelName string `json:"channel_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "socket_id and channel_name are required")
		return
	}

	expected := fmt.Sprintf("private-user-%d", currentUserID(c))
	if req.ChannelName != expected {
		fail(c, http.StatusForbidden, "Channel access denied")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"auth": s.channelSignature(req.SocketID, req.ChannelName),
	})
}

// TriggerEvent pushes an event to every subscriber of a channel. Tests and
// the dev server use it to emulate backend-originated pushes.
func (s *Server) TriggerEvent(channel, event string, payload interface{}) {
	s.hub.broadcast(channel, wsMessage{
		Event:   event,
		Channel: channel,
		Data:    doubleEncode(payload),
	})
}

// TriggerNotification stores a notification for the user and pushes a
// new-notification event on their private channel.
func (s *Server) TriggerNotification(userID int, n models.Notification) models.Notification {
	n.UserID = userID
	saved := s.SeedNotification(n)
	s.TriggerEvent(fmt.Sprintf("private-user-%d", userID), "new-notification", saved)
	return saved
}
