// Package realtime keeps the notification and alert caches fresh when the
// backend pushes an event. It speaks the pusher wire protocol over a plain
// websocket and never applies event payloads directly: every event triggers
// a re-fetch of the notifications store and, when the payload looks
// alert-related, of the alerts store.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/session"
	"floodwatch-client/internal/store"
)

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	default:
		return "disconnected"
	}
}

// ErrRealtimeDisabled is returned when no pusher key is configured; the
// client degrades to REST-only operation.
var ErrRealtimeDisabled = errors.New("realtime disabled: no pusher key configured")

const (
	writeWait      = 10 * time.Second
	readWait       = 120 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	fetchTimeout   = 15 * time.Second
	refetchLimit   = 20
)

type Bridge struct {
	apiClient     *api.Client
	session       *session.Store
	notifications *store.NotificationStore
	alerts        *store.AlertStore

	key     string
	cluster string
	host    string

	mu      sync.Mutex
	writeMu sync.Mutex
	state   State
	conn    *websocket.Conn
	done    chan struct{}
}

func NewBridge(key, cluster, host string, apiClient *api.Client, sess *session.Store, notifications *store.NotificationStore, alerts *store.AlertStore) *Bridge {
	return &Bridge{
		apiClient:     apiClient,
		session:       sess,
		notifications: notifications,
		alerts:        alerts,
		key:           key,
		cluster:       cluster,
		host:          host,
	}
}

// Connect opens the websocket, authenticates the private per-user channel
// against the backend and subscribes. It returns once the subscribe frame is
// sent; the subscription ack arrives on the read loop.
func (b *Bridge) Connect(ctx context.Context) error {
	if b.key == "" {
		logrus.Warn("pusher key not set, realtime updates disabled")
		return ErrRealtimeDisabled
	}

	user := b.session.User()
	if user == nil || !b.session.IsAuthenticated() {
		return errors.New("realtime: not authenticated")
	}

	b.mu.Lock()
	if b.state != StateDisconnected {
		b.mu.Unlock()
		return fmt.Errorf("realtime: already %s", b.state)
	}
	b.state = StateConnecting
	b.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.endpoint(), nil)
	if err != nil {
		b.teardown()
		return fmt.Errorf("realtime: dial: %w", err)
	}

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(readWait))

	// First frame is always pusher:connection_established with our socket id.
	var hello pusherMessage
	if err := conn.ReadJSON(&hello); err != nil {
		conn.Close()
		b.teardown()
		return fmt.Errorf("realtime: handshake: %w", err)
	}
	if hello.Event != eventConnectionEstablished {
		conn.Close()
		b.teardown()
		return fmt.Errorf("realtime: unexpected handshake event %q", hello.Event)
	}
	var est connectionEstablished
	if err := decodeData(hello.Data, &est); err != nil {
		conn.Close()
		b.teardown()
		return fmt.Errorf("realtime: handshake data: %w", err)
	}

	channel := privateChannel(user.ID)
	auth, err := b.authorize(ctx, est.SocketID, channel)
	if err != nil {
		conn.Close()
		b.teardown()
		return err
	}

	data, err := encodeData(subscribeData{Channel: channel, Auth: auth})
	if err != nil {
		conn.Close()
		b.teardown()
		return err
	}

	b.mu.Lock()
	b.conn = conn
	b.done = make(chan struct{})
	b.mu.Unlock()

	if err := b.write(pusherMessage{Event: eventSubscribe, Data: data}); err != nil {
		b.Close()
		return fmt.Errorf("realtime: subscribe: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"channel": channel,
		"socket":  est.SocketID,
	}).Info("realtime channel subscribing")

	go b.readLoop(conn)
	go b.pingLoop(conn)
	return nil
}

// authorize performs the private-channel handshake: the stored bearer token
// rides on the request via the API client.
func (b *Bridge) authorize(ctx context.Context, socketID, channel string) (string, error) {
	body := map[string]string{
		"socket_id":    socketID,
		"channel_name": channel,
	}
	var resp authResponse
	if err := b.apiClient.PostRaw(ctx, "/pusher/auth", body, &resp); err != nil {
		return "", fmt.Errorf("realtime: channel auth: %w", err)
	}
	return resp.Auth, nil
}

func (b *Bridge) endpoint() string {
	host := b.host
	if host == "" {
		host = fmt.Sprintf("wss://ws-%s.pusher.com:443", b.cluster)
	}
	return fmt.Sprintf("%s/app/%s?protocol=7&client=floodwatch-client&version=1.0.0", host, b.key)
}

func (b *Bridge) readLoop(conn *websocket.Conn) {
	defer b.teardown()

	for {
		var msg pusherMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).Warn("realtime connection lost")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readWait))

		switch msg.Event {
		case eventSubscriptionSucceeded:
			b.mu.Lock()
			b.state = StateSubscribed
			b.mu.Unlock()
			logrus.WithField("channel", msg.Channel).Info("realtime channel subscribed")

		case eventPing:
			if err := b.write(pusherMessage{Event: eventPong, Data: json.RawMessage(`"{}"`)}); err != nil {
				return
			}

		case eventError:
			logrus.WithField("data", string(msg.Data)).Warn("realtime server error")

		case eventNewNotification, eventLegacyNotification:
			b.handleNotification(msg.Data)
		}
	}
}

func (b *Bridge) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	b.mu.Lock()
	done := b.done
	b.mu.Unlock()
	if done == nil {
		return
	}

	for {
		select {
		case <-ticker.C:
			if err := b.write(pusherMessage{Event: eventPing, Data: json.RawMessage(`"{}"`)}); err != nil {
				conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}

// handleNotification re-fetches instead of trusting the payload: one
// notifications fetch always, plus one alerts fetch when the event looks
// alert-related.
func (b *Bridge) handleNotification(data json.RawMessage) {
	var payload struct {
		Type    string `json:"type"`
		AlertID *int   `json:"alert_id"`
	}
	if err := decodeData(data, &payload); err != nil {
		logrus.WithError(err).Debug("unparseable notification payload, refetching anyway")
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	if err := b.notifications.FetchNotifications(ctx, refetchLimit, 0); err != nil {
		logrus.WithError(err).Warn("notification refetch failed")
	}

	if payload.Type == "alert" || payload.AlertID != nil {
		if err := b.alerts.FetchAlerts(ctx, refetchLimit, 0); err != nil {
			logrus.WithError(err).Warn("alert refetch failed")
		}
	}
}

func (b *Bridge) write(msg pusherMessage) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()
	if conn == nil {
		return errors.New("realtime: not connected")
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

// Close unbinds and disconnects; called on logout or shutdown.
func (b *Bridge) Close() {
	b.mu.Lock()
	conn := b.conn
	done := b.done
	b.conn = nil
	b.done = nil
	b.state = StateDisconnected
	b.mu.Unlock()

	if done != nil {
		close(done)
	}
	if conn != nil {
		conn.Close()
	}
}

func (b *Bridge) teardown() {
	b.mu.Lock()
	conn := b.conn
	done := b.done
	b.conn = nil
	b.done = nil
	b.state = StateDisconnected
	b.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		default:
			close(done)
		}
	}
	if conn != nil {
		conn.Close()
	}
}

func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
