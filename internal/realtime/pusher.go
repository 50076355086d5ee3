package realtime

import (
	"encoding/json"
	"fmt"
)

// Pusher protocol 7 framing. Event data is usually double-encoded as a JSON
// string; some servers send it as a raw object, so decoding tries both.
type pusherMessage struct {
	Event   string          `json:"event"`
	Channel string          `json:"channel,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

const (
	eventConnectionEstablished = "pusher:connection_established"
	eventSubscribe             = "pusher:subscribe"
	eventSubscriptionSucceeded = "pusher_internal:subscription_succeeded"
	eventPing                  = "pusher:ping"
	eventPong                  = "pusher:pong"
	eventError                 = "pusher:error"

	// Backend notification events; "notification" is kept for backward
	// compatibility with older backends.
	eventNewNotification    = "new-notification"
	eventLegacyNotification = "notification"
)

type connectionEstablished struct {
	SocketID        string `json:"socket_id"`
	ActivityTimeout int    `json:"activity_timeout"`
}

type subscribeData struct {
	Channel string `json:"channel"`
	Auth    string `json:"auth,omitempty"`
}

// authResponse is what the backend auth endpoint returns for a private
// channel: "key:hmac-signature".
type authResponse struct {
	Auth string `json:"auth"`
}

func decodeData(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("empty event data")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return json.Unmarshal([]byte(s), v)
	}
	return json.Unmarshal(raw, v)
}

func encodeData(v interface{}) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

// privateChannel names the per-user access-controlled channel.
func privateChannel(userID int) string {
	return fmt.Sprintf("private-user-%d", userID)
}
