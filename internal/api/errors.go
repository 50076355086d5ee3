package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// ErrUnauthorized marks responses the client already handled globally
// (session cleared, hook fired). Stores must not record it in their error
// state.
var ErrUnauthorized = errors.New("unauthorized")

const genericFailure = "request failed"

// Error carries the backend envelope message for user display.
type Error struct {
	Status  int
	Message string
	Detail  string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Message extracts the user-displayable string from any store-level error.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return genericFailure
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (c *Client) decodeEnvelope(resp *resty.Response, err error, out interface{}) error {
	if err != nil {
		return err
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var env envelope
	if uerr := json.Unmarshal(resp.Body(), &env); uerr != nil {
		if resp.IsError() {
			return &Error{Status: resp.StatusCode(), Message: genericFailure}
		}
		return uerr
	}

	if resp.IsError() || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = genericFailure
		}
		return &Error{Status: resp.StatusCode(), Message: msg, Detail: env.Error}
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (c *Client) decodeRaw(resp *resty.Response, err error, out interface{}) error {
	if err != nil {
		return err
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.IsError() {
		// Error responses carry the envelope even on bare-JSON routes.
		var env envelope
		if json.Unmarshal(resp.Body(), &env) == nil && env.Message != "" {
			return &Error{Status: resp.StatusCode(), Message: env.Message, Detail: env.Error}
		}
		return &Error{Status: resp.StatusCode(), Message: genericFailure}
	}

	if out != nil {
		return json.Unmarshal(resp.Body(), out)
	}
	return nil
}
