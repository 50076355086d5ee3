// Package api is the single point of HTTP egress. It injects the bearer
// token on every request and handles 401 globally: the session is cleared
// and the registered unauthorized hook fires no matter which store issued
// the call.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"floodwatch-client/internal/models"
	"floodwatch-client/internal/session"
)

type Client struct {
	rc             *resty.Client
	session        *session.Store
	onUnauthorized func()
}

func NewClient(baseURL string, timeout time.Duration, sess *session.Store) *Client {
	c := &Client{session: sess}

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if token := sess.Token(); token != "" {
			r.SetHeader("Authorization", "Bearer "+token)
		}
		r.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})

	rc.OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
		if r.StatusCode() == http.StatusUnauthorized {
			c.handleUnauthorized(r.Request.URL)
		}
		return nil
	})

	c.rc = rc
	return c
}

// SetUnauthorizedHook registers the forced-logout navigation callback.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.rc.BaseURL
}

func (c *Client) handleUnauthorized(url string) {
	logrus.WithField("url", url).Warn("401 received, clearing session")
	c.session.Clear()
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// Get issues a GET and decodes the envelope data into out.
func (c *Client) Get(ctx context.Context, path string, query map[string]string, out interface{}) error {
	r := c.rc.R().SetContext(ctx)
	if query != nil {
		r.SetQueryParams(query)
	}
	resp, err := r.Get(path)
	return c.decodeEnvelope(resp, err, out)
}

// GetPaged issues a GET against an admin list endpoint whose envelope data
// nests {data, total, limit, offset}. The list and pagination come back
// together or not at all.
func (c *Client) GetPaged(ctx context.Context, path string, query map[string]string, out interface{}) (*models.Pagination, error) {
	var wrapped struct {
		Data   json.RawMessage `json:"data"`
		Total  int             `json:"total"`
		Limit  int             `json:"limit"`
		Offset int             `json:"offset"`
	}
	if err := c.Get(ctx, path, query, &wrapped); err != nil {
		return nil, err
	}
	if out != nil && len(wrapped.Data) > 0 {
		if err := json.Unmarshal(wrapped.Data, out); err != nil {
			return nil, err
		}
	}
	return &models.Pagination{Total: wrapped.Total, Limit: wrapped.Limit, Offset: wrapped.Offset}, nil
}

// GetRaw issues a GET against one of the endpoints that return bare JSON
// instead of the envelope (public alert/article lists, the SOS surface).
func (c *Client) GetRaw(ctx context.Context, path string, out interface{}) error {
	resp, err := c.rc.R().SetContext(ctx).Get(path)
	return c.decodeRaw(resp, err, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	r := c.rc.R().SetContext(ctx)
	if body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := r.Post(path)
	return c.decodeEnvelope(resp, err, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	r := c.rc.R().SetContext(ctx)
	if body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := r.Put(path)
	return c.decodeEnvelope(resp, err, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	resp, err := c.rc.R().SetContext(ctx).Delete(path)
	return c.decodeEnvelope(resp, err, nil)
}

// PostMultipart sends form fields together with an optional file in one
// multipart request, the way avatar and thumbnail uploads travel.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file io.Reader, out interface{}) error {
	resp, err := c.multipart(ctx, fields, fileField, fileName, file).Post(path)
	return c.decodeEnvelope(resp, err, out)
}

func (c *Client) PutMultipart(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file io.Reader, out interface{}) error {
	resp, err := c.multipart(ctx, fields, fileField, fileName, file).Put(path)
	return c.decodeEnvelope(resp, err, out)
}

func (c *Client) multipart(ctx context.Context, fields map[string]string, fileField, fileName string, file io.Reader) *resty.Request {
	r := c.rc.R().SetContext(ctx).SetFormData(fields)
	if file != nil && fileField != "" {
		r.SetFileReader(fileField, fileName, file)
	}
	return r
}

// PostRaw issues a POST with a bare JSON body and no envelope decoding,
// used by the SOS surface and the pusher auth handshake.
func (c *Client) PostRaw(ctx context.Context, path string, body, out interface{}) error {
	resp, err := c.rc.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	return c.decodeRaw(resp, err, out)
}

// PutRaw issues a PUT with a bare JSON body and no envelope decoding.
func (c *Client) PutRaw(ctx context.Context, path string, body interface{}) error {
	resp, err := c.rc.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Put(path)
	return c.decodeRaw(resp, err, nil)
}

// DeleteRaw issues a DELETE with no envelope decoding.
func (c *Client) DeleteRaw(ctx context.Context, path string) error {
	resp, err := c.rc.R().SetContext(ctx).Delete(path)
	return c.decodeRaw(resp, err, nil)
}
