// Package api is a thin JSON-over-HTTP client for the conference backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/cusrr/internal/apperr"
	"github.com/idilsaglam/cusrr/internal/log"
)

// Doer is the slice of *http.Client the client needs.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to one backend. It holds no cached data; every call goes
// to the server.
type Client struct {
	base        *url.URL
	http        Doer
	cookieName  string
	token       string
	uploadLimit int64
	userAgent   string
}

type Option func(*Client)

func WithHTTPClient(d Doer) Option { return func(c *Client) { c.http = d } }

// WithSession sends token as the named session cookie.
func WithSession(cookieName, token string) Option {
	return func(c *Client) {
		c.cookieName = cookieName
		c.token = token
	}
}

func WithUploadLimit(n int64) Option { return func(c *Client) { c.uploadLimit = n } }

func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

// DefaultUploadLimit mirrors the server's 20MB cap.
const DefaultUploadLimit = 20 * 1024 * 1024

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q: need scheme and host", baseURL)
	}
	c := &Client{
		base:        u,
		http:        &http.Client{Timeout: 15 * time.Second},
		uploadLimit: DefaultUploadLimit,
		userAgent:   "cusrr",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) url(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		if c.cookieName != "" {
			req.AddCookie(&http.Cookie{Name: c.cookieName, Value: c.token})
		} else {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
	}
	return req, nil
}

// send performs req and decodes a 2xx JSON body into out (if non-nil).
func (c *Client) send(req *http.Request, out any) error {
	path := req.URL.Path
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).
			Str("method", req.Method).
			Str("path", path).
			Str("request_id", req.Header.Get("X-Request-ID")).
			Msg("request failed")
		return &apperr.NetworkError{Method: req.Method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", req.Method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &apperr.NetworkError{
			Method:     req.Method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       errorMessage(b),
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apperr.NetworkError{
			Method:     req.Method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

// errorMessage pulls {"error": "..."} out of a failure body when present.
func errorMessage(b []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(b))
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// GetJSON fetches path and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// PutJSON sends in as the body of a PUT and decodes the reply into out.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, in, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}
