package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"taskdeck/internal/logging"
	"taskdeck/internal/store"
)

// Client talks to the remote task service. It attaches the stored bearer
// token to every request except the auth routes and classifies failures
// into the package's error types. It never retries.
type Client struct {
	baseURL        string
	http           *http.Client
	kv             store.KV
	onUnauthorized func()
}

// New creates a client for the service at baseURL, reading credentials
// from kv.
func New(baseURL string, kv store.KV) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		kv:      kv,
	}
}

// OnUnauthorized registers fn to run when any protected route answers
// 401. The hook owns invalidation idempotency.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// errBody is the shape error responses are expected to carry. Servers
// are inconsistent about the field name, so both are accepted.
type errBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func isAuthRoute(path string) bool {
	return strings.HasPrefix(path, "/auth/login") || strings.HasPrefix(path, "/auth/register")
}

// do performs one JSON request. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if !isAuthRoute(path) {
		token, err := c.kv.Get(store.KeyToken)
		if err == nil && token != "" && token != "null" && token != "undefined" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logging.Logger.WithError(err).WithField("op", op).Warn("request failed")
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !isAuthRoute(path) {
		logging.Logger.WithField("op", op).Info("401 received, invalidating session")
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &AuthError{Op: op}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errBody
		msg := ""
		if raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); err == nil {
			if json.Unmarshal(raw, &eb) == nil {
				msg = eb.Message
				if msg == "" {
					msg = eb.Error
				}
			}
		}
		return &ServerError{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}
