// Package transport implements the JSON HTTP collaborator the console core
// talks through. It owns header construction, bearer-token injection, and
// the mapping of network and status failures into the console error
// taxonomy; it knows nothing about the payloads it moves.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/compass-console/compass-console/internal/shared"
)

// TokenSource supplies the current bearer token. An empty token means
// anonymous; no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// Config holds transport settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a bearer-injecting JSON HTTP client.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

// New constructs a Client. The timeout applies per request; callers narrow
// it further through the context when needed.
func New(cfg Config, tokens TokenSource, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
	}
}

// Do issues one request and returns the raw response body. Network errors
// and non-2xx statuses wrap shared.ErrTransport (401 wraps
// shared.ErrUnauthorized, 404 shared.ErrNotFound); when a failed response
// still parses as an envelope, its message is surfaced.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, shared.ErrValidation)
		}
		payload = bytes.NewReader(encoded)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, shared.ErrTransport)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", slog.String("method", method), slog.String("path", path), slog.Any("error", err))
		return nil, fmt.Errorf("%s %s: %v: %w", method, path, err, shared.ErrTransport)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, shared.ErrTransport)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cause := shared.ErrTransport
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			cause = shared.ErrUnauthorized
		case http.StatusNotFound:
			cause = shared.ErrNotFound
		}
		if message := envelopeMessage(raw); message != "" {
			return nil, fmt.Errorf("%s: %w", message, cause)
		}
		return nil, fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, cause)
	}
	return raw, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPatch, path, nil, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// envelopeMessage extracts the message from a failed response body when it
// still follows the envelope contract.
func envelopeMessage(raw []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	return env.Message
}
