// Package api is the REST client for the POS backend. Responses are
// decoded into the wire types of the catalog and invoice packages; HTTP
// failures map onto the shared error codes: 403 becomes a permission
// error carrying the server's message verbatim, 404 a not-found error,
// everything else a network error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paintbistro/posterm/internal/poserr"
)

// DefaultRole is the role the terminal reports on destructive calls; the
// backend uses it to refuse deletes of paid invoices.
const DefaultRole = "cashier"

// Client talks to one POS backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	role    string
}

// New creates a client for the backend at baseURL (including any /api
// prefix). A nil logger falls back to slog.Default.
func New(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
		role:    DefaultRole,
	}
}

// SetRole overrides the role sent with destructive requests.
func (c *Client) SetRole(role string) {
	if role != "" {
		c.role = role
	}
}

// errorBody is the backend's error envelope. Older endpoints use "error",
// newer ones "message".
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b errorBody) text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}

// do performs one request and decodes the response into out (when out is
// non-nil). Every request carries a correlation id so backend logs can be
// matched to terminal logs.
func (c *Client) do(ctx context.Context, method, path string, body, out any, headers map[string]string) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return poserr.Network(err, "%s %s failed", method, path).
			WithDetail("request_id", requestID)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope errorBody
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		_ = json.Unmarshal(raw, &envelope)
		msg := envelope.text()

		c.logger.Warn("backend rejected request",
			"method", method, "path", path,
			"status", resp.StatusCode, "request_id", requestID)

		switch resp.StatusCode {
		case http.StatusForbidden:
			if msg == "" {
				msg = "permission denied"
			}
			return poserr.Permission("%s", msg).WithDetail("request_id", requestID)
		case http.StatusNotFound:
			if msg == "" {
				msg = fmt.Sprintf("%s not found", path)
			}
			return poserr.NotFound("%s", msg).WithDetail("request_id", requestID)
		default:
			return poserr.Network(fmt.Errorf("status %d: %s", resp.StatusCode, msg),
				"%s %s failed", method, path).WithDetail("request_id", requestID)
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return poserr.Network(err, "decoding %s %s response", method, path).
			WithDetail("request_id", requestID)
	}
	return nil
}
