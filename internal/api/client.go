// Package api is the request bridge to the job-listing service. It is the
// only package that performs network I/O; every other component delegates
// here. Requests carry the current session ticket as a bearer token when
// one exists.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// TicketSource supplies the current session ticket. An empty string means
// no session; the Authorization header is omitted entirely.
type TicketSource interface {
	Ticket() string
}

// Config holds bridge configuration.
type Config struct {
	// BaseURL is the service root, e.g. http://localhost:8000.
	BaseURL string
	// Timeout applies per attempt. Defaults to 15s.
	Timeout time.Duration
	// ReadRetries is the number of extra attempts for GET requests that
	// fail at the transport level. 0 means the default of 2; negative
	// disables retries. Non-reads are never retried.
	ReadRetries int
}

// Client issues HTTP operations against the service root.
type Client struct {
	cfg        Config
	tickets    TicketSource
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a bridge client. tickets may not be nil.
func New(cfg Config, tickets TicketSource, opts ...Option) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.ReadRetries == 0 {
		cfg.ReadRetries = 2
	}
	c := &Client{
		cfg:        cfg,
		tickets:    tickets,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends one request and returns the raw JSON body. A 2xx response with
// an empty body returns nil. Non-2xx responses return *RequestError;
// transport failures return *TransportError. A body supplied with a GET is
// never sent.
func (c *Client) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var payload []byte
	if body != nil && method != http.MethodGet {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	if method != http.MethodGet {
		return c.send(ctx, method, path, payload)
	}

	// Reads are safe to retry when the service is unreachable.
	retries := c.cfg.ReadRetries
	if retries < 0 {
		retries = 0
	}
	var out json.RawMessage
	backoff := retry.WithMaxRetries(uint64(retries), retry.NewFibonacci(250*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		res, err := c.send(ctx, method, path, nil)
		if err != nil {
			var te *TransportError
			if errors.As(err, &te) {
				return retry.RetryableError(err)
			}
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (json.RawMessage, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ticket := c.tickets.Ticket(); ticket != "" {
		req.Header.Set("Authorization", "Bearer "+ticket)
	}

	slog.Debug("api request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	slog.Debug("api response", "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, respBody),
		}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}
	return json.RawMessage(respBody), nil
}

// errorMessage pulls a human-readable message out of a failure payload.
// The service uses "message"; older endpoints use "detail" or "error".
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			return payload.Message
		case payload.Detail != "":
			return payload.Detail
		case payload.Error != "":
			return payload.Error
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}
