// Package rest is the shared JSON-over-HTTP client behind every REST upstream.
package rest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/aretw0/agentkit/pkg/domain"
)

// DefaultTimeout bounds a single HTTP exchange when no client is injected.
const DefaultTimeout = 30 * time.Second

const maxErrorBody = 512

// Client issues JSON requests against one service.
type Client struct {
	service string
	base    string
	http    *http.Client
	limiter *rate.Limiter
	headers http.Header
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithHeader sets a header on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithBasicAuth sets an Authorization: Basic header from user and password.
func WithBasicAuth(user, password string) Option {
	return func(c *Client) {
		token := base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
		c.headers.Set("Authorization", "Basic "+token)
	}
}

// WithRateLimit throttles outgoing requests. rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for service rooted at baseURL.
func New(service, baseURL string, opts ...Option) *Client {
	c := &Client{
		service: service,
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		headers: make(http.Header),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Service returns the upstream name used in errors.
func (c *Client) Service() string { return c.service }

// BaseURL returns the root every path is joined to.
func (c *Client) BaseURL() string { return c.base }

// Get issues a GET and decodes the JSON response into out (if not nil).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body and decodes the JSON response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Do performs one request. Non-2xx statuses, transport failures and
// undecodable bodies are reported as *domain.UpstreamError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := method + " " + path

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.fail(op, 0, "", err)
		}
	}

	u, err := url.Parse(c.base + path)
	if err != nil {
		return c.fail(op, 0, "", err)
	}
	if len(query) > 0 {
		// Merge into any query already present in the base URL.
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	target := u.String()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return c.fail(op, 0, "", fmt.Errorf("encode body: %w", err))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return c.fail(op, 0, "", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(op, 0, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(op, resp.StatusCode, "", fmt.Errorf("read body: %w", err))
	}
	c.logger.Debug("upstream call", "service", c.service, "op", op, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, code := errorDetail(raw)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return c.fail(op, resp.StatusCode, code, errors.New(msg))
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return c.fail(op, resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) fail(op string, status int, code string, err error) error {
	return &domain.UpstreamError{Service: c.service, Op: op, Status: status, Code: code, Err: err}
}

// errorDetail extracts a message and code from common error body shapes:
// {"error": "..."}, {"message": "..."}, {"error": {"message": "...", "code": "..."}}.
func errorDetail(raw []byte) (string, string) {
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Code    any             `json:"code"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		text := strings.TrimSpace(string(raw))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return text, ""
	}

	msg, code := body.Message, codeString(body.Code)
	if len(body.Error) > 0 {
		var s string
		if json.Unmarshal(body.Error, &s) == nil {
			msg = s
		} else {
			var nested struct {
				Message string `json:"message"`
				Code    any    `json:"code"`
			}
			if json.Unmarshal(body.Error, &nested) == nil {
				if nested.Message != "" {
					msg = nested.Message
				}
				if c := codeString(nested.Code); c != "" {
					code = c
				}
			}
		}
	}
	return msg, code
}

func codeString(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		return fmt.Sprintf("%.0f", c)
	}
	return ""
}
