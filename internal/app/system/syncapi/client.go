// internal/app/system/syncapi/client.go
package syncapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/syncadmin/internal/app/system/htmlsanitize"
	"github.com/dalemusser/syncadmin/internal/app/system/metrics"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultTimeout bounds every request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Config configures a Client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper // nil uses http.DefaultTransport
	Logger    *zap.Logger
}

// Client talks to the sync server's JSON API.
//
// A Client without a token can only reach unauthenticated endpoints
// (login, health). Use WithToken to get a per-session copy that attaches
// the bearer token to every request.
type Client struct {
	baseURL *url.URL
	base    http.RoundTripper
	timeout time.Duration
	http    *http.Client
	log     *zap.Logger
}

// errorResponse is the body the sync server sends with non-2xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// New builds a Client for cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse sync api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("sync api url %q: scheme must be http or https", cfg.BaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("sync api url %q: missing host", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: u,
		base:    base,
		timeout: cfg.Timeout,
		http:    &http.Client{Timeout: cfg.Timeout, Transport: base},
		log:     log,
	}, nil
}

// WithToken returns a copy of c that sends token as a bearer credential.
// An empty token returns an unauthenticated copy.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	if token == "" {
		cp.http = &http.Client{Timeout: c.timeout, Transport: c.base}
		return &cp
	}
	cp.http = &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.base,
		},
	}
	return &cp
}

// BaseURL returns the server root this client targets.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Do sends one request and returns the response for 2xx statuses.
// The caller must close the body. Non-2xx statuses come back as *APIError
// and transport failures as *NetworkError; in both cases the response is nil.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	return c.do(ctx, strings.ToLower(method), method, path, body)
}

// Get fetches path and decodes the JSON response into out (if non-nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.call(ctx, "get", http.MethodGet, path, nil, out)
}

// Post sends body as JSON and decodes the response into out (if non-nil).
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, "post", http.MethodPost, path, body, out)
}

// Put sends body as JSON and decodes the response into out (if non-nil).
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, "put", http.MethodPut, path, body, out)
}

// Del issues a DELETE for path.
func (c *Client) Del(ctx context.Context, path string) error {
	return c.call(ctx, "delete", http.MethodDelete, path, nil, nil)
}

func (c *Client) call(ctx context.Context, op, method, path string, body, out any) error {
	resp, err := c.do(ctx, op, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s %s: empty response body", method, path)
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) {
			return &NetworkError{Op: method + " " + path, Err: err}
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveUpstream(op, metrics.OutcomeNetwork, time.Since(start))
		c.log.Warn("sync api request failed",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, &NetworkError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		metrics.ObserveUpstream(op, metrics.OutcomeAPI, time.Since(start))
		apiErr := readAPIError(resp)
		fields := []zap.Field{
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", apiErr.Status),
			zap.String("message", apiErr.Message),
		}
		if apiErr.Body != "" {
			fields = append(fields, zap.String("body", apiErr.Body))
		}
		c.log.Info("sync api returned error", fields...)
		return nil, apiErr
	}

	metrics.ObserveUpstream(op, metrics.OutcomeOK, time.Since(start))
	return resp, nil
}

// resolve joins path (which may carry a query string) onto the base URL.
func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", path, err)
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")
	u.RawQuery = ref.RawQuery
	return u.String(), nil
}

func readAPIError(resp *http.Response) *APIError {
	ae := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(raw) == 0 {
		return ae
	}
	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && strings.TrimSpace(er.Error) != "" {
		ae.Message = strings.TrimSpace(er.Error)
		return ae
	}
	ae.Body = htmlsanitize.Text(string(raw))
	return ae
}
