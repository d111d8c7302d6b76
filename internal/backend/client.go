// Package backend is the typed client for the bookstore REST API. Every call
// is a single request: no retries and no caching happen here.
package backend

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

	"go.uber.org/zap"
)

const maxErrorBody = 64 << 10

type Client struct {
	base string
	http *http.Client
	log  *zap.Logger

	Books      Resource[Book]
	Authors    Resource[Author]
	Genres     Resource[Genre]
	Tags       Resource[Tag]
	Publishers Resource[Publisher]
	Discounts  Resource[Discount]
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client rooted at baseURL (e.g. "https://host/api").
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: invalid base URL %q", baseURL)
	}
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
		log:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.Books = NewResource[Book](c, "/admin/books")
	c.Authors = NewResource[Author](c, "/admin/authors")
	c.Genres = NewResource[Genre](c, "/admin/genres")
	c.Tags = NewResource[Tag](c, "/admin/tags")
	c.Publishers = NewResource[Publisher](c, "/admin/publishers")
	c.Discounts = NewResource[Discount](c, "/admin/discounts")
	return c, nil
}

// BaseURL is used by the /api reverse proxy.
func (c *Client) BaseURL() string { return c.base }

type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	body        any
	raw         io.Reader
	contentType string
	header      http.Header
}

// do sends one request and decodes a JSON body into out (when non-nil).
// Non-2xx answers become *APIError.
func (c *Client) do(ctx context.Context, req request, out any) error {
	u := c.base + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	contentType := req.contentType
	switch {
	case req.raw != nil:
		body = req.raw
	case req.body != nil:
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("backend: encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	hr, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return fmt.Errorf("backend: build %s %s: %w", req.method, req.path, err)
	}
	hr.Header.Set("Accept", "application/json")
	if contentType != "" {
		hr.Header.Set("Content-Type", contentType)
	}
	if req.token != "" {
		hr.Header.Set("Authorization", "Bearer "+req.token)
	}
	for k, vs := range req.header {
		for _, v := range vs {
			hr.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(hr)
	if err != nil {
		c.log.Warn("backend request failed",
			zap.String("method", req.method), zap.String("path", req.path), zap.Error(err))
		return fmt.Errorf("backend %s %s: %w: %w", req.method, req.path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug("backend request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(req.method, req.path, resp.StatusCode, raw)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend %s %s: read body: %w", req.method, req.path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("backend %s %s: decode: %w", req.method, req.path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query, token: token}, out)
}

func (c *Client) send(ctx context.Context, method, token, path string, body, out any) error {
	return c.do(ctx, request{method: method, path: path, token: token, body: body}, out)
}

func pathf(format string, args ...any) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case string:
			escaped[i] = url.PathEscape(v)
		default:
			escaped[i] = v
		}
	}
	return fmt.Sprintf(format, escaped...)
}
