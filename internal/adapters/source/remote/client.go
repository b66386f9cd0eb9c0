// Package remote implements the canonical data source over the records HTTP API.
package remote

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

	"github.com/hylla/tablero/internal/app"
	"github.com/hylla/tablero/internal/domain"
)

// DefaultBaseURL is the records API base URL.
const DefaultBaseURL = "http://localhost:3000/api"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

const maxErrorBody = 4 << 10

// StatusError reports a non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap classifies every status error as an exchange failure.
func (e *StatusError) Unwrap() error {
	return app.ErrExchange
}

// Client talks to the records API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its timeout is used as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient constructs a client for baseURL. A zero timeout selects DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, app.ErrExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w: %w", method, path, app.ErrExchange, err)
	}
	return nil
}

// Source is an app.Source for one record kind.
type Source[T any] struct {
	client *Client
	kind   domain.Kind
	routes map[app.Op]bool
}

// NewSource constructs a source for kind serving the list, create and delete routes.
func NewSource[T any](client *Client, kind domain.Kind) *Source[T] {
	return &Source[T]{client: client, kind: kind, routes: map[app.Op]bool{
		app.OpList:   true,
		app.OpCreate: true,
		app.OpDelete: true,
	}}
}

// unrouted returns a source for a kind the API does not serve. Every exchange fails
// with app.ErrUnsupported and fetches skip it.
func unrouted[T any](client *Client, kind domain.Kind) *Source[T] {
	return &Source[T]{client: client, kind: kind}
}

// Sources builds remote sources for employees and opportunities. The item routes are
// optional on the API, so items are exchanged only when withItems is set.
func Sources(client *Client, withItems bool) app.Sources {
	items := unrouted[domain.Item](client, domain.KindItem)
	if withItems {
		items = NewSource[domain.Item](client, domain.KindItem)
	}
	return app.Sources{
		Items:         items,
		Employees:     NewSource[domain.Employee](client, domain.KindEmployee),
		Opportunities: NewSource[domain.Opportunity](client, domain.KindOpportunity),
	}
}

// Sync reports canonical reconciliation.
func (s *Source[T]) Sync() app.Sync { return app.SyncCanonical }

// Supports reports whether the API serves op for this kind. Update is never served.
func (s *Source[T]) Supports(op app.Op) bool {
	return s.routes[op]
}

func (s *Source[T]) path() string {
	return "/" + s.kind.Plural()
}

func (s *Source[T]) List(ctx context.Context) ([]T, error) {
	if !s.Supports(app.OpList) {
		return nil, app.ErrUnsupported
	}
	var records []T
	if err := s.client.do(ctx, http.MethodGet, s.path(), nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Create posts record. The response body is ignored; callers re-fetch.
func (s *Source[T]) Create(ctx context.Context, record T) error {
	if !s.Supports(app.OpCreate) {
		return app.ErrUnsupported
	}
	return s.client.do(ctx, http.MethodPost, s.path(), record, nil)
}

// Update always fails with app.ErrUnsupported.
func (s *Source[T]) Update(context.Context, T) error {
	return app.ErrUnsupported
}

func (s *Source[T]) Delete(ctx context.Context, id string) error {
	if !s.Supports(app.OpDelete) {
		return app.ErrUnsupported
	}
	if strings.TrimSpace(id) == "" {
		return errors.New("id is required")
	}
	return s.client.do(ctx, http.MethodDelete, s.path()+"/"+url.PathEscape(id), nil, nil)
}
