// Package client is a typed HTTP client for the club-cms API.
package client

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

	"github.com/Eursukkul/club-cms/internal/dto"
	"github.com/Eursukkul/club-cms/internal/models"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNetwork marks failures to reach the API at all.
	ErrNetwork = errors.New("network failure")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for field, rule := range e.Fields {
		parts = append(parts, field+" "+rule)
	}
	return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, strings.Join(parts, ", "))
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	}
	return false
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds every request. It sets the timeout on a copy, so a
// client passed to WithHTTPClient is left as it was.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the API rooted at baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Events() *Collection[models.Event] {
	return &Collection[models.Event]{c: c, kind: models.EventKind}
}

func (c *Client) Workshops() *Collection[models.Workshop] {
	return &Collection[models.Workshop]{c: c, kind: models.WorkshopKind}
}

func (c *Client) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	req := dto.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Session asks the server whether the current token is still accepted.
func (c *Client) Session(ctx context.Context) (*dto.SessionResponse, error) {
	var out dto.SessionResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Collection addresses one record collection, e.g. /api/events.
type Collection[T any] struct {
	c    *Client
	kind models.Kind
}

func (col *Collection[T]) Kind() models.Kind { return col.kind }

func (col *Collection[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := col.c.do(ctx, http.MethodGet, col.path(""), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (col *Collection[T]) Create(ctx context.Context, record *T) (*T, error) {
	var out T
	if err := col.c.do(ctx, http.MethodPost, col.path(""), record, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (col *Collection[T]) Update(ctx context.Context, id string, record *T) (*T, error) {
	var out T
	if err := col.c.do(ctx, http.MethodPut, col.path(id), record, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (col *Collection[T]) Delete(ctx context.Context, id string) (*T, error) {
	var out T
	if err := col.c.do(ctx, http.MethodDelete, col.path(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (col *Collection[T]) path(id string) string {
	p := "/api/" + col.kind.Name
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var payload dto.ValidationErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Message == "" {
			payload.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: payload.Message, Fields: payload.Fields}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
