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

	"github.com/dmitrijs2005/trackinventory/internal/common"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
)

// maxBodySize bounds how much of a response is read.
const maxBodySize = 4 << 20

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	cache   *SessionCache
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client. Options applied
// afterwards (timeout, cache) modify the given client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout sets the transport-level request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithResponseCache enables HTTP caching of GET responses in cache.
func WithResponseCache(cache *SessionCache) Option {
	return func(c *HTTPClient) {
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.cache = cache
		c.http.Transport = &httpcache.Transport{
			Transport:           base,
			Cache:               cache,
			MarkCachedResponses: true,
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient builds a Client for the backend rooted at baseURL.
func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parsing base URL: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{},
		tokens:  tokens,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) ResetCache() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

func (c *HTTPClient) Do(ctx context.Context, r Request, out any) error {
	var token string
	if !r.Anonymous {
		t, ok := c.tokens.Get(ctx, common.KeyAccessToken)
		if !ok || t == "" {
			return &APIError{Kind: common.ErrUnauthenticated, Message: "no access token found, please log in"}
		}
		token = t
	}

	req, err := c.newRequest(ctx, r, token)
	if err != nil {
		return err
	}
	reqID := req.Header.Get(common.RequestIDHeaderName)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", r.Method, "path", r.Path, "request_id", reqID, "error", err)
		return &APIError{Kind: common.ErrNetwork, Message: "network error: unable to reach the server", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &APIError{Kind: common.ErrNetwork, Status: resp.StatusCode, Message: "network error: response interrupted", Err: err}
	}

	c.log.Debug(ctx, "request done",
		"method", r.Method,
		"path", r.Path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start),
		"cached", resp.Header.Get(httpcache.XFromCache) != "",
	)

	if err := classify(r, resp.StatusCode, body); err != nil {
		return err
	}
	return decode(resp.StatusCode, body, out)
}

func (c *HTTPClient) newRequest(ctx context.Context, r Request, token string) (*http.Request, error) {
	u := *c.baseURL
	raw := c.baseURL.EscapedPath() + "/" + strings.TrimLeft(r.Path, "/")
	p, err := url.PathUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", r.Method, r.Path, err)
	}
	u.Path, u.RawPath = p, raw
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s body: %w", r.Method, r.Path, err)
		}
		body = bytes.NewReader(b)
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, r.Path, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	return req, nil
}

func classify(r Request, status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		kind := r.Unauthorized
		if kind == nil {
			kind = common.ErrSessionExpired
		}
		msg := "session expired, please log in again"
		if errors.Is(kind, common.ErrInvalidCredentials) {
			msg = "Invalid credentials"
		}
		return &APIError{Kind: kind, Status: status, Message: serverMessage(body, msg)}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &APIError{Kind: common.ErrValidation, Status: status, Message: serverMessage(body, defaultMessage(status))}
	default:
		return &APIError{Kind: common.ErrServer, Status: status, Message: serverMessage(body, defaultMessage(status))}
	}
}

func defaultMessage(status int) string {
	return fmt.Sprintf("request failed (status: %d)", status)
}

// serverMessage extracts the human-readable text of an error body: a JSON
// "message" field, else the trimmed body text, else fallback.
func serverMessage(body []byte, fallback string) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fallback
	}
	if trimmed[0] == '{' {
		var m struct {
			Message string `json:"message"`
			Title   string `json:"title"`
		}
		if err := json.Unmarshal(trimmed, &m); err == nil {
			if m.Message != "" {
				return m.Message
			}
			if m.Title != "" {
				return m.Title
			}
			return fallback
		}
	}
	if trimmed[0] == '<' {
		// HTML error pages from proxies
		return fallback
	}
	return string(trimmed)
}

func decode(status int, body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Kind: common.ErrDecode, Status: status, Message: "unexpected response from server", Err: err}
	}
	return nil
}
