// Package client talks to the test-management gateway. Every request carries the session's
// bearer token and, outside authentication paths, the active tenant. A 401 triggers at most
// one token refresh and one retry.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-tms-client/sessions"
	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
)

const (
	HeaderContentType = "Content-Type"
	HeaderAuth        = "Authorization"
	HeaderTenantID    = "X-Tenant-ID"

	contentTypeJSON = "application/json"
	authPathMarker  = "/auth/"

	// DefaultPageLimit caps how many cursor pages a list call follows.
	DefaultPageLimit = 50
)

// SessionStore is the part of sessions.Store the client depends on.
type SessionStore interface {
	Session() sessions.Session
	Persisted(ctx context.Context) (sessions.Session, error)
	SetAuth(ctx context.Context, accessToken string, tenantID int64, refreshToken string) error
}

// Client is the API gateway client. It is safe for concurrent use; concurrent calls that
// both receive a 401 refresh independently.
type Client struct {
	baseURL    *url.URL
	store      SessionStore
	httpClient *http.Client
	log        zerolog.Logger
	timeout    time.Duration
	pageLimit  int
	debugWire  bool
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client (cookie jar, no timeout).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithTimeout sets the per-request timeout. Zero leaves it to the transport.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithPageLimit caps cursor pagination. Values below 1 fall back to DefaultPageLimit.
func WithPageLimit(limit int) ClientOption {
	return func(c *Client) {
		c.pageLimit = limit
	}
}

// WithWireLogging prints one coloured line per HTTP exchange through the logger.
func WithWireLogging(enabled bool) ClientOption {
	return func(c *Client) {
		c.debugWire = enabled
	}
}

// New creates a Client for the gateway at baseURL.
func New(baseURL string, store SessionStore, options ...ClientOption) (*Client, error) {
	if store == nil {
		return nil, fmt.Errorf("[client.New] session store is required")
	}
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("[client.New] invalid base url %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("[client.New] base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:   parsed,
		store:     store,
		log:       zerolog.Nop(),
		pageLimit: DefaultPageLimit,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.pageLimit < 1 {
		c.pageLimit = DefaultPageLimit
	}

	if c.httpClient == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("[client.New] cookie jar: %w", err)
		}
		c.httpClient = &http.Client{Jar: jar}
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	if c.debugWire {
		hc := *c.httpClient
		hc.Transport = newLoggingTransport(hc.Transport, c.log)
		c.httpClient = &hc
	}
	return c, nil
}

// BaseURL returns the gateway address requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Request sends body as JSON to path and decodes a 2xx response into out.
// out may be nil. Non-2xx responses come back as *APIError.
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	target, err := c.resolve(path)
	if err != nil {
		return err
	}
	payload, err := encodeBody(body)
	if err != nil {
		return fmt.Errorf("[Request] encode %s %s: %w", method, path, err)
	}

	callID := uuid.NewString()
	resp, err := c.send(ctx, callID, method, target, payload, c.buildHeaders(path))
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized && c.store.Session().RefreshToken != "" {
		c.log.Debug().Str("call_id", callID).Str("path", path).Msg("401 received, refreshing access token")
		if c.RefreshAccess(ctx) {
			resp, err = c.send(ctx, callID, method, target, payload, c.buildHeaders(path))
			if err != nil {
				return err
			}
		}
	}

	if resp.status < 200 || resp.status > 299 {
		apiErr := parseAPIError(resp.status, resp.body)
		c.log.Debug().Str("call_id", callID).Int("status", resp.status).Str("path", path).Msg(apiErr.Message)
		return apiErr
	}
	return decodeBody(resp.body, out)
}

// buildHeaders returns the headers for path from the in-memory session.
func (c *Client) buildHeaders(path string) http.Header {
	headers := http.Header{}
	headers.Set(HeaderContentType, contentTypeJSON)

	session := c.store.Session()
	if session.AccessToken != "" {
		headers.Set(HeaderAuth, "Bearer "+session.AccessToken)
	}
	if session.HasTenant() && !strings.Contains(path, authPathMarker) {
		headers.Set(HeaderTenantID, strconv.FormatInt(session.TenantID, 10))
	}
	return headers
}

type response struct {
	status int
	body   []byte
}

func (c *Client) send(ctx context.Context, callID, method string, target *url.URL, payload []byte, headers http.Header) (*response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("[send] build %s %s: %w", method, target.Path, err)
	}
	req.Header = headers

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("call_id", callID).Str("method", method).Str("path", target.Path).Msg("transport failure")
		return nil, fmt.Errorf("[send] %s %s: %w", method, target.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[send] read %s %s: %w", method, target.Path, err)
	}
	c.log.Debug().
		Str("call_id", callID).
		Str("method", method).
		Str("path", target.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("api call")
	return &response{status: resp.StatusCode, body: data}, nil
}

// resolve joins path onto the base URL. Absolute URLs (cursor links) must stay on the
// base host.
func (c *Client) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("[resolve] invalid path %q: %w", path, err)
	}
	if ref.IsAbs() {
		if !strings.EqualFold(ref.Host, c.baseURL.Host) {
			return nil, fmt.Errorf("[resolve] refusing to follow %q off %s", path, c.baseURL.Host)
		}
		return ref, nil
	}
	joined := *c.baseURL
	joined.Path = c.baseURL.Path + "/" + strings.TrimLeft(ref.Path, "/")
	joined.RawQuery = ref.RawQuery
	return &joined, nil
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	if raw, ok := body.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(body)
}

func decodeBody(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("[decodeBody] %w", err)
	}
	return nil
}
