// Package remote is the client both widgets use to talk to the CampusCalm
// backend: same-origin, credentialed JSON requests with the anti-forgery
// header taken from the csrftoken cookie.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// CSRFCookie is the cookie the anti-forgery token is read from.
	CSRFCookie = "csrftoken"

	// CSRFHeader carries the token on state-mutating requests.
	CSRFHeader = "X-CSRFToken"

	// SessionCookie is the backend's authenticated session cookie.
	SessionCookie = "sessionid"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// Client is a thin HTTP client for the CampusCalm REST API. Cookies set by
// the backend are kept in a jar scoped to the base URL, which is what makes
// requests credentialed; no request is ever retried.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. A timed-out request is a transport
// failure.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// NewClient creates a client for the backend at baseURL
// (e.g. https://campuscalm.example.com).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: defaultTimeout,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SetCookie stores a cookie for the backend origin, as if the backend had
// set it.
func (c *Client) SetCookie(name, value string) {
	c.httpClient.Jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  name,
		Value: value,
		Path:  "/",
	}})
}

// CSRFToken returns the decoded csrftoken cookie value, or "" when the
// cookie is absent.
func (c *Client) CSRFToken() string {
	for _, cookie := range c.httpClient.Jar.Cookies(c.baseURL) {
		if cookie.Name != CSRFCookie {
			continue
		}
		if v, err := url.PathUnescape(cookie.Value); err == nil {
			return v
		}
		return cookie.Value
	}
	return ""
}

// Resolve turns an application path into an absolute URL on the backend.
func (c *Client) Resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return c.baseURL.String() + path
	}
	return c.baseURL.ResolveReference(ref).String()
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post performs an HTTP POST request with an optional JSON body. When
// result is nil any 2xx response is accepted without reading it as JSON.
func (c *Client) Post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// do builds the request, attaches the headers, and decodes the response.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Resolve(path), bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && method != http.MethodHead {
		if token := c.CSRFToken(); token != "" {
			req.Header.Set(CSRFHeader, token)
		}
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("reading response body: %w", err)}
	}

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	if result == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return &DecodeError{Path: path, Err: err}
	}

	return nil
}
