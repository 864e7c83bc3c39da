package books

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// API defines the calls the rest of bookshelf makes against the backend.
// It is implemented by *Client and can be faked in tests.
type API interface {
	ListBooks(ctx context.Context) ([]Book, error)
	GetBook(ctx context.Context, id string) (Book, error)
	CreateBook(ctx context.Context, draft Draft) error
	UpdateBook(ctx context.Context, id string, draft Draft) error
	DeleteBook(ctx context.Context, id string) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// CSRFHeader carries the CSRF token on mutating requests.
const CSRFHeader = "csrf-token"

const (
	defaultBaseURL   = "http://127.0.0.1:5555"
	defaultUserAgent = "bookshelf/0.1"
	requestTimeout   = 10 * time.Second
	maxErrorBody     = 64 << 10
)

// Client talks to the books HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	csrf      *CSRF
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is added
// when the client has none.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h == nil {
			return
		}
		if h.Jar == nil {
			h.Jar = c.http.Jar
		}
		c.http = h
	}
}

// NewClient builds a Client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.csrf = NewCSRF(c.FetchCSRFToken)
	return c, nil
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// CSRF returns the token provider whose token is attached to mutating calls.
func (c *Client) CSRF() *CSRF {
	return c.csrf
}

// ListBooks retrieves the full collection.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var payload listResponse
	if err := c.do(ctx, "list books", http.MethodGet, "books", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// GetBook retrieves a single book.
func (c *Client) GetBook(ctx context.Context, id string) (Book, error) {
	if strings.TrimSpace(id) == "" {
		return Book{}, fmt.Errorf("book id required")
	}
	var book Book
	if err := c.do(ctx, "get book", http.MethodGet, "books/"+url.PathEscape(id), nil, &book); err != nil {
		return Book{}, err
	}
	return book, nil
}

// CreateBook posts a new book. The response body is not inspected; callers
// refresh the collection instead.
func (c *Client) CreateBook(ctx context.Context, draft Draft) error {
	return c.do(ctx, "create book", http.MethodPost, "books", draft, nil)
}

// UpdateBook replaces the editable fields of an existing book. Like
// CreateBook, any 2xx response counts as success whatever its body.
func (c *Client) UpdateBook(ctx context.Context, id string, draft Draft) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("book id required")
	}
	return c.do(ctx, "update book", http.MethodPut, "books/"+url.PathEscape(id), draft, nil)
}

// DeleteBook removes a book.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("book id required")
	}
	return c.do(ctx, "delete book", http.MethodDelete, "books/"+url.PathEscape(id), nil, nil)
}

// FetchCSRFToken asks the backend for a session CSRF token. The session
// cookie it sets is kept in the client's jar.
func (c *Client) FetchCSRFToken(ctx context.Context) (string, error) {
	var payload csrfResponse
	if err := c.do(ctx, "fetch csrf token", http.MethodGet, "csrf-token", nil, &payload); err != nil {
		return "", err
	}
	return payload.CSRFToken, nil
}

func (c *Client) do(ctx context.Context, op, method, rel string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(rel), reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && c.csrf != nil {
		req.Header.Set(CSRFHeader, c.csrf.Token())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return networkError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp.StatusCode, readErrorMessage(resp.Body))
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return decodeError(op, resp.StatusCode, err)
	}
	return nil
}

// resolve joins an escaped relative path onto the base URL.
func (c *Client) resolve(rel string) string {
	return c.baseURL.JoinPath(rel).String()
}

func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.text()
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse backend url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse backend url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
