package todolist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"tododaemon/internal/auth"
	"tododaemon/pkg/logging"
)

const (
	// DefaultRequestTimeout bounds a single API call.
	DefaultRequestTimeout = 30 * time.Second

	listPath = "/api/todolist"

	// RequestIDHeader carries the per-request correlation ID.
	RequestIDHeader = "client-request-id"
)

// Item is an entry of the To Do list.
type Item struct {
	Title string `json:"Title"`
}

// Client calls the To Do list API. It holds no session state: each call is
// authorized with the token it is given.
type Client struct {
	baseURL    string
	httpClient *http.Client
	newID      func() string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithRequestIDGenerator overrides how correlation IDs are generated.
func WithRequestIDGenerator(fn func() string) ClientOption {
	return func(cl *Client) {
		cl.newID = fn
	}
}

// NewClient creates a client for the API at baseAddress.
func NewClient(baseAddress string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid base address %q: %w", baseAddress, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base address %q: scheme and host are required", baseAddress)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseAddress, "/"),
		httpClient: &http.Client{Timeout: DefaultRequestTimeout},
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateItem adds an item titled title.
func (c *Client) CreateItem(ctx context.Context, token *auth.AccessToken, title string) error {
	form := url.Values{"Title": {title}}
	resp, err := c.do(ctx, token, "create", http.MethodPost, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if !success(resp.StatusCode) {
		return newAPIError("create", resp)
	}
	return nil
}

// ListItems returns all items in the order the API returns them.
func (c *Client) ListItems(ctx context.Context, token *auth.AccessToken) ([]Item, error) {
	resp, err := c.do(ctx, token, "list", http.MethodGet, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, newAPIError("list", resp)
	}

	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}
	return items, nil
}

func (c *Client) do(ctx context.Context, token *auth.AccessToken, op, method string, body io.Reader, contentType string) (*http.Response, error) {
	if token == nil || token.Value.IsEmpty() {
		return nil, fmt.Errorf("%s: access token is required", op)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+listPath, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", token.AuthorizationHeader())
	requestID := c.newID()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}

	logging.Debug("TodoList", "%s %s -> %d in %s (request id %s)",
		method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond), requestID)
	return resp, nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}

// reasonPhrase returns the reason phrase of the status line, falling back to
// the standard text for the code.
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
