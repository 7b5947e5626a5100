package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultHTTPTimeout bounds a single discovery request.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultMetadataCacheTTL is how long a discovered document is reused.
	DefaultMetadataCacheTTL = 30 * time.Minute

	// maxDocumentSize caps the discovery document read from the network.
	maxDocumentSize = 1 << 20
)

// discoveryPaths are tried in order below the issuer URL.
var discoveryPaths = []string{
	"/.well-known/oauth-authorization-server",
	"/.well-known/openid-configuration",
}

type cachedDocument struct {
	metadata *Metadata
	expires  time.Time
}

// Client resolves the metadata an authority publishes about itself.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	ttl        time.Duration
	now        func() time.Time

	mu       sync.RWMutex
	docs     map[string]cachedDocument
	inflight singleflight.Group
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for discovery requests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger for discovery diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetadataCacheTTL sets how long discovered metadata is reused.
func WithMetadataCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.ttl = ttl
	}
}

// WithClock sets the time source for cache expiry.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a discovery client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		logger:     slog.Default(),
		ttl:        DefaultMetadataCacheTTL,
		now:        time.Now,
		docs:       make(map[string]cachedDocument),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DiscoverMetadata returns the metadata published by issuer, trying the
// RFC 8414 document before the OpenID Connect one. Lookups for the same
// issuer share one request and the result is cached.
func (c *Client) DiscoverMetadata(ctx context.Context, issuer string) (*Metadata, error) {
	issuer = strings.TrimSuffix(issuer, "/")
	if m := c.lookup(issuer); m != nil {
		return m, nil
	}

	v, err, _ := c.inflight.Do(issuer, func() (interface{}, error) {
		if m := c.lookup(issuer); m != nil {
			return m, nil
		}
		m, err := c.discover(ctx, issuer)
		if err != nil {
			return nil, err
		}
		c.store(issuer, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Metadata), nil
}

// TokenEndpoint returns the token endpoint advertised by issuer.
func (c *Client) TokenEndpoint(ctx context.Context, issuer string) (string, error) {
	m, err := c.DiscoverMetadata(ctx, issuer)
	if err != nil {
		return "", err
	}
	if m.TokenEndpoint == "" {
		return "", fmt.Errorf("metadata for %s does not advertise a token endpoint", issuer)
	}
	if !m.SupportsPrivateKeyJWT() {
		c.logger.Warn("Authority does not advertise private_key_jwt client authentication",
			"authority", issuer,
			"methods", strings.Join(m.TokenEndpointAuthMethodsSupported, ","))
	}
	return m.TokenEndpoint, nil
}

// Forget drops cached metadata for issuer.
func (c *Client) Forget(issuer string) {
	c.mu.Lock()
	delete(c.docs, strings.TrimSuffix(issuer, "/"))
	c.mu.Unlock()
}

func (c *Client) lookup(issuer string) *Metadata {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[issuer]
	if !ok || !c.now().Before(doc.expires) {
		return nil
	}
	return doc.metadata
}

func (c *Client) store(issuer string, m *Metadata) {
	c.mu.Lock()
	c.docs[issuer] = cachedDocument{metadata: m, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	c.logger.Debug("Discovered authority metadata",
		"authority", issuer,
		"token_endpoint", m.TokenEndpoint)
}

func (c *Client) discover(ctx context.Context, issuer string) (*Metadata, error) {
	var errs []error
	for _, path := range discoveryPaths {
		m, err := c.fetch(ctx, issuer+path)
		if err == nil {
			return m, nil
		}
		c.logger.Debug("Discovery document unavailable",
			"authority", issuer,
			"document", path,
			"error", err)
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("failed to discover metadata for %s: %w", issuer, errors.Join(errs...))
}

func (c *Client) fetch(ctx context.Context, documentURL string) (*Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, documentURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", documentURL, resp.StatusCode)
	}

	var m Metadata
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentSize)).Decode(&m); err != nil {
		return nil, fmt.Errorf("GET %s: invalid document: %w", documentURL, err)
	}
	if m.Issuer == "" && m.TokenEndpoint == "" {
		return nil, fmt.Errorf("GET %s: empty document", documentURL)
	}
	return &m, nil
}
