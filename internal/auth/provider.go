package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"tododaemon/internal/config"
	"tododaemon/pkg/logging"
	"tododaemon/pkg/oauth"
)

// TokenProvider issues access tokens for a resource.
type TokenProvider interface {
	Token(ctx context.Context, resource string) (*oauth2.Token, error)
}

// endpointResolver returns the token endpoint URL.
type endpointResolver func(ctx context.Context) (string, error)

// ClientCredentialsProvider obtains tokens with the client-credentials grant,
// authenticating with a signed certificate assertion.
//
// Tokens are cached per resource until they are about to expire. Concurrent
// requests for the same resource share one round trip.
type ClientCredentialsProvider struct {
	credential *Credential
	version    string
	httpClient *http.Client
	now        func() time.Time

	tokenURL  string
	discovery *oauth.Client
	authority string
	endpoint  endpointResolver

	mu    sync.Mutex
	cache map[string]*oauth2.Token
	group singleflight.Group
}

// ProviderOption configures a ClientCredentialsProvider.
type ProviderOption func(*ClientCredentialsProvider)

// WithProviderHTTPClient sets the HTTP client used for token requests.
func WithProviderHTTPClient(c *http.Client) ProviderOption {
	return func(p *ClientCredentialsProvider) {
		p.httpClient = c
	}
}

// WithEndpointVersion selects the v1 (resource parameter) or v2
// (scope=<resource>/.default) request form.
func WithEndpointVersion(version string) ProviderOption {
	return func(p *ClientCredentialsProvider) {
		p.version = version
	}
}

// WithTokenEndpoint sets the token endpoint explicitly, skipping discovery.
func WithTokenEndpoint(tokenURL string) ProviderOption {
	return func(p *ClientCredentialsProvider) {
		p.tokenURL = tokenURL
	}
}

// WithDiscovery resolves the token endpoint from the authority's metadata.
func WithDiscovery(client *oauth.Client, authority string) ProviderOption {
	return func(p *ClientCredentialsProvider) {
		p.discovery = client
		p.authority = strings.TrimSuffix(authority, "/")
	}
}

// NewClientCredentialsProvider creates a provider for credential.
// Either WithTokenEndpoint or WithDiscovery must be given.
func NewClientCredentialsProvider(credential *Credential, opts ...ProviderOption) (*ClientCredentialsProvider, error) {
	if credential == nil {
		return nil, errors.New("credential is required")
	}

	p := &ClientCredentialsProvider{
		credential: credential,
		version:    config.EndpointVersionV1,
		httpClient: &http.Client{Timeout: config.DefaultHTTPTimeout},
		now:        time.Now,
		cache:      make(map[string]*oauth2.Token),
	}
	for _, opt := range opts {
		opt(p)
	}

	switch p.version {
	case config.EndpointVersionV1, config.EndpointVersionV2:
	default:
		return nil, fmt.Errorf("unsupported endpoint version %q", p.version)
	}

	switch {
	case p.tokenURL != "":
		tokenURL := p.tokenURL
		p.endpoint = func(context.Context) (string, error) { return tokenURL, nil }
	case p.discovery != nil && p.authority != "":
		issuer := p.authority
		if p.version == config.EndpointVersionV2 {
			issuer += "/v2.0"
		}
		discovery := p.discovery
		p.endpoint = func(ctx context.Context) (string, error) {
			return discovery.TokenEndpoint(ctx, issuer)
		}
	default:
		return nil, errors.New("either a token endpoint or an authority for discovery is required")
	}

	return p, nil
}

// Token returns a cached token for resource or requests a new one.
func (p *ClientCredentialsProvider) Token(ctx context.Context, resource string) (*oauth2.Token, error) {
	if tok := p.cached(resource); tok != nil {
		logging.Debug("TokenProvider", "Using cached token for %s (expires %s)", resource, tok.Expiry.Format(time.RFC3339))
		return tok, nil
	}

	result, err, _ := p.group.Do(resource, func() (interface{}, error) {
		if tok := p.cached(resource); tok != nil {
			return tok, nil
		}
		return p.fetch(ctx, resource)
	})
	if err != nil {
		return nil, err
	}
	return result.(*oauth2.Token), nil
}

// Invalidate drops the cached token for resource.
func (p *ClientCredentialsProvider) Invalidate(resource string) {
	p.mu.Lock()
	delete(p.cache, resource)
	p.mu.Unlock()
}

func (p *ClientCredentialsProvider) cached(resource string) *oauth2.Token {
	p.mu.Lock()
	defer p.mu.Unlock()
	if tok, ok := p.cache[resource]; ok && tok.Valid() {
		return tok
	}
	return nil
}

func (p *ClientCredentialsProvider) fetch(ctx context.Context, resource string) (*oauth2.Token, error) {
	tokenURL, err := p.endpoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token endpoint: %w", err)
	}

	assertion, err := p.credential.Assertion(tokenURL, p.now())
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"client_assertion_type": {ClientAssertionType},
		"client_assertion":      {assertion},
	}
	cfg := clientcredentials.Config{
		ClientID:       p.credential.ClientID(),
		TokenURL:       tokenURL,
		AuthStyle:      oauth2.AuthStyleInParams,
		EndpointParams: params,
	}
	if p.version == config.EndpointVersionV2 {
		cfg.Scopes = []string{strings.TrimSuffix(resource, "/") + "/.default"}
	} else {
		params.Set("resource", resource)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("token request to %s failed: %w", tokenURL, err)
	}

	p.mu.Lock()
	p.cache[resource] = tok
	p.mu.Unlock()

	logging.Debug("TokenProvider", "Obtained %s token for %s (expires %s)", tok.Type(), resource, tok.Expiry.Format(time.RFC3339))
	return tok, nil
}
