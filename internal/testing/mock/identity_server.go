package mock

import (
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClientAssertionType is the assertion type of certificate credentials.
const ClientAssertionType = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"

// IdentityServerConfig configures the mock identity provider.
type IdentityServerConfig struct {
	// ClientID is the expected client ID. Empty accepts any client.
	ClientID string

	// Certificate verifies client assertions when set: the signature must
	// check out against its public key and the x5t header must match its
	// thumbprint.
	Certificate *x509.Certificate

	// TokenLifetime is how long issued tokens remain valid (default 1h).
	TokenLifetime time.Duration
}

// TokenRequest is a token request as received by the mock identity provider.
type TokenRequest struct {
	Path          string
	GrantType     string
	ClientID      string
	Resource      string
	Scope         string
	AssertionType string
	Assertion     string
}

// IdentityServer is a mock identity provider serving discovery documents and
// client-credentials token requests for both the v1 and v2 endpoint forms.
type IdentityServer struct {
	config IdentityServerConfig
	server *httptest.Server

	mu       sync.Mutex
	requests []TokenRequest
	failures []string
	issued   int
}

// NewIdentityServer starts a mock identity provider. Call Close when done.
func NewIdentityServer(config IdentityServerConfig) *IdentityServer {
	if config.TokenLifetime == 0 {
		config.TokenLifetime = time.Hour
	}
	s := &IdentityServer{config: config}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", s.handleMetadata("/oauth2/token"))
	mux.HandleFunc("/v2.0/.well-known/openid-configuration", s.handleMetadata("/oauth2/v2.0/token"))
	mux.HandleFunc("/oauth2/token", s.handleToken)
	mux.HandleFunc("/oauth2/v2.0/token", s.handleToken)

	s.server = httptest.NewServer(mux)
	return s
}

// URL returns the authority URL of the server.
func (s *IdentityServer) URL() string {
	return s.server.URL
}

// Client returns an HTTP client configured for the server.
func (s *IdentityServer) Client() *http.Client {
	return s.server.Client()
}

// TokenURL returns the token endpoint for the v1 ("v1") or v2 ("v2") form.
func (s *IdentityServer) TokenURL(version string) string {
	if version == "v2" {
		return s.server.URL + "/oauth2/v2.0/token"
	}
	return s.server.URL + "/oauth2/token"
}

// Close shuts the server down.
func (s *IdentityServer) Close() {
	s.server.Close()
}

// FailNext queues OAuth error codes returned by the next token requests,
// one per request, in order.
func (s *IdentityServer) FailNext(codes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, codes...)
}

// Requests returns the token requests received so far.
func (s *IdentityServer) Requests() []TokenRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TokenRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// IssuedCount returns the number of tokens issued.
func (s *IdentityServer) IssuedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued
}

func (s *IdentityServer) handleMetadata(tokenPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metadata := map[string]interface{}{
			"issuer":                                s.server.URL + "/",
			"token_endpoint":                        s.server.URL + tokenPath,
			"grant_types_supported":                 []string{"client_credentials"},
			"token_endpoint_auth_methods_supported": []string{"client_secret_post", "private_key_jwt"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(metadata)
	}
}

func (s *IdentityServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req := TokenRequest{
		Path:          r.URL.Path,
		GrantType:     r.PostFormValue("grant_type"),
		ClientID:      r.PostFormValue("client_id"),
		Resource:      r.PostFormValue("resource"),
		Scope:         r.PostFormValue("scope"),
		AssertionType: r.PostFormValue("client_assertion_type"),
		Assertion:     r.PostFormValue("client_assertion"),
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	var failure string
	if len(s.failures) > 0 {
		failure = s.failures[0]
		s.failures = s.failures[1:]
	}
	s.mu.Unlock()

	if failure != "" {
		status := http.StatusBadRequest
		if failure == "temporarily_unavailable" {
			status = http.StatusServiceUnavailable
		}
		tokenError(w, status, failure, "simulated failure")
		return
	}

	if req.GrantType != "client_credentials" {
		tokenError(w, http.StatusBadRequest, "unsupported_grant_type",
			fmt.Sprintf("grant_type %s not supported", req.GrantType))
		return
	}
	if s.config.ClientID != "" && req.ClientID != s.config.ClientID {
		tokenError(w, http.StatusUnauthorized, "invalid_client", "unknown client")
		return
	}
	if req.AssertionType != ClientAssertionType || req.Assertion == "" {
		tokenError(w, http.StatusUnauthorized, "invalid_client", "client assertion required")
		return
	}
	if err := s.verifyAssertion(req.Assertion, s.server.URL+r.URL.Path); err != nil {
		tokenError(w, http.StatusUnauthorized, "invalid_client", err.Error())
		return
	}

	isV2 := strings.Contains(r.URL.Path, "/v2.0/")
	if isV2 && !strings.HasSuffix(req.Scope, "/.default") {
		tokenError(w, http.StatusBadRequest, "invalid_scope", "scope must end with /.default")
		return
	}
	if !isV2 && req.Resource == "" {
		tokenError(w, http.StatusBadRequest, "invalid_request", "resource is required")
		return
	}

	s.mu.Lock()
	s.issued++
	token := fmt.Sprintf("access-token-%d", s.issued)
	s.mu.Unlock()

	resp := map[string]interface{}{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(s.config.TokenLifetime.Seconds()),
	}
	if !isV2 {
		resp["resource"] = req.Resource
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *IdentityServer) verifyAssertion(assertion, audience string) error {
	if s.config.Certificate == nil {
		return nil
	}
	cert := s.config.Certificate
	token, err := jwt.Parse(assertion, func(t *jwt.Token) (interface{}, error) {
		return cert.PublicKey, nil
	}, jwt.WithAudience(audience), jwt.WithValidMethods([]string{"RS256", "ES256"}))
	if err != nil {
		return fmt.Errorf("invalid client assertion: %w", err)
	}

	sum := sha1.Sum(cert.Raw)
	if x5t, _ := token.Header["x5t"].(string); x5t != base64.RawURLEncoding.EncodeToString(sum[:]) {
		return fmt.Errorf("client assertion thumbprint mismatch")
	}
	return nil
}

func tokenError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":             code,
		"error_description": description,
	})
}
