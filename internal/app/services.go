package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"tododaemon/internal/auth"
	"tododaemon/internal/certstore"
	"tododaemon/internal/config"
	"tododaemon/internal/daemon"
	"tododaemon/internal/formatting"
	"tododaemon/internal/template"
	"tododaemon/internal/todolist"
	"tododaemon/pkg/logging"
	"tododaemon/pkg/oauth"
)

// Services holds every component the daemon needs for a run.
//
// The services are initialized in dependency order:
//  1. Certificate lookup in the configured store
//  2. Client credential built from the certificate
//  3. Token provider and retrying acquirer
//  4. To Do list API client
//  5. The create-then-list loop
type Services struct {
	// Certificate is the client certificate selected from the store.
	Certificate *certstore.Certificate

	// Credential signs the client assertions sent to the identity provider.
	Credential *auth.Credential

	// Provider requests and caches tokens from the identity provider.
	Provider *auth.ClientCredentialsProvider

	// Acquirer retries transient token failures on top of Provider.
	Acquirer *auth.Acquirer

	// TodoList calls the remote To Do list service.
	TodoList *todolist.Client

	// Loop runs the create-then-list cycles.
	Loop *daemon.Loop

	// RunID identifies this run in logs and item titles.
	RunID string
}

// InitializeServices builds the services described by cfg.DaemonConfig,
// which must already be loaded and validated.
func InitializeServices(cfg *Config) (*Services, error) {
	dc := cfg.DaemonConfig
	runID := uuid.NewString()

	cert, err := LocateCertificate(dc.Identity)
	if err != nil {
		return nil, err
	}

	credential, err := auth.NewCredential(dc.Identity.ClientID, cert)
	if err != nil {
		return nil, fmt.Errorf("failed to create client credential: %w", err)
	}

	identityHTTP := &http.Client{Timeout: dc.Identity.HTTPTimeout}
	providerOpts := []auth.ProviderOption{
		auth.WithProviderHTTPClient(identityHTTP),
		auth.WithEndpointVersion(dc.Identity.EndpointVersion),
	}
	if dc.Identity.TokenEndpoint != "" {
		providerOpts = append(providerOpts, auth.WithTokenEndpoint(dc.Identity.TokenEndpoint))
	} else {
		discovery := oauth.NewClient(
			oauth.WithHTTPClient(identityHTTP),
			oauth.WithLogger(logging.Logger()),
		)
		providerOpts = append(providerOpts, auth.WithDiscovery(discovery, dc.Identity.Authority()))
	}

	provider, err := auth.NewClientCredentialsProvider(credential, providerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create token provider: %w", err)
	}

	acquirer := auth.NewAcquirer(provider, auth.RetryPolicy{
		MaxAttempts: dc.Identity.Retry.MaxAttempts,
		Backoff:     dc.Identity.Retry.Backoff,
	})

	todoClient, err := todolist.NewClient(dc.TodoList.BaseAddress,
		todolist.WithHTTPClient(&http.Client{Timeout: dc.TodoList.RequestTimeout}))
	if err != nil {
		return nil, fmt.Errorf("failed to create To Do list client: %w", err)
	}

	titles, err := template.New(dc.Daemon.TitleTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid title template: %w", err)
	}

	loopOpts := []daemon.Option{
		daemon.WithFormatter(formatting.New(cfg.Output)),
		daemon.WithTitleEngine(titles),
		daemon.WithRunID(runID),
	}
	if cfg.Stdout != nil {
		loopOpts = append(loopOpts, daemon.WithOutput(cfg.Stdout))
	}
	loop, err := daemon.New(acquirer, todoClient, dc.TodoList.ResourceID, loopOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon loop: %w", err)
	}

	logging.InfoAttrs("Bootstrap", "Services initialized",
		slog.String("run_id", runID),
		slog.String("client_id", dc.Identity.ClientID),
		slog.String("certificate", cert.Leaf.Subject.String()),
		slog.String("thumbprint", credential.Thumbprint()),
		slog.String("resource", dc.TodoList.ResourceID))

	return &Services{
		Certificate: cert,
		Credential:  credential,
		Provider:    provider,
		Acquirer:    acquirer,
		TodoList:    todoClient,
		Loop:        loop,
		RunID:       runID,
	}, nil
}

// LocateCertificate finds the active certificate named by the identity
// configuration. The returned error wraps certstore.ErrCertificateNotFound
// when the store holds no matching valid certificate.
func LocateCertificate(id config.IdentityConfig) (*certstore.Certificate, error) {
	cert, err := certstore.New(id.CertStorePath).Find(id.CertName)
	if err != nil {
		return nil, fmt.Errorf("failed to locate certificate %q: %w", id.CertName, err)
	}
	return cert, nil
}
