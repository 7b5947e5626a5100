package config

import (
	"strings"
	"time"
)

// DaemonConfig is the top-level configuration structure for tododaemon.
// It is built once at startup and passed by value to every component.
type DaemonConfig struct {
	Identity IdentityConfig `yaml:"identity" mapstructure:"identity"`
	TodoList TodoListConfig `yaml:"todoList" mapstructure:"todoList"`
	Daemon   LoopConfig     `yaml:"daemon" mapstructure:"daemon"`
}

// Token endpoint flavours understood by the identity provider.
const (
	// EndpointVersionV1 requests tokens with a "resource" parameter.
	EndpointVersionV1 = "v1"
	// EndpointVersionV2 requests tokens with a "<resource>/.default" scope.
	EndpointVersionV2 = "v2"
)

// IdentityConfig describes how the daemon authenticates to the identity provider.
type IdentityConfig struct {
	// AADInstance is the sign-in instance, e.g. https://login.microsoftonline.com/{0}.
	AADInstance string `yaml:"aadInstance" mapstructure:"aadInstance"`
	// Tenant is the directory name or ID substituted into AADInstance.
	Tenant string `yaml:"tenant" mapstructure:"tenant"`
	// ClientID identifies the daemon application to the identity provider.
	ClientID string `yaml:"clientId" mapstructure:"clientId"`
	// CertName is the subject name of the client certificate.
	CertName string `yaml:"certName" mapstructure:"certName"`
	// CertStorePath is the directory holding PEM certificates and keys.
	CertStorePath string `yaml:"certStorePath" mapstructure:"certStorePath"`
	// TokenEndpoint skips metadata discovery when set.
	TokenEndpoint string `yaml:"tokenEndpoint,omitempty" mapstructure:"tokenEndpoint"`
	// EndpointVersion selects the v1 (resource) or v2 (scope) request form.
	EndpointVersion string `yaml:"endpointVersion" mapstructure:"endpointVersion"`

	HTTPTimeout time.Duration `yaml:"httpTimeout" mapstructure:"httpTimeout"`
	Retry       RetryConfig   `yaml:"retry" mapstructure:"retry"`
}

// RetryConfig bounds retries of transient token acquisition failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"maxAttempts" mapstructure:"maxAttempts"` // Total attempts, including the first
	Backoff     time.Duration `yaml:"backoff" mapstructure:"backoff"`         // Fixed wait between attempts
}

// TodoListConfig describes the remote To Do list service.
type TodoListConfig struct {
	ResourceID     string        `yaml:"resourceId" mapstructure:"resourceId"`   // App ID URI of the service
	BaseAddress    string        `yaml:"baseAddress" mapstructure:"baseAddress"` // e.g. https://localhost:44321
	RequestTimeout time.Duration `yaml:"requestTimeout" mapstructure:"requestTimeout"`
}

// LoopConfig controls the create-then-list cycles.
type LoopConfig struct {
	Iterations    int           `yaml:"iterations" mapstructure:"iterations"`
	Delay         time.Duration `yaml:"delay" mapstructure:"delay"`
	TitleTemplate string        `yaml:"titleTemplate" mapstructure:"titleTemplate"`
}

// Authority returns the sign-in URL of the tenant.
// The instance may carry a "{0}" placeholder for the tenant; otherwise the
// tenant is appended as a path segment.
func (c IdentityConfig) Authority() string {
	instance := strings.TrimSpace(c.AADInstance)
	if instance == "" {
		return ""
	}
	if strings.Contains(instance, "{0}") {
		return strings.TrimSuffix(strings.ReplaceAll(instance, "{0}", c.Tenant), "/")
	}
	instance = strings.TrimSuffix(instance, "/")
	if c.Tenant == "" {
		return instance
	}
	return instance + "/" + c.Tenant
}
