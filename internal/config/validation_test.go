package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() DaemonConfig {
	cfg := GetDefaultConfig()
	cfg.Identity.Tenant = "contoso.onmicrosoft.com"
	cfg.Identity.ClientID = "client-123"
	cfg.Identity.CertName = "CN=TodoListDaemonWithCert"
	cfg.Identity.CertStorePath = "/etc/tododaemon/certs"
	cfg.TodoList.ResourceID = "https://contoso.onmicrosoft.com/TodoListService"
	cfg.TodoList.BaseAddress = "https://localhost:44321"
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_TokenEndpointReplacesAuthority(t *testing.T) {
	cfg := validConfig()
	cfg.Identity.AADInstance = ""
	cfg.Identity.Tenant = ""
	cfg.Identity.TokenEndpoint = "https://idp.example.com/oauth2/token"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Identity.EndpointVersion = "v3"
	cfg.Identity.Retry.MaxAttempts = 0
	cfg.Daemon.Iterations = 0
	cfg.TodoList.BaseAddress = "not a url"

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))

	fields := make(map[string]bool)
	for _, e := range verrs {
		fields[e.Field] = true
	}
	for _, field := range []string{
		"identity.tenant",
		"identity.clientId",
		"identity.certName",
		"identity.certStorePath",
		"identity.endpointVersion",
		"identity.retry.maxAttempts",
		"todoList.resourceId",
		"todoList.baseAddress",
		"daemon.iterations",
	} {
		assert.True(t, fields[field], "expected error for %s", field)
	}
}

func TestValidate_NegativeDurations(t *testing.T) {
	cfg := validConfig()
	cfg.Daemon.Delay = -1
	cfg.Identity.Retry.Backoff = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daemon.delay")
	assert.Contains(t, err.Error(), "identity.retry.backoff")
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "no validation errors", errs.Error())

	errs.Add("a", "is required")
	assert.Equal(t, "field 'a': is required", errs.Error())

	errs.Add("", "standalone message")
	assert.Equal(t, "validation failed: field 'a': is required; standalone message", errs.Error())
}

func TestValidate_TitleTemplate(t *testing.T) {
	cfg := validConfig()
	cfg.Daemon.TitleTemplate = `{{ .Iteration | nosuchfunc }}`

	err := cfg.Validate()
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "daemon.titleTemplate", verrs[0].Field)

	cfg.Daemon.TitleTemplate = `Item {{ .Iteration }} of run {{ .RunID | trunc 8 }}`
	assert.NoError(t, cfg.Validate())
}
