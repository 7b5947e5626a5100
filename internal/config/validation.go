package config

import (
	"fmt"
	"net/url"
	"strings"

	"tododaemon/internal/template"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// addRequired records an error when value is blank.
func (ve *ValidationErrors) addRequired(field, value string) {
	if strings.TrimSpace(value) == "" {
		ve.Add(field, "is required", value)
	}
}

// addURL records an error when value is set but not an absolute http(s) URL.
func (ve *ValidationErrors) addURL(field, value string) {
	if value == "" {
		return
	}
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		ve.Add(field, "must be an absolute http or https URL", value)
	}
}

// Validate checks that the configuration is complete enough to start the daemon.
// It returns nil or a ValidationErrors listing every problem found.
func (c DaemonConfig) Validate() error {
	var errs ValidationErrors

	id := c.Identity
	if id.TokenEndpoint == "" && id.Authority() == "" {
		errs.Add("identity.aadInstance", "is required unless identity.tokenEndpoint is set")
	}
	if id.TokenEndpoint == "" && strings.Contains(id.AADInstance, "{0}") && id.Tenant == "" {
		errs.Add("identity.tenant", "is required by identity.aadInstance", id.AADInstance)
	}
	errs.addURL("identity.aadInstance", id.Authority())
	errs.addURL("identity.tokenEndpoint", id.TokenEndpoint)
	errs.addRequired("identity.clientId", id.ClientID)
	errs.addRequired("identity.certName", id.CertName)
	errs.addRequired("identity.certStorePath", id.CertStorePath)
	if id.EndpointVersion != EndpointVersionV1 && id.EndpointVersion != EndpointVersionV2 {
		errs.Add("identity.endpointVersion", fmt.Sprintf("must be one of: %s, %s", EndpointVersionV1, EndpointVersionV2), id.EndpointVersion)
	}
	if id.HTTPTimeout < 0 {
		errs.Add("identity.httpTimeout", "must not be negative", id.HTTPTimeout)
	}
	if id.Retry.MaxAttempts < 1 {
		errs.Add("identity.retry.maxAttempts", "must be at least 1", id.Retry.MaxAttempts)
	}
	if id.Retry.Backoff < 0 {
		errs.Add("identity.retry.backoff", "must not be negative", id.Retry.Backoff)
	}

	errs.addRequired("todoList.resourceId", c.TodoList.ResourceID)
	errs.addRequired("todoList.baseAddress", c.TodoList.BaseAddress)
	errs.addURL("todoList.baseAddress", c.TodoList.BaseAddress)
	if c.TodoList.RequestTimeout < 0 {
		errs.Add("todoList.requestTimeout", "must not be negative", c.TodoList.RequestTimeout)
	}

	if c.Daemon.Iterations < 1 {
		errs.Add("daemon.iterations", "must be at least 1", c.Daemon.Iterations)
	}
	if c.Daemon.Delay < 0 {
		errs.Add("daemon.delay", "must not be negative", c.Daemon.Delay)
	}
	if _, err := template.New(c.Daemon.TitleTemplate); err != nil {
		errs.Add("daemon.titleTemplate", err.Error(), c.Daemon.TitleTemplate)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
