package config

import "time"

const (
	// DefaultAADInstance is the public Azure AD sign-in instance.
	DefaultAADInstance = "https://login.microsoftonline.com/{0}"

	// DefaultMaxAttempts is the total number of token requests per acquisition.
	DefaultMaxAttempts = 3

	// DefaultRetryBackoff is the fixed wait after a transient token failure.
	DefaultRetryBackoff = 3 * time.Second

	// DefaultIterations is the number of create-then-list cycles per run.
	DefaultIterations = 10

	// DefaultDelay is the pause after every API call.
	DefaultDelay = time.Second

	// DefaultTitleTemplate renders the title of each posted item.
	DefaultTitleTemplate = `Task at time: {{ now | date "2006-01-02 15:04:05" }}`

	// DefaultHTTPTimeout bounds every request to the identity provider and the API.
	DefaultHTTPTimeout = 30 * time.Second
)

// GetDefaultConfig returns the default configuration. Identity and service
// coordinates have no sensible defaults and must be supplied.
func GetDefaultConfig() DaemonConfig {
	return DaemonConfig{
		Identity: IdentityConfig{
			AADInstance:     DefaultAADInstance,
			EndpointVersion: EndpointVersionV1,
			HTTPTimeout:     DefaultHTTPTimeout,
			Retry: RetryConfig{
				MaxAttempts: DefaultMaxAttempts,
				Backoff:     DefaultRetryBackoff,
			},
		},
		TodoList: TodoListConfig{
			RequestTimeout: DefaultHTTPTimeout,
		},
		Daemon: LoopConfig{
			Iterations:    DefaultIterations,
			Delay:         DefaultDelay,
			TitleTemplate: DefaultTitleTemplate,
		},
	}
}
