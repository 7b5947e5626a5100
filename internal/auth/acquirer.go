package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/oauth2"

	"tododaemon/pkg/logging"
)

// AccessToken is a bearer token issued for a resource.
type AccessToken struct {
	Value     RedactedToken
	Type      string
	ExpiresOn time.Time
	Resource  string
}

// AuthorizationHeader returns the value of the Authorization header.
func (t *AccessToken) AuthorizationHeader() string {
	return t.Type + " " + t.Value.Value()
}

// RetryPolicy bounds token acquisition.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff is the fixed wait between attempts.
	Backoff time.Duration
}

// Attempt describes the outcome of one token request.
type Attempt struct {
	Resource    string
	Number      int
	MaxAttempts int
	Duration    time.Duration
	Err         error
	ErrorCode   string
	// Retry is true when another attempt follows.
	Retry bool
}

// AttemptObserver is called after every attempt.
type AttemptObserver func(Attempt)

// Acquirer obtains access tokens from a TokenProvider, retrying transient
// failures with a fixed backoff.
type Acquirer struct {
	provider TokenProvider
	policy   RetryPolicy
	observer AttemptObserver
}

// AcquirerOption configures an Acquirer.
type AcquirerOption func(*Acquirer)

// WithAttemptObserver registers fn to be called after every attempt.
func WithAttemptObserver(fn AttemptObserver) AcquirerOption {
	return func(a *Acquirer) {
		a.observer = fn
	}
}

// NewAcquirer creates an Acquirer. A policy with fewer than one attempt is
// treated as a single attempt.
func NewAcquirer(provider TokenProvider, policy RetryPolicy, opts ...AcquirerOption) *Acquirer {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.Backoff < 0 {
		policy.Backoff = 0
	}
	a := &Acquirer{
		provider: provider,
		policy:   policy,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire returns a token for resource.
//
// Failures classified as transient are retried after the policy's backoff
// until MaxAttempts is reached; any other failure ends acquisition at once.
// The returned error is always an *AuthError. Cancelling ctx aborts the
// backoff wait.
func (a *Acquirer) Acquire(ctx context.Context, resource string) (*AccessToken, error) {
	state := RetryState{MaxAttempts: a.policy.MaxAttempts}

	operation := func() (*oauth2.Token, error) {
		state.Attempts++
		start := time.Now()
		tok, err := a.provider.Token(ctx, resource)

		attempt := Attempt{
			Resource:    resource,
			Number:      state.Attempts,
			MaxAttempts: state.MaxAttempts,
			Duration:    time.Since(start),
			Err:         err,
		}
		if err != nil {
			state.LastErrorCode = ErrorCode(err)
			attempt.ErrorCode = state.LastErrorCode
			attempt.Retry = IsTransient(err) && state.Attempts < state.MaxAttempts && ctx.Err() == nil
		}
		a.report(attempt)

		if err != nil && !IsTransient(err) {
			return nil, backoff.Permanent(err)
		}
		return tok, err
	}

	tok, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(a.policy.Backoff)),
		backoff.WithMaxTries(uint(a.policy.MaxAttempts)),
		// MaxAttempts is the only bound; the library default would cap the total wait.
		backoff.WithMaxElapsedTime(0),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Unwrap()
		}
		return nil, &AuthError{Resource: resource, State: state, Err: err}
	}

	return &AccessToken{
		Value:     NewRedactedToken(tok.AccessToken),
		Type:      tok.Type(),
		ExpiresOn: tok.Expiry,
		Resource:  resource,
	}, nil
}

// Invalidate drops any token the provider cached for resource, so the next
// Acquire requests a new one.
func (a *Acquirer) Invalidate(resource string) {
	if inv, ok := a.provider.(interface{ Invalidate(resource string) }); ok {
		inv.Invalidate(resource)
		logging.Debug("TokenAcquirer", "Invalidated cached token for %s", resource)
	}
}

func (a *Acquirer) report(attempt Attempt) {
	attrs := []slog.Attr{
		slog.String("resource", attempt.Resource),
		slog.Int("attempt", attempt.Number),
		slog.Int("max_attempts", attempt.MaxAttempts),
		slog.Duration("duration", attempt.Duration),
	}
	if attempt.Err == nil {
		logging.InfoAttrs("TokenAcquirer", "Token acquired", attrs...)
	} else {
		attrs = append(attrs,
			slog.String("error_code", attempt.ErrorCode),
			slog.Bool("retry", attempt.Retry),
		)
		logging.WarnAttrs("TokenAcquirer", attempt.Err, "Token request failed", attrs...)
	}

	if a.observer != nil {
		a.observer(attempt)
	}
}
