// Package auth obtains access tokens for the daemon.
//
// A Credential binds the client certificate found in the certificate store
// to the application's client ID and signs the JWT client assertions sent to
// the identity provider. ClientCredentialsProvider performs the
// client-credentials grant with those assertions against either the v1
// (resource parameter) or v2 (scope parameter) token endpoint, caching tokens
// per resource.
//
// Acquirer wraps any TokenProvider with a bounded retry policy: failures the
// provider tags temporarily_unavailable are retried after a fixed backoff,
// every other failure ends acquisition immediately. Every attempt is logged
// and reported to an optional observer. Callers get an *AuthError carrying
// the RetryState when no token could be obtained.
package auth
