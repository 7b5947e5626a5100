// Package mock provides test doubles for the daemon's external collaborators.
//
// Key Components:
//
// IdentityServer: an httptest-backed identity provider that serves OpenID
// discovery documents and client-credentials token endpoints in both the v1
// (resource parameter) and v2 (scope parameter) forms. It verifies signed
// client assertions against a configured certificate, records every token
// request and can be scripted to fail with OAuth error codes such as
// temporarily_unavailable.
//
// TodoServer: an httptest-backed To Do list API storing titles in memory,
// recording each call with its bearer token and correlation ID, and able to
// answer with scripted HTTP status codes.
//
// GenerateCert: self-signed client certificates with RSA or ECDSA keys,
// written to a directory as combined PEM files or .crt/.key pairs.
//
// MockClock: a controllable time source for validity and expiry checks.
//
// Usage:
//
//	cert, _ := mock.GenerateCert(mock.CertSpec{CommonName: "daemon"})
//	idp := mock.NewIdentityServer(mock.IdentityServerConfig{Certificate: cert.Cert})
//	defer idp.Close()
//	idp.FailNext("temporarily_unavailable")
package mock
