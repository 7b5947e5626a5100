// Package oauth provides authorization server metadata discovery.
//
// A daemon configured with an authority URL (for example
// https://login.microsoftonline.com/contoso.onmicrosoft.com) needs the token
// endpoint that authority advertises. Client resolves it from the RFC 8414
// document, falling back to OpenID Connect discovery, and caches the result.
//
// # Usage
//
//	client := oauth.NewClient(
//	    oauth.WithHTTPClient(httpClient),
//	    oauth.WithLogger(logging.Logger()),
//	)
//	tokenURL, err := client.TokenEndpoint(ctx, authority)
//
// Concurrent lookups for the same issuer collapse into a single request.
package oauth
