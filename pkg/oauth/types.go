package oauth

// Metadata represents OAuth 2.0 Authorization Server Metadata as defined in RFC 8414.
// OpenID Connect discovery documents decode into the same structure.
type Metadata struct {
	// Issuer is the authorization server's issuer identifier.
	Issuer string `json:"issuer"`

	// AuthorizationEndpoint is the URL of the authorization endpoint.
	AuthorizationEndpoint string `json:"authorization_endpoint,omitempty"`

	// TokenEndpoint is the URL of the token endpoint.
	TokenEndpoint string `json:"token_endpoint"`

	// JwksURI is the URL of the JSON Web Key Set.
	JwksURI string `json:"jwks_uri,omitempty"`

	// GrantTypesSupported lists the grant types supported.
	GrantTypesSupported []string `json:"grant_types_supported,omitempty"`

	// TokenEndpointAuthMethodsSupported lists the client authentication methods.
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported,omitempty"`
}

// SupportsPrivateKeyJWT reports whether the server accepts signed JWT client
// assertions at the token endpoint. Servers that do not advertise their
// methods are assumed to accept them.
func (m *Metadata) SupportsPrivateKeyJWT() bool {
	if len(m.TokenEndpointAuthMethodsSupported) == 0 {
		return true
	}
	for _, method := range m.TokenEndpointAuthMethodsSupported {
		if method == "private_key_jwt" {
			return true
		}
	}
	return false
}
