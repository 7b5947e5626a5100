package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tododaemon/internal/certstore"
)

// ClientAssertionType is the client_assertion_type of certificate credentials.
const ClientAssertionType = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"

// assertionLifetime bounds how long a signed client assertion is accepted.
const assertionLifetime = 10 * time.Minute

// Credential is a client certificate bound to a client ID. It signs the
// client assertions presented to the token endpoint.
type Credential struct {
	clientID   string
	cert       *certstore.Certificate
	method     jwt.SigningMethod
	thumbprint string
}

// NewCredential binds cert to clientID. The certificate's key must be RSA or
// ECDSA P-256.
func NewCredential(clientID string, cert *certstore.Certificate) (*Credential, error) {
	if clientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cert == nil || cert.Leaf == nil || cert.PrivateKey == nil {
		return nil, errors.New("certificate with private key is required")
	}

	var method jwt.SigningMethod
	switch key := cert.PrivateKey.(type) {
	case *rsa.PrivateKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PrivateKey:
		if key.Curve != elliptic.P256() {
			return nil, fmt.Errorf("unsupported ECDSA curve %s", key.Curve.Params().Name)
		}
		method = jwt.SigningMethodES256
	default:
		return nil, fmt.Errorf("unsupported private key type %T", cert.PrivateKey)
	}

	sum := sha1.Sum(cert.Leaf.Raw)
	return &Credential{
		clientID:   clientID,
		cert:       cert,
		method:     method,
		thumbprint: base64.RawURLEncoding.EncodeToString(sum[:]),
	}, nil
}

// ClientID returns the client ID the credential authenticates as.
func (c *Credential) ClientID() string {
	return c.clientID
}

// Thumbprint returns the base64url SHA-1 thumbprint of the certificate,
// the value of the x5t assertion header.
func (c *Credential) Thumbprint() string {
	return c.thumbprint
}

// Certificate returns the underlying certificate.
func (c *Credential) Certificate() *certstore.Certificate {
	return c.cert
}

// Assertion returns a signed client assertion for the token endpoint audience.
func (c *Credential) Assertion(audience string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    c.clientID,
		Subject:   c.clientID,
		Audience:  jwt.ClaimStrings{audience},
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(assertionLifetime)),
	}

	token := jwt.NewWithClaims(c.method, claims)
	token.Header["x5t"] = c.thumbprint

	signed, err := token.SignedString(c.cert.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign client assertion: %w", err)
	}
	return signed, nil
}
