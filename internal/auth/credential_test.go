package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tododaemon/internal/certstore"
	"tododaemon/internal/testing/mock"
)

func newTestCertificate(t *testing.T, keyType mock.KeyType) *certstore.Certificate {
	t.Helper()
	g, err := mock.GenerateCert(mock.CertSpec{CommonName: "daemon", KeyType: keyType})
	require.NoError(t, err)
	return &certstore.Certificate{
		Leaf:       g.Cert,
		Chain:      []*x509.Certificate{g.Cert},
		PrivateKey: g.Key,
		Source:     "memory",
	}
}

func TestNewCredential_Validation(t *testing.T) {
	cert := newTestCertificate(t, mock.KeyTypeRSA)

	_, err := NewCredential("", cert)
	assert.Error(t, err)

	_, err = NewCredential("client", nil)
	assert.Error(t, err)

	_, edKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	_, err = NewCredential("client", &certstore.Certificate{Leaf: cert.Leaf, PrivateKey: edKey})
	assert.ErrorContains(t, err, "unsupported private key type")
}

func TestCredential_Assertion(t *testing.T) {
	tests := []struct {
		name    string
		keyType mock.KeyType
		alg     string
	}{
		{"rsa", mock.KeyTypeRSA, "RS256"},
		{"ecdsa", mock.KeyTypeECDSA, "ES256"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cert := newTestCertificate(t, tt.keyType)
			cred, err := NewCredential("client-id", cert)
			require.NoError(t, err)
			assert.Equal(t, "client-id", cred.ClientID())
			assert.Same(t, cert, cred.Certificate())

			now := time.Now()
			audience := "https://login.example.com/tenant/oauth2/token"
			signed, err := cred.Assertion(audience, now)
			require.NoError(t, err)

			var claims jwt.RegisteredClaims
			token, err := jwt.ParseWithClaims(signed, &claims, func(*jwt.Token) (interface{}, error) {
				return cert.Leaf.PublicKey, nil
			}, jwt.WithAudience(audience), jwt.WithIssuer("client-id"), jwt.WithSubject("client-id"))
			require.NoError(t, err)

			assert.Equal(t, tt.alg, token.Header["alg"])
			sum := sha1.Sum(cert.Leaf.Raw)
			assert.Equal(t, base64.RawURLEncoding.EncodeToString(sum[:]), token.Header["x5t"])
			assert.Equal(t, cred.Thumbprint(), token.Header["x5t"])

			assert.NotEmpty(t, claims.ID)
			assert.WithinDuration(t, now.Add(assertionLifetime), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestCredential_AssertionIDsAreUnique(t *testing.T) {
	cred, err := NewCredential("client-id", newTestCertificate(t, mock.KeyTypeECDSA))
	require.NoError(t, err)

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		signed, err := cred.Assertion("aud", time.Now())
		require.NoError(t, err)
		var claims jwt.RegisteredClaims
		_, _, err = jwt.NewParser().ParseUnverified(signed, &claims)
		require.NoError(t, err)
		ids[claims.ID] = true
	}
	assert.Len(t, ids, 3)
}
