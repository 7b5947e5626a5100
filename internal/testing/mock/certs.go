package mock

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"
)

// KeyType selects the key algorithm of a generated certificate.
type KeyType string

const (
	KeyTypeRSA   KeyType = "rsa"
	KeyTypeECDSA KeyType = "ecdsa"
)

// CertSpec describes a self-signed certificate to generate.
type CertSpec struct {
	CommonName   string
	Organization string
	NotBefore    time.Time
	NotAfter     time.Time
	// KeyType defaults to RSA.
	KeyType KeyType
}

// GeneratedCert is a certificate and its private key.
type GeneratedCert struct {
	Cert *x509.Certificate
	Key  crypto.Signer
}

// CertPEM returns the PEM encoding of the certificate.
func (g *GeneratedCert) CertPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: g.Cert.Raw})
}

// KeyPEM returns the PKCS#8 PEM encoding of the private key.
func (g *GeneratedCert) KeyPEM() ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(g.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// GenerateCert creates a self-signed client certificate.
// Zero validity bounds default to one hour ago and one day from now.
func GenerateCert(spec CertSpec) (*GeneratedCert, error) {
	var (
		key crypto.Signer
		err error
	)
	switch spec.KeyType {
	case KeyTypeECDSA:
		key, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	default:
		key, err = rsa.GenerateKey(rand.Reader, 2048)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("failed to generate serial number: %w", err)
	}

	notBefore := spec.NotBefore
	if notBefore.IsZero() {
		notBefore = time.Now().Add(-time.Hour)
	}
	notAfter := spec.NotAfter
	if notAfter.IsZero() {
		notAfter = time.Now().Add(24 * time.Hour)
	}

	subject := pkix.Name{CommonName: spec.CommonName}
	if spec.Organization != "" {
		subject.Organization = []string{spec.Organization}
	}

	template := x509.Certificate{
		SerialNumber:          serialNumber,
		Subject:               subject,
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, key.Public(), key)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	return &GeneratedCert{Cert: cert, Key: key}, nil
}

// WriteCombined writes the certificate and key into a single name.pem file.
func (g *GeneratedCert) WriteCombined(dir, name string) (string, error) {
	keyPEM, err := g.KeyPEM()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+".pem")
	data := append(g.CertPEM(), keyPEM...)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// WritePair writes name.crt and name.key.
func (g *GeneratedCert) WritePair(dir, name string) (string, error) {
	keyPEM, err := g.KeyPEM()
	if err != nil {
		return "", err
	}
	certPath := filepath.Join(dir, name+".crt")
	if err := os.WriteFile(certPath, g.CertPEM(), 0o600); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, name+".key"), keyPEM, 0o600); err != nil {
		return "", err
	}
	return certPath, nil
}
