package certstore

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tododaemon/pkg/logging"
)

// ErrCertificateNotFound is returned by Find when no valid certificate
// with the requested subject exists in the store, including when the store
// itself cannot be read.
var ErrCertificateNotFound = errors.New("certificate not found")

// certExtensions are the file extensions scanned for certificates.
// Keys may live in the same file or in a sibling file with a .key extension.
var certExtensions = map[string]bool{
	".pem": true,
	".crt": true,
	".cer": true,
}

// Certificate is a certificate together with the private key that proves
// possession of it.
type Certificate struct {
	// Leaf is the end-entity certificate.
	Leaf *x509.Certificate
	// Chain holds the leaf followed by any intermediates found in the same file.
	Chain []*x509.Certificate
	// PrivateKey signs client assertions for Leaf.
	PrivateKey crypto.Signer
	// Source is the file the certificate was read from.
	Source string
}

// ValidAt reports whether t lies within the certificate's validity period.
func (c *Certificate) ValidAt(t time.Time) bool {
	return !t.Before(c.Leaf.NotBefore) && !t.After(c.Leaf.NotAfter)
}

// Store is a directory of PEM encoded certificates and private keys.
type Store struct {
	dir string
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for validity checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Store reading from dir.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir: dir,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Find returns the certificate whose subject equals subject, that is valid
// now, and that has the latest NotBefore among all such certificates.
//
// A subject containing "=" is compared with the RFC 2253 form of the
// certificate subject (for example "CN=daemon,O=Contoso"); a bare name is
// compared with the common name.
func (s *Store) Find(subject string) (*Certificate, error) {
	certs, err := s.Certificates()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCertificateNotFound, err)
	}

	now := s.now()
	var best *Certificate
	for _, cert := range certs {
		if !cert.ValidAt(now) {
			continue
		}
		if !subjectMatches(cert.Leaf, subject) {
			continue
		}
		if best == nil || cert.Leaf.NotBefore.After(best.Leaf.NotBefore) {
			best = cert
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: no active certificate with subject %q in %s", ErrCertificateNotFound, subject, s.dir)
	}

	logging.Debug("CertStore", "Selected certificate %s (serial %s, not before %s) from %s",
		best.Leaf.Subject, best.Leaf.SerialNumber, best.Leaf.NotBefore.Format(time.RFC3339), best.Source)
	return best, nil
}

// Certificates enumerates every certificate with a usable private key.
// Files that cannot be parsed are logged and skipped.
func (s *Store) Certificates() ([]*Certificate, error) {
	h, err := s.open()
	if err != nil {
		return nil, err
	}
	defer h.Close()

	names, err := h.names()
	if err != nil {
		return nil, err
	}

	var certs []*Certificate
	for _, name := range names {
		if !certExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		path := filepath.Join(s.dir, name)
		cert, err := loadCertificate(path)
		if err != nil {
			logging.Warn("CertStore", "Skipping %s: %v", path, err)
			continue
		}
		certs = append(certs, cert)
	}
	return certs, nil
}

func subjectMatches(cert *x509.Certificate, subject string) bool {
	if strings.Contains(subject, "=") {
		return cert.Subject.String() == subject
	}
	return cert.Subject.CommonName == subject
}

// loadCertificate reads the certificate chain from path and its private key
// from the same file or from the sibling .key file.
func loadCertificate(path string) (*Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	chain, key, err := parsePEM(data)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		return nil, errors.New("no certificate found")
	}

	if key == nil {
		keyPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".key"
		keyData, err := os.ReadFile(keyPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, errors.New("no private key in file and no sibling .key file")
			}
			return nil, err
		}
		if _, key, err = parsePEM(keyData); err != nil {
			return nil, fmt.Errorf("%s: %w", keyPath, err)
		}
		if key == nil {
			return nil, fmt.Errorf("%s: no private key found", keyPath)
		}
	}

	if !publicKeysEqual(key.Public(), chain[0].PublicKey) {
		return nil, errors.New("private key does not match certificate")
	}

	return &Certificate{
		Leaf:       chain[0],
		Chain:      chain,
		PrivateKey: key,
		Source:     path,
	}, nil
}

func parsePEM(data []byte) ([]*x509.Certificate, crypto.Signer, error) {
	var (
		chain []*x509.Certificate
		key   crypto.Signer
	)
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		switch block.Type {
		case "CERTIFICATE":
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to parse certificate: %w", err)
			}
			chain = append(chain, cert)
		case "PRIVATE KEY", "RSA PRIVATE KEY", "EC PRIVATE KEY":
			if key != nil {
				continue
			}
			k, err := parsePrivateKey(block)
			if err != nil {
				return nil, nil, err
			}
			key = k
		}
	}
	return chain, key, nil
}

func parsePrivateKey(block *pem.Block) (crypto.Signer, error) {
	var (
		key interface{}
		err error
	)
	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case "EC PRIVATE KEY":
		key, err = x509.ParseECPrivateKey(block.Bytes)
	default:
		key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("unsupported private key type %T", key)
	}
	return signer, nil
}

func publicKeysEqual(a, b crypto.PublicKey) bool {
	eq, ok := a.(interface{ Equal(crypto.PublicKey) bool })
	return ok && eq.Equal(b)
}
