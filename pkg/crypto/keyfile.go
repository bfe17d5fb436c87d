package crypto

import (
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"os"
)

// Persisted key layout (§6 "Cryptographic keys, when present, are
// DER-encoded under /data/<name>_private.der and /data/<name>_public.der").

// PrivateKeyPath and PublicKeyPath build the persisted paths for a named
// signing identity (e.g. "node" or an application name).
func PrivateKeyPath(dataDir, name string) string {
	return fmt.Sprintf("%s/%s_private.der", dataDir, name)
}

func PublicKeyPath(dataDir, name string) string {
	return fmt.Sprintf("%s/%s_public.der", dataDir, name)
}

// LoadPrivateKeyDER reads a PKCS#1 DER-encoded RSA private key.
func LoadPrivateKeyDER(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return x509.ParsePKCS1PrivateKey(b)
}

// SavePrivateKeyDER writes key as PKCS#1 DER to path.
func SavePrivateKeyDER(path string, key *rsa.PrivateKey) error {
	return os.WriteFile(path, x509.MarshalPKCS1PrivateKey(key), 0o600)
}

// LoadPublicKeyDER reads a PKIX DER-encoded RSA public key.
func LoadPublicKeyDER(path string) (*rsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pub, err := x509.ParsePKIXPublicKey(b)
	if err != nil {
		return nil, err
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("crypto: %s does not contain an RSA public key", path)
	}
	return rsaPub, nil
}

// SavePublicKeyDER writes key as PKIX DER to path.
func SavePublicKeyDER(path string, key *rsa.PublicKey) error {
	b, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
