package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
)

// SignatureLen is the on-wire signature length used by CONFIG_OVERRIDE
// and SIGNED_TEXT_CHAT (§6): 1024-bit RSA-PSS signatures, 128 bytes.
const SignatureLen = 128

// KeyBits is the RSA modulus size used for signing keys (1024 bits,
// recovered from the original firmware's net/crypto.py per SPEC_FULL.md
// E.3; this confirms the 128-byte signature field width).
const KeyBits = 1024

var (
	ErrInvalidSignatureLen = errors.New("crypto: signature is not 128 bytes")
	ErrVerificationFailed  = errors.New("crypto: signature verification failed")
)

// Signer and Verifier are the external signing/verification collaborator
// contracts (spec.md §1: "cryptographic signing/verification primitives"
// are out of the network core's scope, authenticity being an optional
// per-application payload feature). Their internals are not part of the
// network core; this package ships one concrete RSA-PSS-SHA256
// implementation, grounded in the original firmware's scheme, since the
// retrieved example pack carries no third-party signing library that fits
// (see DESIGN.md).
type Signer interface {
	Sign(message []byte) (signature [SignatureLen]byte, err error)
}

type Verifier interface {
	Verify(message []byte, signature [SignatureLen]byte) error
}

// RSAPSSSigner signs with RSA-PSS-SHA256 over a 1024-bit private key,
// matching the original firmware's net/crypto.py.
type RSAPSSSigner struct {
	key *rsa.PrivateKey
}

// NewRSAPSSSigner wraps an existing private key.
func NewRSAPSSSigner(key *rsa.PrivateKey) *RSAPSSSigner {
	return &RSAPSSSigner{key: key}
}

// GenerateRSAPSSKey generates a fresh KeyBits-sized RSA key pair for
// provisioning a new node's signing identity.
func GenerateRSAPSSKey() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, KeyBits)
}

// Sign implements Signer.
func (s *RSAPSSSigner) Sign(message []byte) ([SignatureLen]byte, error) {
	var out [SignatureLen]byte
	digest := sha256.Sum256(message)
	sig, err := rsa.SignPSS(rand.Reader, s.key, crypto.SHA256, digest[:], nil)
	if err != nil {
		return out, err
	}
	if len(sig) != SignatureLen {
		return out, ErrInvalidSignatureLen
	}
	copy(out[:], sig)
	return out, nil
}

// RSAPSSVerifier verifies RSA-PSS-SHA256 signatures against a public key.
type RSAPSSVerifier struct {
	key *rsa.PublicKey
}

// NewRSAPSSVerifier wraps an existing public key.
func NewRSAPSSVerifier(key *rsa.PublicKey) *RSAPSSVerifier {
	return &RSAPSSVerifier{key: key}
}

// Verify implements Verifier.
func (v *RSAPSSVerifier) Verify(message []byte, signature [SignatureLen]byte) error {
	digest := sha256.Sum256(message)
	if err := rsa.VerifyPSS(v.key, crypto.SHA256, digest[:], signature[:], nil); err != nil {
		return ErrVerificationFailed
	}
	return nil
}

var (
	_ Signer   = (*RSAPSSSigner)(nil)
	_ Verifier = (*RSAPSSVerifier)(nil)
)
