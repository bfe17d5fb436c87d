package crypto

import (
	"path/filepath"
	"testing"
)

func TestPrivateKeyDERRoundTrip(t *testing.T) {
	key, err := GenerateRSAPSSKey()
	if err != nil {
		t.Fatalf("GenerateRSAPSSKey: %v", err)
	}
	path := filepath.Join(t.TempDir(), "node_private.der")

	if err := SavePrivateKeyDER(path, key); err != nil {
		t.Fatalf("SavePrivateKeyDER: %v", err)
	}
	got, err := LoadPrivateKeyDER(path)
	if err != nil {
		t.Fatalf("LoadPrivateKeyDER: %v", err)
	}
	if got.D.Cmp(key.D) != 0 || got.N.Cmp(key.N) != 0 {
		t.Error("loaded private key does not match the saved one")
	}
}

func TestPublicKeyDERRoundTrip(t *testing.T) {
	key, err := GenerateRSAPSSKey()
	if err != nil {
		t.Fatalf("GenerateRSAPSSKey: %v", err)
	}
	path := filepath.Join(t.TempDir(), "node_public.der")

	if err := SavePublicKeyDER(path, &key.PublicKey); err != nil {
		t.Fatalf("SavePublicKeyDER: %v", err)
	}
	got, err := LoadPublicKeyDER(path)
	if err != nil {
		t.Fatalf("LoadPublicKeyDER: %v", err)
	}
	if got.N.Cmp(key.PublicKey.N) != 0 || got.E != key.PublicKey.E {
		t.Error("loaded public key does not match the saved one")
	}
}

func TestKeyPathsNamedPerIdentity(t *testing.T) {
	if got := PrivateKeyPath("/data", "node"); got != "/data/node_private.der" {
		t.Errorf("PrivateKeyPath = %q, want %q", got, "/data/node_private.der")
	}
	if got := PublicKeyPath("/data", "node"); got != "/data/node_public.der" {
		t.Errorf("PublicKeyPath = %q, want %q", got, "/data/node_public.der")
	}
}

func TestLoadPrivateKeyDERMissingFile(t *testing.T) {
	if _, err := LoadPrivateKeyDER(filepath.Join(t.TempDir(), "missing.der")); err == nil {
		t.Error("LoadPrivateKeyDER on a missing file should return an error")
	}
}

func TestSignAndVerifyViaPersistedKeys(t *testing.T) {
	key, err := GenerateRSAPSSKey()
	if err != nil {
		t.Fatalf("GenerateRSAPSSKey: %v", err)
	}
	dir := t.TempDir()
	privPath := PrivateKeyPath(dir, "node")
	pubPath := PublicKeyPath(dir, "node")

	if err := SavePrivateKeyDER(privPath, key); err != nil {
		t.Fatalf("SavePrivateKeyDER: %v", err)
	}
	if err := SavePublicKeyDER(pubPath, &key.PublicKey); err != nil {
		t.Fatalf("SavePublicKeyDER: %v", err)
	}

	loadedPriv, err := LoadPrivateKeyDER(privPath)
	if err != nil {
		t.Fatalf("LoadPrivateKeyDER: %v", err)
	}
	loadedPub, err := LoadPublicKeyDER(pubPath)
	if err != nil {
		t.Fatalf("LoadPublicKeyDER: %v", err)
	}

	signer := NewRSAPSSSigner(loadedPriv)
	verifier := NewRSAPSSVerifier(loadedPub)

	sig, err := signer.Sign([]byte("provisioned keypair"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := verifier.Verify([]byte("provisioned keypair"), sig); err != nil {
		t.Errorf("Verify with reloaded keys failed: %v", err)
	}
}
