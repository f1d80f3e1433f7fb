// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package broker

// auth.go proves key possession to the broker: the broker issues a
// nonce, the agent signs it with its Ed25519 private key, and the
// broker verifies against the public key sent alongside. Public keys
// travel in DER/SPKI form for broker compatibility; signatures are
// base64 on the wire, and the public key is logged in hex.

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"os"

	"github.com/pkg/errors"
)

// AgentKey is the agent's Ed25519 identity.
type AgentKey struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// GenerateKey creates a fresh Ed25519 keypair.
func GenerateKey() (*AgentKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "generate agent key")
	}
	return &AgentKey{pub: pub, priv: priv}, nil
}

// LoadKey reads a private key seed from disk, generating and saving a
// new key when the file does not exist.
func LoadKey(path string) (*AgentKey, error) {
	seed, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		key, kerr := GenerateKey()
		if kerr != nil {
			return nil, kerr
		}
		if werr := os.WriteFile(path, key.priv.Seed(), 0o600); werr != nil {
			return nil, errors.Wrap(werr, "save agent key")
		}
		return key, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load agent key")
	}
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Errorf("agent key file %s: want %d byte seed, have %d",
			path, ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &AgentKey{pub: priv.Public().(ed25519.PublicKey), priv: priv}, nil
}

// Sign signs the nonce and returns the base64 wire form.
func (k *AgentKey) Sign(nonce string) string {
	sig := ed25519.Sign(k.priv, []byte(nonce))
	return base64.StdEncoding.EncodeToString(sig)
}

// Verify checks a base64 signature over the nonce against a public
// key. Used by tests and by brokers embedding this package.
func Verify(pub ed25519.PublicKey, nonce, sigB64 string) bool {
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return false
	}
	return ed25519.Verify(pub, []byte(nonce), sig)
}

// PublicDER exports the public key as DER encoded SPKI, base64 for
// the wire.
func (k *AgentKey) PublicDER() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(k.pub)
	if err != nil {
		return "", errors.Wrap(err, "export public key")
	}
	return base64.StdEncoding.EncodeToString(der), nil
}

// Public returns the raw public key.
func (k *AgentKey) Public() ed25519.PublicKey { return k.pub }

// Fingerprint returns the hex form of the public key for logs.
func (k *AgentKey) Fingerprint() string {
	return hex.EncodeToString(k.pub)
}
