// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package broker

import (
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// TestMain is called by "go test" instead of running the tests
// individually. It is used to setup state for all tests.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	m.Run()
}

// Test the fixed accept key vector from RFC 6455.
func TestAcceptKey(t *testing.T) {
	got := AcceptKey("dGhlIHNhbXBsZSBub25jZQ==")
	want := "s3pPLMBiTxaQ9kYGzzhZRbK+xOo="
	if got != want {
		t.Errorf("accept key mismatch: got %s want %s", got, want)
	}
}

// Test sign and verify roundtrip, and that any corruption of the
// signature or the nonce fails verification.
func TestSignatureRoundtrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("keygen failed: %s", err)
	}
	nonce := "a-short-random-challenge"
	sig := key.Sign(nonce)
	if !Verify(key.Public(), nonce, sig) {
		t.Fatalf("valid signature rejected")
	}
	if Verify(key.Public(), nonce+"x", sig) {
		t.Errorf("tampered nonce accepted")
	}

	// flip one byte of the signature.
	raw, _ := base64.StdEncoding.DecodeString(sig)
	for i := range raw {
		raw[i] ^= 0x01
		bad := base64.StdEncoding.EncodeToString(raw)
		if Verify(key.Public(), nonce, bad) {
			t.Fatalf("signature with byte %d flipped accepted", i)
		}
		raw[i] ^= 0x01
	}
	if Verify(key.Public(), nonce, "not base64 !!!") {
		t.Errorf("malformed signature accepted")
	}
}

// Test the DER/SPKI export has the Ed25519 SPKI length and the key
// has a log fingerprint.
func TestPublicDER(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("keygen failed: %s", err)
	}
	der64, err := key.PublicDER()
	if err != nil {
		t.Fatalf("export failed: %s", err)
	}
	der, err := base64.StdEncoding.DecodeString(der64)
	if err != nil {
		t.Fatalf("export not base64: %s", err)
	}

	// SPKI for Ed25519 is 44 bytes: 12 byte header plus the key.
	if len(der) != 44 {
		t.Errorf("unexpected SPKI length %d", len(der))
	}
	if key.Fingerprint() == "" {
		t.Errorf("fingerprint empty")
	}
}

// Test key persistence: first load generates and saves, second load
// returns the same identity.
func TestLoadKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.key")
	first, err := LoadKey(path)
	if err != nil {
		t.Fatalf("first load failed: %s", err)
	}
	second, err := LoadKey(path)
	if err != nil {
		t.Fatalf("second load failed: %s", err)
	}
	if first.Fingerprint() != second.Fingerprint() {
		t.Errorf("reloaded key differs")
	}

	// a truncated key file is an error, not a silent regenerate.
	if err = os.WriteFile(path, []byte("short"), 0o600); err != nil {
		t.Fatalf("truncate failed: %s", err)
	}
	if _, err = LoadKey(path); err == nil {
		t.Errorf("corrupt key file accepted")
	}
}
