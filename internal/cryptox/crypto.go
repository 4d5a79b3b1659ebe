// Package cryptox holds the small crypto surface shared by the vault and the
// CLI: installation salt generation and the master-secret verifier.
//
// The verifier is a plain SHA-256 digest, not a memory-hard hash: it is
// checked on every unlock and only answers pass/fail. The passwords
// themselves are guarded by the Argon2id derivation in internal/derive.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"
)

// SaltSize is the size in bytes of the per-installation random salt.
const SaltSize = 32

// verifierContextTag domain-separates the verifier hash from any other use
// of SHA-256 over the same inputs. Versioned: changing it invalidates every
// stored verifier.
const verifierContextTag = "sitepass/verifier/v1"

// GenerateSalt reads SaltSize bytes from the provided random source.
// The source is injected so tests can substitute deterministic fixtures;
// production callers pass crypto/rand.Reader.
func GenerateSalt(r io.Reader) ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// MakeVerifier returns SHA-256(secret || salt || context tag). It carries no
// reconstruction capability: it is only ever compared for equality.
func MakeVerifier(secret, salt []byte) []byte {
	h := sha256.New()
	h.Write(secret)
	h.Write(salt)
	h.Write([]byte(verifierContextTag))
	return h.Sum(nil)
}

// CheckVerifier reports whether the given secret matches the stored verifier.
// The comparison is constant-time.
func CheckVerifier(secret, salt, stored []byte) bool {
	candidate := MakeVerifier(secret, salt)
	return subtle.ConstantTimeCompare(candidate, stored) == 1
}
