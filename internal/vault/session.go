// Package vault models the unlock lifecycle around the derivation engine:
// one-time installation setup (salt + verifier) and the
// Locked -> Unlocked -> Locked session that holds the master secret in
// memory between derivations.
//
// The package owns no persistence. Salt and verifier are opaque byte slices
// supplied by (and returned to) the storage collaborator.
package vault

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/sitepass/internal/common"
	"github.com/dmitrijs2005/sitepass/internal/cryptox"
	"github.com/dmitrijs2005/sitepass/internal/derive"
	"github.com/dmitrijs2005/sitepass/internal/shared"
)

// CreateInstallation performs the one-time first-run setup: it draws a fresh
// random salt from the injected source and computes the verifier for the
// given master secret. The caller persists both and then proceeds to an
// unlocked session.
func CreateInstallation(rand io.Reader, secret []byte) (salt, verifier []byte, err error) {
	salt, err = cryptox.GenerateSalt(rand)
	if err != nil {
		return nil, nil, fmt.Errorf("installation setup: %w", err)
	}
	return salt, cryptox.MakeVerifier(secret, salt), nil
}

// Unlock checks the secret against the stored verifier. It reveals nothing
// beyond pass/fail and the comparison is constant-time. On mismatch it
// returns common.ErrSecretMismatch; the caller may simply re-prompt.
func Unlock(secret, salt, verifier []byte) error {
	if !cryptox.CheckVerifier(secret, salt, verifier) {
		return common.ErrSecretMismatch
	}
	return nil
}

// Session is the explicit unlocked-state value. The master secret lives only
// inside an unlocked session; Lock wipes it. The zero state of a session is
// locked.
//
// A session is a plain value held by the caller; the package keeps no
// process-wide state.
type Session struct {
	salt     []byte
	verifier []byte
	secret   []byte
}

// NewSession returns a locked session over the stored installation data.
func NewSession(salt, verifier []byte) *Session {
	return &Session{salt: salt, verifier: verifier}
}

// Unlock verifies the secret and, on success, retains a private copy of it
// for subsequent Derive calls. Unlocking an already-unlocked session
// replaces the held secret.
func (s *Session) Unlock(secret []byte) error {
	if err := Unlock(secret, s.salt, s.verifier); err != nil {
		return err
	}
	s.Lock()
	s.secret = make([]byte, len(secret))
	copy(s.secret, secret)
	return nil
}

// Unlocked reports whether the session currently holds a verified secret.
func (s *Session) Unlocked() bool {
	return s.secret != nil
}

// Derive produces the password for the given profile. It fails with
// common.ErrLocked when the session has not been unlocked.
func (s *Session) Derive(p derive.Profile) (string, error) {
	if !s.Unlocked() {
		return "", common.ErrLocked
	}
	return derive.Password(s.secret, p, s.salt)
}

// Lock discards the held secret, wiping it first. Locking a locked session
// is a no-op.
func (s *Session) Lock() {
	shared.WipeByteArray(s.secret)
	s.secret = nil
}
