// Package common defines shared sentinel errors used across the SitePass
// core and its CLI/storage layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Profile/framing errors. Raised before any hashing occurs.
	ErrInvalidProfile = errors.New("invalid profile")

	// Derivation errors.
	ErrKDFParams       = errors.New("invalid kdf parameters")
	ErrBufferExhausted = errors.New("entropy buffer exhausted")

	// Auth / session errors.
	ErrSecretMismatch = errors.New("secret mismatch")
	ErrLocked         = errors.New("session is locked")

	// Installation lifecycle errors.
	ErrAlreadyInitialized = errors.New("installation already initialized")
	ErrNotInitialized     = errors.New("installation not initialized")
	ErrAlgVersion         = errors.New("unsupported algorithm version")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")
)
