// Package metadata persists installation-level key/value records: the
// per-installation salt, the master-secret verifier, and the algorithm
// version the installation was created with.
package metadata

import "context"

// Well-known keys. Salt and verifier are created once at first setup and
// only read afterwards.
const (
	KeySalt       = "salt"
	KeyVerifier   = "verifier"
	KeyAlgVersion = "algorithm_version"
)

// Repository is a byte-valued key/value store for installation metadata.
type Repository interface {
	// Get returns the value for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set inserts or overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Clear removes all keys. Used by vault reset.
	Clear(ctx context.Context) error
}
