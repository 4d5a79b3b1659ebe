// Package profiles persists site profiles: the per-site generation policy
// records consumed by the derivation engine. The engine itself never reads
// this package; the CLI loads a profile and hands it to the vault session.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/sitepass/internal/derive"
)

// Repository provides CRUD over persisted site profiles. Site labels are
// unique; lookups by label are the common path ("gen example.com").
type Repository interface {
	// CreateOrUpdate upserts a profile by id.
	CreateOrUpdate(ctx context.Context, p *derive.Profile) error
	// GetByLabel returns the profile for the given site label, or
	// common.ErrNotFound.
	GetByLabel(ctx context.Context, label string) (*derive.Profile, error)
	// List returns all profiles ordered by site label.
	List(ctx context.Context) ([]derive.Profile, error)
	// Delete removes the profile with the given label; returns
	// common.ErrNotFound if no such profile exists.
	Delete(ctx context.Context, label string) error
	// DeleteAll removes every profile. Used by vault reset; deleting from an
	// empty table is not an error.
	DeleteAll(ctx context.Context) error
	// BumpCounter increments the revision counter of the labelled profile,
	// which deterministically rotates its derived password. Returns
	// common.ErrNotFound if no such profile exists.
	BumpCounter(ctx context.Context, label string) error
}
