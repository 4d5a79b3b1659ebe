package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/sitepass/internal/common"
	"github.com/dmitrijs2005/sitepass/internal/dbx"
	"github.com/dmitrijs2005/sitepass/internal/repositories/metadata"
	"github.com/dmitrijs2005/sitepass/internal/repositories/profiles"
)

// Reset wipes the vault: all profiles plus the installation salt, verifier
// and algorithm version, in a single transaction. Every previously derivable
// password is lost, since a fresh setup draws a new salt; the user must
// confirm explicitly. Requires an unlocked session so only someone holding
// the master secret can destroy the installation.
func (a *App) Reset(ctx context.Context) error {
	if !a.isUnlocked() {
		printlnFn("Unlock the vault first.")
		return common.ErrLocked
	}

	answer, err := getSimpleText(a.reader,
		"This wipes all profiles and the installation salt; derived passwords change forever. Type 'yes' to proceed", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Aborted.")
		return nil
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := profiles.NewSQLiteRepository(tx).DeleteAll(ctx); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).Clear(ctx)
	})
	if err != nil {
		a.log.Error(ctx, "failed to reset vault", "error", err)
		return err
	}

	a.session.Lock()
	a.session = nil
	printlnFn("Vault wiped. Run 'setup' to start over.")
	return nil
}
