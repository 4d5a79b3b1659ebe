package cli

import (
	"bytes"
	"context"
	"errors"
	"os"

	"github.com/dmitrijs2005/sitepass/internal/common"
	"github.com/dmitrijs2005/sitepass/internal/dbx"
	"github.com/dmitrijs2005/sitepass/internal/derive"
	"github.com/dmitrijs2005/sitepass/internal/repositories/metadata"
	"github.com/dmitrijs2005/sitepass/internal/shared"
	"github.com/dmitrijs2005/sitepass/internal/vault"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Setup performs the one-time first-run flow: it asks for the master secret
// twice, creates the installation salt and verifier, persists both in a
// single transaction, and leaves the session unlocked.
//
// Running setup on an already-initialized vault is refused: regenerating the
// salt would silently change every derived password.
func (a *App) Setup(ctx context.Context) error {
	if a.isInitialized() {
		a.log.Warn(ctx, "setup refused", "error", common.ErrAlreadyInitialized)
		printlnFn("This vault is already set up.")
		return common.ErrAlreadyInitialized
	}

	secret, err := getSecret("Choose a master secret", os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(secret)

	confirm, err := getSecret("Repeat the master secret", os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(confirm)

	// Compared as byte slices; converting to string would leave unwipeable
	// copies of the secret behind.
	if !bytes.Equal(secret, confirm) {
		printlnFn("Secrets do not match.")
		return errors.New("secrets do not match")
	}

	salt, verifier, err := vault.CreateInstallation(a.randSource, secret)
	if err != nil {
		a.log.Error(ctx, "installation setup failed", "error", err)
		return err
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metadata.KeySalt, salt); err != nil {
			return err
		}
		if err := repo.Set(ctx, metadata.KeyVerifier, verifier); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyAlgVersion, []byte{derive.ParamsV1.Version})
	})
	if err != nil {
		a.log.Error(ctx, "failed to persist installation", "error", err)
		return err
	}

	a.session = vault.NewSession(salt, verifier)
	if err := a.session.Unlock(secret); err != nil {
		// Freshly created verifier must match; anything else is a bug.
		return err
	}

	printlnFn("Vault created and unlocked.")
	return nil
}
