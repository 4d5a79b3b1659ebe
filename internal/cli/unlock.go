package cli

import (
	"context"
	"errors"
	"os"

	"github.com/dmitrijs2005/sitepass/internal/common"
	"github.com/dmitrijs2005/sitepass/internal/shared"
)

// Unlock prompts for the master secret and verifies it against the stored
// verifier. On mismatch the user is told only that the secret is wrong;
// nothing else is revealed.
func (a *App) Unlock(ctx context.Context) error {
	if !a.isInitialized() {
		printlnFn("No vault yet. Run 'setup' first.")
		return common.ErrNotInitialized
	}

	secret, err := getSecret("Enter master secret", os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(secret)

	if err := a.session.Unlock(secret); err != nil {
		if errors.Is(err, common.ErrSecretMismatch) {
			printlnFn("Wrong master secret.")
		} else {
			a.log.Error(ctx, "unlock failed", "error", err)
		}
		return err
	}

	printlnFn("Unlocked.")
	return nil
}

// Lock discards the in-memory master secret.
func (a *App) Lock(ctx context.Context) error {
	if a.session != nil {
		a.session.Lock()
	}
	printlnFn("Locked.")
	return nil
}
