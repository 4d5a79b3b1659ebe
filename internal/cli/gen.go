package cli

import (
	"context"

	"github.com/dmitrijs2005/sitepass/internal/common"
)

// Gen derives and prints the password for the labelled site. The password is
// written to stdout and never stored; displaying or copying it further is
// the consumer's concern.
func (a *App) Gen(ctx context.Context, label string) error {
	if !a.isUnlocked() {
		printlnFn("Unlock the vault first.")
		return common.ErrLocked
	}

	p, err := a.profiles.GetByLabel(ctx, label)
	if err != nil {
		a.logLookupError(ctx, label, err)
		return err
	}

	password, err := a.session.Derive(*p)
	if err != nil {
		a.log.Error(ctx, "derivation failed", "site", label, "error", err)
		return err
	}

	printlnFn(password)
	return nil
}
