package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/sitepass/internal/common"
	"github.com/dmitrijs2005/sitepass/internal/derive"
	"github.com/google/uuid"
)

// Add prompts for a site profile and persists it. Entering the label of an
// existing profile edits its policy in place (keeping id and counter).
func (a *App) Add(ctx context.Context) error {
	if !a.isUnlocked() {
		printlnFn("Unlock the vault first.")
		return common.ErrLocked
	}

	label, err := getSimpleText(a.reader, "Site label (e.g. example.com)", os.Stdout)
	if err != nil {
		return err
	}

	length, err := GetIntWithDefault(a.reader, "Password length", 16, os.Stdout)
	if err != nil {
		a.log.Error(ctx, "bad length", "error", err)
		return err
	}

	spec, err := getSimpleText(a.reader, "Character classes (l/u/d/s, e.g. luds)", os.Stdout)
	if err != nil {
		return err
	}
	if spec == "" {
		spec = "luds"
	}
	classes, err := derive.ParseClassSet(spec)
	if err != nil {
		a.log.Error(ctx, "bad class set", "error", err)
		return err
	}

	p := &derive.Profile{
		ID:        uuid.New(),
		SiteLabel: label,
		Length:    length,
		Classes:   classes,
	}

	if existing, err := a.profiles.GetByLabel(ctx, label); err == nil {
		p.ID = existing.ID
		p.Counter = existing.Counter
	}

	if err := p.Validate(); err != nil {
		a.log.Error(ctx, "invalid profile", "error", err)
		printlnFn(fmt.Sprintf("Invalid profile: %v", err))
		return err
	}

	if err := a.profiles.CreateOrUpdate(ctx, p); err != nil {
		a.log.Error(ctx, "failed to save profile", "error", err)
		return err
	}

	printlnFn("Saved.")
	return nil
}

// List prints all stored profiles.
func (a *App) List(ctx context.Context) error {
	if !a.isUnlocked() {
		printlnFn("Unlock the vault first.")
		return common.ErrLocked
	}

	list, err := a.profiles.List(ctx)
	if err != nil {
		a.log.Error(ctx, "failed to list profiles", "error", err)
		return err
	}

	if len(list) == 0 {
		printlnFn("No profiles yet. Use 'add'.")
		return nil
	}
	for _, p := range list {
		printlnFn(fmt.Sprintf("%-30s length=%d classes=%s counter=%d",
			p.SiteLabel, p.Length, p.Classes, p.Counter))
	}
	return nil
}

// Show prints one profile's policy (never a password).
func (a *App) Show(ctx context.Context, label string) error {
	if !a.isUnlocked() {
		printlnFn("Unlock the vault first.")
		return common.ErrLocked
	}

	p, err := a.profiles.GetByLabel(ctx, label)
	if err != nil {
		a.logLookupError(ctx, label, err)
		return err
	}

	printlnFn(fmt.Sprintf("Site:    %s", p.SiteLabel))
	printlnFn(fmt.Sprintf("Length:  %d", p.Length))
	printlnFn(fmt.Sprintf("Classes: %s", p.Classes))
	printlnFn(fmt.Sprintf("Counter: %d", p.Counter))
	return nil
}

// Bump increments the profile's revision counter, rotating its password
// (e.g. after a site breach) without touching the master secret.
func (a *App) Bump(ctx context.Context, label string) error {
	if !a.isUnlocked() {
		printlnFn("Unlock the vault first.")
		return common.ErrLocked
	}

	if err := a.profiles.BumpCounter(ctx, label); err != nil {
		a.logLookupError(ctx, label, err)
		return err
	}
	printlnFn("Counter bumped; 'gen' now yields the rotated password.")
	return nil
}

// Delete removes a profile. The password remains derivable by re-creating
// the profile with the same policy.
func (a *App) Delete(ctx context.Context, label string) error {
	if !a.isUnlocked() {
		printlnFn("Unlock the vault first.")
		return common.ErrLocked
	}

	if err := a.profiles.Delete(ctx, label); err != nil {
		a.logLookupError(ctx, label, err)
		return err
	}
	printlnFn("Deleted.")
	return nil
}

func (a *App) logLookupError(ctx context.Context, label string, err error) {
	printlnFn(fmt.Sprintf("%v", err))
	a.log.Error(ctx, "profile lookup failed", "site", label, "error", err)
}
