// Package cli implements the interactive SitePass front end: a small REPL
// over the vault session, the derivation engine and the local store.
package cli

import (
	"bufio"
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/sitepass/internal/common"
	"github.com/dmitrijs2005/sitepass/internal/config"
	"github.com/dmitrijs2005/sitepass/internal/derive"
	"github.com/dmitrijs2005/sitepass/internal/logging"
	"github.com/dmitrijs2005/sitepass/internal/repositories/metadata"
	"github.com/dmitrijs2005/sitepass/internal/repositories/profiles"
	"github.com/dmitrijs2005/sitepass/internal/store"
	"github.com/dmitrijs2005/sitepass/internal/vault"
)

// App wires the collaborators together: storage below, vault session in the
// middle, REPL on top. The derivation core itself stays I/O-free; App is the
// only place that reads storage and feeds the results into the session.
type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	profiles profiles.Repository
	metadata metadata.Repository
	session  *vault.Session
	reader   *bufio.Reader

	// randSource feeds installation setup; tests substitute a fixed reader.
	randSource io.Reader
}

// NewApp opens the local store and loads installation metadata. A missing
// salt/verifier pair means first run; the REPL then only offers "setup".
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	a := &App{
		config:     c,
		log:        log,
		db:         db,
		profiles:   profiles.NewSQLiteRepository(db),
		metadata:   metadata.NewSQLiteRepository(db),
		reader:     bufio.NewReader(os.Stdin),
		randSource: rand.Reader,
	}

	if err := a.loadInstallation(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return a, nil
}

// loadInstallation reads salt and verifier from the metadata repository and
// builds the (locked) session. On first run both are absent and the session
// stays nil until Setup.
//
// The stored algorithm version is checked against the version this build
// derives with: a mismatch means the vault was created under different KDF
// constants and deriving here would silently change every password, so the
// app refuses to open it instead.
func (a *App) loadInstallation(ctx context.Context) error {
	salt, err := a.metadata.Get(ctx, metadata.KeySalt)
	if err != nil {
		return err
	}
	verifier, err := a.metadata.Get(ctx, metadata.KeyVerifier)
	if err != nil {
		return err
	}
	if salt == nil || verifier == nil {
		a.session = nil
		return nil
	}
	ver, err := a.metadata.Get(ctx, metadata.KeyAlgVersion)
	if err != nil {
		return err
	}
	if len(ver) != 1 || ver[0] != derive.ParamsV1.Version {
		return fmt.Errorf("vault stores algorithm version %v, this build derives with version %d: %w",
			ver, derive.ParamsV1.Version, common.ErrAlgVersion)
	}
	a.session = vault.NewSession(salt, verifier)
	return nil
}

func (a *App) isInitialized() bool {
	return a.session != nil
}

func (a *App) isUnlocked() bool {
	return a.session != nil && a.session.Unlocked()
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	a.log.Info(ctx, "opened vault", "path", a.config.DatabasePath, "initialized", a.isInitialized())
	printlnFn("Welcome to SitePass (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// Close locks the session and releases the database handle.
func (a *App) Close(ctx context.Context) error {
	if a.session != nil {
		a.session.Lock()
	}
	return a.db.Close()
}

func (a *App) getStatus() string {
	switch {
	case !a.isInitialized():
		return "(setup required)"
	case a.isUnlocked():
		return "(unlocked)"
	default:
		return "(locked)"
	}
}
