package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/sitepass/internal/common"
	"github.com/dmitrijs2005/sitepass/internal/cryptox"
	"github.com/dmitrijs2005/sitepass/internal/derive"
	"github.com/dmitrijs2005/sitepass/internal/logging"
	"github.com/dmitrijs2005/sitepass/internal/repositories/metadata"
	"github.com/dmitrijs2005/sitepass/internal/repositories/profiles"
	"github.com/dmitrijs2005/sitepass/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	// Every line, including a trailing empty one, must end in '\n' so the
	// prompt helpers never see a bare EOF mid-dialog.
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestApp builds an App over a fresh throwaway database with a fixed
// randomness source, so installation salts are reproducible across runs.
func newTestApp(t *testing.T) *App {
	t.Helper()
	ctx := context.Background()

	db, err := store.Open(ctx, filepath.Join(t.TempDir(), "sitepass.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &App{
		log:        discardLogger(),
		db:         db,
		profiles:   profiles.NewSQLiteRepository(db),
		metadata:   metadata.NewSQLiteRepository(db),
		randSource: bytes.NewReader(bytes.Repeat([]byte{0x42}, cryptox.SaltSize)),
	}
}

// stubSecrets replaces the secret prompt with a queue of canned answers.
func stubSecrets(t *testing.T, answers ...string) {
	t.Helper()
	old := getSecret
	t.Cleanup(func() { getSecret = old })
	getSecret = func(prompt string, w io.Writer) ([]byte, error) {
		if len(answers) == 0 {
			return nil, io.EOF
		}
		s := answers[0]
		answers = answers[1:]
		return []byte(s), nil
	}
}

// captureOutput replaces user-facing printing and returns the collected lines.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	old := printlnFn
	t.Cleanup(func() { printlnFn = old })
	var lines []string
	printlnFn = func(args ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(args...))
		return 0, nil
	}
	return &lines
}

// ------------ setup / unlock ------------

func TestSetup_CreatesAndUnlocksVault(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	out := captureOutput(t)
	stubSecrets(t, "master-secret", "master-secret")

	require.NoError(t, a.Setup(ctx))
	assert.True(t, a.isInitialized())
	assert.True(t, a.isUnlocked())

	salt, err := a.metadata.Get(ctx, metadata.KeySalt)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0x42}, cryptox.SaltSize), salt)

	verifier, err := a.metadata.Get(ctx, metadata.KeyVerifier)
	require.NoError(t, err)
	assert.Equal(t, cryptox.MakeVerifier([]byte("master-secret"), salt), verifier)

	ver, err := a.metadata.Get(ctx, metadata.KeyAlgVersion)
	require.NoError(t, err)
	assert.Equal(t, []byte{derive.ParamsV1.Version}, ver)

	assert.Contains(t, strings.Join(*out, ""), "Vault created and unlocked.")
}

func TestSetup_SecretsDoNotMatch(t *testing.T) {
	a := newTestApp(t)
	captureOutput(t)
	stubSecrets(t, "one", "two")

	require.Error(t, a.Setup(context.Background()))
	assert.False(t, a.isInitialized())
}

func TestSetup_RefusedWhenInitialized(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	captureOutput(t)
	stubSecrets(t, "master-secret", "master-secret")

	require.NoError(t, a.Setup(ctx))
	require.ErrorIs(t, a.Setup(ctx), common.ErrAlreadyInitialized)
}

func TestUnlock_NotInitialized(t *testing.T) {
	a := newTestApp(t)
	captureOutput(t)

	require.ErrorIs(t, a.Unlock(context.Background()), common.ErrNotInitialized)
}

func TestUnlock_WrongThenRightSecret(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	captureOutput(t)
	stubSecrets(t, "master-secret", "master-secret")
	require.NoError(t, a.Setup(ctx))

	require.NoError(t, a.Lock(ctx))
	assert.False(t, a.isUnlocked())

	stubSecrets(t, "wrong", "master-secret")
	require.ErrorIs(t, a.Unlock(ctx), common.ErrSecretMismatch)
	assert.False(t, a.isUnlocked())

	require.NoError(t, a.Unlock(ctx))
	assert.True(t, a.isUnlocked())
}

// TestLoadInstallation_SurvivesRestart checks that a fresh App over the same
// database comes up initialized but locked.
func TestLoadInstallation_SurvivesRestart(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	captureOutput(t)
	stubSecrets(t, "master-secret", "master-secret")
	require.NoError(t, a.Setup(ctx))

	b := &App{
		log:      discardLogger(),
		db:       a.db,
		profiles: profiles.NewSQLiteRepository(a.db),
		metadata: metadata.NewSQLiteRepository(a.db),
	}
	require.NoError(t, b.loadInstallation(ctx))
	assert.True(t, b.isInitialized())
	assert.False(t, b.isUnlocked())

	stubSecrets(t, "master-secret")
	require.NoError(t, b.Unlock(ctx))
	assert.True(t, b.isUnlocked())
}

// TestLoadInstallation_RejectsAlgVersionMismatch checks that a vault created
// under different derivation constants is refused instead of silently
// re-derived with this build's parameters.
func TestLoadInstallation_RejectsAlgVersionMismatch(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	captureOutput(t)
	stubSecrets(t, "master-secret", "master-secret")
	require.NoError(t, a.Setup(ctx))

	require.NoError(t, a.metadata.Set(ctx, metadata.KeyAlgVersion,
		[]byte{derive.ParamsV1.Version + 1}))

	b := &App{
		log:      discardLogger(),
		db:       a.db,
		profiles: profiles.NewSQLiteRepository(a.db),
		metadata: metadata.NewSQLiteRepository(a.db),
	}
	require.ErrorIs(t, b.loadInstallation(ctx), common.ErrAlgVersion)
}

// ------------ profile commands ------------

func unlockedApp(t *testing.T) *App {
	t.Helper()
	a := newTestApp(t)
	captureOutput(t)
	stubSecrets(t, "master-secret", "master-secret")
	require.NoError(t, a.Setup(context.Background()))
	return a
}

func TestAdd_ThenGen(t *testing.T) {
	a := unlockedApp(t)
	ctx := context.Background()

	// label, length (default), classes (default)
	a.reader = readerFromLines("example.com", "", "")
	require.NoError(t, a.Add(ctx))

	p, err := a.profiles.GetByLabel(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, 16, p.Length)
	assert.Equal(t, "luds", p.Classes.String())
	assert.Equal(t, uint32(0), p.Counter)

	out := captureOutput(t)
	require.NoError(t, a.Gen(ctx, "example.com"))
	require.Len(t, *out, 1)
	got := strings.TrimSuffix((*out)[0], "\n")

	salt, err := a.metadata.Get(ctx, metadata.KeySalt)
	require.NoError(t, err)
	want, err := derive.Password([]byte("master-secret"), *p, salt)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAdd_EditKeepsIDAndCounter(t *testing.T) {
	a := unlockedApp(t)
	ctx := context.Background()

	a.reader = readerFromLines("example.com", "", "")
	require.NoError(t, a.Add(ctx))
	require.NoError(t, a.Bump(ctx, "example.com"))

	before, err := a.profiles.GetByLabel(ctx, "example.com")
	require.NoError(t, err)

	a.reader = readerFromLines("example.com", "24", "ld")
	require.NoError(t, a.Add(ctx))

	after, err := a.profiles.GetByLabel(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, uint32(1), after.Counter)
	assert.Equal(t, 24, after.Length)
	assert.Equal(t, "ld", after.Classes.String())
}

func TestAdd_InvalidPolicyRejected(t *testing.T) {
	a := unlockedApp(t)

	// Length 2 is below the minimum the engine accepts.
	a.reader = readerFromLines("example.com", "2", "luds")
	require.ErrorIs(t, a.Add(context.Background()), common.ErrInvalidProfile)
}

func TestBump_RotatesPassword(t *testing.T) {
	a := unlockedApp(t)
	ctx := context.Background()

	a.reader = readerFromLines("example.com", "", "")
	require.NoError(t, a.Add(ctx))

	out := captureOutput(t)
	require.NoError(t, a.Gen(ctx, "example.com"))
	require.NoError(t, a.Bump(ctx, "example.com"))
	require.NoError(t, a.Gen(ctx, "example.com"))

	var pws []string
	for _, line := range *out {
		if !strings.Contains(line, " ") {
			pws = append(pws, strings.TrimSuffix(line, "\n"))
		}
	}
	require.Len(t, pws, 2)
	assert.NotEqual(t, pws[0], pws[1])
	assert.Len(t, pws[1], 16)
}

func TestShowAndList(t *testing.T) {
	a := unlockedApp(t)
	ctx := context.Background()

	a.reader = readerFromLines("example.com", "20", "ld")
	require.NoError(t, a.Add(ctx))

	out := captureOutput(t)
	require.NoError(t, a.Show(ctx, "example.com"))
	joined := strings.Join(*out, "")
	assert.Contains(t, joined, "example.com")
	assert.Contains(t, joined, "20")
	assert.Contains(t, joined, "ld")

	require.NoError(t, a.List(ctx))
	require.ErrorIs(t, a.Show(ctx, "absent.example"), common.ErrNotFound)
}

func TestDelete_RemovesProfile(t *testing.T) {
	a := unlockedApp(t)
	ctx := context.Background()

	a.reader = readerFromLines("example.com", "", "")
	require.NoError(t, a.Add(ctx))
	require.NoError(t, a.Delete(ctx, "example.com"))

	require.ErrorIs(t, a.Gen(ctx, "example.com"), common.ErrNotFound)
	require.ErrorIs(t, a.Delete(ctx, "example.com"), common.ErrNotFound)
}

func TestReset_WipesVault(t *testing.T) {
	a := unlockedApp(t)
	ctx := context.Background()

	a.reader = readerFromLines("example.com", "", "")
	require.NoError(t, a.Add(ctx))

	a.reader = readerFromLines("yes")
	require.NoError(t, a.Reset(ctx))

	assert.False(t, a.isInitialized())

	salt, err := a.metadata.Get(ctx, metadata.KeySalt)
	require.NoError(t, err)
	assert.Nil(t, salt)

	list, err := a.profiles.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// A wiped vault accepts a fresh setup.
	a.randSource = bytes.NewReader(bytes.Repeat([]byte{0x43}, cryptox.SaltSize))
	stubSecrets(t, "new-secret", "new-secret")
	require.NoError(t, a.Setup(ctx))
	assert.True(t, a.isUnlocked())
}

func TestReset_AbortedWithoutConfirmation(t *testing.T) {
	a := unlockedApp(t)
	ctx := context.Background()

	a.reader = readerFromLines("no")
	require.NoError(t, a.Reset(ctx))

	assert.True(t, a.isInitialized())
	assert.True(t, a.isUnlocked())

	salt, err := a.metadata.Get(ctx, metadata.KeySalt)
	require.NoError(t, err)
	assert.NotNil(t, salt)
}

func TestCommands_RequireUnlock(t *testing.T) {
	a := unlockedApp(t)
	ctx := context.Background()
	require.NoError(t, a.Lock(ctx))

	require.ErrorIs(t, a.Add(ctx), common.ErrLocked)
	require.ErrorIs(t, a.List(ctx), common.ErrLocked)
	require.ErrorIs(t, a.Show(ctx, "example.com"), common.ErrLocked)
	require.ErrorIs(t, a.Gen(ctx, "example.com"), common.ErrLocked)
	require.ErrorIs(t, a.Bump(ctx, "example.com"), common.ErrLocked)
	require.ErrorIs(t, a.Delete(ctx, "example.com"), common.ErrLocked)
	require.ErrorIs(t, a.Reset(ctx), common.ErrLocked)
}
