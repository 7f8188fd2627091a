package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/signin/internal/config"
	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
	"github.com/alexisbeaulieu97/signin/internal/infrastructure/authn"
	"github.com/alexisbeaulieu97/signin/internal/infrastructure/store"
)

// isolate keeps config discovery away from the developer's own files and
// returns a fresh sqlite path.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return filepath.Join(dir, "users.db")
}

func stubTerminal(t *testing.T, tty bool) {
	t.Helper()
	original := isTerminal
	isTerminal = func(int) bool { return tty }
	t.Cleanup(func() { isTerminal = original })
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	stdout := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestRootRefusesWithoutTerminal(t *testing.T) {
	isolate(t)
	stubTerminal(t, false)

	_, err := execute(t, "")
	require.ErrorIs(t, err, errNotTerminal)
}

func TestUsersAddCreatesAccountThatAuthenticates(t *testing.T) {
	dsn := isolate(t)
	stubTerminal(t, false)

	out, err := execute(t, "s3cret-pw\n", "users", "add", "alice", "--role", "admin", "--db-dsn", dsn, "--bcrypt-cost", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "created alice (admin)")

	ctx := context.Background()
	st, err := store.Open(ctx, store.Options{Type: store.TypeSQLite, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	local := authn.NewLocal(st.Users(), authn.LocalOptions{RetryAttempts: -1})
	principal, err := local.Authenticate(ctx, auth.Credentials{Identifier: "alice", Secret: "s3cret-pw"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, principal.Role)

	_, err = local.Authenticate(ctx, auth.Credentials{Identifier: "alice", Secret: "wrong"})
	assert.Equal(t, auth.KindInvalidCredentials, auth.KindOf(err))
}

func TestUsersAddRejectsDuplicatesAndBadInput(t *testing.T) {
	dsn := isolate(t)
	stubTerminal(t, false)

	_, err := execute(t, "pw\n", "users", "add", "bob", "--db-dsn", dsn, "--bcrypt-cost", "4")
	require.NoError(t, err)

	_, err = execute(t, "pw\n", "users", "add", "bob", "--db-dsn", dsn, "--bcrypt-cost", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `user "bob" already exists`)

	_, err = execute(t, "pw\n", "users", "add", "carol", "--role", "root", "--db-dsn", dsn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid role")

	_, err = execute(t, "\n", "users", "add", "dave", "--db-dsn", dsn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password must not be empty")
}

func TestUsersImportAndList(t *testing.T) {
	dsn := isolate(t)
	stubTerminal(t, false)

	_, err := execute(t, "pw\n", "users", "add", "zoe", "--db-dsn", dsn, "--bcrypt-cost", "4")
	require.NoError(t, err)

	seed := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte(`users:
  - username: admin
    password: change-me
    role: admin
  - username: zoe
    password: other
`), 0o600))

	out, err := execute(t, "", "users", "import", seed, "--db-dsn", dsn, "--bcrypt-cost", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped zoe")
	assert.Contains(t, out, "imported 1 user(s), skipped 1")

	out, err = execute(t, "", "users", "list", "--db-dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "USERNAME")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "admin"))
	assert.Contains(t, lines[1], "admin")
	assert.True(t, strings.HasPrefix(lines[2], "zoe"))
	assert.Contains(t, lines[2], "user")
}

func TestUsersDelete(t *testing.T) {
	dsn := isolate(t)
	stubTerminal(t, false)

	_, err := execute(t, "pw\n", "users", "add", "frank", "--db-dsn", dsn, "--bcrypt-cost", "4")
	require.NoError(t, err)

	out, err := execute(t, "", "users", "delete", "frank", "--db-dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted frank")

	out, err = execute(t, "", "users", "list", "--db-dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "No users.")

	_, err = execute(t, "", "users", "delete", "frank", "--db-dsn", dsn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `user "frank" does not exist`)
}

func TestUsersImportReportsInvalidSeed(t *testing.T) {
	dsn := isolate(t)

	seed := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte("users:\n  - username: eve\n"), 0o600))

	_, err := execute(t, "", "users", "import", seed, "--db-dsn", dsn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users[0].password")
}

func TestConfigInitWritesLoadableFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "signin.yaml")

	out, err := execute(t, "", "config", "init", "--output", path, "--theme", "dark", "--language", "de")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(config.LoadOptions{File: path})
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, "de", cfg.Language)

	_, err = execute(t, "", "config", "init", "--output", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = execute(t, "", "config", "init", "--output", path, "--force")
	require.NoError(t, err)
}
