package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/teller/internal/accounts"
	"github.com/cleared-dev/teller/internal/commands"
	"github.com/cleared-dev/teller/internal/config"
)

func runTeller(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestInit_WritesWorkspace(t *testing.T) {
	dir := t.TempDir()
	out, _, err := runTeller(t, "init", dir, "--branch", "Main Street")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized teller workspace at")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Main Street", cfg.Branch.Name)

	store, err := accounts.Load(filepath.Join(dir, cfg.Files.Accounts))
	require.NoError(t, err)
	assert.Equal(t, len(accounts.SampleRoster()), store.Len())

	data, err := os.ReadFile(filepath.Join(dir, commands.SampleCommandsFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "login\nstandard\nXuan_Zheng\n")
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runTeller(t, "init", dir)
	require.NoError(t, err)

	_, _, err = runTeller(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = runTeller(t, "init", dir, "--force")
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := runTeller(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}
