package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/teller/internal/accounts"
	"github.com/cleared-dev/teller/internal/commands"
	"github.com/cleared-dev/teller/internal/config"
)

func initWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, _, err := runTeller(t, "init", dir)
	require.NoError(t, err)
	return dir
}

func TestRun_SampleWorkspace(t *testing.T) {
	dir := initWorkspace(t)
	path := func(name string) string { return filepath.Join(dir, name) }

	_, stderr, err := runTeller(t, "run",
		"--config", path(config.FileName),
		"--accounts", path("current_accounts.txt"),
		"--commands", path(commands.SampleCommandsFile),
		"--console", path("console.out"),
		"--transactions", path("daily_transactions.txt"),
		"--save-accounts", path("new_accounts.txt"),
		"--metrics-file", path("teller.prom"),
	)
	require.NoError(t, err)
	assert.Contains(t, stderr, "run finished")

	data, err := os.ReadFile(path("console.out"))
	require.NoError(t, err)
	transcript := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Contains(t, transcript, "Withdrawal successful. New balance: $1,200.00")
	assert.Contains(t, transcript, "Payment successful. New balance for Account 00003: $1,150.00.")
	for _, line := range transcript {
		assert.False(t, strings.HasPrefix(line, "Error:"), line)
	}

	log, err := os.ReadFile(path("daily_transactions.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(log)), "\n")
	assert.Equal(t, []string{
		"01_Xuan_Zheng____________00003_00200.00___",
		"03_Xuan_Zheng____________00003_00050.00_10000",
		"00_______________________00000_00000.00___",
		"05_New_Customer__________00009_00100.00___",
		"08_Emon_Roy______________00007_00000.00_NP",
		"00_______________________00000_00000.00___",
	}, lines)

	store, err := accounts.Load(path("new_accounts.txt"))
	require.NoError(t, err)
	assert.Equal(t, 9, store.Len())
	acct, ok := store.Get("00003")
	require.True(t, ok)
	assert.Equal(t, "1150.00", acct.Balance.StringFixed(2))

	prom, err := os.ReadFile(path("teller.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `teller_sessions_total{privilege="admin"} 1`)
	assert.Contains(t, string(prom), `teller_transactions_total{kind="withdraw",outcome="ok"} 1`)
}

func TestRun_ConsoleToStdout(t *testing.T) {
	dir := initWorkspace(t)
	script := filepath.Join(dir, "script.txt")
	require.NoError(t, os.WriteFile(script, []byte("login\nadmin\nwithdraw\n00001\n"), 0o644))

	out, _, err := runTeller(t, "run",
		"--accounts", filepath.Join(dir, "current_accounts.txt"),
		"--commands", script,
		"--transactions", filepath.Join(dir, "tx.txt"),
	)
	require.NoError(t, err, "truncation is not a failure")
	assert.Contains(t, out, "Error: Missing arguments for withdraw: need 2, have 1.")
	assert.True(t, strings.HasSuffix(out, "Session terminated.\n"))
}

func TestRun_TransactionsAppend(t *testing.T) {
	dir := initWorkspace(t)
	script := filepath.Join(dir, "script.txt")
	require.NoError(t, os.WriteFile(script, []byte("login\nadmin\nlogout\n"), 0o644))
	txPath := filepath.Join(dir, "tx.txt")

	for range 2 {
		_, _, err := runTeller(t, "run",
			"--accounts", filepath.Join(dir, "current_accounts.txt"),
			"--commands", script,
			"--transactions", txPath,
		)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(txPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestRun_Errors(t *testing.T) {
	dir := initWorkspace(t)

	_, _, err := runTeller(t, "run", "--accounts", filepath.Join(dir, "current_accounts.txt"))
	require.Error(t, err, "--commands is required")

	_, _, err = runTeller(t, "run",
		"--accounts", filepath.Join(dir, "missing.txt"),
		"--commands", filepath.Join(dir, commands.SampleCommandsFile),
	)
	require.Error(t, err)

	_, _, err = runTeller(t, "run",
		"--accounts", filepath.Join(dir, "current_accounts.txt"),
		"--commands", filepath.Join(dir, "missing.txt"),
	)
	require.Error(t, err)

	_, _, err = runTeller(t, "run",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--commands", filepath.Join(dir, commands.SampleCommandsFile),
	)
	require.Error(t, err)
}

func TestDecode(t *testing.T) {
	dir := initWorkspace(t)
	txPath := filepath.Join(dir, "tx.txt")
	_, _, err := runTeller(t, "run",
		"--accounts", filepath.Join(dir, "current_accounts.txt"),
		"--commands", filepath.Join(dir, commands.SampleCommandsFile),
		"--transactions", txPath,
		"--console", filepath.Join(dir, "console.out"),
	)
	require.NoError(t, err)

	out, _, err := runTeller(t, "decode", txPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[0], "CODE")
	assert.Contains(t, lines[1], "withdraw")
	assert.Contains(t, lines[1], "Xuan Zheng")
	assert.Contains(t, lines[1], "200.00")
	assert.Contains(t, lines[2], "10000")
	assert.Contains(t, lines[3], "end of session")
}

func TestDecode_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a record\n"), 0o644))

	_, _, err := runTeller(t, "decode", path)
	assert.Error(t, err)
}
