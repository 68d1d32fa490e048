package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/teller/internal/accounts"
	"github.com/cleared-dev/teller/internal/config"
)

// SampleCommandsFile is the demo command stream written by init.
const SampleCommandsFile = "commands.txt"

var sampleCommands = []string{
	"login", "standard", "Xuan_Zheng",
	"withdraw", "00003", "200.00",
	"paybill", "00003", "EC", "50.00",
	"logout",
	"login", "admin",
	"create", "New_Customer", "100.00",
	"changeplan", "Emon_Roy", "00007",
	"logout",
}

func newInitCommand() *cobra.Command {
	var branch string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default teller.yaml, a sample roster and a sample command stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, branch, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized teller workspace at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "branch name shown in logs")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing teller.yaml")

	return cmd
}

func runInit(dir, branch string, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	// Write teller.yaml.
	cfg := config.Default(branch)
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the sample roster.
	store := accounts.NewStore(accounts.SampleRoster())
	if err := store.Save(filepath.Join(dir, cfg.Files.Accounts)); err != nil {
		return fmt.Errorf("writing roster: %w", err)
	}

	// Write the sample command stream.
	script := strings.Join(sampleCommands, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, SampleCommandsFile), []byte(script), 0o644); err != nil {
		return fmt.Errorf("writing sample commands: %w", err)
	}

	return nil
}
