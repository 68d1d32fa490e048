package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/teller/internal/accounts"
	"github.com/cleared-dev/teller/internal/config"
	"github.com/cleared-dev/teller/internal/engine"
	"github.com/cleared-dev/teller/internal/journal"
	"github.com/cleared-dev/teller/internal/logger"
	"github.com/cleared-dev/teller/internal/metrics"
)

type runOptions struct {
	configPath   string
	accounts     string
	commands     string
	console      string
	transactions string
	saveAccounts string
	metricsFile  string
}

func newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process a command stream against an account roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to teller.yaml")
	cmd.Flags().StringVar(&opts.accounts, "accounts", "", "account roster file (default from config)")
	cmd.Flags().StringVar(&opts.commands, "commands", "", "command stream file, - for stdin (required)")
	_ = cmd.MarkFlagRequired("commands")
	cmd.Flags().StringVar(&opts.console, "console", "", "console transcript file (default stdout)")
	cmd.Flags().StringVar(&opts.transactions, "transactions", "", "transaction log to append to (default from config)")
	cmd.Flags().StringVar(&opts.saveAccounts, "save-accounts", "", "write the end-of-run roster here")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write run counters here in Prometheus text format")

	return cmd
}

func runEngine(ctx context.Context, cmd *cobra.Command, opts runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}).With().Str("branch", cfg.Branch.Name).Logger()

	codec, err := cfg.Codec()
	if err != nil {
		return err
	}
	policy := cfg.Policy()

	rosterPath := opts.accounts
	if rosterPath == "" {
		rosterPath = cfg.Files.Accounts
	}
	store, err := accounts.Load(rosterPath)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(cmd, opts.commands)
	if err != nil {
		return err
	}
	defer closeIn()

	out := cmd.OutOrStdout()
	if opts.console != "" {
		f, err := os.Create(opts.console)
		if err != nil {
			return fmt.Errorf("creating console file: %w", err)
		}
		defer f.Close()
		out = f
	}

	logPath := opts.transactions
	if logPath == "" {
		logPath = cfg.Files.Transactions
	}
	txFile, err := journal.OpenAppend(logPath)
	if err != nil {
		return err
	}
	defer txFile.Close()

	rec := metrics.New()
	eng := engine.New(store, journal.NewWriter(txFile, codec), engine.Options{
		Policy:  &policy,
		Console: out,
		Metrics: rec,
		Logger:  &log,
	})

	sum, err := eng.Run(ctx, in)
	if err != nil {
		return fmt.Errorf("run %s: %w", sum.RunID, err)
	}

	if opts.saveAccounts != "" {
		if err := store.Save(opts.saveAccounts); err != nil {
			return err
		}
	}
	if opts.metricsFile != "" {
		if err := rec.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
	}
	return nil
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening commands: %w", err)
	}
	return f, func() { f.Close() }, nil
}
