package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/teller/internal/config"
	"github.com/cleared-dev/teller/internal/journal"
)

func newDecodeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "decode <transactions-file>",
		Short: "Print a transaction log as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			codec, err := cfg.Codec()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening transaction log: %w", err)
			}
			defer f.Close()

			records, err := journal.ReadRecords(f, codec)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tKIND\tACCOUNT\tHOLDER\tAMOUNT\tTRAILER")
			for _, r := range records {
				code, _ := codec.Code(r.Kind)
				kind := string(r.Kind)
				if r.IsSentinel() {
					kind = "end of session"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					code, kind, r.Account, r.Holder, r.Amount.StringFixed(2), r.Trailer)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to teller.yaml")

	return cmd
}
