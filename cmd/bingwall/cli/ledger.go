package cli

import (
	"fmt"

	"github.com/mwantia/bingwall/internal/app"
	"github.com/mwantia/bingwall/internal/config"
	"github.com/spf13/cobra"
)

func NewLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the download history database",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show schema migrations and record count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			return app.NewApp(cfg).Status(cmd.Context(), cmd.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rollback",
		Short: "Revert the latest schema migration",
		Long: `Revert the latest schema migration of the download history.

Reverting the initial migration drops every recorded download.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			return app.NewApp(cfg).Rollback(cmd.Context(), cmd.OutOrStdout())
		},
	})

	return cmd
}
