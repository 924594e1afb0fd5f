package cli

import (
	"fmt"

	"github.com/mwantia/bingwall/internal/app"
	"github.com/mwantia/bingwall/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewRootCommand(info VersionInfo) *cobra.Command {
	var path string
	var history bool

	defaults := config.GetDefault()

	cmd := &cobra.Command{
		Use:           "bingwall",
		Short:         "Bing Wallpaper Downloader",
		Long:          "Downloads the daily Bing wallpaper, skips images whose content was already downloaded and keeps a history of every saved file.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(path)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			wallpaperApp := app.NewApp(cfg)
			if history {
				return wallpaperApp.History(cmd.Context(), cmd.OutOrStdout())
			}

			if _, err := wallpaperApp.Run(cmd.Context()); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&path, "config", "", "config file (default is ./config.yaml)")
	cmd.PersistentFlags().Bool("no-color", false, "Disables colored command output")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("database", defaults.Ledger.SQLite.Path, "Download history database file")

	cmd.Flags().StringP("filepath", "f", defaults.Download.Dir, "Custom save directory")
	cmd.Flags().Bool("override", false, "Download even if the same image content was saved before")
	cmd.Flags().BoolVar(&history, "history", false, "Show download history")
	cmd.Flags().Int("cleanup-days", 0, "Delete history entries older than X days")
	cmd.Flags().Bool("use-api", false, "Use third-party API instead of web scraping")
	cmd.Flags().String("resolution", defaults.Source.API.Resolution, "Image resolution for API mode")
	cmd.Flags().String("region", defaults.Source.API.Region, "Region code for API mode")
	cmd.Flags().Int("index", 0, "Wallpaper index for API mode (0=today, 1=yesterday, etc)")

	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.no_color", cmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("ledger.sqlite.path", cmd.PersistentFlags().Lookup("database"))

	viper.BindPFlag("download.dir", cmd.Flags().Lookup("filepath"))
	viper.BindPFlag("download.override", cmd.Flags().Lookup("override"))
	viper.BindPFlag("download.cleanup_days", cmd.Flags().Lookup("cleanup-days"))
	viper.BindPFlag("source.use_api", cmd.Flags().Lookup("use-api"))
	viper.BindPFlag("source.api.resolution", cmd.Flags().Lookup("resolution"))
	viper.BindPFlag("source.api.region", cmd.Flags().Lookup("region"))
	viper.BindPFlag("source.api.index", cmd.Flags().Lookup("index"))

	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)

	return cmd
}
