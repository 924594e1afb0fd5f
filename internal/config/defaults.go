package config

import "github.com/spf13/viper"

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	DefaultOrigin    = "https://www.bing.com"
	DefaultEndpoint  = "https://bing.biturl.top"
)

func GetDefault() Config {
	return Config{
		ShutdownTimeout: "10s",

		Download: DownloadConfig{
			Dir:         "wallpapers",
			Override:    false,
			CleanupDays: 0,
			Timeout:     "20s",
		},

		Source: SourceConfig{
			UseAPI:  false,
			Timeout: "10s",
			Scrape: SourceScrapeConfig{
				PageURL:   DefaultOrigin,
				Origin:    DefaultOrigin,
				UserAgent: DefaultUserAgent,
			},
			API: SourceAPIConfig{
				Endpoint:   DefaultEndpoint,
				Resolution: "UHD",
				Region:     "zh-CN",
				Index:      0,
			},
		},

		Ledger: LedgerConfig{
			SQLite: LedgerSQLiteConfig{
				Path: "download_history.db",
			},
		},

		Log: LogConfig{
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},
	}
}

func setDefaults() {
	defaults := GetDefault()

	viper.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)

	viper.SetDefault("download.dir", defaults.Download.Dir)
	viper.SetDefault("download.override", defaults.Download.Override)
	viper.SetDefault("download.cleanup_days", defaults.Download.CleanupDays)
	viper.SetDefault("download.timeout", defaults.Download.Timeout)

	viper.SetDefault("source.use_api", defaults.Source.UseAPI)
	viper.SetDefault("source.timeout", defaults.Source.Timeout)
	viper.SetDefault("source.scrape.page_url", defaults.Source.Scrape.PageURL)
	viper.SetDefault("source.scrape.origin", defaults.Source.Scrape.Origin)
	viper.SetDefault("source.scrape.user_agent", defaults.Source.Scrape.UserAgent)
	viper.SetDefault("source.api.endpoint", defaults.Source.API.Endpoint)
	viper.SetDefault("source.api.resolution", defaults.Source.API.Resolution)
	viper.SetDefault("source.api.region", defaults.Source.API.Region)
	viper.SetDefault("source.api.index", defaults.Source.API.Index)

	viper.SetDefault("ledger.sqlite.path", defaults.Ledger.SQLite.Path)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)
}
