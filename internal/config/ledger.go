package config

// LedgerConfig holds the download history store configuration
type LedgerConfig struct {
	SQLite LedgerSQLiteConfig `mapstructure:"sqlite" yaml:"sqlite"`
}

// LedgerSQLiteConfig holds SQLite-specific configuration
type LedgerSQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}
