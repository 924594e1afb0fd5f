package config

type SourceConfig struct {
	UseAPI  bool   `mapstructure:"use_api" yaml:"use_api"`
	Timeout string `mapstructure:"timeout" yaml:"timeout"`

	Scrape SourceScrapeConfig `mapstructure:"scrape" yaml:"scrape"`
	API    SourceAPIConfig    `mapstructure:"api"    yaml:"api"`
}

type SourceScrapeConfig struct {
	PageURL   string `mapstructure:"page_url"   yaml:"page_url"`
	Origin    string `mapstructure:"origin"     yaml:"origin"`
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
}

type SourceAPIConfig struct {
	Endpoint   string `mapstructure:"endpoint"   yaml:"endpoint"`
	Resolution string `mapstructure:"resolution" yaml:"resolution"`
	Region     string `mapstructure:"region"     yaml:"region"`
	Index      int    `mapstructure:"index"      yaml:"index"`
}
