package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	envFiles    = []string{".env", ".env.local"}
	configPaths = []string{".", "./config", "/etc/bingwall", "$HOME/.bingwall"}
)

// initConfig reads .env files, the optional config file and BINGWALL_*
// environment variables into viper. A missing config file is not an error.
func initConfig(path string) error {
	dirs := []string{"."}

	if path != "" {
		viper.SetConfigFile(path)
		dirs = append(dirs, filepath.Dir(path))
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		for _, configPath := range configPaths {
			viper.AddConfigPath(configPath)
		}
		dirs = append(dirs, configPaths[1:]...)
	}

	loadEnvFiles(dirs...)

	viper.SetEnvPrefix("BINGWALL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// loadEnvFiles never overrides variables that are already set; the first
// directory therefore wins.
func loadEnvFiles(dirs ...string) {
	for _, dir := range dirs {
		for _, envFile := range envFiles {
			godotenv.Load(filepath.Join(os.ExpandEnv(dir), envFile)) // Missing files are fine
		}
	}
}
