package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys. Flags override the config file, which overrides
// BILLFOLD_* environment variables' defaults.
const (
	cfgDataDir    = "data_dir"
	cfgFormat     = "format"
	cfgLogLevel   = "log_level"
	cfgDebounce   = "debounce"
	cfgEndnote    = "endnote"
	cfgDisclaimer = "disclaimer"
)

func initConfig(cmd *cobra.Command) error {
	viper.SetDefault(cfgDataDir, defaultDataDir())
	viper.SetDefault(cfgFormat, "table")
	viper.SetDefault(cfgLogLevel, "warn")
	viper.SetDefault(cfgDebounce, 700*time.Millisecond)

	viper.SetEnvPrefix("BILLFOLD")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(defaultConfigDir())
	}
	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; a malformed one is not
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if dataDir == "" {
		dataDir = viper.GetString(cfgDataDir)
	}
	if format == "" {
		format = viper.GetString(cfgFormat)
	}
	if logLevel == "" {
		logLevel = viper.GetString(cfgLogLevel)
	}
	return nil
}

func resolvedDataDir() string {
	return dataDir
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "billfold")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "billfold-data"
	}
	return filepath.Join(home, ".local", "share", "billfold")
}

func defaultConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "billfold")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "billfold")
}
