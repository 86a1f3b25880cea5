// Package config loads settings from a config file, the environment and
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable names, e.g. CONVERTTO3MF_LOG_LEVEL
const EnvPrefix = "CONVERTTO3MF"

// Config holds all settings
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Batch    BatchConfig    `mapstructure:"batch" yaml:"batch"`
	Watch    WatchConfig    `mapstructure:"watch" yaml:"watch"`
	OpenSCAD OpenSCADConfig `mapstructure:"openscad" yaml:"openscad"`
}

// LogConfig selects the log level and encoding
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`
	// Format is console or json.
	Format string `mapstructure:"format" yaml:"format"`
}

// BatchConfig controls batch conversions
type BatchConfig struct {
	// Workers is the number of conversions running at the same time.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// WatchConfig controls the watch command
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// OpenSCADConfig locates the OpenSCAD executable
type OpenSCADConfig struct {
	Binary string `mapstructure:"binary" yaml:"binary"`
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("batch.workers", 4)
	v.SetDefault("watch.debounce", 500*time.Millisecond)
	v.SetDefault("openscad.binary", "openscad")
}

// Load reads the configuration. An explicit cfgFile must exist; otherwise
// convertto3mf.yaml is searched in the working directory and in
// ~/.config/convertto3mf and may be absent.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("convertto3mf")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "convertto3mf"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log.format %q (expected console or json)", c.Log.Format)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("invalid batch.workers %d (must be at least 1)", c.Batch.Workers)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("invalid watch.debounce %s", c.Watch.Debounce)
	}
	return nil
}
