// Package config loads songsort settings.
//
// Settings come from, in increasing precedence: built-in defaults, the TOML
// file at $XDG_CONFIG_HOME/songsort/config.toml (or ~/.config/songsort), and
// SONGSORT_* environment variables such as SONGSORT_STRATEGY. Command-line
// flags bound with [Load] override all of them.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	serrors "github.com/matzehuels/songsort/pkg/errors"
	"github.com/matzehuels/songsort/pkg/strategy"
)

const (
	appName   = "songsort"
	envPrefix = "SONGSORT"
)

// Config holds user settings.
type Config struct {
	// Strategy is the default sort strategy name.
	Strategy string `mapstructure:"strategy" toml:"strategy"`
	// CleanImports reduces imported decisions before merging them.
	CleanImports bool `mapstructure:"clean_imports" toml:"clean_imports"`
	// Listen is the address of the HTTP API.
	Listen string `mapstructure:"listen" toml:"listen"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `mapstructure:"log_level" toml:"log_level"`
	// Catalog is the song list used when a command is given none.
	Catalog string `mapstructure:"catalog" toml:"catalog"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Strategy: strategy.NameMergeInsertion,
		Listen:   "127.0.0.1:8080",
		LogLevel: "info",
	}
}

// Dir returns the configuration directory using the XDG standard.
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads settings from path, or from [Path] when path is empty. A missing
// file is not an error. Flags in fs whose names match a setting, with dashes
// for underscores, override it when set on the command line; fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("strategy", def.Strategy)
	v.SetDefault("clean_imports", def.CleanImports)
	v.SetDefault("listen", def.Listen)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("catalog", def.Catalog)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = Path(); err != nil {
			return nil, serrors.Wrap(serrors.ErrCodeInternal, err, "locate config")
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			if explicit {
				return nil, serrors.Wrap(serrors.ErrCodeFileNotFound, err, "config %s", path)
			}
		default:
			return nil, serrors.Wrap(serrors.ErrCodeInvalidFormat, err, "read config %s", path)
		}
	}

	if fs != nil {
		for _, key := range []string{"strategy", "clean_imports", "listen", "log_level", "catalog"} {
			if f := fs.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, serrors.Wrap(serrors.ErrCodeInternal, err, "bind flag %s", f.Name)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidFormat, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the strategy name and log level.
func (c *Config) Validate() error {
	if _, err := strategy.New(c.Strategy); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return serrors.New(serrors.ErrCodeInvalidInput, "log_level %q: %v", c.LogLevel, err)
	}
	return nil
}

// Level returns the parsed log level, defaulting to info.
func (c *Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// Write encodes c as TOML at path, creating the directory if needed.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return serrors.Wrap(serrors.ErrCodeInternal, err, "create config dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return serrors.Wrap(serrors.ErrCodeInternal, err, "create config %s", path)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return serrors.Wrap(serrors.ErrCodeInternal, err, "encode config")
	}
	return f.Close()
}
