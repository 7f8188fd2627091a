package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	apperrors "github.com/alexisbeaulieu97/signin/pkg/errors"
)

const (
	fileName  = "signin"
	envPrefix = "SIGNIN"
)

// FlagKeys maps command-line flag names onto config keys.
var FlagKeys = map[string]string{
	"log-level":   "log.level",
	"log-human":   "log.human_readable",
	"log-file":    "log.file",
	"theme":       "theme",
	"language":    "language",
	"backend":     "backend",
	"db-type":     "database.type",
	"db-dsn":      "database.dsn",
	"remote-url":  "remote.url",
	"address":     "server.address",
	"bcrypt-cost": "bcrypt_cost",
}

// LoadOptions tells Load where to look.
type LoadOptions struct {
	// File is an explicit config file; it must exist when set.
	File string
	// Flags are bound through FlagKeys; flags the user did not set do not
	// override lower layers.
	Flags *pflag.FlagSet
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, fileName, fileName+".yaml"), nil
}

// Load resolves the configuration and validates it.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		if path, err := DefaultPath(); err == nil {
			v.AddConfigPath(filepath.Dir(path))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			source := opts.File
			if source == "" {
				source = fileName + ".yaml"
			}
			return nil, apperrors.NewParseError(source, 0, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if flag := opts.Flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.NewParseError(v.ConfigFileUsed(), 0, err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteFile stores cfg as YAML at path, creating parent directories. The
// file is private to the user because DSNs may carry passwords.
func WriteFile(path string, cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0o600)
}
