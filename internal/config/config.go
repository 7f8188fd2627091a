// Package config defines the application configuration and loads it from
// defaults, a YAML file, SIGNIN_* environment variables and command-line
// flags, in increasing order of precedence.
package config

import "time"

// Backends selectable through the backend key.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Config is the resolved application configuration.
type Config struct {
	Log        LogConfig      `mapstructure:"log" yaml:"log"`
	Theme      string         `mapstructure:"theme" yaml:"theme" validate:"theme_name"`
	Language   string         `mapstructure:"language" yaml:"language" validate:"supported_language"`
	Backend    string         `mapstructure:"backend" yaml:"backend" validate:"oneof=local remote"`
	BcryptCost int            `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost" validate:"min=4,max=31"`
	Database   DatabaseConfig `mapstructure:"database" yaml:"database"`
	Remote     RemoteConfig   `mapstructure:"remote" yaml:"remote"`
	Server     ServerConfig   `mapstructure:"server" yaml:"server"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level         string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	HumanReadable bool   `mapstructure:"human_readable" yaml:"human_readable"`
	// File receives log output. The TUI never logs to its own terminal, so
	// an empty File discards logs there.
	File string `mapstructure:"file" yaml:"file"`
}

// DatabaseConfig selects the user store.
type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type" validate:"oneof=sqlite postgres mysql"`
	DSN  string `mapstructure:"dsn" yaml:"dsn" validate:"notblank"`
}

// RemoteConfig points the remote backend at a sign-in service.
type RemoteConfig struct {
	URL     string        `mapstructure:"url" yaml:"url" validate:"omitempty,http_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"min=0"`
}

// ServerConfig configures the HTTP login API.
type ServerConfig struct {
	Address string `mapstructure:"address" yaml:"address" validate:"notblank"`
}

// Defaults returns the built-in configuration values keyed by their
// dotted config keys.
func Defaults() map[string]any {
	return map[string]any{
		"log.level":          "info",
		"log.human_readable": false,
		"log.file":           "",
		"theme":              "light",
		"language":           "en",
		"backend":            BackendLocal,
		"bcrypt_cost":        12,
		"database.type":      "sqlite",
		"database.dsn":       "signin.db",
		"remote.url":         "",
		"remote.timeout":     10 * time.Second,
		"server.address":     "127.0.0.1:8080",
	}
}
