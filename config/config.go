// Package config loads and writes the settings used by the krypt command.
//
// Settings are resolved from, in increasing precedence: built-in defaults,
// krypt.yaml in the user config directory or the working directory (or an
// explicit --config file), KRYPT_* environment variables (a .env file in the
// working directory is loaded first) and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kryptkit/krypt"
	"github.com/kryptkit/krypt/internal/logging"
	"github.com/kryptkit/krypt/store"
)

const (
	appName    = "krypt"
	fileName   = "krypt.yaml"
	envPrefix  = "KRYPT"
	dotEnvFile = ".env"
)

// Settings are the caller-layer preferences. The library itself never reads
// them; the command maps them onto engine options.
type Settings struct {
	AutoClearAfterEncrypt bool            `mapstructure:"auto_clear_after_encrypt" yaml:"auto_clear_after_encrypt"`
	AutoCopyAfterEncrypt  bool            `mapstructure:"auto_copy_after_encrypt" yaml:"auto_copy_after_encrypt"`
	AutoLoadSecureKey     bool            `mapstructure:"auto_load_secure_key" yaml:"auto_load_secure_key"`
	OutputFormat          string          `mapstructure:"output_format" yaml:"output_format"`
	SecureKey             string          `mapstructure:"secure_key" yaml:"secure_key,omitempty"`
	History               HistorySettings `mapstructure:"history" yaml:"history"`
	LogLevel              string          `mapstructure:"log_level" yaml:"log_level"`
	LogFormat             string          `mapstructure:"log_format" yaml:"log_format"`
}

// HistorySettings selects the history store.
type HistorySettings struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	Path    string `mapstructure:"path" yaml:"path,omitempty"`
}

// Defaults returns the default value of every setting, keyed by its viper key.
func Defaults() map[string]any {
	return map[string]any{
		"auto_clear_after_encrypt": true,
		"auto_copy_after_encrypt":  false,
		"auto_load_secure_key":     true,
		"output_format":            string(krypt.FormatBase64),
		"secure_key":               "",
		"history.backend":          string(store.BackendFile),
		"history.path":             "",
		"log_level":                "warn",
		"log_format":               string(logging.FormatText),
	}
}

// Dir returns the per-user krypt configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// DefaultPath returns the per-user settings file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// DefaultHistoryPath returns the default history location for backend.
func DefaultHistoryPath(backend store.Backend) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	switch backend {
	case store.BackendSQLite:
		return filepath.Join(dir, "history.db"), nil
	case store.BackendMemory:
		return "", nil
	}
	return filepath.Join(dir, "history.json"), nil
}

// LoadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FlagBindings maps setting keys to the command-line flags that override them.
var FlagBindings = map[string]string{
	"output_format": "format",
	"log_level":     "log-level",
	"log_format":    "log-format",
}

// Load resolves settings. explicitPath, if non-empty, must exist and replaces
// the search for krypt.yaml. cmd may be nil.
func Load(cmd *cobra.Command, explicitPath string) (Settings, error) {
	var s Settings

	if err := LoadDotEnv(dotEnvFile); err != nil {
		return s, err
	}

	v := viper.New()
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine unless it was asked for explicitly.
		var notFound viper.ConfigFileNotFoundError
		if explicitPath != "" || !errors.As(err, &notFound) {
			return s, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for key, flag := range FlagBindings {
			if f := cmd.Flags().Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return s, err
				}
			}
		}
	}

	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("parse config: %w", err)
	}

	if s.History.Path == "" {
		backend, err := store.ParseBackend(s.History.Backend)
		if err != nil {
			return s, err
		}
		if s.History.Path, err = DefaultHistoryPath(backend); err != nil {
			return s, err
		}
	}

	return s, s.Validate()
}

// Validate checks every enumerated setting.
func (s Settings) Validate() error {
	if _, err := krypt.ParseOutputFormat(s.OutputFormat); err != nil {
		return err
	}
	if _, err := store.ParseBackend(s.History.Backend); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(s.LogFormat); err != nil {
		return err
	}
	if s.SecureKey != "" {
		if _, err := krypt.NewBox(s.SecureKey); err != nil {
			return fmt.Errorf("secure_key: %w", err)
		}
	}
	return nil
}

// Write saves s as YAML to path, or to DefaultPath when path is empty. The
// file is created with owner-only permissions because it may hold a key.
func Write(s *Settings, path string) (string, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return "", err
		}
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}
	return path, nil
}
