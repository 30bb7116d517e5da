package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"kvdb/pkg/dberrors"
)

// Config is the root configuration of the kvdb shell.
type Config struct {
	Logger LoggerConfig `yaml:"logger"`
	DB     DBConfig     `yaml:"db"`
	Shell  ShellConfig  `yaml:"shell"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type DBConfig struct {
	// Path of the database file. Empty means an in-memory database.
	Path string `yaml:"path"`
	// AutoSave writes the database back to Path when the shell exits.
	AutoSave bool `yaml:"autosave"`
}

type ShellConfig struct {
	Prompt string `yaml:"prompt"`
}

// Default returns a baseline development config.
func Default() Config {
	return Config{
		Logger: LoggerConfig{
			Level: "INFO",
			JSON:  false,
		},
		DB: DBConfig{
			Path:     "./kvdb.db",
			AutoSave: true,
		},
		Shell: ShellConfig{
			Prompt: "kvdb> ",
		},
	}
}

// Load reads a YAML config over Default(). A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("config file not found, using default config", "path", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := ParseLevel(c.Logger.Level); err != nil {
		return err
	}
	if c.Shell.Prompt == "" {
		return fmt.Errorf("%w: shell.prompt is empty", dberrors.ErrInvalidArgument)
	}
	if c.DB.AutoSave && c.DB.Path == "" {
		return fmt.Errorf("%w: db.autosave needs db.path", dberrors.ErrInvalidArgument)
	}
	return nil
}

// ParseLevel accepts DEBUG, INFO, WARN and ERROR in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: unknown log level %q", dberrors.ErrInvalidArgument, s)
}
