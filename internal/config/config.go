// Package config loads the shapetrail settings file and builds the logger.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreBadger = "badger"
)

// Environment overrides.
const (
	EnvLevelsDir = "SHAPETRAIL_LEVELS_DIR"
	EnvStore     = "SHAPETRAIL_STORE"
	EnvLogLevel  = "SHAPETRAIL_LOG_LEVEL"
)

// Config is the on-disk settings file.
type Config struct {
	Store      string          `yaml:"store" validate:"oneof=file badger"`
	LevelsDir  string          `yaml:"levelsDir" validate:"required_if=Store file"`
	BadgerPath string          `yaml:"badgerPath" validate:"required_if=Store badger"`
	CellSize   float64         `yaml:"cellSize" validate:"gt=0"`
	Log        LogConfig       `yaml:"log"`
	Telemetry  TelemetryConfig `yaml:"telemetry"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
	// File receives log output. Empty means stderr, which the terminal UI
	// owns while a session is running.
	File string `yaml:"file"`
}

// TelemetryConfig controls trace export and the metrics endpoint.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	MetricsAddr string `yaml:"metricsAddr" validate:"omitempty,hostname_port"`
}

var configValidate = validator.New()

// Dir returns $HOME/.shapetrail.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".shapetrail"), nil
}

// DefaultPath returns the default settings file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "shapetrail.yaml"), nil
}

// Default returns the settings written on first run, rooted at dir.
func Default(dir string) Config {
	return Config{
		Store:      StoreFile,
		LevelsDir:  filepath.Join(dir, "levels"),
		BadgerPath: filepath.Join(dir, "db"),
		CellSize:   0.5,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(dir, "shapetrail.log"),
		},
	}
}

// Load reads the settings file at path, creating it with defaults when it
// does not exist. An empty path means DefaultPath. Environment overrides
// are applied before validation.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return Config{}, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read the config file: %w", err)
	}

	cfg := Default(filepath.Dir(path))
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(Default(dir))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLevelsDir); v != "" {
		c.LevelsDir = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		c.Store = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// NewLogger builds a text or JSON slog logger writing to w.
func NewLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch format {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	return slog.New(h), nil
}
