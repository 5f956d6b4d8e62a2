// Package config resolves process settings from defaults, an optional YAML
// file, a .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sadopc/sitelog/internal/store"
)

const (
	EnvDB        = "SITELOG_DB"
	EnvLogFile   = "SITELOG_LOG_FILE"
	EnvLogLevel  = "SITELOG_LOG_LEVEL"
	EnvExportDir = "SITELOG_EXPORT_DIR"
	EnvConfig    = "SITELOG_CONFIG"
)

// Config holds paths and the log level. Delay rules and status bands are
// user-editable and live in the settings table, not here.
type Config struct {
	DBPath    string `yaml:"db"`
	LogFile   string `yaml:"log_file"`
	LogLevel  string `yaml:"log_level"`
	ExportDir string `yaml:"export_dir"`
}

// Dir is the per-user directory holding the database, log and config file.
func Dir() string {
	db, err := store.DefaultDBPath()
	if err != nil {
		return "."
	}
	return filepath.Dir(db)
}

func Default() *Config {
	dir := Dir()
	return &Config{
		DBPath:    filepath.Join(dir, "sitelog.db"),
		LogFile:   filepath.Join(dir, "sitelog.log"),
		LogLevel:  "info",
		ExportDir: ".",
	}
}

// Load reads .env from the working directory if present, then the YAML file
// named by SITELOG_CONFIG (or config.yaml in Dir, when it exists), then the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := Default()

	path, explicit := os.LookupEnv(EnvConfig)
	if !explicit {
		path = filepath.Join(Dir(), "config.yaml")
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.merge(file)
	return nil
}

// merge copies the non-empty fields of o.
func (c *Config) merge(o Config) {
	if o.DBPath != "" {
		c.DBPath = o.DBPath
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.ExportDir != "" {
		c.ExportDir = o.ExportDir
	}
}

func (c *Config) loadFromEnv() {
	c.merge(Config{
		DBPath:    os.Getenv(EnvDB),
		LogFile:   os.Getenv(EnvLogFile),
		LogLevel:  os.Getenv(EnvLogLevel),
		ExportDir: os.Getenv(EnvExportDir),
	})
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("database path cannot be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
