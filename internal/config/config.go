package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultListen          = "127.0.0.1:8080"
	defaultTimezone        = "Europe/Berlin"
	defaultLogLevel        = "info"
	defaultExportDir       = "."
	defaultProductID       = "-//stageplan//Etappenplaner//DE"
	defaultChromiumTimeout = 30 * time.Second
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API and print view.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone in which stage dates and times are
	// interpreted when calendar files are generated.
	Timezone string `yaml:"timezone" json:"timezone"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// ExportDir is where the CLI writes exported files.
	ExportDir string `yaml:"export_dir" json:"export_dir"`

	// ProductID is written as PRODID into generated calendar files.
	ProductID string `yaml:"product_id" json:"product_id"`

	// Autosave is a cron spec (e.g. "*/5 * * * *") for periodic JSON
	// snapshots of the served itinerary. Empty disables autosave.
	Autosave string `yaml:"autosave" json:"autosave"`

	// AutosaveDir receives the autosave snapshots. Defaults to ExportDir.
	AutosaveDir string `yaml:"autosave_dir" json:"autosave_dir"`

	// ChromiumTimeout bounds a print-view capture.
	ChromiumTimeout time.Duration `yaml:"chromium_timeout" json:"chromium_timeout"`

	// BasicAuth, if set with both fields non-empty, protects every endpoint
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          defaultListen,
		Timezone:        defaultTimezone,
		LogLevel:        defaultLogLevel,
		ExportDir:       defaultExportDir,
		ProductID:       defaultProductID,
		AutosaveDir:     defaultExportDir,
		ChromiumTimeout: defaultChromiumTimeout,
	}
}

// DefaultPath is ~/.config/stageplan/config.yaml, or a relative
// config.yaml when the user config dir is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "stageplan", "config.yaml")
}

// Normalize fills in missing/zero values so that partially-filled configs
// still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.ExportDir == "" {
		c.ExportDir = defaultExportDir
	}
	if c.ProductID == "" {
		c.ProductID = defaultProductID
	}
	if c.AutosaveDir == "" {
		c.AutosaveDir = c.ExportDir
	}
	if c.ChromiumTimeout <= 0 {
		c.ChromiumTimeout = defaultChromiumTimeout
	}
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - Otherwise the YAML is read and normalized.
//   - In both cases ApplyEnv runs last, so the environment wins.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				cfg.ApplyEnv()
				return cfg, err
			}
			cfg.ApplyEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	cfg.ApplyEnv()

	return &cfg, nil
}

// envKeys maps STAGEPLAN_* variables onto config fields.
var envKeys = map[string]func(c *Config, v string){
	"STAGEPLAN_LISTEN":     func(c *Config, v string) { c.Listen = v },
	"STAGEPLAN_TIMEZONE":   func(c *Config, v string) { c.Timezone = v },
	"STAGEPLAN_LOG_LEVEL":  func(c *Config, v string) { c.LogLevel = v },
	"STAGEPLAN_EXPORT_DIR": func(c *Config, v string) { c.ExportDir = v },
	"STAGEPLAN_AUTOSAVE":   func(c *Config, v string) { c.Autosave = v },
	"STAGEPLAN_BASIC_AUTH_USER": func(c *Config, v string) {
		if c.BasicAuth == nil {
			c.BasicAuth = &BasicAuthConfig{}
		}
		c.BasicAuth.Username = v
	},
	"STAGEPLAN_BASIC_AUTH_PASSWORD": func(c *Config, v string) {
		if c.BasicAuth == nil {
			c.BasicAuth = &BasicAuthConfig{}
		}
		c.BasicAuth.Password = v
	},
}

// ApplyEnv loads a .env file from the working directory if present and
// then overrides fields from STAGEPLAN_* environment variables. Variables
// already set in the process environment take precedence over .env.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()
	for key, set := range envKeys {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			set(c, v)
		}
	}
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return WriteFileAtomic(path, data, 0o600)
}

// Save is a convenience method on Config that delegates to Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it over path. Exports and autosave snapshots use it as well.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".stageplan-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
