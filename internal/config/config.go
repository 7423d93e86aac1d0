package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/biweekly-dev/biweekly/internal/auth"
	"github.com/biweekly-dev/biweekly/internal/kv"
	"github.com/biweekly-dev/biweekly/internal/logging"
)

// FileName is the config file name inside a data directory.
const FileName = "biweekly.yaml"

// Environment overrides, applied after biweekly.yaml and .env.
const (
	EnvStorageBackend = "BIWEEKLY_STORAGE_BACKEND"
	EnvStoragePath    = "BIWEEKLY_STORAGE_PATH"
	EnvAuthMode       = "BIWEEKLY_AUTH_MODE"
	EnvLogLevel       = logging.EnvLevel
)

// sqliteFile is used when the sqlite path names a directory.
const sqliteFile = "biweekly.db"

// ErrUnknownKey is returned by Get and Set for keys that do not exist.
var ErrUnknownKey = errors.New("unknown config key")

// Config represents the top-level biweekly.yaml configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"` // relative to the data directory
}

// AuthConfig selects how passwords are stored.
type AuthConfig struct {
	Mode string `yaml:"mode"`
}

// LogConfig sets the stderr log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// HistoryConfig controls git history of the data directory.
type HistoryConfig struct {
	Git         bool   `yaml:"git"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a biweekly.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadDir reads <dir>/biweekly.yaml, falling back to defaults when it does
// not exist, then loads <dir>/.env and applies environment overrides.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: kv.BackendFile,
			Path:    "data",
		},
		Auth: AuthConfig{
			Mode: auth.ModePlaintext,
		},
		Log: LogConfig{
			Level: "warn",
		},
		History: HistoryConfig{
			Git:         false,
			AuthorName:  "biweekly",
			AuthorEmail: "biweekly@localhost",
		},
	}
}

// ApplyEnv overrides fields from environment variables looked up with lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvStorageBackend); ok && v != "" {
		c.Storage.Backend = v
	}
	if v, ok := lookup(EnvStoragePath); ok && v != "" {
		c.Storage.Path = v
	}
	if v, ok := lookup(EnvAuthMode); ok && v != "" {
		c.Auth.Mode = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}

// Validate reports every problem with c in one error.
func (c *Config) Validate() error {
	var problems []string

	if !slices.Contains(kv.Backends(), strings.ToLower(c.Storage.Backend)) {
		problems = append(problems, fmt.Sprintf("invalid storage backend %q: must be one of %v", c.Storage.Backend, kv.Backends()))
	}
	if c.Storage.Backend != kv.BackendMemory && strings.TrimSpace(c.Storage.Path) == "" {
		problems = append(problems, "storage path cannot be empty")
	}
	if !slices.Contains(auth.Modes(), strings.ToLower(c.Auth.Mode)) {
		problems = append(problems, fmt.Sprintf("invalid auth mode %q: must be one of %v", c.Auth.Mode, auth.Modes()))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	if c.History.Git && (c.History.AuthorName == "" || c.History.AuthorEmail == "") {
		problems = append(problems, "history author name and email are required when git history is on")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// StoragePath resolves the storage path against the data directory. For
// sqlite, a path without an extension is treated as a directory.
func (c *Config) StoragePath(dataDir string) string {
	p := c.Storage.Path
	if !filepath.IsAbs(p) {
		p = filepath.Join(dataDir, p)
	}
	if strings.EqualFold(c.Storage.Backend, kv.BackendSQLite) && filepath.Ext(p) == "" {
		p = filepath.Join(p, sqliteFile)
	}
	return p
}

// Keys returns every dotted key accepted by Get and Set.
func Keys() []string {
	return []string{
		"storage.backend", "storage.path",
		"auth.mode",
		"log.level",
		"history.git", "history.author_name", "history.author_email",
	}
}

// Get returns the value at a dotted key such as "storage.backend".
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "storage.backend":
		return c.Storage.Backend, nil
	case "storage.path":
		return c.Storage.Path, nil
	case "auth.mode":
		return c.Auth.Mode, nil
	case "log.level":
		return c.Log.Level, nil
	case "history.git":
		return strconv.FormatBool(c.History.Git), nil
	case "history.author_name":
		return c.History.AuthorName, nil
	case "history.author_email":
		return c.History.AuthorEmail, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Set changes the value at a dotted key. It does not validate the result.
func (c *Config) Set(key, value string) error {
	switch key {
	case "storage.backend":
		c.Storage.Backend = value
	case "storage.path":
		c.Storage.Path = value
	case "auth.mode":
		c.Auth.Mode = value
	case "log.level":
		c.Log.Level = value
	case "history.git":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		c.History.Git = b
	case "history.author_name":
		c.History.AuthorName = value
	case "history.author_email":
		c.History.AuthorEmail = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}
