// Package config handles the configuration directory, the optional config
// file inside it and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"taskboard/internal/service"
)

const (
	// AppName is the application directory name.
	AppName = "taskboard"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// YAMLFile and TOMLFile are the config file names, tried in that order.
	YAMLFile = "config.yaml"
	TOMLFile = "config.toml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TASKBOARD"
)

// Backend names.
const (
	BackendMemory      = "memory"
	BackendGoogleTasks = "googletasks"
)

// Defaults.
const (
	DefaultBackend   = BackendMemory
	DefaultIDPolicy  = "sequence"
	DefaultListen    = "127.0.0.1:8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultListID    = "@default"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-" toml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-" toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-" toml:"-"`

	Backend   string `yaml:"backend" toml:"backend" env:"BACKEND"`
	IDPolicy  string `yaml:"id_policy" toml:"id_policy" env:"ID_POLICY"`
	Listen    string `yaml:"listen" toml:"listen" env:"LISTEN"`
	LogLevel  string `yaml:"log_level" toml:"log_level" env:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" toml:"log_format" env:"LOG_FORMAT"`

	// Empty starts the memory backend with no tasks at all.
	Empty bool `yaml:"empty" toml:"empty" env:"EMPTY"`

	Google GoogleConfig `yaml:"google" toml:"google"`

	// Seed replaces the default initial tasks when non-empty.
	Seed []SeedTask `yaml:"seed" toml:"seed"`
}

// GoogleConfig configures the Google Tasks backend.
type GoogleConfig struct {
	ListID string `yaml:"list_id" toml:"list_id" env:"GOOGLE_LIST_ID"`
}

// SeedTask is one initial task from the config file.
type SeedTask struct {
	Title       string `yaml:"title" toml:"title"`
	Description string `yaml:"description" toml:"description"`
	Status      string `yaml:"status" toml:"status"`
}

// New creates a Config with defaults and the default or specified config
// directory. If configDir is empty, uses XDG_CONFIG_HOME/taskboard or
// $HOME/.config/taskboard. No file or environment is read.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:       dir,
		Backend:   DefaultBackend,
		IDPolicy:  DefaultIDPolicy,
		Listen:    DefaultListen,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Google:    GoogleConfig{ListID: DefaultListID},
	}, nil
}

// Load creates a Config, then applies the config file (if any) and
// environment overrides, and validates the result.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.readFile(); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Validate checks enumerated fields and seed entries.
func (c *Config) Validate() error {
	switch c.Backend {
	case "", BackendMemory, BackendGoogleTasks:
	default:
		return fmt.Errorf("%w: unknown backend: %s", ErrInvalidConfig, c.Backend)
	}

	switch strings.ToLower(c.IDPolicy) {
	case "", "sequence", "count":
	default:
		return fmt.Errorf("%w: unknown id_policy: %s", ErrInvalidConfig, c.IDPolicy)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level: %s", ErrInvalidConfig, c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format: %s", ErrInvalidConfig, c.LogFormat)
	}

	for i, s := range c.Seed {
		n, err := s.toNewTask()
		if err != nil {
			return fmt.Errorf("%w: seed[%d]: %v", ErrInvalidConfig, i, err)
		}
		if err := n.Validate(); err != nil {
			return fmt.Errorf("%w: seed[%d]: %v", ErrInvalidConfig, i, err)
		}
	}
	return nil
}

// SeedTasks converts the configured seed entries. Returns nil when none are
// configured. Call Validate first.
func (c *Config) SeedTasks() []service.NewTask {
	if len(c.Seed) == 0 {
		return nil
	}
	out := make([]service.NewTask, 0, len(c.Seed))
	for _, s := range c.Seed {
		n, _ := s.toNewTask()
		out = append(out, n)
	}
	return out
}

// BackendName returns the configured backend, defaulting to memory.
func (c *Config) BackendName() string {
	if c.Backend == "" {
		return DefaultBackend
	}
	return c.Backend
}

// ListID returns the Google Tasks list to use.
func (c *Config) ListID() string {
	if c.Google.ListID == "" {
		return DefaultListID
	}
	return c.Google.ListID
}

func (s SeedTask) toNewTask() (service.NewTask, error) {
	n := service.NewTask{Title: s.Title, Description: s.Description}
	if strings.TrimSpace(s.Status) != "" {
		st, err := service.ParseStatus(s.Status)
		if err != nil {
			return service.NewTask{}, err
		}
		n.Status = st
	}
	return n, nil
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
