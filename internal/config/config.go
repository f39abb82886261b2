// Package config handles the XDG configuration directory, config.toml and
// the backend address.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "taskcli"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.toml"

	// TokenFile is the stored session token filename.
	TokenFile = "token.json"

	// DefaultBaseURL is the backend address used when nothing overrides it.
	DefaultBaseURL = "http://127.0.0.1:8000/"

	// DefaultTimeout bounds each backend request.
	DefaultTimeout = 10 * time.Second

	// EnvBaseURL overrides base_url from config.toml.
	EnvBaseURL = "TASKCLI_BASE_URL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the backend address every request is resolved against.
	BaseURL string

	// Timeout bounds a single backend request. Zero disables it.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileConfig mirrors config.toml.
type fileConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
	Debug   bool   `toml:"debug"`
}

// New creates a Config for the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskcli or $HOME/.config/taskcli.
// Settings are layered: defaults, then config.toml, then the environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{
		Dir:     dir,
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}

	if err := cfg.SetBaseURL(cfg.BaseURL); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile() error {
	var fc fileConfig
	_, err := toml.DecodeFile(c.ConfigPath(), &fc)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid %s: bad timeout: %q", ConfigFile, fc.Timeout)
		}
		c.Timeout = d
	}
	c.Debug = fc.Debug
	return nil
}

// SetBaseURL validates and stores a backend address. A trailing slash is
// added so relative endpoint paths resolve beneath it.
func (c *Config) SetBaseURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base url: %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base url: %q", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	c.BaseURL = u.String()
	return nil
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

// ConfigPath returns the path to config.toml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// TokenPath returns the path to the stored session token.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}
