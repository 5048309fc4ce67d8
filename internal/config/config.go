// Package config resolves geckobrowser settings from defaults, an optional
// TOML file, the environment (including a .env file) and command-line flags,
// in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"geckobrowser/internal/paging"
	"geckobrowser/internal/storage"
)

// Config holds every runtime setting.
type Config struct {
	// DataFile is the gecko data document: a local path or an http(s) URL.
	DataFile string `toml:"data_file"`

	// PerPage is the number of geckos per page.
	PerPage int `toml:"per_page"`

	// StateDir holds favorites, preferences and the TUI log.
	StateDir string `toml:"state_dir"`

	// Store selects the state backend: file, sqlite or memory.
	Store string `toml:"store"`

	// RestorePage reopens the page viewed when the last session ended.
	RestorePage bool `toml:"restore_page"`

	// WebAddr is the listen address for --web.
	WebAddr string `toml:"web_addr"`

	// LogLevel and LogFormat configure logging (see internal/logging).
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// FetchTimeout bounds the download of a remote data file, e.g. "30s".
	FetchTimeout string `toml:"fetch_timeout"`

	// UpdateOwner and UpdateRepo name the GitHub repository checked by --update.
	UpdateOwner string `toml:"update_owner"`
	UpdateRepo  string `toml:"update_repo"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DataFile:     "geckos.json",
		PerPage:      paging.DefaultSize,
		StateDir:     defaultStateDir(),
		Store:        storage.BackendFile,
		RestorePage:  true,
		WebAddr:      "localhost:8080",
		LogLevel:     "info",
		LogFormat:    "auto",
		FetchTimeout: "30s",
		UpdateOwner:  "galacticgecko",
		UpdateRepo:   "geckobrowser",
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "geckobrowser", "config.toml")
	}
	return filepath.Join(".", "geckobrowser.toml")
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "geckobrowser")
	}
	return ".geckobrowser"
}

// Load resolves the configuration. An empty path means DefaultPath, which may
// be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// A missing .env is normal.
	_ = godotenv.Load()
	cfg.applyEnv()

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("GECKO_DATA_FILE", &c.DataFile)
	str("GECKO_STATE_DIR", &c.StateDir)
	str("GECKO_STORE", &c.Store)
	str("GECKO_WEB_ADDR", &c.WebAddr)
	str("GECKO_LOG_LEVEL", &c.LogLevel)
	str("GECKO_LOG_FORMAT", &c.LogFormat)
	str("GECKO_FETCH_TIMEOUT", &c.FetchTimeout)

	if v := os.Getenv("GECKO_PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PerPage = n
		}
	}
	if v := os.Getenv("GECKO_RESTORE_PAGE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.RestorePage = b
		}
	}
}

// RegisterFlags adds the flags that can override configuration to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringP("data", "d", d.DataFile, "Gecko data file path or http(s) URL")
	fs.Int("per-page", d.PerPage, "Geckos per page")
	fs.String("state-dir", d.StateDir, "Directory for favorites and preferences")
	fs.String("store", d.Store, "State backend: file, sqlite or memory")
	fs.Bool("restore-page", d.RestorePage, "Reopen the last viewed page")
	fs.String("addr", d.WebAddr, "Listen address for web mode")
	fs.String("log-level", d.LogLevel, "Log level: trace, debug, info, warn, error, off")
	fs.String("log-format", d.LogFormat, "Log format: auto, console, json")
}

// ApplyFlags copies flags the user actually set onto c.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "data":
			c.DataFile, err = fs.GetString(f.Name)
		case "per-page":
			c.PerPage, err = fs.GetInt(f.Name)
		case "state-dir":
			c.StateDir, err = fs.GetString(f.Name)
		case "store":
			c.Store, err = fs.GetString(f.Name)
		case "restore-page":
			c.RestorePage, err = fs.GetBool(f.Name)
		case "addr":
			c.WebAddr, err = fs.GetString(f.Name)
		case "log-level":
			c.LogLevel, err = fs.GetString(f.Name)
		case "log-format":
			c.LogFormat, err = fs.GetString(f.Name)
		}
	})
	if err != nil {
		return err
	}
	return c.Validate()
}

// Validate checks settings that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("data_file is required")
	}
	if c.PerPage < 1 {
		return fmt.Errorf("per_page must be positive, got %d", c.PerPage)
	}
	switch strings.ToLower(c.Store) {
	case storage.BackendFile, storage.BackendSQLite, storage.BackendMemory:
	default:
		return fmt.Errorf("store must be file, sqlite or memory, got %q", c.Store)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	return nil
}

// Timeout parses FetchTimeout. Zero means no timeout.
func (c *Config) Timeout() (time.Duration, error) {
	if strings.TrimSpace(c.FetchTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid fetch_timeout %q: %w", c.FetchTimeout, err)
	}
	return d, nil
}

// LogFile is where the TUI writes its log while it owns the terminal.
func (c *Config) LogFile() string {
	return filepath.Join(c.StateDir, "geckobrowser.log")
}
