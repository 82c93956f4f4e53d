package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/ochronus/gozipline/internal/services/zipline"
	"github.com/sirupsen/logrus"
)

const (
	MinImportWorkers = 1
	MaxImportWorkers = 32
	MinTimeout       = 1
	MaxTimeout       = 3600

	// EnvPrefix is prepended to the environment overrides, e.g. ZIPLINE_TOKEN.
	EnvPrefix = "zipline"
)

// Config represents the main application configuration
type Config struct {
	Server   string       `toml:"server"`
	Token    string       `toml:"token"`
	Loglevel string       `toml:"loglevel"`
	Timeout  int          `toml:"timeout"`
	Upload   UploadConfig `toml:"upload"`
	Import   ImportConfig `toml:"import"`
	Relay    RelayConfig  `toml:"relay"`
}

// UploadConfig holds the defaults applied to every upload
type UploadConfig struct {
	Format             string `toml:"format"`
	CompressionPercent *int   `toml:"compression_percent"`
	Expiry             string `toml:"expiry"`
	Folder             string `toml:"folder"`
	Domain             string `toml:"domain"`
	KeepOriginalName   bool   `toml:"keep_original_name"`
}

// ImportConfig holds bulk import and watch settings
type ImportConfig struct {
	Workers         int      `toml:"workers"`
	Output          string   `toml:"output"`
	SkipPatterns    []string `toml:"skip_patterns"`
	WatchDebounceMS int      `toml:"watch_debounce_ms"`
}

// RelayConfig holds the local relay server settings
type RelayConfig struct {
	BindAddress    string `toml:"bind_address"`
	Port           int    `toml:"port"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	MaxUploadBytes int64  `toml:"max_upload_bytes"`
}

// envOverrides are read from ZIPLINE_SERVER, ZIPLINE_TOKEN and ZIPLINE_LOGLEVEL
type envOverrides struct {
	Server   string `envconfig:"SERVER"`
	Token    string `envconfig:"TOKEN"`
	Loglevel string `envconfig:"LOGLEVEL"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Loglevel: "info",
		Timeout:  60,
		Upload: UploadConfig{
			Format: string(zipline.NameFormatRandom),
		},
		Import: ImportConfig{
			Workers:         4,
			Output:          "uploaded.json",
			SkipPatterns:    []string{".*", "*.part", "*.tmp"},
			WatchDebounceMS: 500,
		},
		Relay: RelayConfig{
			BindAddress:    "127.0.0.1",
			Port:           9292,
			MaxUploadBytes: 100 << 20,
		},
	}
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "gozipline")

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads configuration from a TOML file
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadWithEnv loads configPath when it exists and applies environment overrides.
// A missing file is not an error; the defaults are used instead.
func LoadWithEnv(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath != "" {
		loaded, err := Load(configPath)
		switch {
		case err == nil:
			cfg = loaded
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides server, token and loglevel from the environment
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	if env.Server != "" {
		c.Server = env.Server
	}
	if env.Token != "" {
		c.Token = env.Token
	}
	if env.Loglevel != "" {
		c.Loglevel = env.Loglevel
	}
	return nil
}

// ValidateConnection checks the settings needed to talk to a server
func (c *Config) ValidateConnection() error {
	if c.Server == "" {
		return fmt.Errorf("server is required")
	}
	u, err := url.ParseRequestURI(c.Server)
	if err != nil {
		return fmt.Errorf("server is invalid: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server must be an http or https url")
	}
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.ValidateConnection(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Loglevel); err != nil {
		return fmt.Errorf("loglevel must be one of: panic, fatal, error, warn, info, debug, trace")
	}
	if c.Timeout < MinTimeout || c.Timeout > MaxTimeout {
		return fmt.Errorf("timeout must be between %d and %d seconds", MinTimeout, MaxTimeout)
	}

	if c.Upload.Format != "" {
		if _, err := zipline.ParseNameFormat(c.Upload.Format); err != nil {
			return fmt.Errorf("upload.format: %w", err)
		}
	}
	if p := c.Upload.CompressionPercent; p != nil && (*p < 0 || *p > 100) {
		return fmt.Errorf("upload.compression_percent must be between 0 and 100")
	}
	if c.Upload.Expiry != "" {
		if _, err := zipline.ParseExpiry(c.Upload.Expiry); err != nil {
			return fmt.Errorf("upload.expiry: %w", err)
		}
	}

	if c.Import.Workers < MinImportWorkers || c.Import.Workers > MaxImportWorkers {
		return fmt.Errorf("import.workers must be between %d and %d", MinImportWorkers, MaxImportWorkers)
	}
	for _, pattern := range c.Import.SkipPatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("import.skip_patterns: invalid pattern %q", pattern)
		}
	}
	if c.Import.WatchDebounceMS < 0 {
		return fmt.Errorf("import.watch_debounce_ms must not be negative")
	}

	return nil
}

// ValidateRelay checks the settings needed to run the relay server
func (c *Config) ValidateRelay() error {
	if c.Relay.Username == "" {
		return fmt.Errorf("relay.username is required")
	}
	if c.Relay.Password == "" {
		return fmt.Errorf("relay.password is required")
	}
	if c.Relay.Port < 1 || c.Relay.Port > 65535 {
		return fmt.Errorf("relay.port must be between 1 and 65535")
	}
	if c.Relay.MaxUploadBytes <= 0 {
		return fmt.Errorf("relay.max_upload_bytes must be positive")
	}
	return nil
}

// UploadOptions converts the upload defaults into client options
func (c *Config) UploadOptions() (zipline.UploadOptions, error) {
	opts := zipline.UploadOptions{
		Format:             zipline.NameFormat(c.Upload.Format),
		CompressionPercent: c.Upload.CompressionPercent,
		Folder:             c.Upload.Folder,
		Domain:             c.Upload.Domain,
	}
	if c.Upload.Expiry != "" {
		expiry, err := zipline.ParseExpiry(c.Upload.Expiry)
		if err != nil {
			return zipline.UploadOptions{}, fmt.Errorf("upload.expiry: %w", err)
		}
		opts.Expiry = expiry
	}
	return opts, nil
}
