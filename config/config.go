package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ModelConfig struct {
	Provider       string `toml:"provider"`
	BaseURL        string `toml:"base_url"`
	TextModel      string `toml:"text_model"`
	VisionModel    string `toml:"vision_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type ServerConfig struct {
	Listen             string `toml:"listen"`
	MaxUploadMB        int    `toml:"max_upload_mb"`
	SessionIdleMinutes int    `toml:"session_idle_minutes"`
}

type DatasetConfig struct {
	FetchTimeoutSeconds int `toml:"fetch_timeout_seconds"`
	MaxBytesMB          int `toml:"max_bytes_mb"`
}

type ChartConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type UserConfig struct {
	Model   ModelConfig   `toml:"model"`
	Server  ServerConfig  `toml:"server"`
	Dataset DatasetConfig `toml:"dataset"`
	Chart   ChartConfig   `toml:"chart"`
}

// Config is the resolved configuration: files, then environment.
type Config struct {
	DataDirectory string
	APIKey        string
	LogLevel      string
	Debug         bool

	Model   ModelConfig
	Server  ServerConfig
	Dataset DatasetConfig
	Chart   ChartConfig
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.Model.TimeoutSeconds) * time.Second
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Dataset.FetchTimeoutSeconds) * time.Second
}

func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.Server.SessionIdleMinutes) * time.Minute
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

func (c *Config) MaxDatasetBytes() int64 {
	return int64(c.Dataset.MaxBytesMB) << 20
}

func (c *Config) applyUserConfig(u *UserConfig) {
	c.Model = u.Model
	c.Server = u.Server
	c.Dataset = u.Dataset
	c.Chart = u.Chart
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("SMARTCHAT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if provider := os.Getenv("SMARTCHAT_PROVIDER"); provider != "" {
		c.Model.Provider = provider
	}
	if model := os.Getenv("SMARTCHAT_TEXT_MODEL"); model != "" {
		c.Model.TextModel = model
	}
	if model := os.Getenv("SMARTCHAT_VISION_MODEL"); model != "" {
		c.Model.VisionModel = model
	}
	if listen := os.Getenv("SMARTCHAT_LISTEN"); listen != "" {
		c.Server.Listen = listen
	}
	if level := os.Getenv("SMARTCHAT_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.APIKey = key
	}
	c.Debug = c.Debug || CheckDebug()
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Model.Provider) {
	case "gemini", "google":
		if c.APIKey == "" {
			return errors.New("GOOGLE_API_KEY not found. Set it in the environment or in a .env file")
		}
	case "offline":
	default:
		return fmt.Errorf("unknown model provider %q (expected \"gemini\" or \"offline\")", c.Model.Provider)
	}

	checks := []struct {
		name  string
		value int
	}{
		{"model.timeout_seconds", c.Model.TimeoutSeconds},
		{"server.max_upload_mb", c.Server.MaxUploadMB},
		{"server.session_idle_minutes", c.Server.SessionIdleMinutes},
		{"dataset.fetch_timeout_seconds", c.Dataset.FetchTimeoutSeconds},
		{"dataset.max_bytes_mb", c.Dataset.MaxBytesMB},
		{"chart.width", c.Chart.Width},
		{"chart.height", c.Chart.Height},
	}
	for _, check := range checks {
		if check.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", check.name, check.value)
		}
	}
	if c.Server.Listen == "" {
		return errors.New("server.listen must not be empty")
	}
	return nil
}

func CheckDebug() bool {
	debug, err := strconv.ParseBool(os.Getenv("SMARTCHAT_DEBUG"))
	return err == nil && debug
}

// LoadDotEnv reads KEY=value pairs from the given files (".env" when none
// are named) into the environment. Variables already set win. Missing files
// are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// LoadOption adjusts how Load resolves the configuration.
type LoadOption func(*loadOptions)

type loadOptions struct {
	dataDir string
}

// WithDataDir makes dir the data directory, ahead of SMARTCHAT_DATA_DIR and
// settings.toml.
func WithDataDir(dir string) LoadOption {
	return func(o *loadOptions) {
		o.dataDir = dir
	}
}

// Load resolves the configuration. settings.toml names the data directory,
// <data_directory>/config.toml holds the user settings, and environment
// variables override both. Missing files are created from templates.
func Load(opts ...LoadOption) (*Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := &Config{LogLevel: "info"}
	cfg.applyUserConfig(DefaultUserConfig())

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	cfg.DataDirectory = systemCfg.DataDirectory

	// The data directory may be overridden before the user config is read.
	if dataDir := os.Getenv("SMARTCHAT_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}
	if o.dataDir != "" {
		cfg.DataDirectory = o.dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)
	cfg.applyEnvOverrides()
	if o.dataDir != "" {
		cfg.DataDirectory = o.dataDir
	}

	return cfg, nil
}
