package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and clears every variable Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{
		"SMARTCHAT_DATA_DIR", "SMARTCHAT_PROVIDER", "SMARTCHAT_TEXT_MODEL",
		"SMARTCHAT_VISION_MODEL", "SMARTCHAT_LISTEN", "SMARTCHAT_LOG_LEVEL",
		"SMARTCHAT_DEBUG", "GOOGLE_API_KEY",
	} {
		t.Setenv(k, "")
	}
	return home
}

func TestLoadCreatesDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local", "share", "smartchat"), cfg.DataDir())
	assert.FileExists(t, filepath.Join(home, ".config", "smartchat", "settings.toml"))
	assert.FileExists(t, UserConfigPath(cfg.DataDir()))

	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, 120*time.Second, cfg.ModelTimeout())
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout())
	assert.Equal(t, time.Hour, cfg.SessionIdle())
	assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes())
	assert.Equal(t, int64(50<<20), cfg.MaxDatasetBytes())
	assert.Equal(t, "127.0.0.1:8501", cfg.Server.Listen)
}

func TestTemplatesMatchDefaults(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, CreateDefaultUserConfig(dir))

	// Force a decode of the template rather than the in-memory defaults.
	cfg, err := LoadUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserConfig(), cfg)
}

func TestUserConfigOverridesAndEnv(t *testing.T) {
	isolate(t)
	dataDir := t.TempDir()
	t.Setenv("SMARTCHAT_DATA_DIR", dataDir)
	require.NoError(t, os.WriteFile(UserConfigPath(dataDir), []byte(`
[model]
provider = "offline"
timeout_seconds = 5

[chart]
width = 640
`), 0600))
	t.Setenv("SMARTCHAT_LISTEN", ":9000")
	t.Setenv("SMARTCHAT_TEXT_MODEL", "gemini-pro")
	t.Setenv("SMARTCHAT_DEBUG", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, dataDir, cfg.DataDir())
	assert.Equal(t, "offline", cfg.Model.Provider)
	assert.Equal(t, 5*time.Second, cfg.ModelTimeout())
	assert.Equal(t, 640, cfg.Chart.Width)
	assert.Equal(t, 540, cfg.Chart.Height)
	assert.Equal(t, ":9000", cfg.Server.Listen)
	assert.Equal(t, "gemini-pro", cfg.Model.TextModel)
	assert.True(t, cfg.Debug)
	assert.NoError(t, cfg.Validate())
}

func TestWithDataDirWins(t *testing.T) {
	isolate(t)
	fromEnv := t.TempDir()
	fromFlag := t.TempDir()
	t.Setenv("SMARTCHAT_DATA_DIR", fromEnv)

	cfg, err := Load(WithDataDir(fromFlag))
	require.NoError(t, err)
	assert.Equal(t, fromFlag, cfg.DataDir())
	assert.FileExists(t, UserConfigPath(fromFlag))
	assert.NoFileExists(t, UserConfigPath(fromEnv))
	assert.Equal(t, fromEnv, os.Getenv("SMARTCHAT_DATA_DIR"))
}

func TestUnknownKeyIsRejected(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(UserConfigPath(dir), []byte("[model]\nmodle = \"x\"\n"), 0600))
	_, err := LoadUserConfig(dir)
	assert.ErrorContains(t, err, "model.modle")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := &Config{APIKey: "k"}
		c.applyUserConfig(DefaultUserConfig())
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing key", func(c *Config) { c.APIKey = "" }, "GOOGLE_API_KEY not found"},
		{"offline needs no key", func(c *Config) { c.APIKey = ""; c.Model.Provider = "offline" }, ""},
		{"unknown provider", func(c *Config) { c.Model.Provider = "ollama" }, "unknown model provider"},
		{"zero timeout", func(c *Config) { c.Model.TimeoutSeconds = 0 }, "model.timeout_seconds"},
		{"negative upload", func(c *Config) { c.Server.MaxUploadMB = -1 }, "server.max_upload_mb"},
		{"empty listen", func(c *Config) { c.Server.Listen = "" }, "server.listen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("SMARTCHAT_LISTEN=:7000\nGOOGLE_API_KEY=from-file\n"), 0600))
	os.Unsetenv("SMARTCHAT_LISTEN")
	t.Setenv("GOOGLE_API_KEY", "from-env")

	require.NoError(t, LoadDotEnv(envPath, filepath.Join(dir, "missing.env")))
	assert.Equal(t, ":7000", os.Getenv("SMARTCHAT_LISTEN"))
	assert.Equal(t, "from-env", os.Getenv("GOOGLE_API_KEY"))
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)
	assert.Equal(t, filepath.Join(home, "data"), ExpandPath("~/data"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "", ExpandPath(""))
}
