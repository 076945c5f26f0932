package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:       AppConfig{Environment: "development"},
		Logger:    LoggerConfig{Level: "info"},
		Server:    ServerConfig{Port: "8080"},
		Analysis:  AnalysisConfig{SimulatedDelay: 2 * time.Second, MaxUploadBytes: 1024},
		RateLimit: RateLimitConfig{PerMinute: 60, Burst: 20},
		MCP:       MCPConfig{Transport: TransportStdio},
	}
}

// noEnvFile points LoadConfig at a .env path that does not exist.
func noEnvFile(t *testing.T) string {
	t.Helper()
	return "--env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }},
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"negative delay", func(c *Config) { c.Analysis.SimulatedDelay = -time.Second }},
		{"zero upload size", func(c *Config) { c.Analysis.MaxUploadBytes = 0 }},
		{"zero rate", func(c *Config) { c.RateLimit.PerMinute = 0 }},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }},
		{"unknown transport", func(c *Config) { c.MCP.Transport = "websocket" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig([]string{noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 2*time.Second, cfg.Analysis.SimulatedDelay)
	assert.Equal(t, int64(10<<20), cfg.Analysis.MaxUploadBytes)
	assert.Empty(t, cfg.Catalogue.Path)
	assert.Equal(t, TransportStdio, cfg.MCP.Transport)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_FlagBeatsEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("ANALYSIS_DELAY", "5s")

	cfg, err := LoadConfig([]string{noEnvFile(t), "--port=9100"})
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Analysis.SimulatedDelay)
}

func TestLoadConfig_MCPTransport(t *testing.T) {
	t.Setenv("MCP_TRANSPORT", "HTTP")
	cfg, err := LoadConfig([]string{noEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, TransportHTTP, cfg.MCP.Transport)

	cfg, err = LoadConfig([]string{noEnvFile(t), "--mcp-transport=stdio"})
	require.NoError(t, err)
	assert.Equal(t, TransportStdio, cfg.MCP.Transport)

	t.Setenv("MCP_TRANSPORT", "sse")
	_, err = LoadConfig([]string{noEnvFile(t)})
	assert.ErrorContains(t, err, "MCP transport")
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	_, err := LoadConfig([]string{noEnvFile(t), "--analysis-delay=soon"})
	assert.ErrorContains(t, err, "ANALYSIS_DELAY")
}

func TestLoadConfig_CataloguePathMadeAbsolute(t *testing.T) {
	cfg, err := LoadConfig([]string{noEnvFile(t), "--catalogue-path=data/kpi.yaml"})
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.Catalogue.Path))
	assert.Equal(t, "kpi.yaml", filepath.Base(cfg.Catalogue.Path))
}

func TestLoadConfig_CORSOriginsList(t *testing.T) {
	cfg, err := LoadConfig([]string{noEnvFile(t), "--cors-origins= https://a.example , ,https://b.example"})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("TERMALIGN_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "TERMALIGN_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "TERMALIGN_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "TERMALIGN_UNSET_KEY", "default"))
}

func TestGetIntConfigValue_FallsBackOnGarbage(t *testing.T) {
	assert.Equal(t, 7, getIntConfigValue("abc", "TERMALIGN_UNSET_KEY", 7))
	assert.Equal(t, 42, getIntConfigValue("42", "TERMALIGN_UNSET_KEY", 7))
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n\nTERMALIGN_ENV_A=alpha\nTERMALIGN_ENV_B = \"beta\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("TERMALIGN_ENV_A", "")
	t.Setenv("TERMALIGN_ENV_B", "already-set")

	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "alpha", os.Getenv("TERMALIGN_ENV_A"))
	assert.Equal(t, "already-set", os.Getenv("TERMALIGN_ENV_B"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT_A_PAIR\n"), 0o600))

	assert.ErrorContains(t, loadEnvFile(path), "line 1")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
}
