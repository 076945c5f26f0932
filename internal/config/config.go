// Package config loads termalign configuration from command-line flags, environment variables, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Catalogue CatalogueConfig
	Analysis  AnalysisConfig
	RateLimit RateLimitConfig
	MCP       MCPConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name               string
	Port               string        // default: 8080
	ReadTimeout        time.Duration // default: 15s
	WriteTimeout       time.Duration // default: 15s
	IdleTimeout        time.Duration // default: 60s
	CORSAllowedOrigins []string      // default: *
}

// CatalogueConfig controls where the KPI catalogue comes from.
type CatalogueConfig struct {
	// Path to a YAML or JSON catalogue file. Empty uses the embedded sample catalogue.
	Path string
}

// AnalysisConfig holds report analysis configuration.
type AnalysisConfig struct {
	// SimulatedDelay is the artificial latency of the workspace analysis path (default: 2s).
	SimulatedDelay time.Duration
	// MaxUploadBytes caps uploaded report files (default: 10 MiB).
	MaxUploadBytes int64
}

// RateLimitConfig throttles the analysis endpoints per client IP.
type RateLimitConfig struct {
	PerMinute int // default: 60
	Burst     int // default: 20
}

// MCPConfig holds tool server configuration.
type MCPConfig struct {
	Transport string // stdio or http (default: stdio)
}

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// LoadConfig loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("termalign", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	serverName := fs.String("server-name", "", "Name reported by the API")
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")
	cataloguePath := fs.String("catalogue-path", "", "Path to a YAML/JSON catalogue (default: embedded sample)")
	analysisDelay := fs.String("analysis-delay", "", "Artificial delay of workspace analyses (default: 2s)")
	uploadMax := fs.String("upload-max-bytes", "", "Maximum uploaded report size in bytes (default: 10485760)")
	ratePerMinute := fs.String("rate-limit-per-minute", "", "Analysis requests per minute per IP (default: 60)")
	rateBurst := fs.String("rate-limit-burst", "", "Analysis request burst per IP (default: 20)")
	mcpTransport := fs.String("mcp-transport", "", "MCP tool server transport, stdio or http (default: stdio)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Missing .env is fine.
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name:               getConfigValue(*serverName, "SERVER_NAME", "Termalign"),
			Port:               getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSAllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "*")),
		},
		Catalogue: CatalogueConfig{
			Path: getConfigValue(*cataloguePath, "CATALOGUE_PATH", ""),
		},
		Analysis: AnalysisConfig{
			MaxUploadBytes: int64(getIntConfigValue(*uploadMax, "UPLOAD_MAX_BYTES", 10<<20)),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getIntConfigValue(*ratePerMinute, "RATE_LIMIT_PER_MINUTE", 60),
			Burst:     getIntConfigValue(*rateBurst, "RATE_LIMIT_BURST", 20),
		},
		MCP: MCPConfig{
			Transport: strings.ToLower(getConfigValue(*mcpTransport, "MCP_TRANSPORT", TransportStdio)),
		},
	}

	durations := []struct {
		flagValue string
		envKey    string
		def       string
		dest      *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*analysisDelay, "ANALYSIS_DELAY", "2s", &cfg.Analysis.SimulatedDelay},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dest = parsed
	}

	if cfg.Catalogue.Path != "" {
		expanded, err := expandPath(cfg.Catalogue.Path)
		if err != nil {
			return nil, fmt.Errorf("invalid catalogue path: %w", err)
		}
		cfg.Catalogue.Path = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Server.Port == "" {
		return errors.New("server port cannot be empty")
	}

	if c.Analysis.SimulatedDelay < 0 {
		return errors.New("analysis delay cannot be negative")
	}

	if c.Analysis.MaxUploadBytes <= 0 {
		return errors.New("upload max bytes must be positive")
	}

	if c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate limit values must be positive")
	}

	if c.MCP.Transport != TransportStdio && c.MCP.Transport != TransportHTTP {
		return fmt.Errorf("invalid MCP transport: %q (must be stdio or http)", c.MCP.Transport)
	}

	return nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// expandPath expands ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
// Unparseable values fall back to the default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments). Existing env vars win.
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
