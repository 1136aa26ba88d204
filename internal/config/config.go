// Package config handles caseforge configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds caseforge configuration
type Config struct {
	// Database path for persisted generation runs
	DatabasePath string

	// Dashboard settings
	DashboardAddr string

	// Export settings
	ExportDir    string
	ExportFormat string

	// Automation code generation defaults
	Framework string
	Language  string
	BaseURL   string

	// MCP server settings
	ServerName     string
	ShutdownGrace  time.Duration
	MaxInputLength int

	// Project directory (detected)
	ProjectDir string

	// Verbose mode for debugging
	Verbose bool
}

// fileConfig mirrors the optional .caseforge/config.yaml layout.
type fileConfig struct {
	DatabasePath  string `yaml:"database_path"`
	DashboardAddr string `yaml:"dashboard_addr"`
	ExportDir     string `yaml:"export_dir"`
	ExportFormat  string `yaml:"export_format"`
	Framework     string `yaml:"framework"`
	Language      string `yaml:"language"`
	BaseURL       string `yaml:"base_url"`
}

// Load loads configuration from defaults, the optional config file and
// environment overrides, in that order of precedence.
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath:   defaultDatabasePath(),
		DashboardAddr:  ":8090",
		ExportDir:      "exports",
		ExportFormat:   ".xlsx",
		Framework:      "playwright",
		Language:       "typescript",
		BaseURL:        "http://localhost:3000",
		ServerName:     "caseforge",
		ShutdownGrace:  5 * time.Second,
		MaxInputLength: 100000,
	}

	if dir, err := os.Getwd(); err == nil {
		cfg.ProjectDir = dir
		if err := applyFile(cfg, filepath.Join(dir, ".caseforge", "config.yaml")); err != nil {
			return nil, err
		}
	}

	// Environment overrides
	if v := os.Getenv("CASEFORGE_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("CASEFORGE_DASHBOARD_ADDR"); v != "" {
		cfg.DashboardAddr = v
	}
	if v := os.Getenv("CASEFORGE_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("CASEFORGE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("CASEFORGE_MAX_INPUT"); v != "" {
		cfg.MaxInputLength = parseIntOrDefault(v, cfg.MaxInputLength)
	}
	if v := os.Getenv("CASEFORGE_SHUTDOWN_GRACE"); v != "" {
		cfg.ShutdownGrace = parseDurationOrDefault(v, cfg.ShutdownGrace)
	}

	return cfg, nil
}

// applyFile merges a yaml config file into cfg. A missing file is fine;
// a malformed one is an error the user needs to see.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if fc.DatabasePath != "" {
		cfg.DatabasePath = fc.DatabasePath
	}
	if fc.DashboardAddr != "" {
		cfg.DashboardAddr = fc.DashboardAddr
	}
	if fc.ExportDir != "" {
		cfg.ExportDir = fc.ExportDir
	}
	if fc.ExportFormat != "" {
		cfg.ExportFormat = fc.ExportFormat
	}
	if fc.Framework != "" {
		cfg.Framework = fc.Framework
	}
	if fc.Language != "" {
		cfg.Language = fc.Language
	}
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	return nil
}

// defaultDatabasePath returns SQLite in the project directory
func defaultDatabasePath() string {
	dir, err := os.Getwd()
	if err != nil {
		return filepath.Join(".caseforge", "caseforge.db")
	}
	return filepath.Join(dir, ".caseforge", "caseforge.db")
}

// parseIntOrDefault parses the leading integer of s, returning def when no
// digits are present.
func parseIntOrDefault(s string, def int) int {
	i := 0
	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return def
	}
	if neg {
		return -n
	}
	return n
}

func parseDurationOrDefault(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
