package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseIntOrDefault(t *testing.T) {
	tests := []struct {
		input    string
		def      int
		expected int
	}{
		{"5", 10, 5},
		{"100", 0, 100},
		{"-3", 10, -3},
		{"abc", 10, 10}, // invalid returns default
		{"", 10, 10},    // empty returns default
		{"3.14", 10, 3}, // parses integer prefix (3)
		{"7xyz", 10, 7}, // parses prefix
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseIntOrDefault(tt.input, tt.def)
			if result != tt.expected {
				t.Errorf("parseIntOrDefault(%q, %d) = %d; want %d", tt.input, tt.def, result, tt.expected)
			}
		})
	}
}

func TestParseDurationOrDefault(t *testing.T) {
	tests := []struct {
		input    string
		def      time.Duration
		expected time.Duration
	}{
		{"60m", 10 * time.Minute, 60 * time.Minute},
		{"2h", 10 * time.Minute, 2 * time.Hour},
		{"90s", 10 * time.Minute, 90 * time.Second},
		{"1h30m", 10 * time.Minute, 90 * time.Minute},
		{"invalid", 10 * time.Minute, 10 * time.Minute}, // invalid returns default
		{"", 10 * time.Minute, 10 * time.Minute},        // empty returns default
		{"500ms", time.Second, 500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseDurationOrDefault(tt.input, tt.def)
			if result != tt.expected {
				t.Errorf("parseDurationOrDefault(%q, %v) = %v; want %v", tt.input, tt.def, result, tt.expected)
			}
		})
	}
}

func TestApplyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "dashboard_addr: \":9999\"\nframework: playwright\nbase_url: https://qa.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{DashboardAddr: ":8090", BaseURL: "http://localhost:3000"}
	if err := applyFile(cfg, path); err != nil {
		t.Fatalf("applyFile: %v", err)
	}
	if cfg.DashboardAddr != ":9999" {
		t.Errorf("DashboardAddr = %s; want :9999", cfg.DashboardAddr)
	}
	if cfg.BaseURL != "https://qa.example.com" {
		t.Errorf("BaseURL = %s", cfg.BaseURL)
	}
}

func TestApplyFileMissing(t *testing.T) {
	cfg := &Config{DashboardAddr: ":8090"}
	if err := applyFile(cfg, filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Errorf("missing file must not error: %v", err)
	}
	if cfg.DashboardAddr != ":8090" {
		t.Errorf("config mutated by missing file")
	}
}

func TestApplyFileMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- bad"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := applyFile(&Config{}, path); err == nil {
		t.Error("malformed yaml must error")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CASEFORGE_DB", "/tmp/override.db")
	t.Setenv("CASEFORGE_DASHBOARD_ADDR", ":7000")
	t.Setenv("CASEFORGE_MAX_INPUT", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabasePath != "/tmp/override.db" {
		t.Errorf("DatabasePath = %s", cfg.DatabasePath)
	}
	if cfg.DashboardAddr != ":7000" {
		t.Errorf("DashboardAddr = %s", cfg.DashboardAddr)
	}
	if cfg.MaxInputLength != 500 {
		t.Errorf("MaxInputLength = %d", cfg.MaxInputLength)
	}
}
