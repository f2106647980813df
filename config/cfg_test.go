package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rupor-github/gencfg"

	"kshim/fonts"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Fonts.BaseURL != fonts.DefaultBaseURL {
		t.Errorf("Fonts.BaseURL = %q, want %q", cfg.Fonts.BaseURL, fonts.DefaultBaseURL)
	}
	if cfg.Fonts.Scheme != fonts.DefaultScheme {
		t.Errorf("Fonts.Scheme = %q, want %q", cfg.Fonts.Scheme, fonts.DefaultScheme)
	}
	if cfg.Fonts.ValidTTL != fonts.DefaultValidTTL {
		t.Errorf("Fonts.ValidTTL = %v, want %v", cfg.Fonts.ValidTTL, fonts.DefaultValidTTL)
	}
	if cfg.Fonts.InvalidTTL != fonts.DefaultInvalidTTL {
		t.Errorf("Fonts.InvalidTTL = %v, want %v", cfg.Fonts.InvalidTTL, fonts.DefaultInvalidTTL)
	}
	// template shortens timeout when running under test
	if cfg.Fonts.Timeout != 2*time.Second {
		t.Errorf("Fonts.Timeout = %v, want 2s", cfg.Fonts.Timeout)
	}
	if cfg.Plugin.Present {
		t.Error("Plugin.Present should be false by default")
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("console level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
	if len(cfg.Theme.Name) == 0 || len(cfg.Storage.Path) == 0 {
		t.Errorf("theme name %q and storage path %q must be set", cfg.Theme.Name, cfg.Storage.Path)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
theme:
  name: "Twenty Twenty"
  stylesheet_uri: "/wp-content/themes/twentytwenty/style.css"
storage:
  path: ":memory:"
fonts:
  timeout: 5s
  invalid_ttl: 1h
plugin:
  present: true
  installed: ["Kirki Toolkit"]
  nonce: "a1b2c3"
logging:
  console:
    level: debug
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Theme.Name != "Twenty Twenty" {
		t.Errorf("Theme.Name = %q", cfg.Theme.Name)
	}
	if cfg.Storage.Path != ":memory:" {
		t.Errorf("Storage.Path = %q, want :memory:", cfg.Storage.Path)
	}
	if cfg.Fonts.Timeout != 5*time.Second || cfg.Fonts.InvalidTTL != time.Hour {
		t.Errorf("Fonts = %+v", cfg.Fonts)
	}
	// values absent from file keep defaults
	if cfg.Fonts.ValidTTL != fonts.DefaultValidTTL {
		t.Errorf("Fonts.ValidTTL = %v, want default", cfg.Fonts.ValidTTL)
	}
	if !cfg.Plugin.Present || len(cfg.Plugin.Installed) != 1 || cfg.Plugin.Nonce.Reveal() != "a1b2c3" {
		t.Errorf("Plugin = %+v", cfg.Plugin)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("console level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\ntheme:\n  name: x\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"bad version", "version: 2\n"},
		{"bad scheme", "version: 1\nfonts:\n  scheme: ftp:\n"},
		{"bad duration", "version: 1\nfonts:\n  valid_ttl: forever\n"},
		{"zero ttl", "version: 1\nfonts:\n  invalid_ttl: 0s\n"},
		{"empty theme name", "version: 1\ntheme:\n  name: \"\"\n"},
		{"bad console level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadConfiguration() expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}
	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if strings.Contains(string(data), "{{") {
		t.Errorf("Prepare() left unexpanded template:\n%s", data)
	}
	if _, err := unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Plugin.Nonce = "a1b2c3"

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if strings.Contains(string(data), "a1b2c3") {
		t.Error("Dump() revealed nonce")
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Version != cfg.Version || cfg2.Fonts.ValidTTL != cfg.Fonts.ValidTTL || cfg2.Theme != cfg.Theme {
		t.Errorf("mismatch after dump/load: got %+v, want %+v", cfg2, cfg)
	}
}

func TestFontsConfig_Options(t *testing.T) {
	conf := FontsConfig{BaseURL: "//example.com/css?family=", Scheme: "http:", ValidTTL: time.Hour, InvalidTTL: time.Minute}
	want := fonts.Options{BaseURL: "//example.com/css?family=", Scheme: "http:", ValidTTL: time.Hour, InvalidTTL: time.Minute}
	if got := conf.Options(); got != want {
		t.Errorf("Options() = %+v, want %+v", got, want)
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}
