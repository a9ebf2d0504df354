package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// createTempConfigFile creates a temporary config file for testing
func createTempConfigFile(t *testing.T, dir, content string) string {
	t.Helper()

	configDir := filepath.Join(dir, ".gemini-chat")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	return configPath
}

// =============================================================================
// loadConfigFromPath Tests
// =============================================================================

func TestLoadConfigFromPath_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `
gemini_api_key: test-key
proxy: http://127.0.0.1:8080
safety_settings: false
debug_mode: true
output_path: /tmp/gemini
model: gemini-2.5-pro
base_url: http://localhost:9999
timeout: 2m
`
	configPath := createTempConfigFile(t, tmpDir, configContent)

	cfg, err := loadConfigFromPath(configPath)
	if err != nil {
		t.Fatalf("loadConfigFromPath() error = %v", err)
	}

	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "test-key")
	}
	if cfg.Proxy != "http://127.0.0.1:8080" {
		t.Errorf("Proxy = %q", cfg.Proxy)
	}
	if !cfg.SafetySettings.Set || cfg.SafetySettings.Value {
		t.Errorf("SafetySettings = %+v, want set and false", cfg.SafetySettings)
	}
	if !cfg.DebugMode.Set || !cfg.DebugMode.Value {
		t.Errorf("DebugMode = %+v, want set and true", cfg.DebugMode)
	}
	if cfg.OutputPath != "/tmp/gemini" {
		t.Errorf("OutputPath = %q", cfg.OutputPath)
	}
	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.BaseURL != "http://localhost:9999" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if time.Duration(cfg.Timeout) != 2*time.Minute {
		t.Errorf("Timeout = %v, want 2m", time.Duration(cfg.Timeout))
	}
}

func TestLoadConfigFromPath_JSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, LegacyConfigFileName)
	content := `{
	"gemini_api_key": "json-key",
	"proxy": "",
	"safety_settings": "true",
	"debug_mode": "false",
	"output_path": ""
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfigFromPath(path)
	if err != nil {
		t.Fatalf("loadConfigFromPath() error = %v", err)
	}
	if cfg.APIKey != "json-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if !cfg.SafetySettings.Set || !cfg.SafetySettings.Value {
		t.Errorf("SafetySettings = %+v, want set and true", cfg.SafetySettings)
	}
	if !cfg.DebugMode.Set || cfg.DebugMode.Value {
		t.Errorf("DebugMode = %+v, want set and false", cfg.DebugMode)
	}
}

func TestLoadConfigFromPath_InvalidToggle(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := createTempConfigFile(t, tmpDir, "safety_settings: sometimes\n")

	_, err := loadConfigFromPath(configPath)
	if err == nil {
		t.Fatal("loadConfigFromPath() should reject a non-boolean toggle")
	}
	if !strings.Contains(err.Error(), "sometimes") {
		t.Errorf("error should name the bad value: %v", err)
	}
}

func TestLoadConfigFromPath_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := createTempConfigFile(t, tmpDir, "gemini_api_key: [unclosed\n")

	if _, err := loadConfigFromPath(configPath); err == nil {
		t.Fatal("loadConfigFromPath() should fail on invalid YAML")
	}
}

func TestLoadConfigFromPath_MissingFile(t *testing.T) {
	_, err := loadConfigFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("loadConfigFromPath() should fail for a missing file")
	}
}

// =============================================================================
// LoadConfigFile Tests
// =============================================================================

func TestLoadConfigFile_NoFile(t *testing.T) {
	runInTempDir(t)

	cfg, path, err := LoadConfigFile()
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if cfg == nil || cfg.APIKey != "" {
		t.Errorf("expected an empty FileConfig, got %+v", cfg)
	}
}

func TestLoadConfigFile_UserConfigDir(t *testing.T) {
	dir := runInTempDir(t)
	userDir := filepath.Join(dir, "xdg", "gemini-chat")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, ConfigFileName), []byte("gemini_api_key: xdg-key\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := LoadConfigFile()
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if cfg.APIKey != "xdg-key" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "xdg-key")
	}
	if !strings.HasPrefix(path, userDir) {
		t.Errorf("path = %q, want under %q", path, userDir)
	}
}

func TestGetConfigPaths_Order(t *testing.T) {
	runInTempDir(t)

	paths := GetConfigPaths()
	if len(paths) < 2 {
		t.Fatalf("GetConfigPaths() returned %d paths", len(paths))
	}
	if paths[0] != filepath.Join(".", ".gemini-chat", ConfigFileName) {
		t.Errorf("first path = %q, want the working directory", paths[0])
	}
	if filepath.Base(paths[len(paths)-1]) != LegacyConfigFileName {
		t.Errorf("last path = %q, want the config.json next to the binary", paths[len(paths)-1])
	}
}

// =============================================================================
// ApplyFileConfig Tests
// =============================================================================

func TestApplyFileConfig_Nil(t *testing.T) {
	cfg := &Config{APIKey: "keep"}
	cfg.ApplyFileConfig(nil)
	if cfg.APIKey != "keep" {
		t.Errorf("APIKey = %q, want unchanged", cfg.APIKey)
	}
}

func TestApplyFileConfig_DoesNotOverride(t *testing.T) {
	cfg := &Config{
		APIKey:     "flag-key",
		OutputPath: "/flag/out",
		Timeout:    time.Second,
	}
	cfg.ApplyFileConfig(&FileConfig{
		APIKey:     "file-key",
		OutputPath: "/file/out",
		Timeout:    Duration(time.Hour),
		Proxy:      " http://file:1 ",
	})

	if cfg.APIKey != "flag-key" {
		t.Errorf("APIKey = %q, want flag value", cfg.APIKey)
	}
	if cfg.OutputPath != "/flag/out" {
		t.Errorf("OutputPath = %q, want flag value", cfg.OutputPath)
	}
	if cfg.Timeout != time.Second {
		t.Errorf("Timeout = %v, want flag value", cfg.Timeout)
	}
	if cfg.Proxy != "http://file:1" {
		t.Errorf("Proxy = %q, want trimmed file value", cfg.Proxy)
	}
}

// =============================================================================
// CreateDefaultConfigFile Tests
// =============================================================================

func TestCreateDefaultConfigFile(t *testing.T) {
	dir := runInTempDir(t)

	path, err := CreateDefaultConfigFile()
	if err != nil {
		t.Fatalf("CreateDefaultConfigFile() error = %v", err)
	}
	want := filepath.Join(dir, "xdg", "gemini-chat", ConfigFileName)
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	// The template must parse with the same loader
	cfg, err := loadConfigFromPath(path)
	if err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}
	if !cfg.SafetySettings.Set || !cfg.SafetySettings.Value {
		t.Errorf("default safety_settings = %+v, want true", cfg.SafetySettings)
	}

	if _, err := CreateDefaultConfigFile(); err == nil {
		t.Error("second CreateDefaultConfigFile() should report the existing file")
	}
}
