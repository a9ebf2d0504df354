package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quocvuong92/gemini-chat/internal/constants"
)

// ConfigFileName is the name of the config file
const ConfigFileName = "config.yaml"

// LegacyConfigFileName is the JSON file looked up next to the executable
const LegacyConfigFileName = "config.json"

// Toggle is a boolean that also accepts the strings "true" and "false"
type Toggle struct {
	Value bool
	Set   bool
}

// UnmarshalYAML implements yaml.Unmarshaler
func (t *Toggle) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected true or false", node.Line)
	}
	if strings.TrimSpace(node.Value) == "" {
		return nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("line %d: expected true or false, got %q", node.Line, node.Value)
	}
	t.Value = v
	t.Set = true
	return nil
}

// Duration accepts Go duration strings ("90s", "2m") or a number of seconds
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		return nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("line %d: invalid timeout %q", node.Line, node.Value)
	}
	*d = Duration(v)
	return nil
}

// FileConfig represents the configuration file structure.
// JSON files parse as well, since JSON is valid YAML.
type FileConfig struct {
	APIKey         string   `yaml:"gemini_api_key,omitempty"`
	Proxy          string   `yaml:"proxy,omitempty"`
	SafetySettings Toggle   `yaml:"safety_settings,omitempty"`
	DebugMode      Toggle   `yaml:"debug_mode,omitempty"`
	OutputPath     string   `yaml:"output_path,omitempty"`
	Model          string   `yaml:"model,omitempty"`
	BaseURL        string   `yaml:"base_url,omitempty"`
	Timeout        Duration `yaml:"timeout,omitempty"`
}

// GetConfigPaths returns the paths to check for config files (in order of priority)
func GetConfigPaths() []string {
	var paths []string

	// 1. Current directory
	paths = append(paths, filepath.Join(".", "."+constants.AppName, ConfigFileName))

	// 2. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, constants.AppName, ConfigFileName))
	}

	// 3. Home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", constants.AppName, ConfigFileName))
	}

	// 4. Next to the executable
	paths = append(paths, filepath.Join(ExecutableDir(), LegacyConfigFileName))

	return paths
}

// LoadConfigFile loads the first config file found in GetConfigPaths.
// The returned path is empty when no file exists.
func LoadConfigFile() (*FileConfig, string, error) {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			cfg, err := loadConfigFromPath(path)
			if err != nil {
				return nil, "", err
			}
			return cfg, path, nil
		}
	}

	// No config file found, return empty config
	return &FileConfig{}, "", nil
}

// loadConfigFromPath loads config from a specific path
func loadConfigFromPath(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// ApplyFileConfig applies file configuration to the main Config.
// File config has lower priority than environment variables and CLI flags.
func (c *Config) ApplyFileConfig(fc *FileConfig) {
	if fc == nil {
		return
	}

	if c.APIKey == "" {
		c.APIKey = strings.TrimSpace(fc.APIKey)
	}
	if c.Proxy == "" {
		c.Proxy = strings.TrimSpace(fc.Proxy)
	}
	if c.OutputPath == "" {
		c.OutputPath = fc.OutputPath
	}
	if c.Model == "" {
		c.Model = strings.TrimSpace(fc.Model)
	}
	if c.BaseURL == "" {
		c.BaseURL = strings.TrimSpace(fc.BaseURL)
	}
	if c.Timeout <= 0 && fc.Timeout > 0 {
		c.Timeout = time.Duration(fc.Timeout)
	}

	if !c.safetySet && fc.SafetySettings.Set {
		// safety_settings: false disables filtering
		c.DisableSafety = !fc.SafetySettings.Value
	}
	if !c.debugSet && fc.DebugMode.Set {
		c.Debug = fc.DebugMode.Value
	}
}

const defaultConfig = `# Gemini Chat Configuration
# Location: ~/.config/gemini-chat/config.yaml

# API key from https://aistudio.google.com/app/apikey (or set GEMINI_API_KEY)
gemini_api_key: ""

# Proxy for regions where the API is not available.
# Supports http://, https:// and socks5:// (e.g. http://127.0.0.1:8080)
proxy: ""

# Set to false to request BLOCK_NONE for every harm category
safety_settings: true

# Print raw responses and HTTP traffic
debug_mode: false

# Where /save writes files (default: generated_files next to the binary)
output_path: ""

# model: gemini-2.5-flash
# timeout: 120s
`

// CreateDefaultConfigFile creates a default config file at the user config directory
func CreateDefaultConfigFile() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine config directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, constants.AppName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
