package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/quocvuong92/gemini-chat/internal/constants"
)

// Environment variable names
const (
	EnvAPIKey         = "GEMINI_API_KEY"
	EnvProxy          = "GEMINI_PROXY"
	EnvOutputPath     = "GEMINI_OUTPUT_PATH"
	EnvDebug          = "GEMINI_DEBUG"
	EnvSafetySettings = "GEMINI_SAFETY_SETTINGS"
	EnvModel          = "GEMINI_MODEL"
)

// Defaults - re-exported from constants for convenience
const (
	DefaultModel      = constants.DefaultModel
	DefaultBaseURL    = constants.DefaultBaseURL
	DefaultAPITimeout = constants.DefaultAPITimeout
)

// Errors
var (
	ErrAPIKeyNotFound = errors.New("Gemini API key not found. Set GEMINI_API_KEY or gemini_api_key in the config file (run 'gemini-chat config init')")
	ErrInvalidProxy   = errors.New("invalid proxy URL")
)

// supportedProxySchemes are the proxy schemes net/http can dial
var supportedProxySchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"socks5": true,
}

// Config holds the application configuration. It is filled once by
// Validate and read-only afterwards.
type Config struct {
	APIKey        string
	Proxy         string
	DisableSafety bool
	Debug         bool
	OutputPath    string

	Model   string
	BaseURL string
	Timeout time.Duration

	// ConfigPath is an explicit config file; empty means search the defaults
	ConfigPath string
	// LoadedFrom is the config file that was applied, if any
	LoadedFrom string

	// set when the value came from a flag or env var, so the file cannot override it
	safetySet bool
	debugSet  bool
}

// NewConfig creates a new Config with defaults
func NewConfig() *Config {
	return &Config{}
}

// Validate loads environment variables and the config file, applies
// defaults and checks required settings.
// Precedence: flags (already set on c) > environment > config file > defaults.
func (c *Config) Validate() error {
	c.applyEnv()

	fileConfig, path, err := c.loadFileConfig()
	if err != nil {
		return err
	}
	c.LoadedFrom = path
	c.ApplyFileConfig(fileConfig)

	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultAPITimeout
	}

	if c.APIKey == "" {
		return ErrAPIKeyNotFound
	}

	if c.Proxy != "" {
		u, err := ParseProxyURL(c.Proxy)
		if err != nil {
			return err
		}
		c.Proxy = u.String()
	}

	return nil
}

// applyEnv fills fields not set by flags from environment variables
func (c *Config) applyEnv() {
	if c.APIKey == "" {
		c.APIKey = strings.TrimSpace(os.Getenv(EnvAPIKey))
	}
	if c.Proxy == "" {
		c.Proxy = strings.TrimSpace(os.Getenv(EnvProxy))
	}
	if c.OutputPath == "" {
		c.OutputPath = os.Getenv(EnvOutputPath)
	}
	if c.Model == "" {
		c.Model = strings.TrimSpace(os.Getenv(EnvModel))
	}

	// Bool flags can only be turned on from the command line, so a true
	// value means the flag was given
	if c.Debug {
		c.debugSet = true
	} else if v, ok := envBool(EnvDebug); ok {
		c.Debug = v
		c.debugSet = true
	}
	if c.DisableSafety {
		c.safetySet = true
	} else if v, ok := envBool(EnvSafetySettings); ok {
		// GEMINI_SAFETY_SETTINGS=false disables filtering
		c.DisableSafety = !v
		c.safetySet = true
	}
}

// envBool reads a boolean environment variable; ok is false when unset or unparseable
func envBool(name string) (value bool, ok bool) {
	raw, exists := os.LookupEnv(name)
	if !exists {
		return false, false
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, false
	}
	return v, true
}

// loadFileConfig loads the explicit config file, or the first one found
// in the search paths
func (c *Config) loadFileConfig() (*FileConfig, string, error) {
	if c.ConfigPath != "" {
		fc, err := loadConfigFromPath(c.ConfigPath)
		if err != nil {
			return nil, "", err
		}
		return fc, c.ConfigPath, nil
	}
	return LoadConfigFile()
}

// ParseProxyURL validates a proxy address. A bare host:port is treated as
// an HTTP proxy.
func ParseProxyURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidProxy, raw, err)
	}
	if !supportedProxySchemes[strings.ToLower(u.Scheme)] {
		return nil, fmt.Errorf("%w %q: unsupported scheme %q (use http, https or socks5)", ErrInvalidProxy, raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w %q: missing host", ErrInvalidProxy, raw)
	}
	return u, nil
}

// ExecutableDir returns the directory of the running binary, falling back
// to the working directory
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// OutputDir returns the directory saved files go to. create reports
// whether the directory is the default one and may be created on demand.
func (c *Config) OutputDir() (dir string, create bool) {
	if c.OutputPath != "" {
		return c.OutputPath, false
	}
	return filepath.Join(ExecutableDir(), constants.DefaultOutputDirName), true
}

// Redacted returns the configuration with the API key masked, for debug output
func (c *Config) Redacted() map[string]interface{} {
	return map[string]interface{}{
		"gemini_api_key":  maskKey(c.APIKey),
		"proxy":           c.Proxy,
		"safety_settings": strconv.FormatBool(!c.DisableSafety),
		"debug_mode":      strconv.FormatBool(c.Debug),
		"output_path":     c.OutputPath,
		"model":           c.Model,
		"base_url":        c.BaseURL,
		"timeout":         c.Timeout.String(),
		"config_file":     c.LoadedFrom,
	}
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
