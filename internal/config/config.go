package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration for the indii chat service.
// It is loaded from ~/.indii/config.yaml and can be overridden by environment variables.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`
	Roles   RolesConfig   `mapstructure:"roles" yaml:"roles"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig contains the HTTP listener settings.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
	// RateLimit is the sustained number of chat requests per second per client IP (0 disables limiting)
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
	// RateBurst is the token bucket size per client IP
	RateBurst int `mapstructure:"rate_burst" yaml:"rate_burst"`
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LLMConfig contains configuration for the AI providers.
type LLMConfig struct {
	// DefaultProvider is tried first when a request does not name one
	DefaultProvider string `mapstructure:"default_provider" yaml:"default_provider"`
	// FallbackOrder is walked when the requested provider fails
	FallbackOrder []string `mapstructure:"fallback_order" yaml:"fallback_order"`
	// Providers maps provider names to their specific configuration
	Providers map[string]ProviderConfig `mapstructure:"providers" yaml:"providers"`
}

// ProviderConfig contains configuration for a specific AI provider.
type ProviderConfig struct {
	// APIKey is the authentication key; empty falls back to the vendor env var
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	// BaseURL overrides the vendor endpoint
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	// Model is the model to use with this provider
	Model string `mapstructure:"model" yaml:"model,omitempty"`
	// Timeout bounds a single generate call
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// RolesConfig points at an optional YAML file of role overrides.
type RolesConfig struct {
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

// LoggingConfig contains configuration for application logging.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error")
	Level string `mapstructure:"level" yaml:"level"`
	// Format is "console" or "json"
	Format string `mapstructure:"format" yaml:"format"`
	// File is the path to the log file
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            2001,
			RateLimit:       2,
			RateBurst:       10,
			ShutdownTimeout: 10 * time.Second,
		},
		LLM: LLMConfig{
			DefaultProvider: "gemini",
			FallbackOrder:   []string{"gemini", "openai", "anthropic"},
			Providers: map[string]ProviderConfig{
				"gemini": {
					Model:   "gemini-1.5-flash",
					Timeout: 60 * time.Second,
				},
				"openai": {
					BaseURL: "https://api.openai.com/v1",
					Timeout: 60 * time.Second,
				},
				"anthropic": {
					BaseURL: "https://api.anthropic.com/v1",
					Timeout: 60 * time.Second,
				},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from the default location (~/.indii/config.yaml)
// and merges with environment variables. If no config file exists, it creates
// one with default values.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return LoadFromPath(filepath.Join(homeDir, ".indii", "config.yaml"))
}

// LoadFromPath reads configuration from a specific file path and merges with
// environment variables. If the file doesn't exist, it creates one with default values.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	// Example: INDII_SERVER_PORT, INDII_LLM_DEFAULT_PROVIDER
	v.SetEnvPrefix("INDII")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindProviderEnv(v, Default())

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Logging.File = expandPath(cfg.Logging.File)
	cfg.Roles.File = expandPath(cfg.Roles.File)
	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = make(map[string]ProviderConfig)
	}

	return &cfg, nil
}

// setDefaults registers scalar defaults so AutomaticEnv can override keys
// that are absent from the file.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.rate_burst", d.Server.RateBurst)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("llm.default_provider", d.LLM.DefaultProvider)
	v.SetDefault("llm.fallback_order", d.LLM.FallbackOrder)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// bindProviderEnv binds the per-provider keys so that, for example,
// INDII_LLM_PROVIDERS_GEMINI_API_KEY reaches the gemini entry. AutomaticEnv
// alone only sees keys viper already knows about.
func bindProviderEnv(v *viper.Viper, d *Config) {
	for name := range d.LLM.Providers {
		for _, field := range []string{"api_key", "base_url", "model", "timeout"} {
			_ = v.BindEnv("llm.providers." + name + "." + field)
		}
	}
}

// Save writes the current configuration to the default config file location.
func (c *Config) Save() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	return c.SaveToPath(filepath.Join(homeDir, ".indii", "config.yaml"))
}

// SaveToPath writes the current configuration to a specific file path.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return writeConfigFile(path, c)
}

// ToYAML renders the configuration with API keys masked.
func (c *Config) ToYAML() (string, error) {
	masked := *c
	masked.LLM.Providers = make(map[string]ProviderConfig, len(c.LLM.Providers))
	for name, p := range c.LLM.Providers {
		if p.APIKey != "" {
			p.APIKey = "****"
		}
		masked.LLM.Providers[name] = p
	}

	data, err := yaml.Marshal(&masked)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// Validate checks the configuration for common errors and inconsistencies.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit cannot be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return fmt.Errorf("server.rate_burst must be at least 1 when rate limiting is enabled")
	}

	if c.LLM.DefaultProvider == "" {
		return fmt.Errorf("llm.default_provider cannot be empty")
	}
	if len(c.LLM.FallbackOrder) == 0 {
		return fmt.Errorf("llm.fallback_order cannot be empty")
	}
	seen := make(map[string]bool, len(c.LLM.FallbackOrder))
	for _, name := range c.LLM.FallbackOrder {
		if seen[name] {
			return fmt.Errorf("provider '%s' listed twice in llm.fallback_order", name)
		}
		seen[name] = true
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format '%s', must be 'console' or 'json'", c.Logging.Format)
	}

	return nil
}

// writeConfigFile writes a Config struct to a YAML file.
func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// expandPath expands ~ to the user's home directory in a path string.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
