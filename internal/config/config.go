package config

import (
	"encoding/json"
	"fmt"
)

// Config represents the main Genie Relay configuration
type Config struct {
	// Secret key for session signing
	SecretKey string `json:"secret_key" mapstructure:"secret_key"`

	// GoogleCredential is either inline service account JSON or a path to a
	// credentials file. Empty disables speech recognition and synthesis.
	GoogleCredential string `json:"google_credential" mapstructure:"google_credential"`

	// LLM provider configuration
	LLM LLMConfig `json:"llm" mapstructure:"llm"`

	// Gateway server configuration
	Gateway GatewayConfig `json:"gateway" mapstructure:"gateway"`

	// Redis session store configuration
	Redis RedisConfig `json:"redis" mapstructure:"redis"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// LLMConfig holds language model provider configuration
type LLMConfig struct {
	Provider string `json:"provider" mapstructure:"provider"` // gemini, openai, anthropic
	APIKey   string `json:"api_key" mapstructure:"api_key"`
	Model    string `json:"model" mapstructure:"model"`
}

// GatewayConfig holds gateway server configuration
type GatewayConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`
}

// RedisConfig holds the optional Redis-backed session store settings.
// When disabled, sessions live in process memory.
type RedisConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Addr     string `json:"addr" mapstructure:"addr"`
	Password string `json:"password" mapstructure:"password"`
	DB       int    `json:"db" mapstructure:"db"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "gemini",
		},
		Gateway: GatewayConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
	}
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid. Missing credentials are
// not an error: the relay starts degraded and reports capability failures
// per event instead.
func (c *Config) Validate() error {
	if c.Gateway.Port <= 0 || c.Gateway.Port > 65535 {
		return fmt.Errorf("invalid gateway port: %d", c.Gateway.Port)
	}

	switch c.LLM.Provider {
	case "", "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("invalid LLM provider %s (must be: gemini, openai, anthropic)", c.LLM.Provider)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required when the redis session store is enabled")
	}

	return nil
}
