package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "0.0.0.0", cfg.Gateway.Host)
	assert.Equal(t, 8080, cfg.Gateway.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name: "missing credentials are allowed",
			mutate: func(c *Config) {
				c.GoogleCredential = ""
				c.LLM.APIKey = ""
			},
		},
		{
			name:    "zero port rejected",
			mutate:  func(c *Config) { c.Gateway.Port = 0 },
			wantErr: "invalid gateway port",
		},
		{
			name:    "out of range port rejected",
			mutate:  func(c *Config) { c.Gateway.Port = 70000 },
			wantErr: "invalid gateway port",
		},
		{
			name:    "unknown provider rejected",
			mutate:  func(c *Config) { c.LLM.Provider = "watson" },
			wantErr: "invalid LLM provider",
		},
		{
			name:   "empty provider allowed",
			mutate: func(c *Config) { c.LLM.Provider = "" },
		},
		{
			name: "redis enabled without addr rejected",
			mutate: func(c *Config) {
				c.Redis.Enabled = true
				c.Redis.Addr = ""
			},
			wantErr: "redis addr is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.String()
	assert.Contains(t, s, `"gateway"`)
	assert.Contains(t, s, `"provider": "gemini"`)
}
