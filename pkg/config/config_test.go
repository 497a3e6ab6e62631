package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Catalog.BaseURL)
	assert.Equal(t, "stdio", cfg.Serve.Transport)
	assert.Equal(t, 10, cfg.Agent.MaxTurns)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Functions)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
catalog:
  base_url: https://uc.example.com
  token: uc-token
agent:
  region: us-east-1
  agent_id: AGENT123
  agent_alias_id: ALIAS456
  max_turns: 5
functions:
  - main.ai.weather
  - main.ai.translate
serve:
  transport: http
  listen_address: ":8888"
  required_scope: mcp:tools
oauth:
  require_oauth: true
  audience: bedrock-toolkit
logging:
  level: debug
  pretty: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://uc.example.com", cfg.Catalog.BaseURL)
	assert.Equal(t, "uc-token", cfg.Catalog.Token)
	assert.Equal(t, "us-east-1", cfg.Agent.Region)
	assert.Equal(t, "AGENT123", cfg.Agent.AgentID)
	assert.Equal(t, "ALIAS456", cfg.Agent.AgentAliasID)
	assert.Equal(t, 5, cfg.Agent.MaxTurns)
	assert.Equal(t, []string{"main.ai.weather", "main.ai.translate"}, cfg.Functions)
	assert.Equal(t, "http", cfg.Serve.Transport)
	assert.Equal(t, ":8888", cfg.Serve.ListenAddress)
	assert.Equal(t, "mcp:tools", cfg.Serve.RequiredScope)
	assert.True(t, cfg.OAuth.RequireOAuth)
	assert.Equal(t, "bedrock-toolkit", cfg.OAuth.Audience)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("UCBEDROCK_CATALOG_BASE_URL", "https://env.example.com")
	t.Setenv("UCBEDROCK_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Catalog.BaseURL)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidFileSurfacesError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog: ["), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Catalog: CatalogConfig{BaseURL: "http://localhost:8080"},
			Serve:   ServeConfig{Transport: "stdio"},
		}
	}

	tests := []struct {
		name     string
		mutate   func(*Config)
		contains string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:     "missing base url",
			mutate:   func(c *Config) { c.Catalog.BaseURL = "" },
			contains: "catalog.base_url",
		},
		{
			name:     "unknown transport",
			mutate:   func(c *Config) { c.Serve.Transport = "grpc" },
			contains: "serve.transport",
		},
		{
			name:     "sse without listen address",
			mutate:   func(c *Config) { c.Serve.Transport = "sse" },
			contains: "listen_address",
		},
		{
			name:     "http without listen address",
			mutate:   func(c *Config) { c.Serve.Transport = "http" },
			contains: "listen_address",
		},
		{
			name: "oauth on stdio",
			mutate: func(c *Config) {
				c.OAuth.RequireOAuth = true
			},
			contains: "require_oauth",
		},
		{
			name:     "negative max turns",
			mutate:   func(c *Config) { c.Agent.MaxTurns = -1 },
			contains: "max_turns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.contains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
