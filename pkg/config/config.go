// Package config holds the toolkit configuration, loaded from a config file
// and UCBEDROCK_* environment variables.
package config

import (
	"fmt"
	"slices"
)

// Config is the root toolkit configuration.
type Config struct {
	// Catalog configures the Unity Catalog connection.
	Catalog CatalogConfig `json:"catalog" mapstructure:"catalog"`

	// Agent configures the Bedrock agent binding.
	Agent AgentConfig `json:"agent" mapstructure:"agent"`

	// Functions lists the fully qualified catalog functions to expose.
	Functions []string `json:"functions" mapstructure:"functions"`

	// Serve configures the MCP serving surface.
	Serve ServeConfig `json:"serve" mapstructure:"serve"`

	// OAuth configures bearer-token protection for HTTP transports.
	OAuth OAuthConfig `json:"oauth" mapstructure:"oauth"`

	// Logging configures the process logger.
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// CatalogConfig holds the Unity Catalog connection settings.
type CatalogConfig struct {
	BaseURL string `json:"base_url" mapstructure:"base_url"`
	Token   string `json:"token" mapstructure:"token"`
}

// AgentConfig holds the Bedrock agent binding.
type AgentConfig struct {
	Region       string `json:"region" mapstructure:"region"`
	AgentID      string `json:"agent_id" mapstructure:"agent_id"`
	AgentAliasID string `json:"agent_alias_id" mapstructure:"agent_alias_id"`
	MaxTurns     int    `json:"max_turns" mapstructure:"max_turns"`
}

// ServeConfig holds the MCP server settings.
type ServeConfig struct {
	Transport     string   `json:"transport" mapstructure:"transport"` // stdio, sse, http
	ListenAddress string   `json:"listen_address" mapstructure:"listen_address"`
	EnabledTools  []string `json:"enabled_tools" mapstructure:"enabled_tools"`
	DisabledTools []string `json:"disabled_tools" mapstructure:"disabled_tools"`
	RequiredScope string   `json:"required_scope" mapstructure:"required_scope"`
}

// OAuthConfig holds bearer-token validation settings.
type OAuthConfig struct {
	RequireOAuth  bool   `json:"require_oauth" mapstructure:"require_oauth"`
	Audience      string `json:"audience" mapstructure:"audience"`
	IssuerURL     string `json:"issuer_url" mapstructure:"issuer_url"`
	ValidateToken bool   `json:"validate_token" mapstructure:"validate_token"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Pretty bool   `json:"pretty" mapstructure:"pretty"`
}

var validTransports = []string{"stdio", "sse", "http"}

// Validate checks the configuration for field-level errors.
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	if c.Serve.Transport != "" && !slices.Contains(validTransports, c.Serve.Transport) {
		return fmt.Errorf("serve.transport must be one of %v, got %q", validTransports, c.Serve.Transport)
	}
	if (c.Serve.Transport == "sse" || c.Serve.Transport == "http") && c.Serve.ListenAddress == "" {
		return fmt.Errorf("serve.listen_address is required for the %s transport", c.Serve.Transport)
	}
	if c.OAuth.RequireOAuth && c.Serve.Transport == "stdio" {
		return fmt.Errorf("oauth.require_oauth has no effect on the stdio transport")
	}
	if c.Agent.MaxTurns < 0 {
		return fmt.Errorf("agent.max_turns must not be negative")
	}
	return nil
}
