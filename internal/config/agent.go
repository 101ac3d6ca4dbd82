package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "QUARRY_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "QUARRY_AGENT_BASE_URL"
	EnvAgentToken        = "QUARRY_AGENT_TOKEN"
	EnvAgentDeployment   = "QUARRY_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "QUARRY_AGENT_API_VERSION"
	EnvAgentAuthType     = "QUARRY_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "QUARRY_AGENT_MODEL_NAME"
)

// AgentConfig holds the TOML-facing parameters for the LLM agent that backs
// the pipeline's oracles. Build converts it to a go-agents AgentConfig.
type AgentConfig struct {
	Name     string `toml:"name"`
	Provider string `toml:"provider"`
	BaseURL  string `toml:"base_url"`
	Model    string `toml:"model"`
	Token    string `toml:"token"`
}

// Merge overwrites non-zero fields from overlay.
func (c *AgentConfig) Merge(overlay *AgentConfig) {
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AgentConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Build produces a go-agents AgentConfig merged over the library defaults.
func (c *AgentConfig) Build() gaconfig.AgentConfig {
	cfg := gaconfig.DefaultAgentConfig()

	overlay := gaconfig.AgentConfig{
		Name: c.Name,
		Provider: &gaconfig.ProviderConfig{
			Name:    c.Provider,
			BaseURL: c.BaseURL,
			Options: map[string]any{},
		},
		Model: &gaconfig.ModelConfig{
			Name: c.Model,
		},
	}
	if c.Token != "" {
		overlay.Provider.Options["token"] = c.Token
	}

	cfg.Merge(&overlay)
	return cfg
}

func (c *AgentConfig) loadDefaults() {
	if c.Name == "" {
		c.Name = "quarry"
	}
	if c.Provider == "" {
		c.Provider = "ollama"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434"
	}
}

func (c *AgentConfig) loadEnv() {
	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvAgentToken); v != "" {
		c.Token = v
	}
}

func (c *AgentConfig) validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider required")
	}
	if c.Model == "" {
		return fmt.Errorf("model required")
	}
	return nil
}
