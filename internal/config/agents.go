package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Environment variable suffixes for per-role agent settings. The full
// variable name is DOCSENTRY_<ROLE>_<SUFFIX>, e.g.
// DOCSENTRY_PRIMARY_MODEL_NAME.
const (
	envAgentProviderName = "PROVIDER_NAME"
	envAgentBaseURL      = "BASE_URL"
	envAgentToken        = "TOKEN"
	envAgentDeployment   = "DEPLOYMENT"
	envAgentAPIVersion   = "API_VERSION"
	envAgentAuthType     = "AUTH_TYPE"
	envAgentModelName    = "MODEL_NAME"
)

// AgentsConfig holds one go-agents configuration per model role.
type AgentsConfig struct {
	Primary   gaconfig.AgentConfig `toml:"primary"`
	Secondary gaconfig.AgentConfig `toml:"secondary"`
}

// Finalize applies the three-phase finalize pattern to each configured
// agent. The secondary agent is validated only when dual verification
// is enabled.
func (c *AgentsConfig) Finalize(dualVerification bool) error {
	if err := finalizeAgent(&c.Primary, "primary", "PRIMARY"); err != nil {
		return fmt.Errorf("primary: %w", err)
	}

	if dualVerification {
		if err := finalizeAgent(&c.Secondary, "secondary", "SECONDARY"); err != nil {
			return fmt.Errorf("secondary: %w", err)
		}
	}

	return nil
}

// Merge overwrites configured fields from overlay for both roles.
func (c *AgentsConfig) Merge(overlay *AgentsConfig) {
	mergeAgent(&c.Primary, &overlay.Primary)
	mergeAgent(&c.Secondary, &overlay.Secondary)
}

func finalizeAgent(c *gaconfig.AgentConfig, name, envRole string) error {
	loadAgentDefaults(c, name)
	loadAgentEnv(c, envRole)
	return validateAgent(c)
}

func loadAgentDefaults(c *gaconfig.AgentConfig, name string) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults

	if c.Name == "" {
		c.Name = name
	}
}

func loadAgentEnv(c *gaconfig.AgentConfig, envRole string) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}

	env := func(suffix string) string {
		return os.Getenv("DOCSENTRY_" + envRole + "_" + suffix)
	}

	if v := env(envAgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := env(envAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := env(envAgentModelName); v != "" {
		c.Model.Name = v
	}

	setOption := func(suffix, key string) {
		if v := env(suffix); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(envAgentToken, "token")
	setOption(envAgentDeployment, "deployment")
	setOption(envAgentAPIVersion, "api_version")
	setOption(envAgentAuthType, "auth_type")
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Provider == nil || c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil || c.Model.Name == "" {
		return fmt.Errorf("model name required")
	}
	return nil
}

func mergeAgent(c, overlay *gaconfig.AgentConfig) {
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Provider != nil {
		c.Provider = overlay.Provider
	}
	if overlay.Model != nil {
		c.Model = overlay.Model
	}
}

// ApplyModelOptions copies the pipeline's token and temperature settings
// into each agent's model options so every invocation carries them.
func (c *AgentsConfig) ApplyModelOptions(p *PipelineConfig) {
	for _, agent := range []*gaconfig.AgentConfig{&c.Primary, &c.Secondary} {
		if agent.Model == nil {
			continue
		}
		if agent.Model.Options == nil {
			agent.Model.Options = make(map[string]any)
		}
		agent.Model.Options["max_tokens"] = p.MaxTokens
		agent.Model.Options["temperature"] = p.Temperature
	}
}
