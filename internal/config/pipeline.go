package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvPipelineDualVerification = "DOCSENTRY_DUAL_VERIFICATION"
	EnvPipelineMaxTokens        = "DOCSENTRY_MAX_TOKENS"
	EnvPipelineTemperature      = "DOCSENTRY_TEMPERATURE"
	EnvPipelineSafetyThreshold  = "DOCSENTRY_SAFETY_THRESHOLD"
	EnvPipelinePIIThreshold     = "DOCSENTRY_PII_THRESHOLD"
	EnvPipelineRulesPath        = "DOCSENTRY_RULES_PATH"
	EnvPipelinePromptLibrary    = "DOCSENTRY_PROMPT_LIBRARY"
)

// PipelineConfig holds detection thresholds, model invocation parameters,
// and the paths of the declarative rule and prompt files.
// DualVerification is a pointer so an explicit false in an overlay is
// distinguishable from unset.
type PipelineConfig struct {
	DualVerification *bool   `toml:"dual_verification"`
	MaxTokens        int     `toml:"max_tokens"`
	Temperature      float64 `toml:"temperature"`
	SafetyThreshold  float64 `toml:"safety_threshold"`
	PIIThreshold     float64 `toml:"pii_threshold"`
	RulesPath        string  `toml:"rules_path"`
	PromptLibrary    string  `toml:"prompt_library"`
}

// DualVerificationEnabled reports whether the secondary classification
// runs. Defaults to true when unset.
func (c *PipelineConfig) DualVerificationEnabled() bool {
	if c.DualVerification == nil {
		return true
	}
	return *c.DualVerification
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.DualVerification != nil {
		c.DualVerification = overlay.DualVerification
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.SafetyThreshold != 0 {
		c.SafetyThreshold = overlay.SafetyThreshold
	}
	if overlay.PIIThreshold != 0 {
		c.PIIThreshold = overlay.PIIThreshold
	}
	if overlay.RulesPath != "" {
		c.RulesPath = overlay.RulesPath
	}
	if overlay.PromptLibrary != "" {
		c.PromptLibrary = overlay.PromptLibrary
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
	if c.Temperature == 0 {
		c.Temperature = 0.3
	}
	if c.SafetyThreshold == 0 {
		c.SafetyThreshold = 0.5
	}
	if c.PIIThreshold == 0 {
		c.PIIThreshold = 0.6
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineDualVerification); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.DualVerification = &enabled
		}
	}
	if v := os.Getenv(EnvPipelineMaxTokens); v != "" {
		if tokens, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = tokens
		}
	}
	if v := os.Getenv(EnvPipelineTemperature); v != "" {
		if temp, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = temp
		}
	}
	if v := os.Getenv(EnvPipelineSafetyThreshold); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil {
			c.SafetyThreshold = threshold
		}
	}
	if v := os.Getenv(EnvPipelinePIIThreshold); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil {
			c.PIIThreshold = threshold
		}
	}
	if v := os.Getenv(EnvPipelineRulesPath); v != "" {
		c.RulesPath = v
	}
	if v := os.Getenv(EnvPipelinePromptLibrary); v != "" {
		c.PromptLibrary = v
	}
}

func (c *PipelineConfig) validate() error {
	if c.MaxTokens < 1 {
		return fmt.Errorf("invalid max_tokens: %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("invalid temperature: %g", c.Temperature)
	}
	if c.SafetyThreshold < 0 || c.SafetyThreshold > 1 {
		return fmt.Errorf("invalid safety_threshold: %g", c.SafetyThreshold)
	}
	if c.PIIThreshold < 0 || c.PIIThreshold > 1 {
		return fmt.Errorf("invalid pii_threshold: %g", c.PIIThreshold)
	}
	return nil
}
