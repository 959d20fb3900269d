package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docsentry/docsentry/internal/config"
)

const baseConfig = `version = "0.2.0"

[pipeline]
dual_verification = false
max_tokens = 2048
temperature = 0.5
safety_threshold = 0.4
pii_threshold = 0.7
`

const overlayConfig = `[pipeline]
max_tokens = 1024
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

// setPrimaryEnv supplies the minimum agent configuration required for
// validation to pass.
func setPrimaryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DOCSENTRY_PRIMARY_PROVIDER_NAME", "ollama")
	t.Setenv("DOCSENTRY_PRIMARY_BASE_URL", "http://localhost:11434")
	t.Setenv("DOCSENTRY_PRIMARY_MODEL_NAME", "llama3.1:8b")
}

func setSecondaryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DOCSENTRY_SECONDARY_PROVIDER_NAME", "ollama")
	t.Setenv("DOCSENTRY_SECONDARY_BASE_URL", "http://localhost:11434")
	t.Setenv("DOCSENTRY_SECONDARY_MODEL_NAME", "mistral:7b")
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setPrimaryEnv(t)
	t.Setenv(config.EnvPipelineDualVerification, "false")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Version != "0.1.0" {
		t.Errorf("version = %s, want 0.1.0", cfg.Version)
	}
	if cfg.Pipeline.MaxTokens != 4096 {
		t.Errorf("max_tokens = %d, want 4096", cfg.Pipeline.MaxTokens)
	}
	if cfg.Pipeline.Temperature != 0.3 {
		t.Errorf("temperature = %g, want 0.3", cfg.Pipeline.Temperature)
	}
	if cfg.Pipeline.SafetyThreshold != 0.5 {
		t.Errorf("safety_threshold = %g, want 0.5", cfg.Pipeline.SafetyThreshold)
	}
	if cfg.Pipeline.PIIThreshold != 0.6 {
		t.Errorf("pii_threshold = %g, want 0.6", cfg.Pipeline.PIIThreshold)
	}
	if cfg.Pipeline.DualVerificationEnabled() {
		t.Error("dual verification should be disabled by env override")
	}
	if cfg.Agents.Primary.Model.Name != "llama3.1:8b" {
		t.Errorf("primary model = %s, want llama3.1:8b", cfg.Agents.Primary.Model.Name)
	}
}

func TestDualVerificationDefaultsOn(t *testing.T) {
	cfg := &config.PipelineConfig{}
	if !cfg.DualVerificationEnabled() {
		t.Error("dual verification should default to enabled")
	}
}

func TestLoadBaseConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)
	setPrimaryEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Version != "0.2.0" {
		t.Errorf("version = %s, want 0.2.0", cfg.Version)
	}
	if cfg.Pipeline.MaxTokens != 2048 {
		t.Errorf("max_tokens = %d, want 2048", cfg.Pipeline.MaxTokens)
	}
	if cfg.Pipeline.DualVerificationEnabled() {
		t.Error("dual verification explicitly disabled in base config")
	}
	if cfg.Pipeline.PIIThreshold != 0.7 {
		t.Errorf("pii_threshold = %g, want 0.7", cfg.Pipeline.PIIThreshold)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.test.toml", overlayConfig)
	t.Chdir(dir)
	setPrimaryEnv(t)
	t.Setenv(config.EnvDocsentryEnv, "test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Pipeline.MaxTokens != 1024 {
		t.Errorf("max_tokens = %d, want 1024 from overlay", cfg.Pipeline.MaxTokens)
	}

	// Overlay leaves unrelated base values intact.
	if cfg.Pipeline.Temperature != 0.5 {
		t.Errorf("temperature = %g, want 0.5 from base", cfg.Pipeline.Temperature)
	}
	if cfg.Env() != "test" {
		t.Errorf("env = %s, want test", cfg.Env())
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)
	setPrimaryEnv(t)
	t.Setenv(config.EnvPipelineMaxTokens, "512")
	t.Setenv(config.EnvPipelineSafetyThreshold, "0.8")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Pipeline.MaxTokens != 512 {
		t.Errorf("max_tokens = %d, want 512 from env", cfg.Pipeline.MaxTokens)
	}
	if cfg.Pipeline.SafetyThreshold != 0.8 {
		t.Errorf("safety_threshold = %g, want 0.8 from env", cfg.Pipeline.SafetyThreshold)
	}
}

func TestValidationRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name:    "temperature out of range",
			content: "[pipeline]\ndual_verification = false\ntemperature = 3.0\n",
			errPart: "temperature",
		},
		{
			name:    "safety threshold out of range",
			content: "[pipeline]\ndual_verification = false\nsafety_threshold = 1.5\n",
			errPart: "safety_threshold",
		},
		{
			name:    "negative max tokens",
			content: "[pipeline]\ndual_verification = false\nmax_tokens = -1\n",
			errPart: "max_tokens",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, config.BaseConfigFile, tc.content)
			t.Chdir(dir)
			setPrimaryEnv(t)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("error %q does not mention %s", err, tc.errPart)
			}
		})
	}
}

func TestSecondaryRequiredForDualVerification(t *testing.T) {
	t.Chdir(t.TempDir())
	setPrimaryEnv(t)

	// Dual verification defaults on; no secondary agent is configured.
	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for missing secondary agent")
	}
	if !strings.Contains(err.Error(), "secondary") {
		t.Errorf("error %q does not mention secondary", err)
	}

	setSecondaryEnv(t)
	if _, err := config.Load(); err != nil {
		t.Fatalf("Load with secondary configured: %v", err)
	}
}

func TestApplyModelOptions(t *testing.T) {
	t.Chdir(t.TempDir())
	setPrimaryEnv(t)
	setSecondaryEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg.Agents.ApplyModelOptions(&cfg.Pipeline)

	if got := cfg.Agents.Primary.Model.Options["max_tokens"]; got != 4096 {
		t.Errorf("primary max_tokens option = %v, want 4096", got)
	}
	if got := cfg.Agents.Secondary.Model.Options["temperature"]; got != 0.3 {
		t.Errorf("secondary temperature option = %v, want 0.3", got)
	}
}
