package pipeline

import (
	"log/slog"

	"github.com/docsentry/docsentry/internal/config"
	"github.com/docsentry/docsentry/internal/gateway"
	"github.com/docsentry/docsentry/internal/hitl"
	"github.com/docsentry/docsentry/internal/pii"
	"github.com/docsentry/docsentry/internal/prompts"
	"github.com/docsentry/docsentry/internal/safety"
)

// Runtime bundles the dependencies that pipeline nodes require.
// It is constructed by composition code from configuration and the
// model gateway.
type Runtime struct {
	Pipeline *config.PipelineConfig
	Gateway  gateway.Gateway
	Prompts  *prompts.Library
	Rules    []hitl.Rule
	PII      *pii.Detector
	Safety   *safety.Checker
	Logger   *slog.Logger
}

// NewRuntime wires the detectors from the pipeline thresholds and
// returns a runtime ready for Execute.
func NewRuntime(
	cfg *config.PipelineConfig,
	gw gateway.Gateway,
	library *prompts.Library,
	rules []hitl.Rule,
	logger *slog.Logger,
) *Runtime {
	return &Runtime{
		Pipeline: cfg,
		Gateway:  gw,
		Prompts:  library,
		Rules:    rules,
		PII:      pii.New(cfg.PIIThreshold),
		Safety:   safety.New(cfg.SafetyThreshold),
		Logger:   logger,
	}
}
