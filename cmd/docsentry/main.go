// Package main provides the docsentry binary entry point. Docsentry
// classifies extracted document content into sensitivity categories,
// screening for PII and unsafe content before any model sees the text.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/docsentry/docsentry/internal/config"
	"github.com/docsentry/docsentry/internal/document"
	"github.com/docsentry/docsentry/internal/gateway"
	"github.com/docsentry/docsentry/internal/hitl"
	"github.com/docsentry/docsentry/internal/pipeline"
	"github.com/docsentry/docsentry/internal/prompts"
)

const appName = "docsentry"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Document sensitivity classification pipeline",
		Long: `Docsentry classifies extracted document content into sensitivity
categories (Public, Confidential, Highly Sensitive, Unsafe) using
deterministic PII and content safety detectors ahead of model-based
classification, with optional dual-model verification and rule-driven
escalation to human review.`,
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(classifyCmd(&logLevel))
	cmd.AddCommand(rulesCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func classifyCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <content.json>",
		Short: "Classify an extracted document",
		Long: `Classify reads normalized document content (the JSON produced by the
ingestion service) and runs the full classification pipeline, printing
the outcome as JSON on stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, args[0], *logLevel)
		},
	}
}

func runClassify(cmd *cobra.Command, contentPath, logLevel string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Agents.ApplyModelOptions(&cfg.Pipeline)

	logger := newLogger(logLevel)
	logger.Info(
		"docsentry starting",
		"version", cfg.Version,
		"env", cfg.Env(),
		"dual_verification", cfg.Pipeline.DualVerificationEnabled(),
	)

	content, err := loadContent(contentPath)
	if err != nil {
		return err
	}

	library, err := prompts.Load(cfg.Pipeline.PromptLibrary)
	if err != nil {
		return fmt.Errorf("load prompt library: %w", err)
	}

	rules, err := loadRules(cfg.Pipeline.RulesPath)
	if err != nil {
		return err
	}

	gw, err := gateway.NewAgentGateway(agentRoles(cfg))
	if err != nil {
		return fmt.Errorf("configure gateway: %w", err)
	}

	rt := pipeline.NewRuntime(&cfg.Pipeline, gw, library, rules, logger)
	outcome := pipeline.Execute(cmd.Context(), rt, content)

	encoded, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))

	if outcome.Status == pipeline.StatusFailed {
		return fmt.Errorf("classification failed: %s", outcome.Error)
	}
	return nil
}

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules [rules.yaml]",
		Short: "Print the effective escalation rules",
		Long: `Rules prints the escalation rule set as JSON: the given file when one
is supplied, otherwise the configured rules path, otherwise the
built-in defaults.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				path = cfg.Pipeline.RulesPath
			}

			rules, err := loadRules(path)
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(rules, "", "  ")
			if err != nil {
				return fmt.Errorf("encode rules: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			version := "dev"
			if cfg, err := config.Load(); err == nil {
				version = cfg.Version
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, version)
		},
	}
}

func loadContent(path string) (*document.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	var content document.Content
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}

	return &content, nil
}

func loadRules(path string) ([]hitl.Rule, error) {
	if path == "" {
		return hitl.DefaultRules(), nil
	}

	rules, err := hitl.LoadRules(path)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return rules, nil
}

func agentRoles(cfg *config.Config) map[gateway.Role]gaconfig.AgentConfig {
	roles := map[gateway.Role]gaconfig.AgentConfig{
		gateway.RolePrimary: cfg.Agents.Primary,
	}
	if cfg.Pipeline.DualVerificationEnabled() {
		roles[gateway.RoleSecondary] = cfg.Agents.Secondary
	}
	return roles
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
