// Package prompts assembles the classification and verification prompts
// sent through the model gateway. Prompt text lives in a YAML library
// (an embedded default, overridable from disk) so wording can be tuned
// without code changes; the pipeline supplies structured state and
// receives an opaque string.
package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docsentry/docsentry/internal/classification"
	"github.com/docsentry/docsentry/internal/pii"
	"github.com/docsentry/docsentry/internal/safety"
)

//go:embed library.yaml
var defaultLibrary []byte

// CategoryDefinition describes one classification category for the model.
type CategoryDefinition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
}

type classificationPrompts struct {
	FinalClassification string `yaml:"final_classification"`
}

type dualVerification struct {
	CrossCheckPrompt string `yaml:"cross_check_prompt"`
}

// Library holds the prompt text used to assemble gateway requests.
type Library struct {
	SystemPrompt          string                `yaml:"system_prompt"`
	Categories            []CategoryDefinition  `yaml:"categories"`
	ClassificationPrompts classificationPrompts `yaml:"classification_prompts"`
	DualVerification      dualVerification      `yaml:"dual_verification"`
	CitationTemplate      string                `yaml:"citation_template"`
	ResponseFormat        string                `yaml:"response_format"`
}

// Default returns the embedded prompt library.
func Default() (*Library, error) {
	return parseLibrary(defaultLibrary)
}

// Load reads a prompt library from path, falling back to the embedded
// default when path is empty.
func Load(path string) (*Library, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt library: %w", err)
	}

	return parseLibrary(data)
}

func parseLibrary(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse prompt library: %w", err)
	}
	return &lib, nil
}

// Classification builds the primary classification prompt: system prompt,
// category definitions, detector findings, task, document content, and
// the required response format.
func (l *Library) Classification(
	documentText string,
	piiResult pii.Result,
	safetyResult safety.Result,
) string {
	var sb strings.Builder

	sb.WriteString(l.SystemPrompt)
	sb.WriteString("\n\n## Category Definitions\n")
	sb.WriteString(l.formatCategories())

	sb.WriteString("\n## PII Detection Results\n")
	if piiResult.Detected {
		types := make([]string, len(piiResult.Types))
		for i, t := range piiResult.Types {
			types[i] = string(t)
		}
		fmt.Fprintf(&sb, "- PII Detected: Yes\n- Types: %s\n- Severity: %s\n",
			strings.Join(types, ", "), piiResult.Severity)
	} else {
		sb.WriteString("- PII Detected: No\n")
	}

	sb.WriteString("\n## Content Safety Results\n")
	if !safetyResult.IsSafe {
		categories := make([]string, len(safetyResult.CategoriesFlagged))
		for i, c := range safetyResult.CategoriesFlagged {
			categories[i] = string(c)
		}
		fmt.Fprintf(&sb, "- Content is Safe: No\n- Flags: %d\n- Severity: %s\n- Categories: %s\n",
			safetyResult.TotalFlags, safetyResult.OverallSeverity, strings.Join(categories, ", "))
	} else {
		sb.WriteString("- Content is Safe: Yes\n")
	}

	sb.WriteString("\n## Task\n")
	sb.WriteString(l.ClassificationPrompts.FinalClassification)
	sb.WriteString("\n## Document Content\n")
	sb.WriteString(documentText)
	sb.WriteString("\n\n## Instructions\n")
	sb.WriteString(l.CitationTemplate)
	sb.WriteString("\nProvide your response in the following JSON format:\n")
	sb.WriteString(l.ResponseFormat)

	return sb.String()
}

// Verification builds the cross-check prompt for the secondary model,
// embedding the primary result so the reviewer can dissent from it.
func (l *Library) Verification(
	documentText string,
	primary classification.Result,
) string {
	crossCheck := strings.NewReplacer(
		"{primary_category}", string(primary.Category),
		"{primary_confidence}", fmt.Sprintf("%.2f", primary.Confidence),
		"{primary_reasoning}", primary.Reasoning,
	).Replace(l.DualVerification.CrossCheckPrompt)

	var sb strings.Builder

	sb.WriteString(l.SystemPrompt)
	sb.WriteString("\n\n## Category Definitions\n")
	sb.WriteString(l.formatCategories())
	sb.WriteString("\n## Verification Task\n")
	sb.WriteString(crossCheck)
	sb.WriteString("\n## Document Content\n")
	sb.WriteString(documentText)
	sb.WriteString("\n\nProvide your independent classification in the following JSON format:\n")
	sb.WriteString(l.ResponseFormat)

	return sb.String()
}

func (l *Library) formatCategories() string {
	var sb strings.Builder

	for _, cat := range l.Categories {
		fmt.Fprintf(&sb, "### %s\n", cat.Name)
		fmt.Fprintf(&sb, "Description: %s\n", strings.TrimSpace(cat.Description))
		fmt.Fprintf(&sb, "Keywords: %s\n\n", strings.Join(cat.Keywords, ", "))
	}

	return sb.String()
}
