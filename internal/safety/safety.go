// Package safety implements content safety screening over extracted
// document text. A fixed table of categories is matched by keyword with
// word boundaries; contextual indicators such as "education" or
// "security research" reduce confidence before the detection threshold
// is applied. The aggregate result drives the pipeline's blocking policy.
package safety

import (
	"fmt"
	"strings"

	"github.com/docsentry/docsentry/pkg/severity"
)

// Category identifies a class of unsafe content.
type Category string

// Recognized safety categories.
const (
	CategoryChildSafety      Category = "child_safety"
	CategoryHateSpeech       Category = "hate_speech"
	CategoryViolence         Category = "violence"
	CategoryExploitative     Category = "exploitative"
	CategoryCriminal         Category = "criminal"
	CategoryCyberThreat      Category = "cyber_threat"
	CategoryPoliticalMisinfo Category = "political_misinfo"
)

// Match records one keyword occurrence with its surrounding context.
type Match struct {
	Keyword  string `json:"keyword"`
	Context  string `json:"context"`
	Position int    `json:"position"`
}

// Flag records a category violation on a single page.
type Flag struct {
	Category    Category          `json:"category"`
	Severity    severity.Severity `json:"severity"`
	Description string            `json:"description"`
	Matches     []Match           `json:"matches"`
	PageNumber  int               `json:"page_number"`
	Confidence  float64           `json:"confidence"`
	SafeContext bool              `json:"safe_context"`
}

// Result aggregates safety flags for a document or page.
type Result struct {
	IsSafe            bool              `json:"is_safe"`
	TotalFlags        int               `json:"total_flags"`
	Flags             []Flag            `json:"safety_flags"`
	OverallSeverity   severity.Severity `json:"overall_severity"`
	RequiresReview    bool              `json:"requires_review"`
	CategoriesFlagged []Category        `json:"categories_flagged"`
}

// Summary returns a human-readable description of the result.
func (r *Result) Summary() string {
	if r.IsSafe {
		return "Content is safe for all audiences"
	}

	categories := make([]string, len(r.CategoriesFlagged))
	for i, c := range r.CategoriesFlagged {
		categories[i] = string(c)
	}

	return fmt.Sprintf(
		"UNSAFE CONTENT DETECTED | %d violations | Categories: %s | Severity: %s",
		r.TotalFlags, strings.Join(categories, ", "), r.OverallSeverity,
	)
}

// ShouldBlock reports whether the document must be blocked from further
// processing. Only critical and high severity results block; the block
// happens before any model invocation.
func ShouldBlock(r Result) bool {
	if r.IsSafe {
		return false
	}
	return r.OverallSeverity == severity.Critical || r.OverallSeverity == severity.High
}

func overallSeverity(flags []Flag) severity.Severity {
	severities := make([]severity.Severity, len(flags))
	for i, f := range flags {
		severities[i] = f.Severity
	}
	return severity.Max(severities...)
}
