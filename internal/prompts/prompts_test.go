package prompts_test

import (
	"strings"
	"testing"

	"github.com/docsentry/docsentry/internal/classification"
	"github.com/docsentry/docsentry/internal/pii"
	"github.com/docsentry/docsentry/internal/prompts"
	"github.com/docsentry/docsentry/internal/safety"
	"github.com/docsentry/docsentry/pkg/severity"
)

func TestDefaultLibrary(t *testing.T) {
	lib, err := prompts.Default()
	if err != nil {
		t.Fatalf("Default error: %v", err)
	}

	if lib.SystemPrompt == "" {
		t.Error("SystemPrompt is empty")
	}
	if len(lib.Categories) != 4 {
		t.Errorf("Categories = %d, want 4", len(lib.Categories))
	}
}

func TestClassificationPrompt(t *testing.T) {
	lib, err := prompts.Default()
	if err != nil {
		t.Fatalf("Default error: %v", err)
	}

	t.Run("clean document", func(t *testing.T) {
		prompt := lib.Classification(
			"quarterly budget overview",
			pii.Result{Severity: severity.None},
			safety.Result{IsSafe: true, OverallSeverity: severity.None},
		)

		if !strings.Contains(prompt, "PII Detected: No") {
			t.Error("prompt missing negative PII context")
		}
		if !strings.Contains(prompt, "Content is Safe: Yes") {
			t.Error("prompt missing safe content context")
		}
		if !strings.Contains(prompt, "quarterly budget overview") {
			t.Error("prompt missing document text")
		}
		if !strings.Contains(prompt, "JSON format") {
			t.Error("prompt missing response format instructions")
		}
	})

	t.Run("detector findings included", func(t *testing.T) {
		prompt := lib.Classification(
			"doc text",
			pii.Result{
				Detected: true,
				Types:    []pii.Type{pii.TypeSSN, pii.TypeEmail},
				Severity: severity.High,
			},
			safety.Result{
				IsSafe:            false,
				TotalFlags:        2,
				OverallSeverity:   severity.Medium,
				CategoriesFlagged: []safety.Category{safety.CategoryCriminal},
			},
		)

		if !strings.Contains(prompt, "ssn, email") {
			t.Error("prompt missing PII types")
		}
		if !strings.Contains(prompt, "criminal") {
			t.Error("prompt missing safety categories")
		}
	})
}

func TestVerificationPrompt(t *testing.T) {
	lib, err := prompts.Default()
	if err != nil {
		t.Fatalf("Default error: %v", err)
	}

	primary := classification.Result{
		Category:   classification.CategoryConfidential,
		Confidence: 0.82,
		Reasoning:  "contains internal financials",
	}

	prompt := lib.Verification("doc text", primary)

	if !strings.Contains(prompt, "Confidential") {
		t.Error("prompt missing primary category")
	}
	if !strings.Contains(prompt, "0.82") {
		t.Error("prompt missing primary confidence")
	}
	if !strings.Contains(prompt, "contains internal financials") {
		t.Error("prompt missing primary reasoning")
	}
	if strings.Contains(prompt, "{primary_category}") {
		t.Error("placeholder not substituted")
	}
}
