package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/docsentry/docsentry/internal/classification"
	"github.com/docsentry/docsentry/internal/hitl"
	"github.com/docsentry/docsentry/internal/metrics"
	"github.com/docsentry/docsentry/internal/pii"
	"github.com/docsentry/docsentry/internal/safety"
)

// FinalizeNode returns a state node that assembles the run outcome.
// Blocked documents get a fixed Unsafe classification with no model
// result and no escalation decision; the block itself is the terminal
// disposition. Completed runs merge citations (model evidence first,
// then PII detections, then safety matches) and evaluate the escalation
// rules.
func FinalizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		runID, err := extractRunID(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		content, err := extractContent(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		piiResult, err := extractPII(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		safetyResult, err := extractSafety(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		var outcome Outcome
		if isBlocked(s) {
			outcome = blockedOutcome(runID, piiResult, safetyResult)
			metrics.DocumentsBlocked.Inc()
		} else {
			primary, err := extractPrimary(s)
			if err != nil {
				return s, fmt.Errorf("finalize: %w", err)
			}
			outcome = completedOutcome(runID, primary, piiResult, safetyResult, rt.Rules)
			if outcome.HITL.RequiresReview {
				metrics.HITLEscalations.Inc()
			}
		}

		outcome.Metadata = content.Meta()
		outcome.CompletedAt = time.Now()

		rt.Logger.InfoContext(
			ctx, "finalize node complete",
			"run_id", outcome.RunID,
			"status", outcome.Status,
			"category", outcome.Category,
		)

		s = s.Set(KeyOutcome, outcome)
		return s, nil
	})
}

func blockedOutcome(runID uuid.UUID, piiResult pii.Result, safetyResult safety.Result) Outcome {
	return Outcome{
		RunID:      runID,
		Status:     StatusBlocked,
		Category:   classification.CategoryUnsafe,
		Confidence: 1.0,
		Reasoning:  fmt.Sprintf("Content safety violations detected: %s", safetyResult.Summary()),
		Summary:    "Document blocked before classification due to content safety violations",
		Citations:  safetyCitations(safetyResult),
		PII:        &piiResult,
		Safety:     &safetyResult,
	}
}

func completedOutcome(
	runID uuid.UUID,
	primary classification.Result,
	piiResult pii.Result,
	safetyResult safety.Result,
	rules []hitl.Rule,
) Outcome {
	decision := hitl.Evaluate(primary, piiResult, safetyResult, rules)

	return Outcome{
		RunID:        runID,
		Status:       StatusCompleted,
		Category:     primary.Category,
		Confidence:   primary.Confidence,
		Reasoning:    primary.Reasoning,
		Summary:      primary.Summary,
		Citations:    mergeCitations(primary, piiResult, safetyResult),
		Verification: primary.Verification,
		PII:          &piiResult,
		Safety:       &safetyResult,
		HITL:         &decision,
	}
}

// mergeCitations orders evidence as model citations, then PII
// detections, then safety matches. Detector-derived citations carry the
// already-redacted context window as evidence text.
func mergeCitations(
	primary classification.Result,
	piiResult pii.Result,
	safetyResult safety.Result,
) []classification.Citation {
	citations := make([]classification.Citation, 0, len(primary.Citations))
	citations = append(citations, primary.Citations...)
	citations = append(citations, piiCitations(piiResult)...)
	citations = append(citations, safetyCitations(safetyResult)...)
	return citations
}

func piiCitations(result pii.Result) []classification.Citation {
	var citations []classification.Citation
	for _, d := range result.Detections {
		citations = append(citations, classification.Citation{
			PageNumber:     d.PageNumber,
			EvidenceType:   classification.EvidencePII,
			EvidenceText:   d.Context,
			Relevance:      fmt.Sprintf("PII detected: %s", d.Type),
			RelevanceScore: d.Confidence,
		})
	}
	return citations
}

func safetyCitations(result safety.Result) []classification.Citation {
	var citations []classification.Citation
	for _, f := range result.Flags {
		for _, m := range f.Matches {
			citations = append(citations, classification.Citation{
				PageNumber:     f.PageNumber,
				EvidenceType:   classification.EvidenceSafetyViolation,
				EvidenceText:   m.Context,
				Relevance:      fmt.Sprintf("Safety flag: %s", f.Description),
				RelevanceScore: f.Confidence,
			})
		}
	}
	return citations
}

func extractRunID(s state.State) (uuid.UUID, error) {
	val, ok := s.Get(KeyRunID)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing %s in state", ErrFinalizeFailed, KeyRunID)
	}

	runID, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s is not uuid.UUID", ErrFinalizeFailed, KeyRunID)
	}

	return runID, nil
}

func isBlocked(s state.State) bool {
	val, ok := s.Get(KeyBlocked)
	if !ok {
		return false
	}

	blocked, ok := val.(bool)
	return ok && blocked
}
