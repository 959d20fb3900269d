package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/docsentry/docsentry/internal/classification"
	"github.com/docsentry/docsentry/internal/document"
	"github.com/docsentry/docsentry/internal/hitl"
	"github.com/docsentry/docsentry/internal/pii"
	"github.com/docsentry/docsentry/internal/safety"
)

const (
	KeyRunID   = "run_id"
	KeyContent = "document_content"
	KeyPII     = "pii_result"
	KeySafety  = "safety_result"
	KeyBlocked = "blocked"
	KeyPrimary = "primary_result"
	KeyOutcome = "outcome"
)

// Status is the terminal state of a pipeline run.
type Status string

// Run statuses. A blocked run never invoked a model; a failed run hit an
// unexpected error and carries an error message instead of a result.
const (
	StatusCompleted Status = "completed"
	StatusBlocked   Status = "blocked"
	StatusFailed    Status = "failed"
)

// Outcome is the final output of a classification pipeline run.
type Outcome struct {
	RunID        uuid.UUID                    `json:"run_id"`
	Status       Status                       `json:"status"`
	Category     classification.Category      `json:"category,omitempty"`
	Confidence   float64                      `json:"confidence,omitempty"`
	Reasoning    string                       `json:"reasoning,omitempty"`
	Summary      string                       `json:"summary,omitempty"`
	Citations    []classification.Citation    `json:"citations,omitempty"`
	Verification *classification.Verification `json:"verification,omitempty"`
	PII          *pii.Result                  `json:"pii_analysis,omitempty"`
	Safety       *safety.Result               `json:"safety_analysis,omitempty"`
	HITL         *hitl.Decision               `json:"hitl,omitempty"`
	Metadata     document.Metadata            `json:"document_metadata"`
	Error        string                       `json:"error,omitempty"`
	CompletedAt  time.Time                    `json:"completed_at"`
}
