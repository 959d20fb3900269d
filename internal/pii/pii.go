// Package pii implements detection of personally identifiable information
// in extracted document text. Candidates found by pattern matching are
// validated with context keywords and structural checks before they are
// accepted, and every stored value is redacted so raw identifiers never
// leave the detector.
package pii

import (
	"fmt"
	"strings"

	"github.com/docsentry/docsentry/pkg/severity"
)

// Type identifies a category of personally identifiable information.
type Type string

// Recognized PII types.
const (
	TypeSSN            Type = "ssn"
	TypeCreditCard     Type = "credit_card"
	TypeEmail          Type = "email"
	TypePhone          Type = "phone"
	TypeAccountNumber  Type = "account_number"
	TypeDriversLicense Type = "drivers_license"
	TypePassport       Type = "passport"
	TypeDateOfBirth    Type = "date_of_birth"
)

// highRiskTypes drive the severity calculation: a single detection of any
// of these raises the aggregate severity to high.
var highRiskTypes = map[Type]bool{
	TypeSSN:           true,
	TypeCreditCard:    true,
	TypeAccountNumber: true,
	TypePassport:      true,
}

// Detection is a single accepted PII match. Value and Context hold the
// redacted forms only.
type Detection struct {
	Type       Type    `json:"type"`
	Value      string  `json:"value"`
	Context    string  `json:"context"`
	Position   int     `json:"position"`
	PageNumber int     `json:"page_number"`
	Confidence float64 `json:"confidence"`
}

// Result aggregates all accepted detections for a document or page.
type Result struct {
	Detected   bool              `json:"pii_detected"`
	Types      []Type            `json:"pii_types"`
	Detections []Detection       `json:"detections"`
	Severity   severity.Severity `json:"severity"`
}

// Summary returns a human-readable description of the result.
func (r *Result) Summary() string {
	if !r.Detected {
		return "No PII detected"
	}

	types := make([]string, len(r.Types))
	for i, t := range r.Types {
		types[i] = string(t)
	}

	return fmt.Sprintf(
		"Detected %d PII instances | Types: %s | Severity: %s",
		len(r.Detections), strings.Join(types, ", "), r.Severity,
	)
}

// calculateSeverity folds detections into an aggregate severity:
// high when any high-risk type is present, medium when the volume of
// detections exceeds five, low when anything was found at all.
func calculateSeverity(detections []Detection) severity.Severity {
	if len(detections) == 0 {
		return severity.None
	}

	for _, d := range detections {
		if highRiskTypes[d.Type] {
			return severity.High
		}
	}

	if len(detections) > 5 {
		return severity.Medium
	}

	return severity.Low
}
