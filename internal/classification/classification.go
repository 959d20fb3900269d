// Package classification defines the classification result model shared
// by the pipeline, the HITL rule engine, and the prompt builders: the
// closed category set, citations, verification outcomes, and parsing of
// raw model output into structured results.
package classification

// Category is a document sensitivity classification.
type Category string

// Valid classification categories. Unknown is the sentinel assigned when
// model output cannot be parsed; it is never a trusted terminal value and
// always escalates to human review.
const (
	CategoryPublic          Category = "Public"
	CategoryConfidential    Category = "Confidential"
	CategoryHighlySensitive Category = "Highly Sensitive"
	CategoryUnsafe          Category = "Unsafe"
	CategoryUnknown         Category = "Unknown"
)

var categories = []Category{
	CategoryPublic,
	CategoryConfidential,
	CategoryHighlySensitive,
	CategoryUnsafe,
}

// Categories returns the assignable classification categories, excluding
// the Unknown sentinel.
func Categories() []Category {
	return categories
}

// ParseCategory maps a raw category string onto the closed set. Anything
// unrecognized degrades to Unknown rather than failing.
func ParseCategory(raw string) Category {
	for _, c := range categories {
		if raw == string(c) {
			return c
		}
	}
	return CategoryUnknown
}

// Citation is one piece of evidence supporting a classification.
type Citation struct {
	PageNumber     int     `json:"page_number"`
	EvidenceType   string  `json:"evidence_type"`
	EvidenceText   string  `json:"evidence_text"`
	Relevance      string  `json:"relevance"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Evidence types attached to citations.
const (
	EvidenceText            = "text"
	EvidencePII             = "pii"
	EvidenceSafetyViolation = "safety_violation"
)

// Verification records the outcome of dual-model cross-verification.
type Verification struct {
	Verified        bool    `json:"verified"`
	AgreementScore  float64 `json:"agreement_score"`
	SecondaryResult *Result `json:"secondary_result,omitempty"`
}

// Result is a structured classification produced from model output.
type Result struct {
	Category     Category      `json:"category"`
	Confidence   float64       `json:"confidence"`
	Reasoning    string        `json:"reasoning"`
	Summary      string        `json:"summary"`
	Citations    []Citation    `json:"citations,omitempty"`
	Verification *Verification `json:"verification,omitempty"`
}

// Agreement scores how closely two classifications concur: category
// equality carries 70% of the weight, confidence similarity the
// remaining 30%. Identical results score exactly 1.0.
func Agreement(primary, secondary Result) float64 {
	categoryMatch := 0.0
	if primary.Category == secondary.Category {
		categoryMatch = 1.0
	}

	diff := primary.Confidence - secondary.Confidence
	if diff < 0 {
		diff = -diff
	}

	return categoryMatch*0.7 + (1.0-diff)*0.3
}
