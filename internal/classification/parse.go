package classification

import "github.com/docsentry/docsentry/pkg/formatting"

// rawResult mirrors the JSON shape the classification prompt requests
// from the model.
type rawResult struct {
	Category   string     `json:"category"`
	Confidence float64    `json:"confidence"`
	Reasoning  string     `json:"reasoning"`
	Summary    string     `json:"summary"`
	Citations  []Citation `json:"citations"`
}

// ParseResponse converts raw model output into a Result. Structured JSON
// is extracted via formatting.Parse (direct, fenced, or embedded object).
// When no stage yields valid JSON, the fallback result carries the
// Unknown category at confidence 0.5 with the raw text preserved as
// reasoning. ParseResponse never fails: noncompliant model output is the
// expected case it defends against.
func ParseResponse(raw string) Result {
	parsed, err := formatting.Parse[rawResult](raw)
	if err != nil {
		return Result{
			Category:   CategoryUnknown,
			Confidence: 0.5,
			Reasoning:  raw,
			Summary:    "Could not parse structured response",
		}
	}

	return Result{
		Category:   ParseCategory(parsed.Category),
		Confidence: clamp(parsed.Confidence),
		Reasoning:  parsed.Reasoning,
		Summary:    parsed.Summary,
		Citations:  clampCitations(parsed.Citations),
	}
}

func clampCitations(citations []Citation) []Citation {
	for i := range citations {
		citations[i].RelevanceScore = clamp(citations[i].RelevanceScore)
	}
	return citations
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
