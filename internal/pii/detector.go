package pii

import (
	"regexp"
	"strings"

	"github.com/docsentry/docsentry/internal/document"
	"github.com/docsentry/docsentry/pkg/severity"
)

// contextRadius is the number of characters captured on each side of a
// match when building its context window.
const contextRadius = 50

// DefaultThreshold is the minimum confidence a candidate must reach to
// be accepted as a detection.
const DefaultThreshold = 0.6

// typePatterns pairs a PII type with its match patterns. Order is fixed
// so detections within a page are deterministic.
type typePatterns struct {
	piiType  Type
	patterns []*regexp.Regexp
}

var patternTable = []typePatterns{
	{TypeSSN, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b\d{3}-\d{2}-\d{4}\b`),
		regexp.MustCompile(`(?i)\b\d{3}\s\d{2}\s\d{4}\b`),
		regexp.MustCompile(`(?i)\b\d{9}\b`),
	}},
	{TypeCreditCard, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:4[0-9]{12}(?:[0-9]{3})?|5[1-5][0-9]{14}|3[47][0-9]{13}|3(?:0[0-5]|[68][0-9])[0-9]{11}|6(?:011|5[0-9]{2})[0-9]{12}|(?:2131|1800|35\d{3})\d{11})\b`),
	}},
	{TypeEmail, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	}},
	{TypePhone, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:\+?1[-.]?)?\(?[0-9]{3}\)?[-.]?[0-9]{3}[-.]?[0-9]{4}\b`),
	}},
	{TypeAccountNumber, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\baccount\s*[#:]?\s*\d{8,17}\b`),
		regexp.MustCompile(`(?i)\bacc?t\.?\s*[#:]?\s*\d{8,17}\b`),
	}},
	{TypeDriversLicense, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b[A-Z]{1,2}\d{6,8}\b`),
	}},
	{TypePassport, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b[A-Z]{1,2}[0-9]{6,9}\b`),
	}},
	{TypeDateOfBirth, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:DOB|Date of Birth|Birth Date)[:\s]+\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}[/-]\d{1,2}[/-]\d{4}\b`),
	}},
}

// contextKeywords raise candidate confidence when they appear inside the
// context window of a match of the corresponding type.
var contextKeywords = map[Type][]string{
	TypeSSN:           {"social security", "ssn", "taxpayer id", "tin"},
	TypeCreditCard:    {"card number", "credit card", "debit card", "payment"},
	TypeAccountNumber: {"account", "bank", "routing"},
}

var nonDigit = regexp.MustCompile(`\D`)

// Detector scans page text for PII candidates and validates them against
// the configured confidence threshold. The zero value is not usable;
// construct with New.
type Detector struct {
	threshold float64
}

// New returns a Detector that accepts candidates scoring at or above
// threshold. Non-positive thresholds fall back to DefaultThreshold.
func New(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{threshold: threshold}
}

// Detect scans a single page's text. Empty text yields an empty result.
func (d *Detector) Detect(text string, pageNumber int) Result {
	result := Result{Severity: severity.None}

	if text == "" {
		return result
	}

	var detections []Detection
	var types []Type

	for _, tp := range patternTable {
		for _, pattern := range tp.patterns {
			for _, loc := range pattern.FindAllStringIndex(text, -1) {
				value := text[loc[0]:loc[1]]
				context := contextWindow(text, loc[0], loc[1])

				confidence, ok := d.validate(tp.piiType, value, context)
				if !ok {
					continue
				}

				detections = append(detections, Detection{
					Type:       tp.piiType,
					Value:      Redact(value),
					Context:    redactContext(context, value),
					Position:   loc[0],
					PageNumber: pageNumber,
					Confidence: confidence,
				})

				if !containsType(types, tp.piiType) {
					types = append(types, tp.piiType)
				}
			}
		}
	}

	if len(detections) > 0 {
		result.Detected = true
		result.Types = types
		result.Detections = detections
		result.Severity = calculateSeverity(detections)
	}

	return result
}

// DetectPages folds per-page results across the whole document: union of
// types, detections concatenated in page order then match order, severity
// recomputed over the full set.
func (d *Detector) DetectPages(pages []document.Page) Result {
	var detections []Detection
	var types []Type

	for _, page := range pages {
		if page.Text == "" {
			continue
		}

		pageResult := d.Detect(page.Text, page.PageNumber)
		if !pageResult.Detected {
			continue
		}

		detections = append(detections, pageResult.Detections...)
		for _, t := range pageResult.Types {
			if !containsType(types, t) {
				types = append(types, t)
			}
		}
	}

	return Result{
		Detected:   len(detections) > 0,
		Types:      types,
		Detections: detections,
		Severity:   calculateSeverity(detections),
	}
}

// validate scores a candidate. Base confidence is 0.5, each type-specific
// context keyword found in the window adds 0.2, and structural validation
// adds up to 0.3 more. Structural failures for SSN and credit card reject
// the candidate outright.
func (d *Detector) validate(piiType Type, value, context string) (float64, bool) {
	confidence := 0.5
	contextLower := strings.ToLower(context)

	for _, keyword := range contextKeywords[piiType] {
		if strings.Contains(contextLower, keyword) {
			confidence += 0.2
		}
	}

	switch piiType {
	case TypeSSN:
		if !ValidSSN(value) {
			return 0, false
		}
		confidence += 0.3
	case TypeCreditCard:
		if !ValidLuhn(value) {
			return 0, false
		}
		confidence += 0.3
	case TypeEmail:
		if validEmail(value) {
			confidence += 0.2
		}
	}

	if confidence > 1.0 {
		confidence = 1.0
	}

	return confidence, confidence >= d.threshold
}

// ValidSSN reports whether value contains exactly nine digits and avoids
// the reserved patterns: all zeros, all ones, and the 000/666 area prefixes.
func ValidSSN(value string) bool {
	digits := nonDigit.ReplaceAllString(value, "")

	if len(digits) != 9 {
		return false
	}

	if digits == "000000000" || digits == "111111111" {
		return false
	}

	prefix := digits[:3]
	return prefix != "000" && prefix != "666"
}

// ValidLuhn reports whether the digits in value satisfy the Luhn checksum.
func ValidLuhn(value string) bool {
	digits := nonDigit.ReplaceAllString(value, "")
	if digits == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		n := int(digits[i] - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}

	return sum%10 == 0
}

func validEmail(value string) bool {
	at := strings.Index(value, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(value[at+1:], ".")
}

// Redact masks a value for display: values of four characters or fewer
// become "***", longer values keep only the first and last two characters.
func Redact(value string) string {
	if len(value) <= 4 {
		return "***"
	}
	return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
}

func redactContext(context, value string) string {
	return strings.ReplaceAll(context, value, Redact(value))
}

func contextWindow(text string, start, end int) string {
	from := start - contextRadius
	if from < 0 {
		from = 0
	}
	to := end + contextRadius
	if to > len(text) {
		to = len(text)
	}
	return text[from:to]
}

func containsType(types []Type, t Type) bool {
	for _, existing := range types {
		if existing == t {
			return true
		}
	}
	return false
}
