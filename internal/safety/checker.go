package safety

import (
	"regexp"
	"strings"

	"github.com/docsentry/docsentry/internal/document"
	"github.com/docsentry/docsentry/pkg/severity"
)

// contextRadius is the number of characters captured on each side of a
// keyword match when building its context snippet.
const contextRadius = 50

// DefaultThreshold is the minimum confidence a category must reach to
// be flagged.
const DefaultThreshold = 0.5

// Base confidences: keyword presence scores 0.8, reduced to 0.4 when a
// safe-context indicator appears anywhere on the page. The reduction is
// applied before the threshold test.
const (
	baseConfidence        = 0.8
	safeContextConfidence = 0.4
)

type categoryConfig struct {
	category    Category
	keywords    []string
	severity    severity.Severity
	description string
}

// categoryTable is the fixed set of screened categories. Order is fixed
// so flags within a page are deterministic.
var categoryTable = []categoryConfig{
	{
		category: CategoryChildSafety,
		keywords: []string{
			"child abuse", "child exploitation", "minor", "underage",
			"csam", "child pornography",
		},
		severity:    severity.Critical,
		description: "Content that may violate child safety",
	},
	{
		category: CategoryHateSpeech,
		keywords: []string{
			"hate speech", "racial slur", "discriminatory",
			"racist", "sexist", "homophobic", "xenophobic",
		},
		severity:    severity.High,
		description: "Hate speech or discriminatory content",
	},
	{
		category: CategoryViolence,
		keywords: []string{
			"graphic violence", "gore", "torture", "brutal",
			"violent death", "mass shooting", "terrorism",
			"weapon schematic", "bomb making",
		},
		severity:    severity.High,
		description: "Violent or graphic content",
	},
	{
		category: CategoryExploitative,
		keywords: []string{
			"human trafficking", "exploitation", "forced labor",
			"sexual exploitation", "coercion",
		},
		severity:    severity.High,
		description: "Exploitative content",
	},
	{
		category: CategoryCriminal,
		keywords: []string{
			"how to make drugs", "illegal weapons", "fraud scheme",
			"money laundering", "identity theft", "hacking tutorial",
			"break into", "illegal activities",
		},
		severity:    severity.Medium,
		description: "Criminal activity instructions",
	},
	{
		category: CategoryCyberThreat,
		keywords: []string{
			"malware", "ransomware", "exploit code", "zero-day",
			"cyber attack", "ddos", "botnet", "trojan",
			"backdoor", "sql injection", "xss attack",
		},
		severity:    severity.Medium,
		description: "Cyber threat content",
	},
	{
		category: CategoryPoliticalMisinfo,
		keywords: []string{
			"election fraud", "conspiracy", "fake news",
			"propaganda", "disinformation campaign",
		},
		severity:    severity.Low,
		description: "Political misinformation",
	},
}

// safeContexts are indicators that the surrounding material discusses the
// topic legitimately (training, journalism, research).
var safeContexts = []string{
	"education", "awareness", "prevention", "training",
	"security research", "academic", "news report",
}

// keywordPatterns holds a word-boundary pattern per keyword, compiled once.
var keywordPatterns = buildKeywordPatterns()

func buildKeywordPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	for _, cfg := range categoryTable {
		for _, keyword := range cfg.keywords {
			if _, ok := patterns[keyword]; !ok {
				patterns[keyword] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
			}
		}
	}
	return patterns
}

// Checker screens page text against the category table. The zero value
// is not usable; construct with New.
type Checker struct {
	threshold float64
}

// New returns a Checker that flags categories scoring at or above
// threshold. Non-positive thresholds fall back to DefaultThreshold.
func New(threshold float64) *Checker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Checker{threshold: threshold}
}

// Check screens a single page's text. Empty text yields a safe result.
func (c *Checker) Check(text string, pageNumber int) Result {
	result := Result{
		IsSafe:          true,
		OverallSeverity: severity.None,
	}

	if text == "" {
		return result
	}

	textLower := strings.ToLower(text)
	safeContext := inSafeContext(textLower)

	var flags []Flag

	for _, cfg := range categoryTable {
		matches := findMatches(text, cfg.keywords)
		if len(matches) == 0 {
			continue
		}

		confidence := baseConfidence
		if safeContext {
			confidence = safeContextConfidence
		}

		if confidence < c.threshold {
			continue
		}

		flags = append(flags, Flag{
			Category:    cfg.category,
			Severity:    cfg.severity,
			Description: cfg.description,
			Matches:     matches,
			PageNumber:  pageNumber,
			Confidence:  confidence,
			SafeContext: safeContext,
		})
	}

	if len(flags) > 0 {
		result.IsSafe = false
		result.TotalFlags = len(flags)
		result.Flags = flags
		result.OverallSeverity = overallSeverity(flags)
		result.RequiresReview = true
		result.CategoriesFlagged = distinctCategories(flags)
	}

	return result
}

// CheckPages folds per-page results across the whole document: flags
// concatenated in page order, overall severity as the maximum across all
// flags, categories deduplicated.
func (c *Checker) CheckPages(pages []document.Page) Result {
	var flags []Flag

	for _, page := range pages {
		if page.Text == "" {
			continue
		}

		pageResult := c.Check(page.Text, page.PageNumber)
		if !pageResult.IsSafe {
			flags = append(flags, pageResult.Flags...)
		}
	}

	return Result{
		IsSafe:            len(flags) == 0,
		TotalFlags:        len(flags),
		Flags:             flags,
		OverallSeverity:   overallSeverity(flags),
		RequiresReview:    len(flags) > 0,
		CategoriesFlagged: distinctCategories(flags),
	}
}

func findMatches(text string, keywords []string) []Match {
	var matches []Match

	for _, keyword := range keywords {
		pattern := keywordPatterns[keyword]
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			matches = append(matches, Match{
				Keyword:  keyword,
				Context:  strings.TrimSpace(contextWindow(text, loc[0], loc[1])),
				Position: loc[0],
			})
		}
	}

	return matches
}

func inSafeContext(textLower string) bool {
	for _, ctx := range safeContexts {
		if strings.Contains(textLower, ctx) {
			return true
		}
	}
	return false
}

func distinctCategories(flags []Flag) []Category {
	var categories []Category
	seen := make(map[Category]bool)
	for _, f := range flags {
		if !seen[f.Category] {
			seen[f.Category] = true
			categories = append(categories, f.Category)
		}
	}
	return categories
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
