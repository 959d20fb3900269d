// Package hitl implements the human-in-the-loop escalation rule engine.
// Rules are declarative data (condition text plus reason) supplied by
// configuration, so operators can add triggers without touching pipeline
// logic. Conditions are matched structurally against a fixed set of
// shapes rather than interpreted by an expression language.
package hitl

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docsentry/docsentry/internal/classification"
	"github.com/docsentry/docsentry/internal/pii"
	"github.com/docsentry/docsentry/internal/safety"
)

// Priority orders escalations for human review queues.
type Priority string

// Review priorities.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rule is one declarative escalation trigger.
type Rule struct {
	Condition string `yaml:"condition" json:"condition"`
	Reason    string `yaml:"reason" json:"reason"`
}

// Trigger records a rule that fired, with the observed value where the
// condition compared against one.
type Trigger struct {
	Condition string   `json:"condition"`
	Reason    string   `json:"reason"`
	Value     *float64 `json:"value,omitempty"`
}

// Decision is the escalation outcome for one classification run.
type Decision struct {
	RequiresReview bool      `json:"requires_hitl"`
	Triggers       []Trigger `json:"triggers"`
	Priority       Priority  `json:"priority"`
}

var thresholdPattern = regexp.MustCompile(`confidence_score\s*<\s*([0-9.]+)`)

// Evaluate checks every rule against the classification state and returns
// the escalation decision. Rules evaluate in order; every matching rule
// is appended. Independent of the supplied rules, an Unknown category
// always escalates: an unparseable model response must never pass
// unreviewed.
func Evaluate(
	result classification.Result,
	piiResult pii.Result,
	safetyResult safety.Result,
	rules []Rule,
) Decision {
	var triggers []Trigger

	for _, rule := range rules {
		if trigger, ok := evaluateRule(rule, result, piiResult, safetyResult); ok {
			triggers = append(triggers, trigger)
		}
	}

	if result.Category == classification.CategoryUnknown {
		triggers = append(triggers, Trigger{
			Condition: "category == unknown",
			Reason:    "Classification could not be determined and requires manual review",
		})
	}

	return Decision{
		RequiresReview: len(triggers) > 0,
		Triggers:       triggers,
		Priority:       priority(piiResult, safetyResult),
	}
}

func evaluateRule(
	rule Rule,
	result classification.Result,
	piiResult pii.Result,
	safetyResult safety.Result,
) (Trigger, bool) {
	condition := rule.Condition

	switch {
	case strings.Contains(condition, "confidence_score"):
		threshold, ok := parseThreshold(condition)
		if !ok {
			return Trigger{}, false
		}
		if result.Confidence < threshold {
			value := result.Confidence
			return Trigger{Condition: condition, Reason: rule.Reason, Value: &value}, true
		}

	case strings.Contains(condition, "pii_detected") && strings.Contains(condition, "public_indicators"):
		// Contradiction check: public documents should not contain PII.
		if piiResult.Detected && result.Category == classification.CategoryPublic {
			return Trigger{Condition: condition, Reason: rule.Reason}, true
		}

	case strings.Contains(condition, "safety_flags_present"):
		if !safetyResult.IsSafe {
			return Trigger{Condition: condition, Reason: rule.Reason}, true
		}
	}

	return Trigger{}, false
}

func parseThreshold(condition string) (float64, bool) {
	matches := thresholdPattern.FindStringSubmatch(condition)
	if len(matches) < 2 {
		return 0, false
	}

	threshold, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, false
	}

	return threshold, true
}

func priority(piiResult pii.Result, safetyResult safety.Result) Priority {
	if !safetyResult.IsSafe {
		return PriorityHigh
	}
	if piiResult.Detected {
		return PriorityMedium
	}
	return PriorityLow
}

// rulesFile is the on-disk shape of a rule list.
type rulesFile struct {
	Triggers []Rule `yaml:"triggers"`
}

// LoadRules reads a YAML rule list from path.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	return file.Triggers, nil
}

// DefaultRules returns the standard trigger set used when no rules file
// is configured.
func DefaultRules() []Rule {
	return []Rule{
		{
			Condition: "confidence_score < 0.7",
			Reason:    "Low confidence classification requires human verification",
		},
		{
			Condition: "pii_detected AND category == public_indicators",
			Reason:    "PII found in a document classified as Public",
		},
		{
			Condition: "safety_flags_present",
			Reason:    "Safety violations require human review",
		},
	}
}
