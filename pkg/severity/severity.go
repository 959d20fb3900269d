// Package severity defines the shared severity scale used by the PII and
// content safety detectors. Severities form a fixed ordering so aggregate
// results can be folded to the maximum across heterogeneous flag sets.
package severity

// Severity is a categorical risk level attached to detector findings.
type Severity string

// Severity levels, lowest to highest.
const (
	None     Severity = "none"
	Low      Severity = "low"
	Medium   Severity = "medium"
	High     Severity = "high"
	Critical Severity = "critical"
)

var ranks = map[Severity]int{
	None:     0,
	Low:      1,
	Medium:   2,
	High:     3,
	Critical: 4,
}

// Rank returns the numeric position of s in the severity ordering.
// Unrecognized values rank as None.
func Rank(s Severity) int {
	return ranks[s]
}

// Max returns the highest severity among the given values, or None when
// the list is empty.
func Max(values ...Severity) Severity {
	result := None
	for _, v := range values {
		if Rank(v) > Rank(result) {
			result = v
		}
	}
	return result
}
