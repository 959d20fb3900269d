package pii_test

import (
	"strings"
	"testing"

	"github.com/docsentry/docsentry/internal/document"
	"github.com/docsentry/docsentry/internal/pii"
	"github.com/docsentry/docsentry/pkg/severity"
)

func TestDetectSSNWithContext(t *testing.T) {
	d := pii.New(pii.DefaultThreshold)

	result := d.Detect("Social Security: 123-45-6789", 1)

	if !result.Detected {
		t.Fatal("Detected = false, want true")
	}
	if len(result.Types) != 1 || result.Types[0] != pii.TypeSSN {
		t.Errorf("Types = %v, want [ssn]", result.Types)
	}
	if result.Severity != severity.High {
		t.Errorf("Severity = %s, want high", result.Severity)
	}

	det := result.Detections[0]
	if det.PageNumber != 1 {
		t.Errorf("PageNumber = %d, want 1", det.PageNumber)
	}
	if det.Confidence < 0.6 || det.Confidence > 1.0 {
		t.Errorf("Confidence = %.2f, want within [0.6, 1.0]", det.Confidence)
	}
}

func TestDetectRejectsInvalidSSN(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"all zeros", "SSN: 000-00-0000"},
		{"all ones", "SSN: 111-11-1111"},
		{"reserved 000 prefix", "SSN: 000-12-3456"},
		{"reserved 666 prefix", "SSN: 666-12-3456"},
	}

	d := pii.New(pii.DefaultThreshold)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := d.Detect(tt.text, 1)
			for _, det := range result.Detections {
				if det.Type == pii.TypeSSN {
					t.Errorf("accepted invalid SSN in %q", tt.text)
				}
			}
		})
	}
}

func TestValidLuhn(t *testing.T) {
	// 4111111111111111 is the canonical Luhn-valid test number.
	valid := "4111111111111111"
	if !pii.ValidLuhn(valid) {
		t.Fatalf("ValidLuhn(%s) = false, want true", valid)
	}

	// Mutating any single digit (to digit+1 mod 10) breaks the checksum.
	for i := 0; i < len(valid); i++ {
		mutated := []byte(valid)
		mutated[i] = byte('0' + (int(valid[i]-'0')+1)%10)
		if pii.ValidLuhn(string(mutated)) {
			t.Errorf("ValidLuhn(%s) = true after mutating digit %d, want false", mutated, i)
		}
	}
}

func TestDetectCreditCard(t *testing.T) {
	d := pii.New(pii.DefaultThreshold)

	t.Run("luhn-valid card accepted", func(t *testing.T) {
		result := d.Detect("Credit card number 4111111111111111 on file", 2)
		if !result.Detected {
			t.Fatal("Detected = false, want true")
		}
		if result.Types[0] != pii.TypeCreditCard {
			t.Errorf("Types = %v, want [credit_card]", result.Types)
		}
		if result.Severity != severity.High {
			t.Errorf("Severity = %s, want high", result.Severity)
		}
	})

	t.Run("luhn-invalid card rejected", func(t *testing.T) {
		result := d.Detect("Credit card number 4111111111111112 on file", 2)
		for _, det := range result.Detections {
			if det.Type == pii.TypeCreditCard {
				t.Error("accepted card failing Luhn checksum")
			}
		}
	})
}

func TestDetectEmail(t *testing.T) {
	d := pii.New(pii.DefaultThreshold)

	result := d.Detect("Reach the registrant at jane.doe@example.com for details", 1)

	if !result.Detected {
		t.Fatal("Detected = false, want true")
	}
	if result.Types[0] != pii.TypeEmail {
		t.Errorf("Types = %v, want [email]", result.Types)
	}
	if result.Severity != severity.Low {
		t.Errorf("Severity = %s, want low", result.Severity)
	}
}

func TestDetectEmptyText(t *testing.T) {
	d := pii.New(pii.DefaultThreshold)

	result := d.Detect("", 1)

	if result.Detected {
		t.Error("Detected = true for empty text")
	}
	if result.Severity != severity.None {
		t.Errorf("Severity = %s, want none", result.Severity)
	}
}

func TestConfidenceBounds(t *testing.T) {
	// Stacked context keywords must clamp, never exceed 1.0.
	d := pii.New(pii.DefaultThreshold)

	text := "social security ssn taxpayer id tin: 123-45-6789"
	result := d.Detect(text, 1)

	if !result.Detected {
		t.Fatal("Detected = false, want true")
	}
	for _, det := range result.Detections {
		if det.Confidence < 0.6 || det.Confidence > 1.0 {
			t.Errorf("Confidence = %.2f, want within [0.6, 1.0]", det.Confidence)
		}
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"short value fully masked", "1234", "***"},
		{"single char", "x", "***"},
		{"standard value", "123-45-6789", "12*******89"},
		{"five chars", "12345", "12*45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pii.Redact(tt.value); got != tt.want {
				t.Errorf("Redact(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestRedactIdempotent(t *testing.T) {
	once := pii.Redact("123-45-6789")
	twice := pii.Redact(once)

	if len(twice) != len(once) {
		t.Errorf("second redaction changed length: %q -> %q", once, twice)
	}
	if twice[:2] != once[:2] || twice[len(twice)-2:] != once[len(once)-2:] {
		t.Errorf("second redaction changed edges: %q -> %q", once, twice)
	}
	if strings.Trim(twice[2:len(twice)-2], "*") != "" {
		t.Errorf("interior not fully masked after second pass: %q", twice)
	}
}

func TestDetectionOutputRedacted(t *testing.T) {
	d := pii.New(pii.DefaultThreshold)

	raw := "123-45-6789"
	result := d.Detect("Social Security: "+raw+" appears here", 1)

	if !result.Detected {
		t.Fatal("Detected = false, want true")
	}
	for _, det := range result.Detections {
		if strings.Contains(det.Value, raw) {
			t.Errorf("Value retains raw identifier: %q", det.Value)
		}
		if strings.Contains(det.Context, raw) {
			t.Errorf("Context retains raw identifier: %q", det.Context)
		}
	}
}

func TestDetectPages(t *testing.T) {
	d := pii.New(pii.DefaultThreshold)

	pages := []document.Page{
		{PageNumber: 1, Text: "Social Security: 123-45-6789"},
		{PageNumber: 2, Text: ""},
		{PageNumber: 3, Text: "Contact alice@example.org for records"},
	}

	result := d.DetectPages(pages)

	if !result.Detected {
		t.Fatal("Detected = false, want true")
	}
	if len(result.Types) != 2 {
		t.Fatalf("Types = %v, want ssn and email", result.Types)
	}
	if result.Detections[0].PageNumber != 1 || result.Detections[len(result.Detections)-1].PageNumber != 3 {
		t.Errorf("detections out of page order: %+v", result.Detections)
	}
	if result.Severity != severity.High {
		t.Errorf("Severity = %s, want high (ssn present)", result.Severity)
	}
}

func TestSeverityMonotonic(t *testing.T) {
	d := pii.New(pii.DefaultThreshold)

	emailOnly := d.DetectPages([]document.Page{
		{PageNumber: 1, Text: "mail bob@example.com"},
	})
	withSSN := d.DetectPages([]document.Page{
		{PageNumber: 1, Text: "mail bob@example.com"},
		{PageNumber: 2, Text: "Social Security: 123-45-6789"},
	})

	if severity.Rank(withSSN.Severity) < severity.Rank(emailOnly.Severity) {
		t.Errorf("severity decreased from %s to %s after adding a detection",
			emailOnly.Severity, withSSN.Severity)
	}
}

func TestSummary(t *testing.T) {
	d := pii.New(pii.DefaultThreshold)

	empty := d.Detect("", 1)
	if empty.Summary() != "No PII detected" {
		t.Errorf("Summary = %q, want no-PII message", empty.Summary())
	}

	found := d.Detect("Social Security: 123-45-6789", 1)
	if !strings.Contains(found.Summary(), "ssn") {
		t.Errorf("Summary = %q, want mention of ssn", found.Summary())
	}
}
