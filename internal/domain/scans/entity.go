package scans

import (
	"time"
)

// ID type for a persisted scan, assigned by the store
type ScanID int64

// AnonymousUser is recorded when the caller does not identify itself.
const AnonymousUser = "anonymous"

// RiskLevel enum
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Severity enum for a single violation
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Violation is one flagged policy issue within an analysis
type Violation struct {
	Category        string   `json:"category"`
	Severity        Severity `json:"severity"`
	Issue           string   `json:"issue"`
	TextSnippet     string   `json:"text_snippet"`
	PolicyReference string   `json:"policy_reference"`
}

// Analysis is the canonical parsed classifier output
type Analysis struct {
	ComplianceScore float64     `json:"compliance_score"`
	RiskLevel       RiskLevel   `json:"risk_level"`
	Violations      []Violation `json:"violations"`
	Recommendations []string    `json:"recommendations"`
	Summary         string      `json:"summary,omitempty"`
}

// DegradedAnalysis is the fixed fallback produced when the classifier call
// or the parsing of its reply fails. The scan still completes with this
// well-formed shape instead of erroring out.
func DegradedAnalysis(issue string) Analysis {
	return Analysis{
		ComplianceScore: 50,
		RiskLevel:       RiskMedium,
		Violations: []Violation{{
			Category:        "Analysis Error",
			Severity:        SeverityMedium,
			Issue:           issue,
			TextSnippet:     "",
			PolicyReference: "System Error",
		}},
		Recommendations: []string{"Please try again or contact support"},
		Summary:         "Analysis could not be completed due to technical error",
	}
}

// Aggregate Root: Scan. Immutable once created.
type Scan struct {
	ID        ScanID `json:"scan_id"`
	UserID    string `json:"user_id"`
	AdCopy    string `json:"ad_copy"`
	ImageName string `json:"image_name,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	Analysis
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry is the per-user listing summary of a scan
type HistoryEntry struct {
	ScanID          ScanID    `json:"scan_id"`
	ComplianceScore float64   `json:"compliance_score"`
	RiskLevel       RiskLevel `json:"risk_level"`
	CreatedAt       time.Time `json:"created_at"`
	AdCopyPreview   string    `json:"ad_copy_preview"`
}

const previewLen = 100

// PreviewAdCopy truncates ad copy for history listings. The marker is only
// appended when something was actually cut.
func PreviewAdCopy(adCopy string) string {
	runes := []rune(adCopy)
	if len(runes) <= previewLen {
		return adCopy
	}
	return string(runes[:previewLen]) + "..."
}
