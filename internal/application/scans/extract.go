package scans

import (
	"encoding/json"
	"strings"

	domain "github.com/adwatch/adscan/internal/domain/scans"
)

// Extract parses the classifier's free-form reply into an Analysis. It always
// returns a usable Analysis: when the reply cannot be parsed the degraded
// fallback is returned instead, and the error only reports what went wrong so
// the caller can audit it. Model output drifts between raw JSON, JSON wrapped
// in prose, and fenced markdown; all three are accepted.
func Extract(raw string) (domain.Analysis, error) {
	candidate := candidateJSON(raw)

	var a domain.Analysis
	if err := json.Unmarshal([]byte(candidate), &a); err != nil {
		return domain.DegradedAnalysis("could not parse classifier response: " + err.Error()), err
	}
	if a.RiskLevel == "" {
		return domain.DegradedAnalysis("classifier response is missing required fields"), errMissingFields
	}
	// Parsed values pass through unchanged: no score clamping, no enum
	// re-validation. The classifier is trusted for content, not for shape.
	return a, nil
}

var errMissingFields = jsonShapeError("classifier response is missing required fields")

type jsonShapeError string

func (e jsonShapeError) Error() string { return string(e) }

// candidateJSON locates the JSON payload inside the raw reply: a ```json
// fenced block first, then the widest {...} span, then the text verbatim.
func candidateJSON(raw string) string {
	if i := strings.Index(raw, "```json"); i >= 0 {
		rest := raw[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
	}
	if i := strings.Index(raw, "{"); i >= 0 {
		if j := strings.LastIndex(raw, "}"); j > i {
			return raw[i : j+1]
		}
	}
	return raw
}
