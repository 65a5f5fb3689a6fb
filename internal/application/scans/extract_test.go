package scans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/adwatch/adscan/internal/domain/scans"
)

const goodPayload = `{
	"compliance_score": 35,
	"risk_level": "HIGH",
	"violations": [{
		"category": "Health & Weight Loss",
		"severity": "HIGH",
		"issue": "Guaranteed weight loss claim",
		"text_snippet": "Lose 30 pounds in 2 weeks",
		"policy_reference": "Health & Weight Loss"
	}],
	"recommendations": ["Remove the time-bound weight loss guarantee"],
	"summary": "High risk ad"
}`

func TestExtractFencedBlock(t *testing.T) {
	raw := "Here is my analysis:\n```json\n" + goodPayload + "\n```\nLet me know if you need more."

	a, err := Extract(raw)
	require.NoError(t, err)
	assert.Equal(t, float64(35), a.ComplianceScore)
	assert.Equal(t, domain.RiskHigh, a.RiskLevel)
	require.Len(t, a.Violations, 1)
	assert.Equal(t, "Lose 30 pounds in 2 weeks", a.Violations[0].TextSnippet)
	assert.Equal(t, []string{"Remove the time-bound weight loss guarantee"}, a.Recommendations)
	assert.Equal(t, "High risk ad", a.Summary)
}

func TestExtractBraceSpanInsideProse(t *testing.T) {
	raw := "Sure! The result is " + goodPayload + " — hope that helps."

	a, err := Extract(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskHigh, a.RiskLevel)
}

func TestExtractBareJSON(t *testing.T) {
	a, err := Extract(goodPayload)
	require.NoError(t, err)
	assert.Equal(t, float64(35), a.ComplianceScore)
}

func TestExtractGarbageDegrades(t *testing.T) {
	a, err := Extract("I am sorry, I cannot help with that.")
	require.Error(t, err)

	assert.Equal(t, float64(50), a.ComplianceScore)
	assert.Equal(t, domain.RiskMedium, a.RiskLevel)
	require.Len(t, a.Violations, 1)
	assert.Equal(t, "Analysis Error", a.Violations[0].Category)
	assert.Equal(t, "System Error", a.Violations[0].PolicyReference)
	assert.Equal(t, []string{"Please try again or contact support"}, a.Recommendations)
}

func TestExtractMissingFieldsDegrades(t *testing.T) {
	a, err := Extract(`{"compliance_score": 80}`)
	require.Error(t, err)
	assert.Equal(t, domain.RiskMedium, a.RiskLevel)
	require.Len(t, a.Violations, 1)
	assert.Equal(t, "Analysis Error", a.Violations[0].Category)
}

func TestExtractWrongTypesDegrades(t *testing.T) {
	a, err := Extract(`{"compliance_score": "very good", "risk_level": "LOW"}`)
	require.Error(t, err)
	assert.Equal(t, domain.RiskMedium, a.RiskLevel)
}

// Out-of-range scores and unknown levels pass through untouched: the
// extractor does damage control on shape, it does not second-guess content.
func TestExtractLenientPassthrough(t *testing.T) {
	a, err := Extract(`{"compliance_score": 150, "risk_level": "VERY_BAD"}`)
	require.NoError(t, err)
	assert.Equal(t, float64(150), a.ComplianceScore)
	assert.Equal(t, domain.RiskLevel("VERY_BAD"), a.RiskLevel)
}

func TestExtractUnclosedFenceFallsBackToBraces(t *testing.T) {
	raw := "```json\n" + goodPayload
	a, err := Extract(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskHigh, a.RiskLevel)
}
