package prompt

import (
	"fmt"

	"github.com/adwatch/adscan/internal/domain/ai"
)

// Builder composes the classifier input. Pure construction: image bytes are
// passed through opaque, it is the classifier's job to reject bad ones.
type Builder struct{}

func NewBuilder() Builder { return Builder{} }

func (Builder) Build(adCopy string, image []byte, mediaType string) ai.Prompt {
	p := ai.Prompt{Text: userPrompt(adCopy)}
	if len(image) > 0 {
		p.ImageData = image
		p.ImageMediaType = mediaType
		if p.ImageMediaType == "" {
			p.ImageMediaType = "image/jpeg"
		}
	}
	return p
}

// userPrompt embeds the ad copy, the full policy reference, and the exact
// JSON output contract the extractor expects back.
func userPrompt(adCopy string) string {
	return fmt.Sprintf(`You are a Meta Ads compliance expert. Analyze this advertisement for policy violations.

AD COPY:
%s

META POLICIES TO CHECK AGAINST:
%s

Provide a detailed analysis in the following JSON format:
{
    "compliance_score": <0-100, where 100 is fully compliant>,
    "risk_level": "<LOW|MEDIUM|HIGH|CRITICAL>",
    "violations": [
        {
            "category": "<policy category>",
            "severity": "<LOW|MEDIUM|HIGH>",
            "issue": "<specific problem>",
            "text_snippet": "<the problematic text>",
            "policy_reference": "<which Meta policy this violates>"
        }
    ],
    "recommendations": [
        "<specific actionable fix>"
    ],
    "summary": "<brief overall assessment>"
}

Be thorough and specific. Flag even potential issues. If the ad is compliant, say so clearly.`, adCopy, Policies)
}
