package prompt

// PolicyVersion identifies the revision of the embedded rule set.
const PolicyVersion = "2025-08"

// Policies is the static natural-language rule set handed to the classifier
// as grounding context. Compliance judgment stays in the model; these rules
// are reference text, not code-evaluated logic.
const Policies = `
META ADVERTISING POLICIES - COMPREHENSIVE RULES:

PROHIBITED CONTENT:
1. Illegal Products or Services
2. Discriminatory Practices (targeting based on personal attributes)
3. Tobacco and Related Products
4. Drugs & Drug-Related Products
5. Unsafe Supplements (anabolic steroids, chitosan, ephedra, HCG)
6. Weapons, Ammunition, Explosives
7. Adult Products and Services
8. Adult Content (nudity, sexual content)
9. Third-Party Infringement (copyright, trademark violations)
10. Sensational Content (gore, violence, shocking imagery)
11. Personal Attributes (cannot assert or imply personal attributes)
12. Misinformation and False News
13. Controversial Content (exploiting crises, political issues)

RESTRICTED CONTENT (Requires Special Authorization):
1. Alcohol - Must comply with local laws, age restrictions
2. Dating Services - Cannot be sexually suggestive
3. Real Money Gambling - Requires written permission
4. State Lotteries - Requires written permission
5. Online Pharmacies - Requires LegitScript certification
6. Supplements - Cannot make drug-like claims
7. Subscription Services - Must clearly disclose terms
8. Financial Services - Must show legal disclosures
9. Credit Services - Comply with regulations
10. Employment Opportunities - Cannot contain misleading info
11. Housing - Cannot discriminate

BEFORE/AFTER IMAGES:
- Before and after images are generally NOT allowed
- Cannot show unexpected or unlikely results
- Cannot imply time-based results without substantiation

HEALTH & WEIGHT LOSS:
- Cannot claim to cure, treat, or prevent diseases
- Cannot use "magic pill" or "miracle cure" language
- Cannot show unrealistic body transformations
- Cannot target based on health conditions
- Avoid words: cure, treat, diagnose, prevent, FDA-approved (unless true)

FINANCIAL CLAIMS:
- Cannot guarantee financial results
- Must include risk disclosures for investments
- Cannot promise "get rich quick"
- Avoid: "guaranteed returns", "risk-free", "easy money"

PERSONAL ATTRIBUTES:
- Cannot say "Are you overweight?" or "Losing your hair?"
- Cannot directly address personal characteristics
- Cannot imply you know something about the viewer

SENSATIONAL/CLICKBAIT:
- Cannot use shocking or sensational imagery
- Cannot use exaggerated claims
- Cannot withhold information to force clicks
- Avoid ALL CAPS in headlines excessively

IMAGE REQUIREMENTS:
- Text in images should be minimal (avoid more than 20% text)
- No graphic violence or blood
- No sexually suggestive content
- No shocking or disgusting imagery
- High quality, not pixelated
- Cannot show non-functional landing pages

PROHIBITED WORDS/PHRASES:
- "FREE" without clear terms
- "Limited time" without actual limitation
- Medical claims without proof
- Income guarantees
- "As seen on TV" without proof
- "FDA approved" (for supplements)
- "Cure", "Treat", "Heal" for health products
- Comparison to competitors without substantiation

TARGETING RESTRICTIONS:
- Cannot target based on sensitive categories
- Health conditions
- Financial status
- Sexual orientation (in some regions)
- Political affiliation (restricted)

LANDING PAGE REQUIREMENTS:
- Must match ad content
- Must be functional
- Must have privacy policy
- Must have clear pricing
- Must not use pop-ups that interfere with navigation
`

// Categories lists the policy areas covered by the reference text.
func Categories() []string {
	return []string{
		"Prohibited Content",
		"Restricted Content",
		"Before/After Images",
		"Health & Weight Loss",
		"Financial Claims",
		"Personal Attributes",
		"Image Requirements",
	}
}
