// Package qa implements the QA compliance engine: a deterministic rules
// evaluation over a project's generated content, result aggregation, and the
// project status transition driven by the aggregate result.
package qa

import "github.com/mjagro/content-engine/internal/types"

// PlatformLimits holds the per-platform script constraints.
type PlatformLimits struct {
	Label              string
	MinDurationSeconds int
	MaxDurationSeconds int
}

// VisualRules holds the fixed visual-safety constants enforced during image
// and video generation. The evaluator asserts them as policy statements; it
// never inspects pixel content.
type VisualRules struct {
	AspectRatio     string
	Resolution      string
	LogoMaxPercent  int
	TextMaxPercent  int
	SafeZonePercent int
}

// RuleSet is the immutable configuration the evaluator runs against. It is
// loaded once at startup and passed in explicitly, so tests can substitute
// their own rule sets.
type RuleSet struct {
	Platforms map[types.Platform]PlatformLimits

	// MedicalTerms and HypeTerms are denylists matched by case-insensitive
	// substring containment against the combined content corpus.
	MedicalTerms []string
	HypeTerms    []string

	// AllergenFlag names the product compliance flag that requires allergen
	// disclosure; AllergenTerms are the corpus terms that satisfy it.
	AllergenFlag  string
	AllergenTerms []string

	Visual VisualRules
}

// DefaultRuleSet returns the production rule set.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Platforms: map[types.Platform]PlatformLimits{
			types.PlatformTikTok:         {Label: "TikTok", MinDurationSeconds: 15, MaxDurationSeconds: 25},
			types.PlatformInstagramReels: {Label: "Instagram Reels", MinDurationSeconds: 20, MaxDurationSeconds: 30},
			types.PlatformFacebookReels:  {Label: "Facebook Reels", MinDurationSeconds: 20, MaxDurationSeconds: 30},
			types.PlatformYouTubeShorts:  {Label: "YouTube Shorts", MinDurationSeconds: 30, MaxDurationSeconds: 45},
		},
		MedicalTerms: []string{
			"cure", "treat", "heal", "disease", "prevent illness", "medical",
			"therapy", "prescription", "clinical", "diagnosis", "remedy",
		},
		HypeTerms: []string{
			"best ever", "unbelievable", "insane", "crazy deal", "you won't believe",
			"guaranteed", "miracle", "#ad", "swipe up",
		},
		AllergenFlag:  "LMIV",
		AllergenTerms: []string{"allergen", "ingredient"},
		Visual: VisualRules{
			AspectRatio:     "9:16",
			Resolution:      "1080 × 1920",
			LogoMaxPercent:  6,
			TextMaxPercent:  20,
			SafeZonePercent: 80,
		},
	}
}
