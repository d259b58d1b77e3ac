package generate

// Brand carries the fixed brand context injected into every prompt.
type Brand struct {
	Name    string
	Company string
	Tone    string
	Avoid   string
}

// DefaultBrand returns the TAVAAZO brand context.
func DefaultBrand() Brand {
	return Brand{
		Name:    "TAVAAZO",
		Company: "MJ Agro",
		Tone:    "Premium, calm, credible",
		Avoid:   "Hype, medical claims, influencer slang, greetings in hooks",
	}
}
