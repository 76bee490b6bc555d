package types

// RawItem is a single piece of evidence about a business: a search hit or a
// synthetic excerpt of its website.
type RawItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// BusinessInfo is the normalized output of either business info strategy
// (website extraction or web search). It is produced once per evaluation
// and treated as immutable evidence afterwards.
type BusinessInfo struct {
	Query       string    `json:"query"`
	Name        string    `json:"name"`
	Website     string    `json:"website"`
	Title       string    `json:"title"`
	Snippet     string    `json:"snippet"`
	Description string    `json:"description"`
	Categories  []string  `json:"categories"`
	RawItems    []RawItem `json:"rawItems"`
}

// BusinessProfile is the rule-based classification of a business.
type BusinessProfile struct {
	Industry      string `json:"industry"`
	Services      string `json:"services"`
	BrandVoice    string `json:"brandVoice"`
	Audience      string `json:"audience"`
	Geography     string `json:"geography"`
	RelevantNotes string `json:"relevantNotes"`
}

// SponsorshipType is the suggested partnership tier.
type SponsorshipType string

// Sponsorship tiers, highest first
const (
	SponsorshipPresenting      SponsorshipType = "Presenting Partner"
	SponsorshipCommunityImpact SponsorshipType = "Community Impact Partner"
	SponsorshipEventActivation SponsorshipType = "Event Activation Partner"
)

// FitScore is the outcome of scoring a business profile against a club.
type FitScore struct {
	Score                    int             `json:"score"`
	FitReasons               []string        `json:"fitReasons"`
	SuggestedSponsorshipType SponsorshipType `json:"suggestedSponsorshipType"`
}
