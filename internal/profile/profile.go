// Package profile classifies a business from the evidence gathered about it.
// Classification is keyword based and deterministic: the same BusinessInfo
// always yields the same BusinessProfile.
package profile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/sponsor-finder/internal/types"
)

// Fallback values used when no keyword matches.
const (
	DefaultIndustry   = "General"
	DefaultBrandVoice = "professional"
	DefaultAudience   = "broad consumers"
	DefaultGeography  = "Multiple regions"
)

const maxServiceTitles = 3

// keywordGroup is one row of a classification table. Tables are ordered and
// the first group with a matching keyword wins.
type keywordGroup struct {
	label    string
	keywords []string
}

var industries = []keywordGroup{
	{"Technology", []string{"software", "technology", "platform", "saas", "cloud", "tech"}},
	{"Food & Beverage", []string{"restaurant", "cafe", "beverage", "food", "drink"}},
	{"Healthcare", []string{"wellness", "health", "medical", "pharma", "clinic"}},
	{"Finance", []string{"bank", "financial", "fintech", "investment", "insurance"}},
	{"Sports Equipment", []string{"sports", "gear", "apparel", "fitness", "equipment"}},
	{"Retail", []string{"retail", "store", "shop", "ecommerce"}},
	{"Education", []string{"education", "training", "school", "learning"}},
	{"Automotive", []string{"automotive", "mobility", "transport", "vehicle"}},
}

var brandVoices = []keywordGroup{
	{"energetic", []string{"energy", "dynamic", "fast", "innovation", "future"}},
	{"community", []string{"community", "local", "neighbors", "grassroots", "together"}},
	{"premium", []string{"premium", "luxury", "exclusive", "elite"}},
	{"playful", []string{"fun", "playful", "delight", "creative"}},
}

var audiences = []keywordGroup{
	{"families", []string{"family", "parents", "kids"}},
	{"professionals", []string{"professionals", "enterprise", "business"}},
	{"athletes", []string{"athlete", "sports", "fitness"}},
	{"youth", []string{"youth", "student", "teen"}},
}

var (
	basedInPattern = regexp.MustCompile(`(?i)based in ([^.]+)`)
	cityPattern    = regexp.MustCompile(`[A-Z][a-z]+,\s?[A-Z]{2}`)
)

// Extract derives a BusinessProfile from business information. It never
// fails; missing evidence degrades to the package defaults.
func Extract(businessName string, info types.BusinessInfo) types.BusinessProfile {
	corpus := strings.ToLower(info.Description + " " + info.Snippet + " " + info.Title)

	relevantNotes := fmt.Sprintf("Limited public info about %s", businessName)
	if len(info.RawItems) > 0 {
		relevantNotes = info.RawItems[0].Snippet
	}

	return types.BusinessProfile{
		Industry:      classify(corpus, industries, DefaultIndustry),
		Services:      services(businessName, info.RawItems),
		BrandVoice:    classify(corpus, brandVoices, DefaultBrandVoice),
		Audience:      classify(corpus, audiences, DefaultAudience),
		Geography:     geography(info.RawItems),
		RelevantNotes: relevantNotes,
	}
}

func classify(corpus string, table []keywordGroup, fallback string) string {
	for _, group := range table {
		for _, keyword := range group.keywords {
			if strings.Contains(corpus, keyword) {
				return group.label
			}
		}
	}
	return fallback
}

func services(businessName string, items []types.RawItem) string {
	if len(items) > maxServiceTitles {
		items = items[:maxServiceTitles]
	}
	titles := make([]string, 0, len(items))
	for _, item := range items {
		if item.Title != "" {
			titles = append(titles, item.Title)
		}
	}
	if len(titles) == 0 {
		return businessName + " solutions"
	}
	return strings.Join(titles, ", ")
}

// geography looks for "based in X" in the first snippet that mentions it,
// then for a "City, ST" token in the first snippet.
func geography(items []types.RawItem) string {
	for _, item := range items {
		if !strings.Contains(strings.ToLower(item.Snippet), "based in") {
			continue
		}
		if match := basedInPattern.FindStringSubmatch(item.Snippet); match != nil {
			if location := strings.TrimSpace(match[1]); location != "" {
				return location
			}
		}
		break
	}
	if len(items) > 0 {
		if match := cityPattern.FindString(items[0].Snippet); match != "" {
			return match
		}
	}
	return DefaultGeography
}
