// Package scoring rates how well a business fits as a sponsor of a club.
package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/sponsor-finder/internal/types"
)

// Score bounds and weights.
const (
	BaseScore = 60
	MinScore  = 40
	MaxScore  = 98

	regionBonus   = 10
	audienceBonus = 8
	industryBonus = 6
	voiceBonus    = 6
	sportBonus    = 5

	presentingThreshold      = 85
	communityImpactThreshold = 75
)

// Fit reasons, in the order the checks run.
const (
	ReasonRegion        = "Strong regional overlap with your club's location."
	ReasonFamilies      = "Family-focused audience aligns with your youth programs."
	ReasonAthletes      = "Active consumer focus matches your athlete community."
	ReasonBroadReach    = "Broad consumer focus can amplify your community reach."
	ReasonCommunity     = "Community-driven messaging complements your club values."
	ReasonSportServices = "Services directly reference your sport vertical."
)

// ScoreFit scores a business profile against a club profile. The result is
// always within [MinScore, MaxScore] and carries at least one reason.
func ScoreFit(profile types.BusinessProfile, club types.ClubProfile) types.FitScore {
	score := BaseScore
	reasons := make([]string, 0, 5)

	if regionMatches(profile.Geography, club.Location) {
		score += regionBonus
		reasons = append(reasons, ReasonRegion)
	}

	switch {
	case strings.Contains(profile.Audience, "families") && strings.Contains(club.AgeGroups, "youth"):
		score += audienceBonus
		reasons = append(reasons, ReasonFamilies)
	case strings.Contains(profile.Audience, "athletes"):
		score += audienceBonus
		reasons = append(reasons, ReasonAthletes)
	default:
		reasons = append(reasons, ReasonBroadReach)
	}

	if profile.Industry == "Sports Equipment" || profile.Industry == "Technology" {
		score += industryBonus
		reasons = append(reasons, fmt.Sprintf("%s partners often activate well with sports clubs.", profile.Industry))
	}

	if profile.BrandVoice == "community" {
		score += voiceBonus
		reasons = append(reasons, ReasonCommunity)
	}

	sport := strings.ToLower(club.SportType)
	if strings.Contains(strings.ToLower(profile.Services), sport) {
		score += sportBonus
		reasons = append(reasons, ReasonSportServices)
	}

	score = min(MaxScore, max(MinScore, score))

	return types.FitScore{
		Score:                    score,
		FitReasons:               reasons,
		SuggestedSponsorshipType: SponsorshipTypeFor(score),
	}
}

// SponsorshipTypeFor maps a score to the suggested partnership tier.
func SponsorshipTypeFor(score int) types.SponsorshipType {
	switch {
	case score > presentingThreshold:
		return types.SponsorshipPresenting
	case score > communityImpactThreshold:
		return types.SponsorshipCommunityImpact
	default:
		return types.SponsorshipEventActivation
	}
}

// regionMatches compares the part of the club location before the first
// comma with the business geography, case-insensitively.
func regionMatches(geography, location string) bool {
	if location == "" {
		return false
	}
	region, _, _ := strings.Cut(strings.ToLower(location), ",")
	return strings.Contains(strings.ToLower(geography), region)
}
