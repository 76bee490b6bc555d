package agent

import (
	"github.com/jonathan/sponsor-finder/internal/types"
)

// State is the working memory of one evaluation. Result fields are set at
// most once and never cleared.
type State struct {
	BusinessName string
	// UserURL is the normalized website when the input itself was a URL.
	UserURL        string
	KnownWebsite   string
	BusinessInfo   *types.BusinessInfo
	Profile        *types.BusinessProfile
	Fit            *types.FitScore
	ActionsTaken   []Action
	ExtractionUsed bool
	SearchUsed     bool
}

// Taken reports whether action was already recorded.
func (s *State) Taken(action Action) bool {
	for _, taken := range s.ActionsTaken {
		if taken == action {
			return true
		}
	}
	return false
}

// SearchEligible reports whether a web search may still run.
func (s *State) SearchEligible() bool {
	return !s.SearchUsed && s.UserURL == "" && s.BusinessInfo == nil
}

// ExtractionEligible reports whether website extraction may still run.
func (s *State) ExtractionEligible() bool {
	return !s.ExtractionUsed && s.KnownWebsite != "" && s.BusinessInfo == nil
}

// Missing lists the results not gathered yet.
func (s *State) Missing() []string {
	var missing []string
	if s.BusinessInfo == nil {
		missing = append(missing, "businessInfo")
	}
	if s.Profile == nil {
		missing = append(missing, "profile")
	}
	if s.Fit == nil {
		missing = append(missing, "fit")
	}
	return missing
}

// Complete reports whether business info, profile and fit are all present.
func (s *State) Complete() bool {
	return len(s.Missing()) == 0
}
