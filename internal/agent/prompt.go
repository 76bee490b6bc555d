package agent

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jonathan/sponsor-finder/internal/prompts"
	"github.com/jonathan/sponsor-finder/internal/types"
)

const nullValue = "null"

// buildPrompt renders the controller prompt for the current state. Business
// info is reduced to name and website.
func buildPrompt(state *State, club types.ClubProfile) string {
	var businessInfo any
	if state.BusinessInfo != nil {
		businessInfo = struct {
			Name    string `json:"name"`
			Website string `json:"website"`
		}{state.BusinessInfo.Name, state.BusinessInfo.Website}
	}

	taken := make([]string, len(state.ActionsTaken))
	for i, action := range state.ActionsTaken {
		taken[i] = string(action)
	}
	actionsTaken := "none"
	if len(taken) > 0 {
		actionsTaken = strings.Join(taken, ", ")
	}

	knownWebsite := state.KnownWebsite
	if knownWebsite == "" {
		knownWebsite = nullValue
	}

	return prompts.Format(prompts.MustGet("agent.json", "controller"), map[string]string{
		"Actions":            strings.Join(actionNames(), ", "),
		"ActionsTaken":       actionsTaken,
		"BusinessName":       state.BusinessName,
		"UserProvidedURL":    strconv.FormatBool(state.UserURL != ""),
		"KnownWebsite":       knownWebsite,
		"SearchEligible":     strconv.FormatBool(state.SearchEligible()),
		"ExtractionEligible": strconv.FormatBool(state.ExtractionEligible()),
		"ClubProfile":        toJSON(club),
		"BusinessInfo":       toJSON(businessInfo),
		"Profile":            toJSON(state.Profile),
		"Fit":                toJSON(state.Fit),
	})
}

func toJSON(v any) string {
	if v == nil {
		return nullValue
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nullValue
	}
	return string(data)
}
