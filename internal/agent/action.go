package agent

import "fmt"

// Action is one step the controller can choose.
type Action string

// Action vocabulary. The four data actions may each run at most once per
// evaluation; done ends the loop.
const (
	ActionExtractFromURL Action = "extractFromUrl"
	ActionSearch         Action = "searchBusinessInfo"
	ActionProfile        Action = "extractBusinessProfile"
	ActionScore          Action = "scoreSponsorFit"
	ActionDone           Action = "done"
)

// Actions returns the full vocabulary in a stable order.
func Actions() []Action {
	return []Action{ActionExtractFromURL, ActionSearch, ActionProfile, ActionScore, ActionDone}
}

// ParseAction validates an untrusted action name.
func ParseAction(name string) (Action, error) {
	for _, action := range Actions() {
		if string(action) == name {
			return action, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", name)
}

func actionNames() []string {
	actions := Actions()
	names := make([]string, len(actions))
	for i, action := range actions {
		names[i] = string(action)
	}
	return names
}
