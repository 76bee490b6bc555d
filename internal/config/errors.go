package config

import "fmt"

// Error reports a required setting that is absent. It is fatal for the
// operation that needed the setting and is surfaced before any work starts.
type Error struct {
	Setting string
	Env     string
	Message string
}

func (e *Error) Error() string {
	if e.Env != "" {
		return fmt.Sprintf("config error: %s (%s): %s", e.Setting, e.Env, e.Message)
	}
	return fmt.Sprintf("config error: %s: %s", e.Setting, e.Message)
}

// Missing returns an *Error for an unset setting.
func Missing(setting, env string) *Error {
	return &Error{Setting: setting, Env: env, Message: "not configured"}
}
