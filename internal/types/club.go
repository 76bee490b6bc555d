// Package types provides type definitions for structured data used throughout the sponsor-finder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ClubProfile describes the sports club a sponsor is evaluated for.
// It is supplied by the caller and never modified during an evaluation.
type ClubProfile struct {
	ClubName         string `json:"clubName"`
	SportType        string `json:"sportType"`
	Location         string `json:"location"`
	TotalMembers     int    `json:"totalMembers" validate:"gte=0"`
	AgeGroups        string `json:"ageGroups"`
	GenderSplit      string `json:"genderSplit"`
	CompetitionLevel string `json:"competitionLevel"`
	AdditionalInfo   string `json:"additionalInfo,omitempty"`
}

// Language is a supported UI/log language tag.
type Language string

// Supported languages
const (
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
	LanguageGerman  Language = "de"
)

// ParseLanguage returns the language for a tag, defaulting to English.
func ParseLanguage(tag string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(tag))) {
	case LanguageFrench:
		return LanguageFrench
	case LanguageGerman:
		return LanguageGerman
	default:
		return LanguageEnglish
	}
}

// EvaluateRequest is the input of a sponsor evaluation. The club profile
// must be present; its fields are free-form.
type EvaluateRequest struct {
	BusinessName string       `json:"businessName" validate:"required"`
	ClubProfile  *ClubProfile `json:"clubProfile" validate:"required"`
	Language     string       `json:"language,omitempty" validate:"omitempty,oneof=en fr de"`
}

// Validate validates the EvaluateRequest using the validator.
// A business name made only of whitespace is rejected like an empty one.
func (r *EvaluateRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	if strings.TrimSpace(r.BusinessName) == "" {
		return fmt.Errorf("businessName must not be blank")
	}
	return nil
}

// ExtractRequest is the input of a standalone website extraction.
type ExtractRequest struct {
	URL string `json:"url" validate:"required,min=1"`
}

// Validate validates the ExtractRequest using the validator.
func (r *ExtractRequest) Validate() error {
	r.URL = strings.TrimSpace(r.URL)
	validate := validator.New()
	return validate.Struct(r)
}
