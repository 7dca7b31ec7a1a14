package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AgeRange is an inclusive [Min, Max] candidate age window.
type AgeRange struct {
	Min int `json:"min" validate:"gte=18"`
	Max int `json:"max" validate:"gtefield=Min"`
}

// Contains reports whether age falls inside the range.
func (r AgeRange) Contains(age int) bool {
	return age >= r.Min && age <= r.Max
}

// DealBreakers are hard rules a candidate must not violate. The
// required-language rule lives on Preferences.RequiredLanguages rather
// than here; it is always enforced when the list is non-empty.
type DealBreakers struct {
	DifferentPracticeLevel bool `json:"different_practice_level"`
	NoHijab                bool `json:"no_hijab"`
	DifferentFamilyStatus  bool `json:"different_family_status"`
	TooFarDistance         bool `json:"too_far_distance"`
}

// SoftPreferences weight the scoring factors. Values are conventionally
// in [0,1] but are not clamped; out-of-range weights only distort the
// pre-clamp total.
type SoftPreferences struct {
	SimilarInterests     float64 `json:"similar_interests"`
	SimilarAge           float64 `json:"similar_age"`
	SameCity             float64 `json:"same_city"`
	SimilarPracticeLevel float64 `json:"similar_practice_level"`
	SimilarLifestyle     float64 `json:"similar_lifestyle"`
}

// Sum returns the total of all five weights.
func (s SoftPreferences) Sum() float64 {
	return s.SimilarInterests + s.SimilarAge + s.SameCity +
		s.SimilarPracticeLevel + s.SimilarLifestyle
}

// SpecialFeature identifies one of the companion-matching modes.
type SpecialFeature string

const (
	FeatureStudyBuddy             SpecialFeature = "studyBuddy"
	FeatureMentorship             SpecialFeature = "mentorship"
	FeatureEventCompanion         SpecialFeature = "eventCompanion"
	FeatureProfessionalNetworking SpecialFeature = "professionalNetworking"
)

// ParseSpecialFeature validates a feature name from the API surface.
func ParseSpecialFeature(s string) (SpecialFeature, error) {
	switch SpecialFeature(s) {
	case FeatureStudyBuddy, FeatureMentorship, FeatureEventCompanion, FeatureProfessionalNetworking:
		return SpecialFeature(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFeature, s)
}

type SpecialFeatures struct {
	StudyBuddy             bool `json:"study_buddy"`
	Mentorship             bool `json:"mentorship"`
	EventCompanion         bool `json:"event_companion"`
	ProfessionalNetworking bool `json:"professional_networking"`
}

// Preferences is the per-request matching configuration. It is never
// mutated mid-request; preference learning produces a new value.
type Preferences struct {
	AgeRange          AgeRange        `json:"age_range" validate:"required"`
	MaxDistanceKm     float64         `json:"max_distance_km" validate:"gte=0"`
	RequiredLanguages []string        `json:"required_languages"`
	DealBreakers      DealBreakers    `json:"deal_breakers"`
	SoftPreferences   SoftPreferences `json:"soft_preferences"`
	SpecialFeatures   SpecialFeatures `json:"special_features"`
}

// Validate fails fast on malformed preference shapes (min>max age
// range, negative distance) instead of letting them silently produce
// degenerate scores.
func (p *Preferences) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	return nil
}

// DefaultPreferences returns the permissive baseline used when a user
// has not configured matching yet.
func DefaultPreferences() Preferences {
	return Preferences{
		AgeRange:      AgeRange{Min: 18, Max: 65},
		MaxDistanceKm: 50,
		SoftPreferences: SoftPreferences{
			SimilarInterests:     0.8,
			SimilarAge:           0.6,
			SameCity:             0.7,
			SimilarPracticeLevel: 0.9,
			SimilarLifestyle:     0.5,
		},
	}
}
