package domain

import "strings"

// Budget preference values accepted on StudentProfile.BudgetPreference.
const (
	BudgetSelfFunded     = "self-funded"
	BudgetFullFunding    = "full-funding"
	BudgetPartialFunding = "partial-funding"
	NoPreference         = "no-preference"
)

// StudentProfile is the caller-supplied input of a recommendation request.
// The pipeline never mutates it.
type StudentProfile struct {
	DegreeLevel        string `json:"degree_level" yaml:"degree_level"`
	FieldOfInterest    string `json:"field_of_interest" yaml:"field_of_interest"`
	GPA                string `json:"gpa" yaml:"gpa"`
	TestScores         string `json:"test_scores,omitempty" yaml:"test_scores"`
	PreferredContinent string `json:"preferred_continent" yaml:"preferred_continent"`
	PreferredCountry   string `json:"preferred_country" yaml:"preferred_country"`
	BudgetPreference   string `json:"budget_preference" yaml:"budget_preference" validate:"omitempty,oneof=self-funded full-funding partial-funding no-preference"`
	ResearchInterests  string `json:"research_interests" yaml:"research_interests" validate:"max=4000"`
	WorkExperience     string `json:"work_experience" yaml:"work_experience" validate:"max=4000"`
	LanguagePreference string `json:"language_preference" yaml:"language_preference"`
	TargetStartYear    string `json:"target_start_year" yaml:"target_start_year"`
	StudyMode          string `json:"study_mode" yaml:"study_mode"`
	CareerGoal         string `json:"career_goal" yaml:"career_goal" validate:"max=2000"`
}

// IsUnset reports whether a preference value carries no constraint.
func IsUnset(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, NoPreference)
}
