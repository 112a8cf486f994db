package domain

// AcademicStrength tiers derived from GPA.
type AcademicStrength string

const (
	StrengthHigh       AcademicStrength = "high"
	StrengthMedium     AcademicStrength = "medium"
	StrengthDeveloping AcademicStrength = "developing"
)

// GeographicPreference mirrors the profile's location facets.
type GeographicPreference struct {
	Continent string `json:"continent"`
	Country   string `json:"country"`
}

// AnalysisInsight is produced once by the profile analyzer and read-only afterwards.
type AnalysisInsight struct {
	AcademicStrength AcademicStrength     `json:"academic_strength"`
	ResearchFit      string               `json:"research_fit"`
	Geography        GeographicPreference `json:"geographic_preference"`
	BudgetCategory   string               `json:"budget_category"`
	CareerGoal       string               `json:"career_goal"`
	Commentary       string               `json:"llm_insights"`
}

// Recommendation is the only output of a pipeline run.
type Recommendation struct {
	Universities []ScoredUniversity `json:"universities"`
	AISummary    string             `json:"ai_summary"`
}

// Step marks the last completed pipeline stage.
type Step string

const (
	StepStarted             Step = "started"
	StepProfileAnalyzed     Step = "profile_analyzed"
	StepUniversitiesMatched Step = "universities_matched"
	StepMatchesScored       Step = "matches_scored"
	StepAnalysisGenerated   Step = "analysis_generated"
	StepCompleted           Step = "completed"
)

// Completion is a single chat-completion request sent through the gateway.
type Completion struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
}
