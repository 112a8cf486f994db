package domain

// University is a catalog record. The pipeline receives copies and treats them as read-only.
type University struct {
	ID                   int64    `json:"id" yaml:"id"`
	Name                 string   `json:"name" yaml:"name"`
	Country              string   `json:"country" yaml:"country"`
	CountryCode          string   `json:"country_code,omitempty" yaml:"country_code"`
	Ranking              *int     `json:"ranking,omitempty" yaml:"ranking"`
	TuitionFee           *float64 `json:"tuition_fee,omitempty" yaml:"tuition_fee"`
	ScholarshipAvailable bool     `json:"scholarship_available" yaml:"scholarship_available"`
	ResearchAreas        []string `json:"research_areas" yaml:"research_areas"`
	DegreeOfferings      []string `json:"degree_offerings,omitempty" yaml:"degree_offerings"`
	Type                 string   `json:"type,omitempty" yaml:"type"`
	Description          string   `json:"description,omitempty" yaml:"description"`
	AdmissionRate        string   `json:"admission_rate,omitempty" yaml:"admission_rate"`
	Website              string   `json:"website,omitempty" yaml:"website"`
}

// ScoredUniversity is a candidate after the scoring stage; MatchScore is in [0, 100].
type ScoredUniversity struct {
	University
	MatchScore float64 `json:"match_score"`
}

// Country is a distinct catalog country entry.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CatalogCriteria narrows a catalog query. Zero values disable a predicate.
type CatalogCriteria struct {
	Country              string
	MaxTuition           float64
	MinRanking           int
	MaxRanking           int
	ScholarshipAvailable *bool
	ResearchArea         string
	Limit                int
}
