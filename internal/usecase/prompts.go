package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"UniRecommender/internal/domain"
)

const analysisSystemPrompt = `You are an expert university admissions counselor. Analyze the student profile and extract key insights.
Focus on:
1. Academic strength indicators
2. Research alignment potential
3. Geographic and cultural preferences
4. Financial considerations
5. Career trajectory alignment

Provide a structured analysis that will help in university matching.`

const scoringSystemPrompt = `You are an expert university matching algorithm. Score each university for this student profile.

Scoring criteria (0-100):
1. Academic fit (GPA, test scores vs requirements) - 25%
2. Research alignment (student interests vs university strengths) - 30%
3. Geographic preference match - 15%
4. Financial feasibility - 20%
5. Career goal alignment - 10%

Return ONLY a JSON array with one object per university, for example:
[{"university_id": 12, "match_score": 87}]
Every listed university must appear exactly once. match_score is a number between 0 and 100.`

const narrativeSystemPrompt = `You are an expert university admissions counselor providing personalized guidance.

Generate a comprehensive analysis that includes:
1. Profile Summary - student's academic strengths and background
2. Geographic Alignment - how location preferences align with opportunities
3. Financial Considerations - funding options and cost analysis
4. Research Fit - alignment between interests and university programs
5. Career Trajectory - how programs support career goals
6. Application Strategy - specific advice for the application process
7. Recommendations - why these specific universities are recommended

Write in a professional, encouraging tone. Be specific and actionable.`

// narrativePromptSize caps how many ranked universities are described to the narrative model.
const narrativePromptSize = 5

func analysisUserPrompt(profile domain.StudentProfile) (string, error) {
	raw, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	return "Student Profile: " + string(raw), nil
}

func scoringUserPrompt(profile domain.StudentProfile, candidates []domain.University) (string, error) {
	type item struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
	}

	items := make([]item, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, item{ID: c.ID, Name: c.Name, Country: c.Country})
	}

	rawProfile, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	rawItems, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}

	return fmt.Sprintf("Student Profile: %s\n\nUniversities to score: %s", rawProfile, rawItems), nil
}

func narrativeUserPrompt(profile domain.StudentProfile, ranked []domain.ScoredUniversity) (string, error) {
	type item struct {
		Name       string  `json:"name"`
		Country    string  `json:"country"`
		MatchScore float64 `json:"match_score"`
	}

	top := ranked
	if len(top) > narrativePromptSize {
		top = top[:narrativePromptSize]
	}
	items := make([]item, 0, len(top))
	for _, u := range top {
		items = append(items, item{Name: u.Name, Country: u.Country, MatchScore: u.MatchScore})
	}

	rawProfile, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	rawItems, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal matches: %w", err)
	}

	var b strings.Builder
	b.WriteString("Student Profile: ")
	b.Write(rawProfile)
	b.WriteString("\n\nTop University Matches: ")
	b.Write(rawItems)
	b.WriteString("\n\nGenerate a comprehensive analysis and recommendations.")
	return b.String(), nil
}
