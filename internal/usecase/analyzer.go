package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"UniRecommender/internal/domain"
)

const fallbackCommentary = "Strong academic profile with clear research interests and well-defined career goals."

func (p *Pipeline) analyzeProfile(ctx context.Context, st State, logger *slog.Logger) (State, error) {
	profile := st.Profile

	st.Insight = domain.AnalysisInsight{
		AcademicStrength: AcademicStrength(profile.GPA),
		ResearchFit:      profile.ResearchInterests,
		Geography: domain.GeographicPreference{
			Continent: profile.PreferredContinent,
			Country:   profile.PreferredCountry,
		},
		BudgetCategory: profile.BudgetPreference,
		CareerGoal:     profile.CareerGoal,
		Commentary:     p.commentary(ctx, profile, logger),
	}
	return st, nil
}

// commentary asks the LLM once for counselor notes and never fails the stage.
func (p *Pipeline) commentary(ctx context.Context, profile domain.StudentProfile, logger *slog.Logger) string {
	prompt, err := analysisUserPrompt(profile)
	if err == nil {
		var text string
		text, err = p.complete(ctx, p.cfg.Analysis, analysisSystemPrompt, prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			return text
		}
		if err == nil {
			err = fmt.Errorf("%w: empty commentary", domain.ErrResponseUnparseable)
		}
	}

	noteFallback(logger, "analyze_profile", err)
	return fallbackCommentary
}

// AcademicStrength maps a free-text GPA such as "3.8/4.0" to a tier.
// Missing or unparsable values default to medium.
func AcademicStrength(gpa string) domain.AcademicStrength {
	raw := strings.TrimSpace(strings.SplitN(gpa, "/", 2)[0])
	if raw == "" {
		return domain.StrengthMedium
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return domain.StrengthMedium
	}

	switch {
	case value >= 3.7:
		return domain.StrengthHigh
	case value >= 3.3:
		return domain.StrengthMedium
	default:
		return domain.StrengthDeveloping
	}
}
