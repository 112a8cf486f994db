package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"UniRecommender/internal/domain"
)

func (p *Pipeline) matchUniversities(ctx context.Context, st State, logger *slog.Logger) (State, error) {
	all, err := p.catalog.AllUniversities(ctx)
	if err != nil {
		return st, fmt.Errorf("load catalog: %w", err)
	}

	st.Candidates = FilterCandidates(all, st.Insight, st.Profile.DegreeLevel)
	logger.Debug("candidates filtered", "catalog", len(all), "candidates", len(st.Candidates))
	return st, nil
}

// FilterCandidates keeps records satisfying geography, budget and degree level.
// Input order is preserved.
func FilterCandidates(records []domain.University, insight domain.AnalysisInsight, degreeLevel string) []domain.University {
	out := make([]domain.University, 0, len(records))
	for _, record := range records {
		if !MatchesGeography(record, insight.Geography) {
			continue
		}
		if !MatchesBudget(record, insight.BudgetCategory) {
			continue
		}
		if !MatchesDegreeLevel(record, degreeLevel) {
			continue
		}
		out = append(out, record)
	}
	return out
}

// MatchesGeography applies the country preference first, then the continent one.
// Records with an empty country never match a set preference, even though an
// empty string is a substring of every preference.
func MatchesGeography(record domain.University, pref domain.GeographicPreference) bool {
	country := strings.ToLower(strings.TrimSpace(record.Country))

	if !domain.IsUnset(pref.Country) {
		want := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(pref.Country, "-", " ")))
		if country == "" {
			return false
		}
		return strings.Contains(country, want) || strings.Contains(want, country)
	}

	if !domain.IsUnset(pref.Continent) {
		return inContinent(country, normalizeContinent(pref.Continent))
	}

	return true
}

// MatchesBudget keeps only scholarship-backed records for funding-seeking students.
func MatchesBudget(record domain.University, budget string) bool {
	switch strings.ToLower(strings.TrimSpace(budget)) {
	case domain.BudgetFullFunding, domain.BudgetPartialFunding:
		return record.ScholarshipAvailable
	default:
		return true
	}
}

// MatchesDegreeLevel accepts every record. Catalog degree offerings are not yet
// reliable enough to constrain on; DegreeOfferings is carried for when they are.
func MatchesDegreeLevel(_ domain.University, _ string) bool {
	return true
}
