package usecase

import (
	"context"
	"fmt"
	"sync"

	"UniRecommender/internal/domain"
)

type fakeCatalog struct {
	records []domain.University
	err     error
}

func (f *fakeCatalog) AllUniversities(context.Context) ([]domain.University, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.University, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeCatalog) Filter(ctx context.Context, _ domain.CatalogCriteria) ([]domain.University, error) {
	return f.AllUniversities(ctx)
}

func (f *fakeCatalog) Search(ctx context.Context, _ string, _ int) ([]domain.University, error) {
	return f.AllUniversities(ctx)
}

func (f *fakeCatalog) Countries(context.Context) ([]domain.Country, error) {
	return nil, nil
}

// fakeGateway answers by call site. A nil reply func returns ErrGatewayUnavailable.
type fakeGateway struct {
	analysis  func(domain.Completion) (string, error)
	scoring   func(domain.Completion) (string, error)
	narrative func(domain.Completion) (string, error)

	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeGateway) Complete(_ context.Context, req domain.Completion) (string, error) {
	var (
		site  string
		reply func(domain.Completion) (string, error)
	)
	switch req.SystemPrompt {
	case analysisSystemPrompt:
		site, reply = "analysis", f.analysis
	case scoringSystemPrompt:
		site, reply = "scoring", f.scoring
	case narrativeSystemPrompt:
		site, reply = "narrative", f.narrative
	default:
		return "", fmt.Errorf("unexpected system prompt %q", req.SystemPrompt)
	}

	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[site]++
	f.mu.Unlock()

	if reply == nil {
		return "", domain.ErrGatewayUnavailable
	}
	return reply(req)
}

func (f *fakeGateway) count(site string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[site]
}

func intPtr(v int) *int { return &v }

func uni(id int64, name, country string, scholarship bool) domain.University {
	return domain.University{
		ID:                   id,
		Name:                 name,
		Country:              country,
		Ranking:              intPtr(int(id) * 10),
		ScholarshipAvailable: scholarship,
		ResearchAreas:        []string{"Computer Science"},
	}
}

func sampleCatalog() []domain.University {
	return []domain.University{
		uni(1, "Technical University of Munich", "Germany", true),
		uni(2, "Sorbonne University", "France", false),
		uni(3, "University of Tokyo", "Japan", true),
		uni(4, "LMU Munich", "Germany", false),
		uni(5, "Heidelberg University", "Germany", true),
		uni(6, "University of Sao Paulo", "Brazil", true),
		uni(7, "RWTH Aachen University", "Germany", true),
		uni(8, "Kyoto University", "Japan", false),
		uni(9, "Unknown Institute", "", true),
	}
}

func germanProfile() domain.StudentProfile {
	return domain.StudentProfile{
		DegreeLevel:       "Master",
		FieldOfInterest:   "Computer Science",
		GPA:               "3.8/4.0",
		PreferredCountry:  "Germany",
		BudgetPreference:  domain.NoPreference,
		ResearchInterests: "distributed systems",
		CareerGoal:        "research engineer",
	}
}
