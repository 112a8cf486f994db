package usecase

import (
	"errors"
	"testing"

	"UniRecommender/internal/domain"
)

func TestParseScores(t *testing.T) {
	t.Parallel()

	candidates := []domain.University{{ID: 1}, {ID: 2}}

	scores, err := ParseScores(`Scores: [{"university_id": 2, "match_score": 77.5}, {"university_id": 1, "match_score": 0}] end`, candidates)
	if err != nil {
		t.Fatalf("ParseScores error: %v", err)
	}
	if scores[1] != 0 || scores[2] != 77.5 {
		t.Fatalf("unexpected scores %v", scores)
	}

	invalid := map[string]string{
		"no array":        `{"university_id": 1}`,
		"broken json":     `[{"university_id": 1, "match_score": }]`,
		"not objects":     `[1, 2]`,
		"missing score":   `[{"university_id": 1}, {"university_id": 2, "match_score": 50}]`,
		"missing id":      `[{"match_score": 50}, {"university_id": 2, "match_score": 50}]`,
		"negative":        `[{"university_id": 1, "match_score": -1}, {"university_id": 2, "match_score": 50}]`,
		"above 100":       `[{"university_id": 1, "match_score": 100.5}, {"university_id": 2, "match_score": 50}]`,
		"duplicate":       `[{"university_id": 1, "match_score": 10}, {"university_id": 1, "match_score": 20}, {"university_id": 2, "match_score": 5}]`,
		"missing member":  `[{"university_id": 1, "match_score": 10}]`,
		"string score":    `[{"university_id": 1, "match_score": "high"}, {"university_id": 2, "match_score": 50}]`,
		"reversed braces": `] nothing [`,
	}
	for name, text := range invalid {
		if _, err := ParseScores(text, candidates); !errors.Is(err, domain.ErrResponseUnparseable) {
			t.Fatalf("%s: expected ErrResponseUnparseable, got %v", name, err)
		}
	}
}

func TestParseScoresIgnoresUnknownIDs(t *testing.T) {
	t.Parallel()

	scores, err := ParseScores(`[{"university_id": 1, "match_score": 10}, {"university_id": 99, "match_score": 90}]`, []domain.University{{ID: 1}})
	if err != nil {
		t.Fatalf("ParseScores error: %v", err)
	}
	if got := applyScores([]domain.University{{ID: 1}}, scores); len(got) != 1 || got[0].MatchScore != 10 {
		t.Fatalf("unexpected applied scores %+v", got)
	}
}

func TestFallbackScores(t *testing.T) {
	t.Parallel()

	candidates := make([]domain.University, 12)
	for i := range candidates {
		candidates[i].ID = int64(i + 1)
	}

	got := FallbackScores(candidates, 95, 5, 60)
	want := []float64{95, 90, 85, 80, 75, 70, 65, 60, 60, 60, 60, 60}
	for i := range want {
		if got[i].MatchScore != want[i] {
			t.Fatalf("index %d: score %v, want %v", i, got[i].MatchScore, want[i])
		}
		if got[i].ID != candidates[i].ID {
			t.Fatalf("index %d: fallback must keep input order", i)
		}
	}

	if empty := FallbackScores(nil, 95, 5, 60); len(empty) != 0 {
		t.Fatalf("expected no scores for no candidates")
	}
}
